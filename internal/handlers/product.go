package handlers

import (
	"encoding/json"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrkecom/mrkecom-backend/internal/services"
	"github.com/mrkecom/mrkecom-backend/internal/types"
)

type ProductHandler struct {
	productService services.ProductService
	detailService  services.ProductDetailService
}

func NewProductHandler(productService services.ProductService, detailService services.ProductDetailService) *ProductHandler {
	return &ProductHandler{productService: productService, detailService: detailService}
}

func (ph *ProductHandler) Add(c *gin.Context) {
	input, err := productInputFromForm(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	images, err := formUploads(c, "productImages")
	if err != nil {
		RespondError(c, err)
		return
	}

	product, err := ph.productService.Add(c.Request.Context(), input, images)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, gin.H{"message": "Product created", "product": product})
}

func (ph *ProductHandler) Show(c *gin.Context) {
	var req struct {
		CurrentPage int `json:"currentPage"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, invalidBody())
		return
	}

	page, err := ph.productService.List(c.Request.Context(), req.CurrentPage)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "Products fetched", "products": page.Products, "totalRecords": page.TotalRecords})
}

// Details assembles the product page: product, paginated reviews,
// aggregate rating and the caller's cart quantity.
func (ph *ProductHandler) Details(c *gin.Context) {
	caller, err := callerIdentity(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	productID, err := objectIDParam(c, "id")
	if err != nil {
		RespondError(c, err)
		return
	}
	page := int64Query(c, "page", 1)
	limit := int64Query(c, "limit", 10)

	detail, err := ph.detailService.Assemble(c.Request.Context(), productID, caller.UserID, page, limit)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "Product fetched", "detail": detail})
}

func (ph *ProductHandler) Update(c *gin.Context) {
	productID, err := objectIDParam(c, "id")
	if err != nil {
		RespondError(c, err)
		return
	}
	input, err := productInputFromForm(c)
	if err != nil {
		RespondError(c, err)
		return
	}

	var deletedImages []string
	if raw := c.PostForm("deletedImages"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &deletedImages); err != nil {
			RespondError(c, invalidBody())
			return
		}
	}
	newImages, err := formUploads(c, "productImages")
	if err != nil {
		RespondError(c, err)
		return
	}

	product, err := ph.productService.Update(c.Request.Context(), productID, input, deletedImages, newImages)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "Product updated successfully", "product": product})
}

func (ph *ProductHandler) Delete(c *gin.Context) {
	productID, err := objectIDParam(c, "id")
	if err != nil {
		RespondError(c, err)
		return
	}

	remaining, err := ph.productService.Delete(c.Request.Context(), productID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "Product deleted", "products": remaining})
}

func (ph *ProductHandler) Search(c *gin.Context) {
	var req struct {
		CurrentPage int `json:"currentPage"`
		RowPerPage  int `json:"rowPerPage"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, invalidBody())
		return
	}
	pname := c.Query("pname")

	page, err := ph.productService.Search(c.Request.Context(), pname, req.CurrentPage, req.RowPerPage)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"filteredProducts": page.Products, "totalRecords": page.TotalRecords})
}

func productInputFromForm(c *gin.Context) (services.ProductInput, error) {
	price, err := strconv.ParseFloat(c.PostForm("productPrice"), 64)
	if err != nil {
		return services.ProductInput{}, invalidBody()
	}
	quantity, err := strconv.Atoi(c.PostForm("productQuantity"))
	if err != nil {
		return services.ProductInput{}, invalidBody()
	}
	return services.ProductInput{
		Name:        c.PostForm("productName"),
		Description: c.PostForm("productDescription"),
		Price:       price,
		Color:       c.PostForm("productColor"),
		Quantity:    quantity,
	}, nil
}

func formUploads(c *gin.Context, field string) ([]types.Upload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil
	}
	uploads := make([]types.Upload, 0, len(form.File[field]))
	for _, fh := range form.File[field] {
		upload, upErr := readUpload(fh)
		if upErr != nil {
			return nil, upErr
		}
		uploads = append(uploads, *upload)
	}
	return uploads, nil
}
