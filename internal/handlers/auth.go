package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/mrkecom/mrkecom-backend/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SignUp accepts a multipart form so the profile image can ride along with
// the account fields.
func (ah *AuthHandler) SignUp(c *gin.Context) {
	input := services.RegisterInput{
		Name:     c.PostForm("name"),
		Email:    c.PostForm("email"),
		Password: c.PostForm("password"),
		UserType: c.PostForm("userType"),
	}

	if fh, err := c.FormFile("profileImages"); err == nil && fh != nil {
		upload, upErr := readUpload(fh)
		if upErr != nil {
			RespondError(c, upErr)
			return
		}
		input.Image = upload
	}

	token, err := ah.authService.Register(c.Request.Context(), input)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, gin.H{"message": "Successfully SignUp", "token": token})
}

func (ah *AuthHandler) SignIn(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, invalidBody())
		return
	}

	token, err := ah.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "Successfully logged in", "token": token})
}
