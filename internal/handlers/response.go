package handlers

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrkecom/mrkecom-backend/internal/platform/apierr"
	"github.com/mrkecom/mrkecom-backend/internal/platform/localmedia"
	"github.com/mrkecom/mrkecom-backend/internal/types"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// RespondError maps a service error onto the wire envelope. Unknown errors
// come out as 500s via apierr.From.
func RespondError(c *gin.Context, err error) {
	apiErr := apierr.From(err)
	c.JSON(apiErr.Status, ErrorEnvelope{
		Error: APIError{
			Message: apiErr.Error(),
			Code:    apiErr.Code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

// readUpload drains one multipart file into memory, bounded by the media
// store's size cap.
func readUpload(fh *multipart.FileHeader) (*types.Upload, error) {
	if fh.Size > localmedia.MaxFileSize {
		return nil, apierr.Validation("file %q exceeds the size limit", fh.Filename)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, apierr.Internal(err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, localmedia.MaxFileSize+1))
	if err != nil {
		return nil, apierr.Internal(err)
	}
	if len(data) > localmedia.MaxFileSize {
		return nil, apierr.Validation("file %q exceeds the size limit", fh.Filename)
	}
	return &types.Upload{Name: fh.Filename, Data: data}, nil
}
