package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/mrkecom/mrkecom-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (uh *UserHandler) Update(c *gin.Context) {
	caller, err := callerIdentity(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	targetID, err := objectIDParam(c, "uid")
	if err != nil {
		RespondError(c, err)
		return
	}

	input := services.UpdateProfileInput{
		Name:     c.PostForm("userName"),
		Email:    c.PostForm("userEmail"),
		Password: c.PostForm("userPassword"),
	}
	if fh, ffErr := c.FormFile("profileImages"); ffErr == nil && fh != nil {
		upload, upErr := readUpload(fh)
		if upErr != nil {
			RespondError(c, upErr)
			return
		}
		input.Image = upload
	}

	token, err := uh.userService.UpdateProfile(c.Request.Context(), caller, targetID, input)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "User details updated successfully", "token": token})
}
