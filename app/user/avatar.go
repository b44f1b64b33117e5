package user

import (
	"bitwise74/task-api/app/respond"
	"bitwise74/task-api/internal"
	"bitwise74/task-api/internal/model"
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
)

func AvatarUpload(c *gin.Context, d *internal.Deps) {
	acc := c.MustGet("account").(*model.Account)

	fh, err := c.FormFile("avatar")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		respond.BadBody(c)
		return
	}

	// A missing file is reported by the avatar checks
	var header *multipart.FileHeader
	if err == nil {
		header = fh
	}

	if err := d.Accounts.SetAvatar(c.Request.Context(), acc, header); err != nil {
		respond.Error(c, err)
		return
	}

	c.Status(http.StatusOK)
}

func AvatarDelete(c *gin.Context, d *internal.Deps) {
	acc := c.MustGet("account").(*model.Account)

	if err := d.Accounts.ClearAvatar(c.Request.Context(), acc); err != nil {
		respond.Error(c, err)
		return
	}

	c.Status(http.StatusOK)
}

// AvatarFetch serves the avatar of any account, no login needed
func AvatarFetch(c *gin.Context, d *internal.Deps) {
	data, err := d.Accounts.Avatar(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.Data(http.StatusOK, "image/png", data)
}
