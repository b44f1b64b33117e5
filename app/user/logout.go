package user

import (
	"bitwise74/task-api/app/respond"
	"bitwise74/task-api/internal"
	"bitwise74/task-api/internal/model"
	"net/http"

	"github.com/gin-gonic/gin"
)

// UserLogout ends the session the request was made with
func UserLogout(c *gin.Context, d *internal.Deps) {
	acc := c.MustGet("account").(*model.Account)

	if err := d.Sessions.RevokeOne(c.Request.Context(), acc, c.GetString("token")); err != nil {
		respond.Error(c, err)
		return
	}

	c.Status(http.StatusOK)
}

// UserLogoutAll ends every session of the account
func UserLogoutAll(c *gin.Context, d *internal.Deps) {
	acc := c.MustGet("account").(*model.Account)

	if err := d.Sessions.RevokeAll(c.Request.Context(), acc); err != nil {
		respond.Error(c, err)
		return
	}

	c.Status(http.StatusOK)
}
