package user

import (
	"bitwise74/task-api/app/respond"
	"bitwise74/task-api/internal"
	"bitwise74/task-api/internal/model"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

func UserMe(c *gin.Context) {
	c.JSON(http.StatusOK, c.MustGet("account").(*model.Account))
}

func UserUpdate(c *gin.Context, d *internal.Deps) {
	acc := c.MustGet("account").(*model.Account)

	var fields map[string]json.RawMessage
	if err := c.ShouldBindJSON(&fields); err != nil {
		respond.BadBody(c)
		return
	}

	if err := d.Accounts.Update(c.Request.Context(), acc, fields); err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, acc)
}

func UserDelete(c *gin.Context, d *internal.Deps) {
	acc := c.MustGet("account").(*model.Account)

	if err := d.Accounts.Delete(c.Request.Context(), acc); err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, acc)
}
