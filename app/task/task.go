package task

import (
	"bitwise74/task-api/app/respond"
	"bitwise74/task-api/internal"
	"bitwise74/task-api/internal/model"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

func TaskFetch(c *gin.Context, d *internal.Deps) {
	acc := c.MustGet("account").(*model.Account)

	t, err := d.Tasks.Get(c.Request.Context(), acc, c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, t)
}

func TaskUpdate(c *gin.Context, d *internal.Deps) {
	acc := c.MustGet("account").(*model.Account)

	var fields map[string]json.RawMessage
	if err := c.ShouldBindJSON(&fields); err != nil {
		respond.BadBody(c)
		return
	}

	t, err := d.Tasks.Update(c.Request.Context(), acc, c.Param("id"), fields)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, t)
}

func TaskDelete(c *gin.Context, d *internal.Deps) {
	acc := c.MustGet("account").(*model.Account)

	t, err := d.Tasks.Delete(c.Request.Context(), acc, c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, t)
}
