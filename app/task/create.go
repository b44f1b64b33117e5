package task

import (
	"bitwise74/task-api/app/respond"
	"bitwise74/task-api/internal"
	"bitwise74/task-api/internal/model"
	"bitwise74/task-api/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

type createBody struct {
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

func TaskCreate(c *gin.Context, d *internal.Deps) {
	acc := c.MustGet("account").(*model.Account)

	var data createBody
	if err := c.ShouldBindJSON(&data); err != nil {
		respond.BadBody(c)
		return
	}

	t, err := d.Tasks.Create(c.Request.Context(), acc, service.NewTask{
		Description: data.Description,
		Completed:   data.Completed,
	})
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, t)
}
