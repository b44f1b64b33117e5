package user

import (
	"bitwise74/task-api/app/respond"
	"bitwise74/task-api/internal"
	"bitwise74/task-api/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

type registerBody struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Age      int    `json:"age"`
}

func UserRegister(c *gin.Context, d *internal.Deps) {
	var data registerBody
	if err := c.ShouldBindJSON(&data); err != nil {
		respond.BadBody(c)
		return
	}

	acc, token, err := d.Accounts.Register(c.Request.Context(), service.Registration{
		Name:     data.Name,
		Email:    data.Email,
		Password: data.Password,
		Age:      data.Age,
	})
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"account": acc,
		"token":   token,
	})
}
