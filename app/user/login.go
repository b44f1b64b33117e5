package user

import (
	"bitwise74/task-api/app/respond"
	"bitwise74/task-api/internal"
	"bitwise74/task-api/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func UserLogin(c *gin.Context, d *internal.Deps) {
	var data loginBody
	if err := c.ShouldBindJSON(&data); err != nil {
		respond.Error(c, service.ErrAuthenticationFailed)
		return
	}

	acc, token, err := d.Accounts.Login(c.Request.Context(), data.Email, data.Password)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"account": acc,
		"token":   token,
	})
}
