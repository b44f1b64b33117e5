package task

import (
	"bitwise74/task-api/app/respond"
	"bitwise74/task-api/internal"
	"bitwise74/task-api/internal/model"
	"bitwise74/task-api/internal/service"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// listOptions reads ?completed=true&sortBy=createdAt:desc&limit=10&skip=20.
// Values that don't parse are ignored rather than rejected
func listOptions(c *gin.Context) service.ListOptions {
	var opts service.ListOptions

	if v := c.Query("completed"); v != "" {
		completed := v == "true"
		opts.Completed = &completed
	}

	if v := c.Query("sortBy"); v != "" {
		field, dir, _ := strings.Cut(v, ":")
		opts.SortBy = field
		opts.Desc = dir != "asc"
	}

	if n, err := strconv.Atoi(c.Query("limit")); err == nil && n > 0 {
		opts.Limit = n
	}

	if n, err := strconv.Atoi(c.Query("skip")); err == nil && n > 0 {
		opts.Skip = n
	}

	return opts
}

func TaskList(c *gin.Context, d *internal.Deps) {
	acc := c.MustGet("account").(*model.Account)

	tasks, err := d.Tasks.List(c.Request.Context(), acc, listOptions(c))
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, tasks)
}
