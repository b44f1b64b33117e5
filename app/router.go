// Package app wires the HTTP handlers into a gin engine
package app

import (
	"bitwise74/task-api/app/root"
	"bitwise74/task-api/app/task"
	"bitwise74/task-api/app/user"
	"bitwise74/task-api/internal"
	"bitwise74/task-api/pkg/middleware"
	"context"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Multipart overhead allowed on top of upload.max_size
const formOverhead = 64 << 10

// NewRouter builds the engine serving every endpoint. Background work owned
// by the router stops with ctx
func NewRouter(ctx context.Context, d *internal.Deps) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery(), middleware.NewRequestIDMiddleware())

	if origins := viper.GetStringSlice("host.cors"); len(origins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "HEAD", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "TurnstileToken"},
			ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.Use(ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
		TimeFormat: "15:04:05.000",
		UTC:        true,
		Skipper: func(c *gin.Context) bool {
			return c.Request.Method == "HEAD"
		},
		Context: func(c *gin.Context) []zapcore.Field {
			fields := []zapcore.Field{}

			if v := c.GetString("requestID"); v != "" {
				fields = append(fields, zap.String("request_id", v))
			}

			if v := c.GetString("userID"); v != "" {
				fields = append(fields, zap.String("userID", v))
			}

			return fields
		},
	}))

	if rateLimit := viper.GetInt("host.rate_limit"); rateLimit > 0 {
		router.Use(middleware.RateLimiterMiddleware(ctx, middleware.RateLimiterConfig{
			RequestsPerSecond: rateLimit,
			Burst:             rateLimit * 2,
		}))
	}

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true

	maxUploadSize := d.MaxUploadSize
	if maxUploadSize <= 0 {
		maxUploadSize = viper.GetInt64("upload.max_size")
	}
	router.MaxMultipartMemory = maxUploadSize + formOverhead

	auth := middleware.NewAuthMiddleware(d.Sessions)
	jsonBody := middleware.BodySizeLimiter(1 << 20)
	turnstile := middleware.NewTurnstileMiddleware(middleware.TurnstileConfig{
		Enabled: viper.GetBool("cloudflare.turnstile.enabled"),
		Secret:  viper.GetString("cloudflare.turnstile.secret_token"),
	})

	// HEAD /heartbeat			-> Used to check if the server is alive
	router.HEAD("/heartbeat", root.Heartbeat)

	u := router.Group("/users")
	{
		// POST /users			-> Registers a new account and logs it in
		u.POST("", jsonBody, turnstile, func(c *gin.Context) { user.UserRegister(c, d) })

		// POST /users/login		-> Logs in and returns a new session token
		u.POST("/login", jsonBody, func(c *gin.Context) { user.UserLogin(c, d) })

		// POST /users/logout		-> Ends the current session
		u.POST("/logout", auth, func(c *gin.Context) { user.UserLogout(c, d) })

		// POST /users/logoutAll	-> Ends every session of the account
		u.POST("/logoutAll", auth, func(c *gin.Context) { user.UserLogoutAll(c, d) })

		// GET /users/me		-> Returns the logged in account
		u.GET("/me", auth, user.UserMe)

		// PATCH /users/me		-> Updates the logged in account
		u.PATCH("/me", auth, jsonBody, func(c *gin.Context) { user.UserUpdate(c, d) })

		// DELETE /users/me		-> Deletes the account with all its tasks
		u.DELETE("/me", auth, func(c *gin.Context) { user.UserDelete(c, d) })

		// POST /users/me/avatar	-> Uploads a new avatar
		u.POST("/me/avatar", auth, middleware.BodySizeLimiter(maxUploadSize+formOverhead), func(c *gin.Context) { user.AvatarUpload(c, d) })

		// DELETE /users/me/avatar	-> Removes the avatar
		u.DELETE("/me/avatar", auth, func(c *gin.Context) { user.AvatarDelete(c, d) })

		// GET /users/:id/avatar	-> Serves an account's avatar as PNG
		u.GET("/:id/avatar", func(c *gin.Context) { user.AvatarFetch(c, d) })
	}

	t := router.Group("/tasks", auth)
	{
		// GET /tasks			-> Lists the account's tasks
		t.GET("", func(c *gin.Context) { task.TaskList(c, d) })

		// POST /tasks			-> Creates a task
		t.POST("", jsonBody, func(c *gin.Context) { task.TaskCreate(c, d) })

		// GET /tasks/:id		-> Returns a task of the account
		t.GET("/:id", func(c *gin.Context) { task.TaskFetch(c, d) })

		// PATCH /tasks/:id		-> Updates a task of the account
		t.PATCH("/:id", jsonBody, func(c *gin.Context) { task.TaskUpdate(c, d) })

		// DELETE /tasks/:id		-> Deletes a task of the account
		t.DELETE("/:id", func(c *gin.Context) { task.TaskDelete(c, d) })
	}

	return router
}
