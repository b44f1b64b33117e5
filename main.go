package main

import (
	"bitwise74/task-api/app"
	"bitwise74/task-api/aws"
	"bitwise74/task-api/cloudflare"
	"bitwise74/task-api/config"
	"bitwise74/task-api/db"
	"bitwise74/task-api/internal"
	"bitwise74/task-api/internal/service"
	"bitwise74/task-api/pkg/security"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

func main() {
	gin.SetMode(gin.ReleaseMode)

	err := config.Setup()
	if err != nil {
		panic(err)
	}

	makeLogger(viper.GetString("app.log_level"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d, err := newDeps(ctx)
	if err != nil {
		zap.L().Fatal("Failed to initialize", zap.Error(err))
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", viper.GetInt("host.port")),
		Handler: app.NewRouter(ctx, d),
	}

	go func() {
		zap.L().Info("Server starting", zap.String("addr", srv.Addr))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("Server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zap.L().Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("Failed to shut down cleanly", zap.Error(err))
	}

	// Let queued notification mails go out
	d.Notifier.Wait()
}

func newDeps(ctx context.Context) (*internal.Deps, error) {
	gdb, err := db.New(viper.GetString("db.driver"), viper.GetString("db.dsn"))
	if err != nil {
		return nil, err
	}

	avatars, err := newAvatarStore()
	if err != nil {
		return nil, err
	}

	var mailer service.Mailer = service.LogMailer{}
	if host := viper.GetString("mail.host"); host != "" {
		mailer = service.NewSMTPMailer(
			host,
			viper.GetInt("mail.port"),
			viper.GetString("mail.username"),
			viper.GetString("mail.password"),
			viper.GetString("mail.sender"),
		)
	}

	maxUploadSize := viper.GetInt64("upload.max_size")
	codec := security.NewTokenCodec(viper.GetString("jwt.secret"), viper.GetDuration("jwt.ttl"))
	notifier := service.NewNotifier(mailer)
	sessions := service.NewSessions(gdb, codec)

	// Expired sessions are already refused, sweeping only keeps the table small
	service.SessionCleanup(ctx, viper.GetDuration("sessions.sweep_interval"), sessions)

	return &internal.Deps{
		DB:            gdb,
		Accounts:      service.NewAccounts(gdb, security.New(), sessions, notifier, avatars, maxUploadSize),
		Sessions:      sessions,
		Tasks:         service.NewTasks(gdb),
		Notifier:      notifier,
		MaxUploadSize: maxUploadSize,
	}, nil
}

func newAvatarStore() (service.AvatarStore, error) {
	switch viper.GetString("avatar.storage") {
	case "s3":
		s3, err := aws.NewS3()
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 client, %w", err)
		}

		return service.ObjectAvatars{Store: s3}, nil
	case "r2":
		r2, err := cloudflare.NewR2()
		if err != nil {
			return nil, fmt.Errorf("failed to initialize R2 client, %w", err)
		}

		return service.ObjectAvatars{Store: r2}, nil
	}

	return service.DBAvatars{}, nil
}

func makeLogger(level string) {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	if lvl, err := zapcore.ParseLevel(level); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	cfg.DisableStacktrace = true

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}
