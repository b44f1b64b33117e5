// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	configPath           = pflag.String("config", ".", "Directory containing config.toml")
	validLogLevels       = []string{"debug", "info", "warn", "error", "fatal"}
	validDBDrivers       = []string{"sqlite", "postgres"}
	validAvatarStorages  = []string{"db", "s3", "r2"}
	ErrJWTSecretMissing  = errors.New("jwt.secret is not set")
	ErrConfigFileMissing = errors.New("config.toml file is missing")
)

func genSecret() string {
	b := make([]byte, 64)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that.
func Setup() error {
	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	err := Load(*configPath)
	if errors.Is(err, ErrJWTSecretMissing) {
		fmt.Println("WARNING: You haven't set a JWT secret, so it has been generated for you. Please set it as an environment variable or in the config.toml file.\nYour random JWT secret:\n\n" + genSecret() + "\n\nPaste it into your config.toml file.")
		os.Exit(0)
	}

	return err
}

// Load reads config.toml from dir (if present) and the environment into
// the global viper instance and validates the result. A missing config
// file is fine as long as the environment provides the required values.
func Load(dir string) error {
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(dir)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	//
	// ENVS
	//
	v.BindEnv("app.log_level", "APP_LOG_LEVEL")

	v.BindEnv("host.port", "HOST_PORT")
	v.BindEnv("host.cors", "HOST_CORS")
	v.BindEnv("host.rate_limit", "HOST_RATE_LIMIT")

	v.BindEnv("db.driver", "DB_DRIVER")
	v.BindEnv("db.dsn", "DB_DSN")

	v.BindEnv("jwt.secret", "JWT_SECRET")
	v.BindEnv("jwt.ttl", "JWT_TTL")

	v.BindEnv("upload.max_size", "UPLOAD_MAX_SIZE")
	v.BindEnv("avatar.storage", "AVATAR_STORAGE")

	v.BindEnv("aws.region", "AWS_REGION")
	v.BindEnv("aws.bucket", "AWS_BUCKET")
	v.BindEnv("aws.access_key", "AWS_ACCESS_KEY")
	v.BindEnv("aws.secret_access_key", "AWS_SECRET_ACCESS_KEY")

	v.BindEnv("cloudflare.account_id", "CLOUDFLARE_ACCOUNT_ID")
	v.BindEnv("cloudflare.access_key_id", "CLOUDFLARE_ACCESS_KEY_ID")
	v.BindEnv("cloudflare.secret_access_key", "CLOUDFLARE_SECRET_ACCESS_KEY")
	v.BindEnv("cloudflare.bucket", "CLOUDFLARE_BUCKET")

	v.BindEnv("cloudflare.turnstile.enabled", "CLOUDFLARE_TURNSTILE_ENABLED")
	v.BindEnv("cloudflare.turnstile.secret_token", "CLOUDFLARE_TURNSTILE_SECRET_TOKEN")

	v.BindEnv("mail.host", "MAIL_HOST")
	v.BindEnv("mail.port", "MAIL_PORT")
	v.BindEnv("mail.username", "MAIL_USERNAME")
	v.BindEnv("mail.password", "MAIL_PASSWORD")
	v.BindEnv("mail.sender", "MAIL_SENDER_ADDRESS")

	v.BindEnv("sessions.sweep_interval", "SESSIONS_SWEEP_INTERVAL")

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 8080)
	v.SetDefault("host.cors", []string{"http://localhost:5173"})
	v.SetDefault("host.rate_limit", 10)

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "database.db")

	v.SetDefault("jwt.ttl", "720h")

	// Avatars above one megabyte are rejected
	v.SetDefault("upload.max_size", 1_000_000)
	v.SetDefault("avatar.storage", "db")

	v.SetDefault("cloudflare.turnstile.enabled", false)

	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.sender", "noreply@localhost")

	v.SetDefault("sessions.sweep_interval", "24h")

	if err := v.ReadInConfig(); err != nil {
		var notFound v.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file, %w", err)
		}

		zap.L().Debug("No config.toml found, using environment only")
	}

	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	if v.GetInt("host.rate_limit") <= 0 {
		return errors.New("host.rate_limit must be bigger than 0")
	}

	if !slices.Contains(validDBDrivers, v.GetString("db.driver")) {
		return errors.New("invalid database driver provided")
	}

	if v.GetString("db.dsn") == "" {
		return errors.New("db.dsn can't be empty")
	}

	if v.GetString("jwt.secret") == "" {
		return ErrJWTSecretMissing
	}

	if v.GetDuration("jwt.ttl") < 0 {
		return errors.New("jwt.ttl can't be negative")
	}

	if v.GetInt64("upload.max_size") <= 0 {
		return errors.New("upload.max_size must be bigger than 0")
	}

	switch v.GetString("avatar.storage") {
	case "s3":
		{
			if v.GetString("aws.region") == "" {
				return errors.New("aws region can't be empty")
			}
			if v.GetString("aws.bucket") == "" {
				return errors.New("bucket can't be empty")
			}
		}
	case "r2":
		{
			if v.GetString("cloudflare.account_id") == "" {
				return errors.New("account id can't be empty")
			}
			if v.GetString("cloudflare.access_key_id") == "" {
				return errors.New("account access id can't be empty")
			}
			if v.GetString("cloudflare.secret_access_key") == "" {
				return errors.New("secret access key can't be empty")
			}
			if v.GetString("cloudflare.bucket") == "" {
				return errors.New("bucket can't be empty")
			}
		}
	}

	if !slices.Contains(validAvatarStorages, v.GetString("avatar.storage")) {
		return errors.New("invalid avatar storage type provided")
	}

	if v.GetString("mail.host") == "" {
		zap.L().Warn("No mail.host specified, notification mails will only be logged")
	}

	if v.GetBool("cloudflare.turnstile.enabled") && v.GetString("cloudflare.turnstile.secret_token") == "" {
		return errors.New("turnstile secret token is missing")
	}

	if v.GetDuration("sessions.sweep_interval") <= 0 {
		return errors.New("sessions.sweep_interval must be bigger than 0")
	}

	return nil
}
