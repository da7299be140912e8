package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/liliang-cn/movieapi/internal/jsonlog"
	"github.com/liliang-cn/movieapi/internal/validator"
)

// 环境变量前缀，例如 MOVIES_DB_DSN
const envPrefix = "MOVIES"

// 应用配置
type config struct {
	port     int
	env      string
	logLevel jsonlog.Level
	db       struct {
		driver       string
		dsn          string
		maxOpenConns int
		maxIdleConns int
		maxIdleTime  time.Duration
	}
	limiter struct {
		rps     float64
		burst   int
		enabled bool
	}
	cors struct {
		trustedOrigins []string
	}
	shutdownTimeout time.Duration
	displayVersion  bool
}

// loadConfig 按 命令行 > 环境变量 > .env > 默认值 的优先级读取配置
func loadConfig(args []string) (config, error) {
	var cfg config

	// .env 不存在时忽略
	_ = godotenv.Load()

	fs := pflag.NewFlagSet("api", pflag.ContinueOnError)
	fs.Int("port", 4000, "API server port")
	fs.String("env", "development", "Environment (development|staging|production)")
	fs.String("log-level", "info", "Minimum log level (info|error|fatal|off)")
	fs.String("db-driver", "postgres", "Database driver (postgres|pgx|sqlite)")
	fs.String("db-dsn", "", "Database DSN")
	fs.Int("db-max-open-conns", 25, "Database max open connections")
	fs.Int("db-max-idle-conns", 25, "Database max idle connections")
	fs.String("db-max-idle-time", "15m", "Database max connection idle time")
	fs.Float64("limiter-rps", 2, "Rate limiter maximum requests per second")
	fs.Int("limiter-burst", 4, "Rate limiter maximum burst")
	fs.Bool("limiter-enabled", true, "Enable rate limiter")
	fs.String("cors-trusted-origins", "", "Trusted CORS origins (space separated)")
	fs.String("shutdown-timeout", "5s", "Graceful shutdown timeout")
	fs.Bool("version", false, "Display version and exit")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return cfg, err
	}

	cfg.displayVersion = v.GetBool("version")
	cfg.port = v.GetInt("port")
	cfg.env = v.GetString("env")
	cfg.db.driver = v.GetString("db-driver")
	cfg.db.dsn = v.GetString("db-dsn")
	cfg.db.maxOpenConns = v.GetInt("db-max-open-conns")
	cfg.db.maxIdleConns = v.GetInt("db-max-idle-conns")
	cfg.limiter.rps = v.GetFloat64("limiter-rps")
	cfg.limiter.burst = v.GetInt("limiter-burst")
	cfg.limiter.enabled = v.GetBool("limiter-enabled")
	cfg.cors.trustedOrigins = strings.Fields(v.GetString("cors-trusted-origins"))

	val := validator.New()

	level, err := jsonlog.ParseLevel(v.GetString("log-level"))
	val.Check(err == nil, "log-level", "must be one of info, error, fatal, off")
	cfg.logLevel = level

	idle, err := time.ParseDuration(v.GetString("db-max-idle-time"))
	val.Check(err == nil, "db-max-idle-time", "must be a valid duration")
	cfg.db.maxIdleTime = idle

	grace, err := time.ParseDuration(v.GetString("shutdown-timeout"))
	val.Check(err == nil, "shutdown-timeout", "must be a valid duration")
	cfg.shutdownTimeout = grace

	if cfg.displayVersion {
		return cfg, nil
	}

	cfg.validate(val)
	if !val.Valid() {
		return cfg, validationError(val)
	}

	return cfg, nil
}

// validate 校验配置取值
func (cfg config) validate(v *validator.Validator) {
	v.Check(cfg.port > 0 && cfg.port <= 65535, "port", "must be between 1 and 65535")
	v.Check(validator.In(cfg.env, "development", "staging", "production"), "env", "must be one of development, staging, production")
	v.Check(validator.In(cfg.db.driver, "postgres", "pgx", "sqlite"), "db-driver", "must be one of postgres, pgx, sqlite")
	v.Check(cfg.db.dsn != "", "db-dsn", "must be provided")
	v.Check(cfg.db.maxOpenConns > 0, "db-max-open-conns", "must be greater than zero")
	v.Check(cfg.db.maxIdleConns >= 0, "db-max-idle-conns", "must not be negative")
	v.Check(cfg.limiter.rps > 0, "limiter-rps", "must be greater than zero")
	v.Check(cfg.limiter.burst > 0, "limiter-burst", "must be greater than zero")
	v.Check(cfg.shutdownTimeout > 0, "shutdown-timeout", "must be greater than zero")
}

func validationError(v *validator.Validator) error {
	keys := make([]string, 0, len(v.Errors))
	for k := range v.Errors {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, fmt.Sprintf("%s %s", k, v.Errors[k]))
	}
	return errors.New("invalid configuration: " + strings.Join(msgs, "; "))
}
