// Package logger builds the zap logger and the gin access log.
package logger

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/noah-isme/timetable-workspace/pkg/config"
	"github.com/noah-isme/timetable-workspace/pkg/middleware/requestid"
)

// SessionHeader carries the workspace session id on console requests.
const SessionHeader = "X-Workspace-Session"

// probePaths are polled by orchestrators and only logged at debug.
var probePaths = map[string]struct{}{"/health": {}, "/metrics": {}}

func New(cfg *config.Config) (*zap.Logger, error) {
	return buildConfig(cfg).Build()
}

func buildConfig(cfg *config.Config) zap.Config {
	zapCfg := zap.NewDevelopmentConfig()
	if cfg.Env == config.EnvProduction {
		zapCfg = zap.NewProductionConfig()
	}

	zapCfg.Encoding = "json"
	if strings.EqualFold(cfg.Log.Format, "console") {
		zapCfg.Encoding = "console"
	}

	level := zapcore.InfoLevel
	if cfg.Log.Level != "" {
		if err := level.UnmarshalText([]byte(strings.ToLower(cfg.Log.Level))); err != nil {
			level = zapcore.InfoLevel
		}
	} else if cfg.Env != config.EnvProduction {
		level = zapcore.DebugLevel
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	zapCfg.EncoderConfig.TimeKey = "timestamp"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapCfg.InitialFields = map[string]interface{}{"service": "timetable-workspace", "env": cfg.Env}
	return zapCfg
}

// GinMiddleware writes one http_request entry per request. 5xx log at
// error and 4xx at warn.
func GinMiddleware(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := make([]zap.Field, 0, 9)
		fields = append(fields,
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("route", c.FullPath()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		)
		if id := requestid.Value(c); id != "" {
			fields = append(fields, zap.String("request_id", id))
		}
		if session := c.GetHeader(SessionHeader); session != "" {
			fields = append(fields, zap.String("session_id", session))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		_, probe := probePaths[c.Request.URL.Path]
		switch {
		case status >= 500:
			l.Error("http_request", fields...)
		case status >= 400:
			l.Warn("http_request", fields...)
		case probe:
			l.Debug("http_request", fields...)
		default:
			l.Info("http_request", fields...)
		}
	}
}
