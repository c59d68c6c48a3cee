package config

import (
	"fmt"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// AppLogger wraps zap with otelzap so every log line carries the trace and
// span ids of the request it belongs to.
type AppLogger struct {
	Logger      *otelzap.Logger
	serviceName string
}

func NewAppLogger(serviceName string) (*AppLogger, error) {
	config := zap.NewProductionConfig()
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.TimeKey = "timestamp"

	zapLogger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create zap logger: %w", err)
	}

	return &AppLogger{
		Logger:      otelzap.New(zapLogger),
		serviceName: serviceName,
	}, nil
}

// NewTestLogger discards everything. Handlers require a non-nil logger.
func NewTestLogger() *AppLogger {
	return &AppLogger{
		Logger:      otelzap.New(zap.NewNop()),
		serviceName: "test",
	}
}

func (l *AppLogger) ServiceName() string {
	return l.serviceName
}

func (l *AppLogger) Sync() error {
	return l.Logger.Sync()
}
