// Package tracing provides AWS X-Ray distributed tracing integration.
package tracing

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/aws/aws-xray-sdk-go/xraylog"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Config contains X-Ray configuration.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Enabled        bool
	DaemonAddr     string
}

// Logger adapter for X-Ray SDK.
type xrayLoggerAdapter struct {
	logger *logrus.Logger
}

func (l *xrayLoggerAdapter) Log(level xraylog.LogLevel, msg fmt.Stringer) {
	entry := l.logger.WithField("component", "xray")
	switch level {
	case xraylog.LogLevelDebug:
		entry.Debug(msg.String())
	case xraylog.LogLevelInfo:
		entry.Info(msg.String())
	case xraylog.LogLevelWarn:
		entry.Warn(msg.String())
	case xraylog.LogLevelError:
		entry.Error(msg.String())
	}
}

// Initialize configures the X-Ray recorder. It is a no-op when tracing is
// disabled.
func Initialize(cfg Config, logger *logrus.Logger) error {
	if !cfg.Enabled {
		return nil
	}

	xray.SetLogger(&xrayLoggerAdapter{logger: logger})

	if err := xray.Configure(xray.Config{
		DaemonAddr:     cfg.DaemonAddr,
		ServiceVersion: cfg.ServiceVersion,
	}); err != nil {
		return fmt.Errorf("failed to configure x-ray: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"daemon_addr":  cfg.DaemonAddr,
		"service_name": cfg.ServiceName,
	}).Info("AWS X-Ray initialized")

	return nil
}

// Middleware opens a segment per request. Websocket upgrades pass through
// untraced since a segment would stay open for the life of the connection.
func Middleware(cfg Config, next http.Handler) http.Handler {
	if !cfg.Enabled {
		return next
	}
	traced := xray.Handler(xray.NewFixedSegmentNamer(cfg.ServiceName), next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if websocket.IsWebSocketUpgrade(r) {
			next.ServeHTTP(w, r)
			return
		}
		traced.ServeHTTP(w, r)
	})
}

// Capture runs fn inside a subsegment when ctx carries a segment, and runs
// it directly otherwise.
func Capture(ctx context.Context, name string, fn func(context.Context) error) error {
	if xray.GetSegment(ctx) == nil {
		return fn(ctx)
	}
	return xray.Capture(ctx, name, fn)
}

// AddAnnotation adds an annotation to the current segment.
func AddAnnotation(ctx context.Context, key string, value interface{}) {
	if seg := xray.GetSegment(ctx); seg != nil {
		_ = seg.AddAnnotation(key, value)
	}
}

// AddError adds an error to the current segment.
func AddError(ctx context.Context, err error) {
	if seg := xray.GetSegment(ctx); seg != nil {
		_ = seg.AddError(err)
	}
}
