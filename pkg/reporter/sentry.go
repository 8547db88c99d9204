package reporter

import (
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/d60-Lab/hourglass/config"
)

// Init 初始化 sentry；DSN 为空时返回 false，后续 Capture 调用均为空操作
func Init(cfg config.SentryConfig) (bool, error) {
	if cfg.DSN == "" {
		return false, nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		EnableTracing:    cfg.TracesSampleRate > 0,
		TracesSampleRate: cfg.TracesSampleRate,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// Flush 在退出前等待事件发送完成
func Flush() { sentry.Flush(2 * time.Second) }
