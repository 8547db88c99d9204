package event

import (
	"context"

	"go.uber.org/zap"

	"github.com/d60-Lab/hourglass/pkg/logger"
)

// AuditLogger 把关系变更写入结构化日志
func AuditLogger() Handler {
	return HandlerFunc(func(_ context.Context, e Event) {
		switch ev := e.(type) {
		case FollowChanged:
			logger.Info("audit", zap.String("event", ev.Name()),
				zap.String("follower", ev.FollowerID), zap.String("followee", ev.FolloweeID),
				zap.Bool("following", ev.Following))
		case BlockChanged:
			logger.Info("audit", zap.String("event", ev.Name()),
				zap.String("blocker", ev.BlockerID), zap.String("blocked", ev.BlockedID),
				zap.Bool("blocked_state", ev.Blocked))
		case ProfileChanged:
			logger.Info("audit", zap.String("event", ev.Name()),
				zap.String("user", ev.UserID), zap.String("old", ev.OldUsername), zap.String("new", ev.NewUsername))
		}
	})
}
