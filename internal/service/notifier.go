package service

import (
	"go.uber.org/zap"

	"github.com/storyverse/storyverse/pkg/logger"
)

// Notifier receives the user-visible outcome of a mutation. Every
// mutation emits exactly one notification, success or error.
type Notifier interface {
	Success(title, message string)
	Error(title, message string)
}

type logNotifier struct{}

// NewLogNotifier returns a Notifier that writes notifications to the
// application log. Servers without a richer sink use this.
func NewLogNotifier() Notifier { return logNotifier{} }

func (logNotifier) Success(title, message string) {
	logger.Info("notification", zap.String("title", title), zap.String("message", message))
}

func (logNotifier) Error(title, message string) {
	logger.Warn("notification", zap.String("title", title), zap.String("message", message))
}
