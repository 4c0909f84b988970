package cart

import (
	"context"

	"github.com/labstack/gommon/log"
)

// LogNotifier は通知をログに流す実装。
// 表示側（toast）はクライアントの仕事なので、サーバーは記録だけする。
type LogNotifier struct {
	logger *log.Logger
}

func NewLogNotifier(logger *log.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, ownerKey string, event string, message string) {
	n.logger.Infof("notify owner=%s event=%s message=%q", ownerKey, event, message)
}
