package notifications

import "go.uber.org/zap"

// Hook receives new-message notifications for group channels. Implementations
// must not block: the webhook relay fires and forgets, and a slow hook must
// never delay the webhook response.
type Hook interface {
	Notify(groupID, senderID, message string)
}

// LogHook is the current delivery path: a log line. Push delivery was removed
// upstream; swapping in a real implementation only touches the wiring in main.
type LogHook struct {
	log *zap.Logger
}

func NewLogHook(log *zap.Logger) *LogHook {
	return &LogHook{log: log}
}

func (h *LogHook) Notify(groupID, senderID, message string) {
	h.log.Info("group message notification",
		zap.String("groupId", groupID),
		zap.String("senderId", senderID),
		zap.Int("messageLength", len(message)),
	)
}
