package history

import (
	"strings"

	"github.com/sandevgo/askbot/internal/core"
)

const (
	ScopeGlobal  = "global"
	ScopeChannel = "channel"
	ScopeThread  = "thread"
)

const globalKey = "global"

// KeyFunc maps a message to the conversation its history belongs to.
type KeyFunc func(msg core.Message) string

func NewKeyFunc(scope string) KeyFunc {
	switch scope {
	case ScopeGlobal:
		return func(core.Message) string { return globalKey }
	case ScopeThread:
		return func(msg core.Message) string {
			thread := msg.ThreadTS
			if thread == "" {
				thread = msg.TS
			}
			return strings.Join([]string{msg.TeamID, msg.ChannelID, thread}, "/")
		}
	default:
		return func(msg core.Message) string {
			return strings.Join([]string{msg.TeamID, msg.ChannelID}, "/")
		}
	}
}
