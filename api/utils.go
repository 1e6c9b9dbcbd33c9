package api

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"taskboard/domain"
)

var (
	lastTimestamp int64
)

func nextTimestamp() int64 {
	for {
		now := time.Now().UnixNano()
		last := atomic.LoadInt64(&lastTimestamp)
		if now <= last {
			now = last + 1
		}
		if atomic.CompareAndSwapInt64(&lastTimestamp, last, now) {
			return now
		}
	}
}

// finalizeCommands stamps every command with a strictly increasing timestamp
// and gives commands without one a generated idempotency key.
func finalizeCommands(cmds []domain.Command) []string {
	keys := make([]string, len(cmds))
	for i := range cmds {
		if cmds[i].ID == "" {
			cmds[i].ID = uuid.NewString()
		}
		cmds[i].Timestamp = nextTimestamp()
		keys[i] = cmds[i].ID
	}
	return keys
}
