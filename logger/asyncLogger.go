package logger

import (
	"fmt"

	logModel "ferry-booking/models/log"
	"ferry-booking/types"

	"gorm.io/gorm"
)

// AsyncLogger persists API logs off the request path through a buffered
// channel. A full buffer drops the entry rather than stalling a handler.
type AsyncLogger struct {
	db      *gorm.DB
	channel chan types.LogEntry
}

func NewAsyncLogger(db *gorm.DB) *AsyncLogger {
	return &AsyncLogger{
		db:      db,
		channel: make(chan types.LogEntry, 100),
	}
}

// ProcessLog drains the channel into the logs table. Run as a goroutine.
func (l *AsyncLogger) ProcessLog() {
	Info("Starting asynchronous request logger")

	for entry := range l.channel {
		row := logModel.Log{
			Method:          entry.Method,
			URL:             entry.URL,
			RequestBody:     entry.RequestBody,
			ResponseBody:    entry.ResponseBody,
			RequestHeaders:  entry.RequestHeaders,
			ResponseHeaders: entry.ResponseHeaders,
			StatusCode:      entry.StatusCode,
			ClientIP:        entry.ClientIP,
			CreatedAt:       entry.CreatedAt,
		}
		if err := l.db.Create(&row).Error; err != nil {
			Warning(fmt.Sprintf("Failed to insert request log: %v", err))
		}
	}
}

// Log queues one entry, dropping it if the buffer is full.
func (l *AsyncLogger) Log(entry types.LogEntry) {
	select {
	case l.channel <- entry:
	default:
		Warning("Request log buffer full, dropping entry")
	}
}
