package types

import "time"

// LogEntry is one API request/response pair queued for the async logger.
// Bodies are pre-sanitized; secrets never reach this struct.
type LogEntry struct {
	ID              uint
	Method          string
	URL             string
	RequestBody     string
	ResponseBody    string
	RequestHeaders  string
	ResponseHeaders string
	StatusCode      int
	ClientIP        string
	CreatedAt       time.Time
}
