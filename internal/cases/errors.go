package cases

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyBatch is returned when a batch commit is requested with zero rows.
// It fires before any import job is created.
var ErrEmptyBatch = errors.New("empty batch: no rows provided")

// ErrSessionNotFound is returned when a staging session ID is unknown or
// has expired.
var ErrSessionNotFound = errors.New("import session not found")

// ParseError describes a malformed upload. It is fatal to the upload
// request: nothing is staged when parsing fails.
type ParseError struct {
	Line   int    // 1-based line number, 0 if not line-specific
	Reason string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("invalid csv at line %d: %s", e.Line, e.Reason)
	}
	return "invalid csv: " + e.Reason
}

// UserMessage provides user-friendly error information with actionable
// guidance. The Code is quoted to support staff for faster diagnosis.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user
// messages. Matched with strings.Contains; first match wins, so specific
// patterns come before general ones.
var errorPatterns = []errorPattern{
	{
		pattern: "already exists",
		msg: UserMessage{
			Message: "A case with this ID already exists",
			Action:  "Review the failed rows for duplicate case IDs",
			Code:    "DB001",
		},
	},
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "A case with this ID already exists",
			Action:  "Review the failed rows for duplicate case IDs",
			Code:    "DB001",
		},
	},
	{
		pattern: "unique constraint",
		msg: UserMessage{
			Message: "This value must be unique but already exists",
			Action:  "Check for duplicate entries in your file",
			Code:    "DB002",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to reach the case store",
			Action:  "Please try again in a few moments",
			Code:    "DB004",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Try a smaller file or try again later",
			Code:    "DB006",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Please upload a CSV file with data rows",
			Code:    "FILE005",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "File is not a valid CSV",
			Action:  "Ensure the file is comma-separated with consistent columns",
			Code:    "FILE002",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a CSV file to upload",
			Code:    "FILE004",
		},
	},
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum size limit",
			Action:  "Split the file into smaller chunks",
			Code:    "FILE001",
		},
	},
	{
		pattern: "empty batch",
		msg: UserMessage{
			Message: "No rows were submitted for commit",
			Action:  "Stage at least one valid row before committing",
			Code:    "BATCH001",
		},
	},
	{
		pattern: "session not found",
		msg: UserMessage{
			Message: "Import session not found",
			Action:  "The session may have expired. Please upload the file again",
			Code:    "SES001",
		},
	},
	{
		pattern: "unknown fix",
		msg: UserMessage{
			Message: "The requested bulk fix is not supported",
			Action:  "Use one of: trim, titleCase, normalizePhone",
			Code:    "FIX001",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller file or check your connection",
			Code:    "REQ002",
		},
	},
}

// defaultUserMessage is the fallback when no pattern matches.
var defaultUserMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error into a user-friendly message.
// The original error should still be logged server-side for diagnosis.
func MapError(err error) UserMessage {
	if err == nil {
		return defaultUserMessage
	}
	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}
	return defaultUserMessage
}
