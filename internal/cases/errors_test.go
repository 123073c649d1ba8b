package cases

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"duplicate case", errors.New(`creating case: case_id "C-1" already exists`), "DB001"},
		{"duplicate key", errors.New("ERROR: duplicate key value violates unique constraint"), "DB001"},
		{"connection refused", errors.New("dial tcp 127.0.0.1:5432: connection refused"), "DB004"},
		{"timeout", errors.New("query timeout exceeded"), "DB006"},
		{"parse error", &ParseError{Line: 3, Reason: "inconsistent column count"}, "FILE002"},
		{"empty file", &ParseError{Reason: "empty file"}, "FILE005"},
		{"no file", errors.New("no file provided"), "FILE004"},
		{"file too large", errors.New("file too large or invalid form"), "FILE001"},
		{"empty batch", ErrEmptyBatch, "BATCH001"},
		{"session gone", ErrSessionNotFound, "SES001"},
		{"unknown fix", errors.New(`unknown fix "shout"`), "FIX001"},
		{"cancelled", errors.New("context canceled"), "REQ001"},
		{"deadline", errors.New("context deadline exceeded"), "REQ002"},
		{"unknown", errors.New("something else entirely"), "ERR000"},
		{"nil", nil, "ERR000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := MapError(tt.err)
			assert.Equal(t, tt.wantCode, msg.Code)
			assert.NotEmpty(t, msg.Message)
			assert.NotEmpty(t, msg.Action)
		})
	}
}

func TestParseErrorMessage(t *testing.T) {
	assert.Equal(t, "invalid csv at line 4: inconsistent column count",
		(&ParseError{Line: 4, Reason: "inconsistent column count"}).Error())
	assert.Equal(t, "invalid csv: empty file",
		(&ParseError{Reason: "empty file"}).Error())
}
