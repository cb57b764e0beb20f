package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// DefaultKey is the fixed storage key of the slot.
const DefaultKey = "monaco_editor_state"

// TimestampLayout is ISO-8601 with millisecond precision in UTC.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// ErrMalformed marks a stored blob that could not be decoded.
var ErrMalformed = errors.New("malformed editor state")

// EditorState is the serialized unit held by the storage slot. It is always
// written and read as a whole.
type EditorState struct {
	Code       string `json:"code"`
	Language   string `json:"language"`
	IsDarkMode bool   `json:"isDarkMode"`
	Timestamp  string `json:"timestamp"`
}

// Encode serializes s for the slot.
func Encode(s EditorState) (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("encode editor state: %w", err)
	}
	return string(b), nil
}

// Decode parses a slot blob. Anything other than a JSON object is malformed.
func Decode(raw string) (EditorState, error) {
	var top any
	if err := json.Unmarshal([]byte(raw), &top); err != nil {
		return EditorState{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if _, ok := top.(map[string]any); !ok {
		return EditorState{}, fmt.Errorf("%w: not an object", ErrMalformed)
	}
	var s EditorState
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return EditorState{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return s, nil
}

// SavedAt parses the timestamp. The zero time is returned when it is
// missing or unparsable.
func (s EditorState) SavedAt() time.Time {
	t, err := time.Parse(time.RFC3339Nano, s.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return t
}

// describeTime renders the save time the way the load notification shows it.
func (s EditorState) describeTime() string {
	t := s.SavedAt()
	if t.IsZero() {
		if s.Timestamp == "" {
			return "an unknown time"
		}
		return s.Timestamp
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
