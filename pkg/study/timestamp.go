package study

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Millis is an instant stored as epoch milliseconds. On read it also accepts
// RFC 3339 strings, and "Never" or null for an unset value.
type Millis struct {
	time.Time
}

// NewMillis truncates t to millisecond precision and drops its monotonic
// reading, so values compare equal after a round trip.
func NewMillis(t time.Time) Millis {
	if t.IsZero() {
		return Millis{}
	}
	return Millis{Time: time.UnixMilli(t.UnixMilli())}
}

func (m Millis) MarshalJSON() ([]byte, error) {
	if m.IsZero() {
		return []byte("null"), nil
	}
	return strconv.AppendInt(nil, m.UnixMilli(), 10), nil
}

func (m *Millis) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*m = Millis{}
		return nil
	}

	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" || strings.EqualFold(s, "never") {
			*m = Millis{}
			return nil
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return fmt.Errorf("unrecognised timestamp %q: %w", s, err)
		}
		*m = NewMillis(t)
		return nil
	}

	var ms float64
	if err := json.Unmarshal(b, &ms); err != nil {
		return fmt.Errorf("timestamp must be epoch milliseconds or RFC 3339: %w", err)
	}
	if ms == 0 {
		*m = Millis{}
		return nil
	}
	*m = Millis{Time: time.UnixMilli(int64(math.Round(ms)))}
	return nil
}

// MillisPtr returns a pointer to NewMillis(t).
func MillisPtr(t time.Time) *Millis {
	m := NewMillis(t)
	return &m
}
