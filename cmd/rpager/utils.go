package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/unowned-ai/rpager/pkg/store"
	"github.com/unowned-ai/rpager/pkg/study"
)

// formatMillis renders a stored instant in RFC3339, or "never".
func formatMillis(m *study.Millis) string {
	if m == nil || m.IsZero() {
		return "never"
	}
	return m.Time.Format(time.RFC3339)
}

// splitList turns "a, b,,c" into [a b c].
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// notFound reports a missing record, passes other errors through wrapped.
func notFound(kind, id string, found bool, err error) error {
	if errors.Is(err, store.ErrNotFound) || (err == nil && !found) {
		return fmt.Errorf("%s not found: %s", kind, id)
	}
	if err != nil {
		return fmt.Errorf("failed to access %s: %w", kind, err)
	}
	return nil
}
