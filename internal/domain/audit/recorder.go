// Package audit records user actions in the activity log.
package audit

import (
	"context"

	"billing/pkg/logger"
)

// Recorder persists one activity log entry for the user in ctx.
type Recorder interface {
	Record(ctx context.Context, action string, details map[string]any) error
}

// NopRecorder discards entries.
type NopRecorder struct{}

// Record implements Recorder.
func (NopRecorder) Record(context.Context, string, map[string]any) error { return nil }

// Log records an entry and only logs failures; the business operation has already succeeded.
func Log(ctx context.Context, r Recorder, action string, details map[string]any) {
	if r == nil {
		return
	}
	if err := r.Record(ctx, action, details); err != nil {
		logger.Warn(ctx, "activity log write failed", "action", action, "error", err)
	}
}

// MemoryRecorder keeps entries in memory. Used in tests.
type MemoryRecorder struct {
	Entries []Entry
}

// Entry is one recorded action.
type Entry struct {
	Action  string
	Details map[string]any
}

// Record implements Recorder.
func (m *MemoryRecorder) Record(_ context.Context, action string, details map[string]any) error {
	m.Entries = append(m.Entries, Entry{Action: action, Details: details})
	return nil
}

// Actions returns the recorded action names in order.
func (m *MemoryRecorder) Actions() []string {
	out := make([]string, len(m.Entries))
	for i, e := range m.Entries {
		out[i] = e.Action
	}
	return out
}
