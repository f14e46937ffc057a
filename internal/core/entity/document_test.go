package entity

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billing/internal/core/apperror"
	"billing/internal/core/id"
)

func TestDocument_Validate(t *testing.T) {
	long := strings.Repeat("x", NotesMaxLength+1)

	tests := []struct {
		name    string
		doc     Document
		wantErr string
	}{
		{"ok", NewDocument(id.New(), id.New(), "u1"), ""},
		{"missing area", NewDocument(id.ID{}, id.New(), "u1"), "salesAreaId"},
		{"missing client", NewDocument(id.New(), id.ID{}, "u1"), "clientId"},
		{"long notes", func() Document {
			d := NewDocument(id.New(), id.New(), "u1")
			d.Notes = &long
			return d
		}(), "notes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.doc.Validate(context.Background())
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantErr, appErr.Details["field"])
		})
	}
}

func TestDocument_Year(t *testing.T) {
	d := NewDocument(id.New(), id.New(), "")
	date := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	d.Date = &date
	assert.Equal(t, 2024, d.Year())

	d.Date = nil
	d.CreatedAt = time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 2026, d.Year())
}

func TestActivatable(t *testing.T) {
	a := Activatable{Active: true}
	a.Deactivate()
	assert.False(t, a.IsActive())
	a.Activate()
	assert.True(t, a.IsActive())
}
