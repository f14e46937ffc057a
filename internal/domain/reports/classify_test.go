package reports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifier_Defaults(t *testing.T) {
	c := MustDefaultClassifier()

	tests := []struct {
		name       string
		unsigned   bool
		receivable bool
		charted    bool
	}{
		{"NO FIRMADA", true, false, false},
		{"no firmada", true, false, false},
		{"Unsigned", true, false, false},
		{"FIRMADA", false, true, true},
		{"signed", false, true, true},
		{"PAGADA", false, false, true},
		{"Anulada", false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cls := c.Classify(tt.name)
			assert.Equal(t, tt.unsigned, cls.Unsigned)
			assert.Equal(t, tt.receivable, cls.Receivable)
			assert.Equal(t, tt.charted, cls.Charted())
			assert.Equal(t, !tt.unsigned, cls.Recognized())
		})
	}
}

func TestClassifier_CustomRules(t *testing.T) {
	c, err := NewClassifier(Rules{
		Unsigned:   `status.startsWith("borrador") || status == "no firmada"`,
		Receivable: `status in ["firmada", "emitida"]`,
	})
	require.NoError(t, err)

	assert.True(t, c.Classify("Borrador interno").Unsigned)
	assert.True(t, c.Classify("EMITIDA").Receivable)
	assert.True(t, c.Classify("pagada").Paid)
}

func TestNewClassifier_RejectsBadRules(t *testing.T) {
	_, err := NewClassifier(Rules{Unsigned: `status ==`})
	assert.Error(t, err)

	_, err = NewClassifier(Rules{Receivable: `status + "x"`})
	assert.Error(t, err)

	_, err = NewClassifier(Rules{Paid: `amount > 0`})
	assert.Error(t, err)
}
