package numerator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Format(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		year int
		seq  int64
		want string
	}{
		{"invoice first", InvoiceConfig(), 2025, 1, "2025-0001"},
		{"invoice seventh", InvoiceConfig(), 2025, 7, "2025-0007"},
		{"invoice widens", InvoiceConfig(), 2025, 12345, "2025-12345"},
		{"offer first", OfferConfig(), 2025, 1, "202500001"},
		{"offer widens", OfferConfig(), 2026, 123456, "2026123456"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.Format(tt.year, tt.seq))
		})
	}
}

func TestConfig_Parse(t *testing.T) {
	year, seq, err := InvoiceConfig().Parse("2025-0007")
	require.NoError(t, err)
	assert.Equal(t, 2025, year)
	assert.Equal(t, int64(7), seq)

	year, seq, err = OfferConfig().Parse("202500042")
	require.NoError(t, err)
	assert.Equal(t, 2025, year)
	assert.Equal(t, int64(42), seq)

	for _, bad := range []string{"", "2025", "20250007", "2025-", "abcd-0001", "2025--001"} {
		_, _, err := InvoiceConfig().Parse(bad)
		assert.Error(t, err, bad)
	}
}

func TestConfigFor(t *testing.T) {
	cfg, err := ConfigFor(DocOffer)
	require.NoError(t, err)
	assert.Equal(t, OfferConfig(), cfg)

	_, err = ConfigFor("receipt")
	assert.Error(t, err)
}

func TestMockGenerator_PerYearCounters(t *testing.T) {
	g := &MockGenerator{}
	ctx := context.Background()

	n1, _ := g.Next(ctx, InvoiceConfig(), 2025)
	n2, _ := g.Next(ctx, InvoiceConfig(), 2025)
	n3, _ := g.Next(ctx, InvoiceConfig(), 2026)
	o1, _ := g.Next(ctx, OfferConfig(), 2025)

	assert.Equal(t, "2025-0001", n1)
	assert.Equal(t, "2025-0002", n2)
	assert.Equal(t, "2026-0001", n3)
	assert.Equal(t, "202500001", o1)

	require.NoError(t, g.SetNext(ctx, InvoiceConfig(), 2025, 100))
	n4, _ := g.Next(ctx, InvoiceConfig(), 2025)
	assert.Equal(t, "2025-0100", n4)
}

func TestMockGenerator_Advance(t *testing.T) {
	g := &MockGenerator{}
	ctx := context.Background()

	require.NoError(t, g.Advance(ctx, OfferConfig(), 2025, "202500004"))
	n, _ := g.Next(ctx, OfferConfig(), 2025)
	assert.Equal(t, "202500005", n)

	require.NoError(t, g.Advance(ctx, OfferConfig(), 2025, "202500002"))
	n, _ = g.Next(ctx, OfferConfig(), 2025)
	assert.Equal(t, "202500006", n)

	assert.Error(t, g.Advance(ctx, OfferConfig(), 2026, "202500002"))
}
