package obl

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billing/internal/core/id"
	"billing/internal/core/types"
	"billing/internal/domain/catalogs/client"
	"billing/internal/domain/catalogs/salesarea"
	"billing/internal/domain/documents/invoice"
	"billing/internal/domain/documents/lines"
)

func strPtr(s string) *string { return &s }

func sampleInvoice(t *testing.T) *invoice.Invoice {
	t.Helper()
	inv := invoice.NewInvoice(id.New(), id.New(), "test")
	inv.Number = "2025-0007"
	date := time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC)
	inv.Date = &date
	item, err := lines.NewItem(inv.ID, id.New(), 3, types.MustMoney("500"))
	require.NoError(t, err)
	inv.Items = lines.Items{item}
	return inv
}

func TestFormat_ByteExact(t *testing.T) {
	inv := sampleInvoice(t)
	account := 1234
	c := client.NewClient("ACME", "C-1")
	c.ExternalCode = strPtr("CLI-01")
	c.ExternalAccount = &account
	area := &salesarea.SalesArea{Name: "Norte", CostCenter: strPtr("CC10")}

	want := "[Obligacion]\n" +
		"Concepto=Obligacion por Factura Emitida\n" +
		"Tipo={7DE34F15-C9BA-4FE0-AEE6-B5E85ADB84DC}\n" +
		"Unidad=CC10\n" +
		"Entidad=CLI-01\n" +
		"Numero=2025-0007\n" +
		"Fechaemi=05/03/2025\n" +
		"Descripcion=Norte\n" +
		"Fecharec=\n" +
		"ImporteMC=1500.00\n" +
		"CuentaMC=1234\n" +
		"[Contrapartidas]\n" +
		"Concepto=107\n" +
		"Importe=1500.00\n" +
		"{\n" +
		"900011008  |CUP|1500.00\n" +
		"}"

	assert.Equal(t, want, string(Format(inv, c, area)))
}

func TestFormat_MissingExternalFields(t *testing.T) {
	inv := sampleInvoice(t)
	inv.Date = nil

	out := string(Format(inv, client.NewClient("ACME", "C-1"), &salesarea.SalesArea{Name: "Sur"}))

	assert.Contains(t, out, "\nUnidad=\n")
	assert.Contains(t, out, "\nEntidad=\n")
	assert.Contains(t, out, "\nFechaemi=\n")
	assert.Contains(t, out, "\nCuentaMC=\n")
	assert.False(t, strings.HasSuffix(out, "\n"))
}

func TestFormat_NilReferences(t *testing.T) {
	out := string(Format(sampleInvoice(t), nil, nil))

	assert.Contains(t, out, "\nDescripcion=\n")
	assert.Contains(t, out, "\nImporte=1500.00\n")
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "2025-0007.obl", Filename(sampleInvoice(t)))
}
