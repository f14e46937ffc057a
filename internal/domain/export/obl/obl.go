// Package obl renders an invoice as an accounting obligation file (.obl).
package obl

import (
	"strings"

	"billing/internal/core/types"
	"billing/internal/domain/catalogs/client"
	"billing/internal/domain/catalogs/salesarea"
	"billing/internal/domain/documents/invoice"
)

// Extension is appended to the invoice number to build the file name.
const Extension = ".obl"

// ContentType is served with the rendered file.
const ContentType = "text/plain; charset=utf-8"

const (
	obligationType  = "{7DE34F15-C9BA-4FE0-AEE6-B5E85ADB84DC}"
	counterConcept  = "107"
	counterAccount  = "900011008  "
	counterCurrency = "CUP"
	dateLayout      = "02/01/2006"
)

// Format renders the obligation file. Missing client or area fields become
// empty values. The result has no trailing newline.
func Format(inv *invoice.Invoice, c *client.Client, area *salesarea.SalesArea) []byte {
	total := types.FormatMoney(inv.Total())

	var fechaemi string
	if inv.Date != nil {
		fechaemi = inv.Date.Format(dateLayout)
	}

	var unidad, descripcion string
	if area != nil {
		unidad = area.CostCenterValue()
		descripcion = area.Name
	}

	var entidad, cuenta string
	if c != nil {
		entidad = c.ExternalCodeValue()
		cuenta = c.ExternalAccountValue()
	}

	lines := []string{
		"[Obligacion]",
		"Concepto=Obligacion por Factura Emitida",
		"Tipo=" + obligationType,
		"Unidad=" + unidad,
		"Entidad=" + entidad,
		"Numero=" + inv.Number,
		"Fechaemi=" + fechaemi,
		"Descripcion=" + descripcion,
		"Fecharec=",
		"ImporteMC=" + total,
		"CuentaMC=" + cuenta,
		"[Contrapartidas]",
		"Concepto=" + counterConcept,
		"Importe=" + total,
		"{",
		counterAccount + "|" + counterCurrency + "|" + total,
		"}",
	}
	return []byte(strings.Join(lines, "\n"))
}

// Filename returns the download name of the invoice export.
func Filename(inv *invoice.Invoice) string {
	return inv.Number + Extension
}
