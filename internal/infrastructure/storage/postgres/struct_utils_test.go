package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"billing/internal/core/entity"
	"billing/internal/core/types"
)

type sampleCatalog struct {
	entity.Catalog
	entity.Activatable
	Code   string      `db:"code"`
	Price  types.Money `db:"unit_price"`
	Cached string      `db:"-"`
	plain  string
}

func TestExtractDBColumns_Embedded(t *testing.T) {
	cols := ExtractDBColumns[sampleCatalog]()

	assert.Equal(t, []string{"id", "version", "created_at", "updated_at", "active", "code", "unit_price"}, cols)
}

func TestStructToMap(t *testing.T) {
	c := sampleCatalog{
		Catalog:     entity.NewCatalog(),
		Activatable: entity.Activatable{Active: true},
		Code:        "A1",
		Price:       types.MustMoney("10.50"),
		Cached:      "x",
		plain:       "y",
	}

	m := StructToMap(&c)

	assert.Equal(t, c.ID, m["id"])
	assert.Equal(t, 1, m["version"])
	assert.Equal(t, true, m["active"])
	assert.Equal(t, "A1", m["code"])
	assert.NotContains(t, m, "Cached")
	assert.Len(t, m, 7)
}
