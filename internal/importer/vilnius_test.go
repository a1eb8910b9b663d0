package importer

import (
	"context"
	"testing"

	"github.com/dquinterov/mesacompras-backend/pkg/db/models"
	"github.com/dquinterov/mesacompras-backend/pkg/enums"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vilniusFixture() *fakeCatalog {
	return &fakeCatalog{entries: []models.CatalogEntry{
		{ID: 301, Category: enums.CategoryLength, Value: "40"},
		{ID: 302, Category: enums.CategoryLength, Value: "50"},
		{ID: 303, Category: enums.CategoryLength, Value: "60"},
		{ID: 304, Category: enums.CategoryLength, Value: "70"},
	}}
}

func vilniusRow(values map[string]string) Row {
	row := Row{
		"cod":             "",
		"product":         "",
		"length":          "",
		"box type":        "",
		"stems":           "",
		"number of boxes": "",
	}
	for key, value := range values {
		row[Normalize(key)] = value
	}
	return row
}

func newVilnius(t *testing.T) *VilniusAdapter {
	t.Helper()
	adapter, err := NewVilniusAdapter(vilniusFixture())
	require.NoError(t, err)
	return adapter
}

func TestVilniusExplicitBoxCodes(t *testing.T) {
	ctx := context.Background()
	adapter := newVilnius(t)

	order, err := adapter.MapRow(ctx, vilniusRow(map[string]string{
		"box type": "QB", "length": "50", "stems": "100", "number of boxes": "3",
	}), 10, 20)
	require.NoError(t, err)
	require.NotNil(t, order.BoxTypeID)
	assert.Equal(t, BoxTypeQuarterID, *order.BoxTypeID)
	require.NotNil(t, order.Quantity)
	assert.Equal(t, 3.0, *order.Quantity)

	order, err = adapter.MapRow(ctx, vilniusRow(map[string]string{
		"box type": "hb", "length": "60", "stems": "250", "number of boxes": "2",
	}), 10, 20)
	require.NoError(t, err)
	require.NotNil(t, order.BoxTypeID)
	assert.Equal(t, BoxTypeHalfID, *order.BoxTypeID)
}

func TestVilniusInfersQuarterFromHundredStems(t *testing.T) {
	ctx := context.Background()
	adapter := newVilnius(t)

	order, err := adapter.MapRow(ctx, vilniusRow(map[string]string{
		"length": "50", "stems": "100", "number of boxes": "4",
	}), 10, 20)
	require.NoError(t, err)
	require.NotNil(t, order.BoxTypeID)
	assert.Equal(t, BoxTypeQuarterID, *order.BoxTypeID)
}

func TestVilniusHalfTierInfersBoxAndQuantity(t *testing.T) {
	ctx := context.Background()
	adapter := newVilnius(t)

	// blank box type and box count, but 250 stems at length 60 is a half box
	order, err := adapter.MapRow(ctx, vilniusRow(map[string]string{
		"length": "60", "stems": "250",
	}), 10, 20)
	require.NoError(t, err)

	require.NotNil(t, order.BoxTypeID)
	assert.Equal(t, BoxTypeHalfID, *order.BoxTypeID)
	require.NotNil(t, order.Quantity)
	assert.Equal(t, 1.0, *order.Quantity)
	require.NotNil(t, order.TotalStems)
	assert.Equal(t, 250.0, *order.TotalStems)
}

func TestVilniusUnclassifiedFallback(t *testing.T) {
	ctx := context.Background()
	adapter := newVilnius(t)

	// no tier accepts length 45 with 90 stems
	order, err := adapter.MapRow(ctx, vilniusRow(map[string]string{
		"length": "45", "stems": "90",
	}), 10, 20)
	require.NoError(t, err)

	require.NotNil(t, order.Quantity)
	assert.Equal(t, 1.0, *order.Quantity)
	require.NotNil(t, order.BoxTypeID)
	assert.Equal(t, BoxTypeUnclassifiedID, *order.BoxTypeID)
}

func TestVilniusUnknownCodeNeverTierClassified(t *testing.T) {
	ctx := context.Background()
	adapter := newVilnius(t)

	// "fb" is not a code we map; quarter-tier values must not reinterpret it
	order, err := adapter.MapRow(ctx, vilniusRow(map[string]string{
		"box type": "fb", "length": "70", "stems": "100",
	}), 10, 20)
	require.NoError(t, err)

	require.NotNil(t, order.Quantity)
	assert.Equal(t, 1.0, *order.Quantity)
	require.NotNil(t, order.BoxTypeID)
	assert.Equal(t, BoxTypeUnclassifiedID, *order.BoxTypeID)
}

func TestVilniusStemBackfill(t *testing.T) {
	ctx := context.Background()
	adapter := newVilnius(t)

	order, err := adapter.MapRow(ctx, vilniusRow(map[string]string{
		"box type": "qb", "length": "70", "number of boxes": "2",
	}), 10, 20)
	require.NoError(t, err)

	require.NotNil(t, order.Stems)
	assert.Equal(t, 100, *order.Stems)
	require.NotNil(t, order.TotalStems)
	assert.Equal(t, 200.0, *order.TotalStems)

	order, err = adapter.MapRow(ctx, vilniusRow(map[string]string{
		"box type": "hb", "length": "60", "number of boxes": "1",
	}), 10, 20)
	require.NoError(t, err)
	require.NotNil(t, order.Stems)
	assert.Equal(t, 250, *order.Stems)
}

func TestVilniusResolvesLengthAndCarriesFields(t *testing.T) {
	ctx := context.Background()
	adapter := newVilnius(t)

	order, err := adapter.MapRow(ctx, vilniusRow(map[string]string{
		"cod": "V-77", "product": "Red Naomi", "length": "60", "stems": "250", "number of boxes": "2",
	}), 10, 20)
	require.NoError(t, err)

	assert.Equal(t, int64(10), order.InvoiceID)
	assert.Equal(t, int64(20), order.ClientID)
	assert.Equal(t, "V-77", order.Code)
	assert.Equal(t, "Red Naomi", order.Notes)
	require.NotNil(t, order.LengthID)
	assert.Equal(t, int64(303), *order.LengthID)
	require.NotNil(t, order.TotalStems)
	assert.Equal(t, 500.0, *order.TotalStems)
}

func TestVilniusExplicitCodeBeatsMismatchedTier(t *testing.T) {
	ctx := context.Background()
	adapter := newVilnius(t)

	// explicit qb with stems outside the quarter tier: quantity defaults but
	// the row is flagged unclassified instead of silently reinterpreted
	order, err := adapter.MapRow(ctx, vilniusRow(map[string]string{
		"box type": "qb", "length": "60", "stems": "250",
	}), 10, 20)
	require.NoError(t, err)

	require.NotNil(t, order.BoxTypeID)
	assert.Equal(t, BoxTypeUnclassifiedID, *order.BoxTypeID)
}
