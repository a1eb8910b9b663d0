package weights

import (
	"context"
	"io"
	"testing"

	"github.com/dquinterov/mesacompras-backend/internal/catalog"
	"github.com/dquinterov/mesacompras-backend/pkg/db/models"
	"github.com/dquinterov/mesacompras-backend/pkg/enums"
	"github.com/dquinterov/mesacompras-backend/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupWeightsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	catalogTable := `
CREATE TABLE IF NOT EXISTS catalogo_simple (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  categoria TEXT NOT NULL,
  valor TEXT NOT NULL
);`
	detailTable := `
CREATE TABLE IF NOT EXISTS factura_consolidada_detalle (
  iddetalle INTEGER PRIMARY KEY AUTOINCREMENT,
  idfactura INTEGER NOT NULL,
  idpedido INTEGER,
  codigo TEXT,
  idgrupo INTEGER,
  idproveedor INTEGER,
  idproducto INTEGER,
  idvariedad INTEGER,
  idlongitud INTEGER,
  idempaque INTEGER,
  idtipocaja INTEGER,
  cantidad REAL NOT NULL,
  cantidadRamos INTEGER,
  cantidadTallos INTEGER,
  precio_unitario NUMERIC NOT NULL DEFAULT 0,
  precio_venta NUMERIC,
  subtotal NUMERIC NOT NULL DEFAULT 0,
  documento_proveedor TEXT,
  guia_master TEXT,
  peso REAL NOT NULL DEFAULT 0,
  idusuario INTEGER,
  fechacompra DATETIME,
  idmix INTEGER
);`
	require.NoError(t, db.Exec(catalogTable).Error)
	require.NoError(t, db.Exec(detailTable).Error)
	return db
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{
		ServiceName: "weights-test",
		Level:       zerolog.Disabled,
		Output:      io.Discard,
	})
}

func seedRule(t *testing.T, db *gorm.DB, value string) {
	t.Helper()
	entry := &models.CatalogEntry{Category: enums.CategoryWeightRule, Value: value}
	require.NoError(t, db.Create(entry).Error)
}

func seedDetail(t *testing.T, db *gorm.DB, invoiceID int64, boxType, product *int64, stems *int) *models.InvoiceDetail {
	t.Helper()
	detail := &models.InvoiceDetail{
		InvoiceID: invoiceID,
		BoxTypeID: boxType,
		ProductID: product,
		Stems:     stems,
		Quantity:  1,
	}
	require.NoError(t, db.Create(detail).Error)
	return detail
}

func TestRecomputeAssignsFirstMatch(t *testing.T) {
	ctx := context.Background()
	db := setupWeightsTestDB(t)
	svc, err := NewService(db, catalog.NewRepository(db), testLogger())
	require.NoError(t, err)

	seedRule(t, db, "1|12|100-300|10.0")
	seedRule(t, db, "1|12|200-400|20.0")
	seedRule(t, db, "2|12|200-300|7.5")

	matched := seedDetail(t, db, 55, int64Ptr(1), int64Ptr(12), intPtr(250))
	hbBox := seedDetail(t, db, 55, int64Ptr(2), int64Ptr(12), intPtr(250))
	noRule := seedDetail(t, db, 55, int64Ptr(9), int64Ptr(12), intPtr(250))
	unresolved := seedDetail(t, db, 55, nil, int64Ptr(12), intPtr(250))
	otherInvoice := seedDetail(t, db, 99, int64Ptr(1), int64Ptr(12), intPtr(250))

	report, err := svc.Recompute(ctx, 55)
	require.NoError(t, err)
	assert.Equal(t, 4, report.RowsProcessed)
	assert.Equal(t, 2, report.RowsMatched)

	assertWeight(t, db, matched.ID, 10.0)
	assertWeight(t, db, hbBox.ID, 7.5)
	assertWeight(t, db, noRule.ID, 0.0)
	assertWeight(t, db, unresolved.ID, 0.0)
	assertWeight(t, db, otherInvoice.ID, 0.0)
}

func TestRecomputeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := setupWeightsTestDB(t)
	svc, err := NewService(db, catalog.NewRepository(db), testLogger())
	require.NoError(t, err)

	seedRule(t, db, "1|12|100-300|10.0")
	detail := seedDetail(t, db, 55, int64Ptr(1), int64Ptr(12), intPtr(250))

	_, err = svc.Recompute(ctx, 55)
	require.NoError(t, err)
	_, err = svc.Recompute(ctx, 55)
	require.NoError(t, err)

	assertWeight(t, db, detail.ID, 10.0)
}

func TestRecomputeClearsStaleWeights(t *testing.T) {
	ctx := context.Background()
	db := setupWeightsTestDB(t)
	svc, err := NewService(db, catalog.NewRepository(db), testLogger())
	require.NoError(t, err)

	seedRule(t, db, "1|12|100-300|10.0")
	detail := seedDetail(t, db, 55, int64Ptr(1), int64Ptr(12), intPtr(250))

	_, err = svc.Recompute(ctx, 55)
	require.NoError(t, err)
	assertWeight(t, db, detail.ID, 10.0)

	// rule disappears; the next pass writes the sentinel back
	require.NoError(t, db.Exec("DELETE FROM catalogo_simple").Error)
	report, err := svc.Recompute(ctx, 55)
	require.NoError(t, err)
	assert.Equal(t, 0, report.RowsMatched)
	assertWeight(t, db, detail.ID, 0.0)
}

func TestRecomputeSkipsMalformedRules(t *testing.T) {
	ctx := context.Background()
	db := setupWeightsTestDB(t)
	svc, err := NewService(db, catalog.NewRepository(db), testLogger())
	require.NoError(t, err)

	seedRule(t, db, "not-a-rule")
	seedRule(t, db, "1|12|100-300|10.0")
	detail := seedDetail(t, db, 55, int64Ptr(1), int64Ptr(12), intPtr(250))

	report, err := svc.Recompute(ctx, 55)
	require.NoError(t, err)
	assert.Equal(t, 1, report.MalformedRules)
	assertWeight(t, db, detail.ID, 10.0)
}

func assertWeight(t *testing.T, db *gorm.DB, detailID int64, want float64) {
	t.Helper()
	var detail models.InvoiceDetail
	require.NoError(t, db.Where("iddetalle = ?", detailID).First(&detail).Error)
	assert.Equal(t, want, detail.Weight)
}
