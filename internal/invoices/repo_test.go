package invoices

import (
	"context"
	"testing"
	"time"

	"github.com/dquinterov/mesacompras-backend/pkg/db/models"
	"github.com/dquinterov/mesacompras-backend/pkg/enums"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupInvoiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS terceros (
  idtercero INTEGER PRIMARY KEY AUTOINCREMENT,
  tipo TEXT NOT NULL,
  nombre TEXT NOT NULL,
  telefono TEXT,
  correo TEXT
);`,
		`CREATE TABLE IF NOT EXISTS factura_consolidada (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  numero_factura INTEGER NOT NULL,
  idcliente INTEGER NOT NULL,
  fecha DATETIME NOT NULL,
  fecha_vuelo DATETIME,
  awb TEXT,
  hawb TEXT,
  idcarguera INTEGER,
  iddae INTEGER,
  estado TEXT NOT NULL DEFAULT 'proceso'
);`,
		`CREATE TABLE IF NOT EXISTS pedidos (
  idpedido INTEGER PRIMARY KEY AUTOINCREMENT,
  idfactura INTEGER NOT NULL,
  idcliente INTEGER NOT NULL,
  codigo TEXT,
  observaciones TEXT,
  idproducto INTEGER,
  idvariedad INTEGER,
  idlongitud INTEGER,
  idempaque INTEGER,
  idtipocaja INTEGER,
  idtipopedido INTEGER,
  idproveedor INTEGER,
  cantidad REAL,
  tallos INTEGER,
  totaltallos REAL
);`,
		`CREATE TABLE IF NOT EXISTS factura_consolidada_detalle (
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
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func seedClient(t *testing.T, db *gorm.DB, name string) *models.Party {
	t.Helper()
	party := &models.Party{Type: enums.PartyTypeClient, Name: name}
	require.NoError(t, db.Create(party).Error)
	return party
}

func seedInvoice(t *testing.T, db *gorm.DB, number, clientID int64, status enums.InvoiceStatus, date time.Time) *models.Invoice {
	t.Helper()
	invoice := &models.Invoice{Number: number, ClientID: clientID, Date: date, Status: status}
	require.NoError(t, db.Create(invoice).Error)
	return invoice
}

func TestMaxNumberDefaultsToZero(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupInvoiceTestDB(t))

	max, err := repo.MaxNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), max)
}

func TestMaxNumberReturnsHighest(t *testing.T) {
	ctx := context.Background()
	db := setupInvoiceTestDB(t)
	repo := NewRepository(db)

	client := seedClient(t, db, "Flores Andinas")
	seedInvoice(t, db, 100, client.ID, enums.InvoiceStatusClosed, time.Now())
	seedInvoice(t, db, 205, client.ID, enums.InvoiceStatusInProcess, time.Now())
	seedInvoice(t, db, 117, client.ID, enums.InvoiceStatusInProcess, time.Now())

	max, err := repo.MaxNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(205), max)
}

func TestListInProcessJoinsClientName(t *testing.T) {
	ctx := context.Background()
	db := setupInvoiceTestDB(t)
	repo := NewRepository(db)

	client := seedClient(t, db, "Flores Andinas")
	older := seedInvoice(t, db, 1, client.ID, enums.InvoiceStatusInProcess, time.Now().Add(-48*time.Hour))
	newer := seedInvoice(t, db, 2, client.ID, enums.InvoiceStatusInProcess, time.Now())
	seedInvoice(t, db, 3, client.ID, enums.InvoiceStatusClosed, time.Now())

	rows, err := repo.ListInProcess(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// newest first
	assert.Equal(t, newer.ID, rows[0].ID)
	assert.Equal(t, older.ID, rows[1].ID)
	assert.Equal(t, "Flores Andinas", rows[0].ClientName)
}

func TestFindClientID(t *testing.T) {
	ctx := context.Background()
	db := setupInvoiceTestDB(t)
	repo := NewRepository(db)

	client := seedClient(t, db, "Flores Andinas")
	invoice := seedInvoice(t, db, 9, client.ID, enums.InvoiceStatusInProcess, time.Now())

	clientID, err := repo.FindClientID(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, client.ID, clientID)

	_, err = repo.FindClientID(ctx, 9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestAssignMasterWaybillTargetsGroup(t *testing.T) {
	ctx := context.Background()
	db := setupInvoiceTestDB(t)
	repo := NewRepository(db)

	group5 := int64(5)
	group9 := int64(9)
	inGroup := &models.InvoiceDetail{InvoiceID: 7, GroupID: &group5, Quantity: 1}
	otherGroup := &models.InvoiceDetail{InvoiceID: 7, GroupID: &group9, Quantity: 1}
	otherInvoice := &models.InvoiceDetail{InvoiceID: 8, GroupID: &group5, Quantity: 1}
	require.NoError(t, db.Create(inGroup).Error)
	require.NoError(t, db.Create(otherGroup).Error)
	require.NoError(t, db.Create(otherInvoice).Error)

	updated, err := repo.AssignMasterWaybill(ctx, 7, 5, "125-45678901")
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated)

	var reloaded models.InvoiceDetail
	require.NoError(t, db.Where("iddetalle = ?", inGroup.ID).First(&reloaded).Error)
	require.NotNil(t, reloaded.MasterWaybill)
	assert.Equal(t, "125-45678901", *reloaded.MasterWaybill)

	reloaded = models.InvoiceDetail{}
	require.NoError(t, db.Where("iddetalle = ?", otherGroup.ID).First(&reloaded).Error)
	assert.Nil(t, reloaded.MasterWaybill)
}

func TestDecrementOrderBalanceTreatsNullAsZero(t *testing.T) {
	ctx := context.Background()
	db := setupInvoiceTestDB(t)
	repo := NewRepository(db)

	order := &models.Order{InvoiceID: 7, ClientID: 1}
	require.NoError(t, db.Create(order).Error)

	require.NoError(t, repo.DecrementOrderBalance(ctx, order.ID, 2, 250))

	var reloaded models.Order
	require.NoError(t, db.Where("idpedido = ?", order.ID).First(&reloaded).Error)
	require.NotNil(t, reloaded.Quantity)
	require.NotNil(t, reloaded.TotalStems)
	assert.Equal(t, float64(-2), *reloaded.Quantity)
	assert.Equal(t, float64(-500), *reloaded.TotalStems)

	assert.ErrorIs(t, repo.DecrementOrderBalance(ctx, 9999, 1, 1), gorm.ErrRecordNotFound)
}

func TestUpdateHeaderMissingInvoice(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupInvoiceTestDB(t))

	err := repo.UpdateHeader(ctx, 404, map[string]any{"awb": "125-1"})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
