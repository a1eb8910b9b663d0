package importer

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/dquinterov/mesacompras-backend/pkg/config"
	"github.com/dquinterov/mesacompras-backend/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildSheet(t *testing.T, headers []string, rows [][]string) io.Reader {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue(sheet, cell, header))
	}
	for rowIdx, cells := range rows {
		for col, value := range cells {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, value))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return bytes.NewReader(buf.Bytes())
}

func testImportLogger() *logger.Logger {
	return logger.New(logger.Options{
		ServiceName: "importer-test",
		Level:       zerolog.Disabled,
		Output:      io.Discard,
	})
}

func newImportService(t *testing.T, orders *fakeOrders, cfg config.ImportConfig) Service {
	t.Helper()

	catalogFixture, supplierFixture := genericFixture()
	generic, err := NewGenericAdapter(catalogFixture, supplierFixture)
	require.NoError(t, err)
	vilnius, err := NewVilniusAdapter(catalogFixture)
	require.NoError(t, err)

	invoices := &fakeInvoices{clients: map[int64]int64{10: 20}}
	svc, err := NewService(generic, vilnius, orders, invoices, cfg, testImportLogger())
	require.NoError(t, err)
	return svc
}

func TestParseSheetNormalizesHeadersAndPadsShortRows(t *testing.T) {
	reader := buildSheet(t,
		[]string{"  Client Code ", "VARIETY", "Boxes"},
		[][]string{
			{"C-1", "Freedom", "2"},
			{"C-2"},
		})

	rows, err := ParseSheet(reader)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "C-1", rows[0].Get("client code"))
	assert.Equal(t, "Freedom", rows[0].Get("Variety"))
	assert.Equal(t, "2", rows[0].Get("boxes"))

	assert.Equal(t, "C-2", rows[1].Get("client code"))
	assert.Equal(t, "", rows[1].Get("variety"))
	assert.True(t, rows[1].Has("variety"))
	assert.False(t, rows[1].Has("farm"))
}

func TestParseSheetDropsBlankSeparatorRows(t *testing.T) {
	reader := buildSheet(t,
		[]string{"Client Code", "Boxes"},
		[][]string{
			{"C-1", "2"},
			{" ", ""},
			{"C-2", "3"},
		})

	rows, err := ParseSheet(reader)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "C-1", rows[0].Get("client code"))
	assert.Equal(t, "C-2", rows[1].Get("client code"))
}

func TestImportGenericSkipsBlankSeparatorRows(t *testing.T) {
	ctx := context.Background()
	orders := &fakeOrders{}
	svc := newImportService(t, orders, config.ImportConfig{RowWorkers: 2})

	reader := buildSheet(t,
		[]string{"Client Code", "Variety", "Boxes"},
		[][]string{
			{"C-1", "Freedom", "1"},
			{"", " ", ""},
			{"C-2", "Mondial", "2"},
		})

	report, err := svc.ImportGeneric(ctx, 10, reader)
	require.NoError(t, err)

	assert.Equal(t, 2, report.TotalRows)
	assert.Equal(t, 2, report.Inserted)
	assert.Len(t, orders.created, 2)
}

func TestImportGenericLenientContainsRowFailures(t *testing.T) {
	ctx := context.Background()
	orders := &fakeOrders{rejectCode: "BAD"}
	svc := newImportService(t, orders, config.ImportConfig{Strict: false, RowWorkers: 4})

	reader := buildSheet(t,
		[]string{"Client Code", "Variety", "Boxes", "Stems"},
		[][]string{
			{"OK-1", "Freedom", "1", "100"},
			{"BAD", "Mondial", "2", "100"},
			{"OK-2", "Freedom", "3", "100"},
		})

	report, err := svc.ImportGeneric(ctx, 10, reader)
	require.NoError(t, err)

	assert.Equal(t, 3, report.TotalRows)
	assert.Equal(t, 2, report.Inserted)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Rows, 3)
	assert.Equal(t, RowStatusInserted, report.Rows[0].Status)
	assert.Equal(t, RowStatusFailed, report.Rows[1].Status)
	assert.NotEmpty(t, report.Rows[1].Error)
	assert.Equal(t, RowStatusInserted, report.Rows[2].Status)

	// siblings of the failed row made it into the store
	assert.Len(t, orders.created, 2)
}

func TestImportGenericStrictAbortsAndSkipsRest(t *testing.T) {
	ctx := context.Background()
	orders := &fakeOrders{rejectCode: "BAD"}
	svc := newImportService(t, orders, config.ImportConfig{Strict: true, RowWorkers: 4})

	reader := buildSheet(t,
		[]string{"Client Code", "Boxes"},
		[][]string{
			{"OK-1", "1"},
			{"BAD", "2"},
			{"OK-2", "3"},
		})

	_, err := svc.ImportGeneric(ctx, 10, reader)
	require.Error(t, err)

	assert.Len(t, orders.created, 1)
	assert.Equal(t, "OK-1", orders.created[0].Code)
}

func TestImportVilniusSequential(t *testing.T) {
	ctx := context.Background()
	orders := &fakeOrders{}
	svc := newImportService(t, orders, config.ImportConfig{RowWorkers: 4})

	reader := buildSheet(t,
		[]string{"Cod", "Product", "Length", "box type", "STEMS", "number of boxes"},
		[][]string{
			{"V-1", "Red Naomi", "60", "hb", "250", "2"},
			{"V-2", "Explorer", "50", "", "100", ""},
		})

	report, err := svc.ImportVilnius(ctx, 10, reader)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Inserted)
	assert.Zero(t, report.Failed)
	require.Len(t, orders.created, 2)
	assert.Equal(t, "V-1", orders.created[0].Code)
	assert.Equal(t, "V-2", orders.created[1].Code)

	// second row: inferred quarter box with defaulted quantity
	second := orders.created[1]
	require.NotNil(t, second.BoxTypeID)
	assert.Equal(t, BoxTypeQuarterID, *second.BoxTypeID)
	require.NotNil(t, second.Quantity)
	assert.Equal(t, 1.0, *second.Quantity)
}

func TestImportRejectsMissingInputs(t *testing.T) {
	ctx := context.Background()
	orders := &fakeOrders{}
	svc := newImportService(t, orders, config.ImportConfig{RowWorkers: 1})

	_, err := svc.ImportGeneric(ctx, 0, bytes.NewReader(nil))
	require.Error(t, err)

	_, err = svc.ImportGeneric(ctx, 10, nil)
	require.Error(t, err)

	// unknown invoice
	reader := buildSheet(t, []string{"Client Code"}, [][]string{{"C-1"}})
	_, err = svc.ImportGeneric(ctx, 404, reader)
	require.Error(t, err)
}
