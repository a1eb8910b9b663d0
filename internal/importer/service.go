package importer

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/dquinterov/mesacompras-backend/pkg/config"
	"github.com/dquinterov/mesacompras-backend/pkg/db/models"
	pkgerrors "github.com/dquinterov/mesacompras-backend/pkg/errors"
	"github.com/dquinterov/mesacompras-backend/pkg/logger"
)

// RowStatus tags the outcome of one imported row.
type RowStatus string

const (
	RowStatusInserted RowStatus = "inserted"
	RowStatusFailed   RowStatus = "failed"
	RowStatusSkipped  RowStatus = "skipped"
)

// RowResult reports one row's outcome. Row numbers are 1-based over the data
// rows (the header row is not counted).
type RowResult struct {
	Row     int       `json:"row"`
	Status  RowStatus `json:"status"`
	OrderID *int64    `json:"order_id,omitempty"`
	Error   string    `json:"error,omitempty"`
}

// Report summarizes an import run. In lenient mode the report always covers
// every row; in strict mode it stops at the first failure.
type Report struct {
	InvoiceID int64       `json:"invoice_id"`
	TotalRows int         `json:"total_rows"`
	Inserted  int         `json:"inserted"`
	Failed    int         `json:"failed"`
	Rows      []RowResult `json:"rows"`
}

// rowMapper is the shared adapter contract.
type rowMapper interface {
	MapRow(ctx context.Context, row Row, invoiceID, clientID int64) (*models.Order, error)
}

// Service ingests vendor spreadsheets into pedidos.
type Service interface {
	ImportGeneric(ctx context.Context, invoiceID int64, file io.Reader) (*Report, error)
	ImportVilnius(ctx context.Context, invoiceID int64, file io.Reader) (*Report, error)
}

type service struct {
	generic  *GenericAdapter
	vilnius  *VilniusAdapter
	orders   OrderInserter
	invoices InvoiceClientSource
	cfg      config.ImportConfig
	logg     *logger.Logger
}

// NewService builds the import service with the required dependencies.
func NewService(
	generic *GenericAdapter,
	vilnius *VilniusAdapter,
	orders OrderInserter,
	invoices InvoiceClientSource,
	cfg config.ImportConfig,
	logg *logger.Logger,
) (Service, error) {
	if generic == nil || vilnius == nil {
		return nil, fmt.Errorf("both vendor adapters required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order inserter required")
	}
	if invoices == nil {
		return nil, fmt.Errorf("invoice source required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.RowWorkers <= 0 {
		cfg.RowWorkers = 1
	}
	return &service{
		generic:  generic,
		vilnius:  vilnius,
		orders:   orders,
		invoices: invoices,
		cfg:      cfg,
		logg:     logg,
	}, nil
}

// ImportGeneric ingests the generic vendor format. Rows are independent, so
// in lenient mode they are dispatched to a bounded worker pool.
func (s *service) ImportGeneric(ctx context.Context, invoiceID int64, file io.Reader) (*Report, error) {
	rows, clientID, err := s.prepare(ctx, invoiceID, file)
	if err != nil {
		return nil, err
	}
	if s.cfg.Strict {
		return s.runSequential(ctx, s.generic, rows, invoiceID, clientID)
	}
	return s.runConcurrent(ctx, s.generic, rows, invoiceID, clientID)
}

// ImportVilnius ingests the Vilnius vendor format. Rows are processed in
// sheet order so the report reads top to bottom like the source file.
func (s *service) ImportVilnius(ctx context.Context, invoiceID int64, file io.Reader) (*Report, error) {
	rows, clientID, err := s.prepare(ctx, invoiceID, file)
	if err != nil {
		return nil, err
	}
	return s.runSequential(ctx, s.vilnius, rows, invoiceID, clientID)
}

func (s *service) prepare(ctx context.Context, invoiceID int64, file io.Reader) ([]Row, int64, error) {
	if invoiceID <= 0 {
		return nil, 0, pkgerrors.New(pkgerrors.CodeValidation, "invoice id is required")
	}
	if file == nil {
		return nil, 0, pkgerrors.New(pkgerrors.CodeValidation, "spreadsheet file is required")
	}

	clientID, err := s.invoices.FindClientID(ctx, invoiceID)
	if err != nil {
		return nil, 0, err
	}

	rows, err := ParseSheet(file)
	if err != nil {
		return nil, 0, err
	}
	if len(rows) == 0 {
		return nil, 0, pkgerrors.New(pkgerrors.CodeValidation, "spreadsheet has no data rows")
	}
	return rows, clientID, nil
}

func (s *service) runSequential(ctx context.Context, mapper rowMapper, rows []Row, invoiceID, clientID int64) (*Report, error) {
	report := &Report{InvoiceID: invoiceID, TotalRows: len(rows), Rows: make([]RowResult, 0, len(rows))}

	for i, row := range rows {
		result := s.importRow(ctx, mapper, row, i+1, invoiceID, clientID)
		report.Rows = append(report.Rows, result)
		if result.Status == RowStatusInserted {
			report.Inserted++
			continue
		}
		report.Failed++
		if s.cfg.Strict {
			for j := i + 1; j < len(rows); j++ {
				report.Rows = append(report.Rows, RowResult{Row: j + 1, Status: RowStatusSkipped})
			}
			return report, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("strict import aborted at row %d: %s", i+1, result.Error)).
				WithDetails(report)
		}
	}
	return report, nil
}

func (s *service) runConcurrent(ctx context.Context, mapper rowMapper, rows []Row, invoiceID, clientID int64) (*Report, error) {
	results := make([]RowResult, len(rows))

	var wg sync.WaitGroup
	sem := make(chan struct{}, s.cfg.RowWorkers)
	for i, row := range rows {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, row Row) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = s.importRow(ctx, mapper, row, i+1, invoiceID, clientID)
		}(i, row)
	}
	wg.Wait()

	report := &Report{InvoiceID: invoiceID, TotalRows: len(rows), Rows: results}
	for _, result := range results {
		if result.Status == RowStatusInserted {
			report.Inserted++
		} else {
			report.Failed++
		}
	}
	return report, nil
}

func (s *service) importRow(ctx context.Context, mapper rowMapper, row Row, rowNumber int, invoiceID, clientID int64) RowResult {
	order, err := mapper.MapRow(ctx, row, invoiceID, clientID)
	if err != nil {
		s.logg.Warn(ctx, fmt.Sprintf("row %d: mapping failed: %v", rowNumber, err))
		return RowResult{Row: rowNumber, Status: RowStatusFailed, Error: err.Error()}
	}

	created, err := s.orders.Create(ctx, order)
	if err != nil {
		s.logg.Warn(ctx, fmt.Sprintf("row %d: insert failed: %v", rowNumber, err))
		return RowResult{Row: rowNumber, Status: RowStatusFailed, Error: err.Error()}
	}

	id := created.ID
	return RowResult{Row: rowNumber, Status: RowStatusInserted, OrderID: &id}
}
