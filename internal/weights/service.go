package weights

import (
	"context"
	"fmt"

	"github.com/dquinterov/mesacompras-backend/pkg/db/models"
	"github.com/dquinterov/mesacompras-backend/pkg/enums"
	pkgerrors "github.com/dquinterov/mesacompras-backend/pkg/errors"
	"github.com/dquinterov/mesacompras-backend/pkg/logger"
	"gorm.io/gorm"
)

// RuleSource reads the serialized rule entries.
type RuleSource interface {
	ListByCategory(ctx context.Context, category enums.CatalogCategory) ([]models.CatalogEntry, error)
}

// Service recomputes box weights for an invoice's detail rows.
type Service interface {
	Recompute(ctx context.Context, invoiceID int64) (*Report, error)
}

// Report summarizes one recompute pass.
type Report struct {
	InvoiceID      int64 `json:"invoice_id"`
	RowsProcessed  int   `json:"rows_processed"`
	RowsMatched    int   `json:"rows_matched"`
	MalformedRules int   `json:"malformed_rules"`
}

type service struct {
	db    *gorm.DB
	rules RuleSource
	logg  *logger.Logger
}

// NewService builds the weight service with the required dependencies.
func NewService(db *gorm.DB, rules RuleSource, logg *logger.Logger) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("db handle required")
	}
	if rules == nil {
		return nil, fmt.Errorf("rule source required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{db: db, rules: rules, logg: logg}, nil
}

// Recompute loads the rule table once, then walks the invoice's detail rows
// and persists the first-match weight per row. Rows with no matching rule get
// the 0 sentinel so a previous stale weight never survives a recompute.
func (s *service) Recompute(ctx context.Context, invoiceID int64) (*Report, error) {
	ctx = s.logg.WithInvoiceID(ctx, invoiceID)

	entries, err := s.rules.ListByCategory(ctx, enums.CategoryWeightRule)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading weight rules")
	}
	rules, malformed := ParseRules(entries)
	if len(malformed) > 0 {
		s.logg.Warn(ctx, fmt.Sprintf("skipping %d malformed weight rules", len(malformed)))
	}

	var details []models.InvoiceDetail
	err = s.db.WithContext(ctx).
		Where("idfactura = ?", invoiceID).
		Order("iddetalle ASC").
		Find(&details).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading invoice details")
	}

	report := &Report{InvoiceID: invoiceID, MalformedRules: len(malformed)}
	for _, detail := range details {
		weight := Match(rules, detail.BoxTypeID, detail.ProductID, detail.Stems)
		err := s.db.WithContext(ctx).
			Model(&models.InvoiceDetail{}).
			Where("iddetalle = ?", detail.ID).
			Update("peso", weight).Error
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("updating weight for detail %d", detail.ID))
		}
		report.RowsProcessed++
		if weight != 0 {
			report.RowsMatched++
		}
	}

	return report, nil
}
