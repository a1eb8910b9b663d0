package importer

import (
	"context"
	"fmt"

	"github.com/dquinterov/mesacompras-backend/pkg/db/models"
	"github.com/dquinterov/mesacompras-backend/pkg/enums"
)

// Header keys of the Vilnius vendor format.
const (
	headerVilniusCode    = "cod"
	headerVilniusProduct = "product"
	headerVilniusLength  = "length"
	headerVilniusBoxType = "box type"
	headerVilniusStems   = "stems"
	headerVilniusBoxes   = "number of boxes"
)

// Fixed catalog ids the Vilnius sheets rely on. The unclassified id marks
// rows no eligibility rule accepted, for later manual review.
const (
	BoxTypeQuarterID      int64 = 1
	BoxTypeHalfID         int64 = 2
	BoxTypeUnclassifiedID int64 = 47
)

var quarterBoxLengths = map[int]bool{40: true, 50: true, 60: true, 70: true, 80: true, 90: true}

// VilniusAdapter maps rows of the Vilnius vendor sheet. Unlike the generic
// format, Vilnius sheets routinely omit box type, box count and stem count,
// so the adapter infers them from tiered per-length expectations.
type VilniusAdapter struct {
	catalog CatalogResolver
}

// NewVilniusAdapter builds the adapter with the required resolver.
func NewVilniusAdapter(catalog CatalogResolver) (*VilniusAdapter, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog resolver required")
	}
	return &VilniusAdapter{catalog: catalog}, nil
}

// MapRow resolves and infers one sheet row into an order draft.
func (a *VilniusAdapter) MapRow(ctx context.Context, row Row, invoiceID, clientID int64) (*models.Order, error) {
	lengthText := row.Get(headerVilniusLength)
	boxTypeText := Normalize(row.Get(headerVilniusBoxType))
	stems, _ := parseIntCell(row.Get(headerVilniusStems))
	length, _ := parseIntCell(lengthText)

	lengthID, err := a.catalog.ResolveID(ctx, lengthText, enums.CategoryLength)
	if err != nil {
		return nil, err
	}

	boxTypeID := inferBoxType(boxTypeText, stems, length)
	// a code we could not map is not the same as a blank cell: the tiers may
	// classify the latter, never the former
	unknownCode := boxTypeText != "" && boxTypeID == nil

	quantity, ok := parseFloatCell(row.Get(headerVilniusBoxes))
	if !ok || quantity == 0 {
		quantity = 1
		switch {
		case !unknownCode && quarterTier(length, stems) && allowsBoxType(boxTypeID, BoxTypeQuarterID):
			id := BoxTypeQuarterID
			boxTypeID = &id
		case !unknownCode && halfTier(length, stems) && allowsBoxType(boxTypeID, BoxTypeHalfID):
			id := BoxTypeHalfID
			boxTypeID = &id
		default:
			// nothing recognizable: keep the box but flag it unclassified
			id := BoxTypeUnclassifiedID
			boxTypeID = &id
		}
	}

	stemCount := backfillStems(stems, boxTypeID, length)

	var totalStems *float64
	if stemCount != nil {
		total := quantity * float64(*stemCount)
		totalStems = &total
	}

	return &models.Order{
		InvoiceID:  invoiceID,
		ClientID:   clientID,
		Code:       row.Get(headerVilniusCode),
		Notes:      row.Get(headerVilniusProduct),
		LengthID:   lengthID,
		BoxTypeID:  boxTypeID,
		Quantity:   &quantity,
		Stems:      stemCount,
		TotalStems: totalStems,
	}, nil
}

// inferBoxType maps explicit qb/hb codes to their fixed ids; absent a code,
// a 100-stem box in a standard quarter length is assumed to be a quarter box.
func inferBoxType(code string, stems, length int) *int64 {
	switch code {
	case "qb":
		id := BoxTypeQuarterID
		return &id
	case "hb":
		id := BoxTypeHalfID
		return &id
	}
	if code == "" && stems == 100 && quarterBoxLengths[length] {
		id := BoxTypeQuarterID
		return &id
	}
	return nil
}

// allowsBoxType reports whether the (possibly unresolved) box type is
// compatible with the candidate the tier match proposes. An explicit
// mismatching code means the row stays unclassified.
func allowsBoxType(boxTypeID *int64, candidate int64) bool {
	return boxTypeID == nil || *boxTypeID == candidate
}

// quarterTier is the quarter-box eligibility predicate over length and stems.
func quarterTier(length, stems int) bool {
	return quarterBoxLengths[length] && stems == 100
}

// halfTier is the half-box eligibility predicate with per-length stem
// expectations.
func halfTier(length, stems int) bool {
	switch length {
	case 40, 50:
		return stems == 300
	case 60:
		return stems == 250
	case 70:
		return stems >= 150 && stems <= 200
	case 80, 90, 100:
		return stems == 200
	}
	return false
}

// backfillStems derives the stem count from box type and length when the
// sheet leaves it blank.
func backfillStems(stems int, boxTypeID *int64, length int) *int {
	if stems != 0 {
		return &stems
	}
	if boxTypeID == nil {
		return nil
	}
	switch *boxTypeID {
	case BoxTypeQuarterID:
		if quarterBoxLengths[length] {
			count := 100
			return &count
		}
	case BoxTypeHalfID:
		switch length {
		case 40, 50:
			count := 300
			return &count
		case 60:
			count := 250
			return &count
		case 70, 80, 90, 100:
			count := 200
			return &count
		}
	}
	return nil
}
