package weights

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dquinterov/mesacompras-backend/pkg/db/models"
)

// Rule is one decoded weight rule. Rules live in catalogo_simple under the
// regla_peso category as a pipe-delimited string:
//
//	<box type id>|<product id>|<min>-<max>|<weight>
//
// The stem range is inclusive on both ends.
type Rule struct {
	BoxTypeID int64
	ProductID int64
	StemMin   int
	StemMax   int
	Weight    float64
}

// ParseRule decodes one serialized rule value.
func ParseRule(value string) (Rule, error) {
	parts := strings.Split(strings.TrimSpace(value), "|")
	if len(parts) != 4 {
		return Rule{}, fmt.Errorf("weight rule %q: expected 4 pipe-delimited fields, got %d", value, len(parts))
	}

	boxType, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return Rule{}, fmt.Errorf("weight rule %q: invalid box type id: %w", value, err)
	}
	product, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return Rule{}, fmt.Errorf("weight rule %q: invalid product id: %w", value, err)
	}

	bounds := strings.SplitN(strings.TrimSpace(parts[2]), "-", 2)
	if len(bounds) != 2 {
		return Rule{}, fmt.Errorf("weight rule %q: invalid stem range %q", value, parts[2])
	}
	min, err := strconv.Atoi(strings.TrimSpace(bounds[0]))
	if err != nil {
		return Rule{}, fmt.Errorf("weight rule %q: invalid range minimum: %w", value, err)
	}
	max, err := strconv.Atoi(strings.TrimSpace(bounds[1]))
	if err != nil {
		return Rule{}, fmt.Errorf("weight rule %q: invalid range maximum: %w", value, err)
	}

	weight, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
	if err != nil {
		return Rule{}, fmt.Errorf("weight rule %q: invalid weight: %w", value, err)
	}

	return Rule{
		BoxTypeID: boxType,
		ProductID: product,
		StemMin:   min,
		StemMax:   max,
		Weight:    weight,
	}, nil
}

// ParseRules decodes a batch of catalog entries, skipping malformed values.
// Skipped values are returned separately so the caller can log them. Order is
// preserved: the matcher honors catalog id order so overlapping rules resolve
// the same way on every run.
func ParseRules(entries []models.CatalogEntry) ([]Rule, []string) {
	rules := make([]Rule, 0, len(entries))
	var malformed []string
	for _, entry := range entries {
		rule, err := ParseRule(entry.Value)
		if err != nil {
			malformed = append(malformed, entry.Value)
			continue
		}
		rules = append(rules, rule)
	}
	return rules, malformed
}

// Match returns the weight of the first rule matching the row, or 0 when no
// rule applies. Zero is the documented "no rule" sentinel, not an error.
func Match(rules []Rule, boxTypeID, productID *int64, stems *int) float64 {
	if boxTypeID == nil || productID == nil || stems == nil {
		return 0
	}
	for _, rule := range rules {
		if rule.BoxTypeID == *boxTypeID &&
			rule.ProductID == *productID &&
			*stems >= rule.StemMin && *stems <= rule.StemMax {
			return rule.Weight
		}
	}
	return 0
}
