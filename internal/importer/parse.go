package importer

import (
	"strconv"
	"strings"
)

// parseFloatCell reads a numeric cell leniently: blank or unparseable cells
// yield (0, false). Comma decimal separators from exported sheets are
// accepted.
func parseFloatCell(raw string) (float64, bool) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return 0, false
	}
	text = strings.ReplaceAll(text, ",", ".")
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// parseIntCell reads an integer cell leniently, truncating decimals the way
// spreadsheet exports sometimes write whole numbers ("250.0").
func parseIntCell(raw string) (int, bool) {
	value, ok := parseFloatCell(raw)
	if !ok {
		return 0, false
	}
	return int(value), true
}
