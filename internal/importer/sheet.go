package importer

import (
	"fmt"
	"io"
	"strings"

	pkgerrors "github.com/dquinterov/mesacompras-backend/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// ParseSheet reads the first worksheet of an xlsx document into Rows. The
// first row is the header row; its cells are normalized into canonical keys.
// Cells past the end of a short row read as blank. Rows with no content at
// all (vendor sheets use them as separators) are dropped.
func ParseSheet(reader io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "opening spreadsheet")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "spreadsheet has no sheets")
	}

	raw, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("reading sheet %q", sheets[0]))
	}
	if len(raw) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "spreadsheet is empty")
	}

	headers := make([]string, len(raw[0]))
	for i, header := range raw[0] {
		headers[i] = Normalize(header)
	}

	rows := make([]Row, 0, len(raw)-1)
	for _, cells := range raw[1:] {
		if blankCells(cells) {
			continue
		}
		row := make(Row, len(headers))
		for i, key := range headers {
			if key == "" {
				continue
			}
			if i < len(cells) {
				row[key] = cells[i]
			} else {
				row[key] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func blankCells(cells []string) bool {
	for _, cell := range cells {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
