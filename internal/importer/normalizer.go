package importer

import "strings"

// Normalize lowercases and trims free text. Blank cells stay blank.
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// Row is one spreadsheet row keyed by normalized header name. Headers absent
// from the sheet simply miss from the map, which readers treat as "no value".
type Row map[string]string

// Get returns the cell stored under the canonical header key, trimmed.
// Missing headers and blank cells both come back as the empty string.
func (r Row) Get(key string) string {
	return strings.TrimSpace(r[Normalize(key)])
}

// Has reports whether the sheet carried the header at all.
func (r Row) Has(key string) bool {
	_, ok := r[Normalize(key)]
	return ok
}
