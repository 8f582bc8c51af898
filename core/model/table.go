package model

// Table is a loosely typed tabular input as it arrives from CSV or the HTTP
// API: a header list plus one string map per row. The normalizer turns a
// roster Table into typed Train records, applying schema defaults for columns
// that are missing entirely.
type Table struct {
	Columns []string
	Rows    []Row
}

// Row maps column name to the raw cell value.
type Row map[string]string

// Has reports whether the table carries the named column.
func (t *Table) Has(col string) bool {
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// Get returns the cell for col in row i, or "" when absent.
func (t *Table) Get(i int, col string) string {
	if i < 0 || i >= len(t.Rows) {
		return ""
	}
	return t.Rows[i][col]
}
