// internal/export/csv.go
package export

import (
	"strings"
)

// CSV encodes records with the fixed column order. The header line is bare;
// every data field is double-quoted; rows are joined with \n.
func CSV(records []Record) ([]byte, error) {
	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	lines := make([]string, 0, len(records)+1)
	lines = append(lines, strings.Join(columns, ","))
	for _, r := range records {
		cells := r.cells()
		quoted := make([]string, len(cells))
		for i, cell := range cells {
			quoted[i] = `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
		}
		lines = append(lines, strings.Join(quoted, ","))
	}
	return []byte(strings.Join(lines, "\n")), nil
}

// WriteCSV encodes the records and writes them to dir under a
// timestamp-suffixed name derived from base.
func WriteCSV(dir, base string, records []Record) (string, error) {
	data, err := CSV(records)
	if err != nil {
		return "", err
	}
	return writeExport(dir, stampedName(base, ".csv"), data)
}
