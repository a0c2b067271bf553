// internal/export/excel.go
package export

import (
	"html"
	"strings"
)

// Excel encodes records as an HTML table, which spreadsheet applications
// open directly when saved with an .xls extension.
func Excel(records []Record) ([]byte, error) {
	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	var b strings.Builder
	b.WriteString("<table>\n<thead>\n<tr>")
	for _, h := range columns {
		b.WriteString("<th>")
		b.WriteString(html.EscapeString(h))
		b.WriteString("</th>")
	}
	b.WriteString("</tr>\n</thead>\n<tbody>\n")
	for _, r := range records {
		b.WriteString("<tr>")
		for _, cell := range r.cells() {
			b.WriteString("<td>")
			b.WriteString(html.EscapeString(cell))
			b.WriteString("</td>")
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</tbody>\n</table>\n")
	return []byte(b.String()), nil
}

// WriteExcel encodes the records and writes them to dir under a
// timestamp-suffixed name derived from base.
func WriteExcel(dir, base string, records []Record) (string, error) {
	data, err := Excel(records)
	if err != nil {
		return "", err
	}
	return writeExport(dir, stampedName(base, ".xls"), data)
}
