package seeder

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Workbook is an in-memory view of a multi-sheet Excel file. Sheet and header
// lookups are case-insensitive and headers are normalized with trim + lower
// before any parser sees them.
type Workbook struct {
	sheets map[string]*Sheet
	names  []string
}

// Sheet holds the parsed rows of one worksheet.
type Sheet struct {
	Name    string
	headers []string
	rows    []Row
}

// OpenWorkbook reads the full workbook into memory.
func OpenWorkbook(r io.Reader) (*Workbook, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer file.Close()

	wb := &Workbook{sheets: make(map[string]*Sheet)}
	for _, name := range file.GetSheetList() {
		rows, err := file.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("reading sheet %q: %w", name, err)
		}
		sheet := buildSheet(name, rows)
		wb.sheets[normalizeKey(name)] = sheet
		wb.names = append(wb.names, name)
	}
	return wb, nil
}

// NewWorkbookFromRows builds a workbook directly from cell data, used by tests.
func NewWorkbookFromRows(sheets map[string][][]string) *Workbook {
	wb := &Workbook{sheets: make(map[string]*Sheet)}
	for name, rows := range sheets {
		wb.sheets[normalizeKey(name)] = buildSheet(name, rows)
		wb.names = append(wb.names, name)
	}
	return wb
}

// Sheet returns the named worksheet. Missing sheets are not an error.
func (w *Workbook) Sheet(name string) (*Sheet, bool) {
	sheet, ok := w.sheets[normalizeKey(name)]
	return sheet, ok
}

// SheetNames lists the worksheets in file order.
func (w *Workbook) SheetNames() []string {
	return w.names
}

func buildSheet(name string, raw [][]string) *Sheet {
	sheet := &Sheet{Name: name}
	if len(raw) == 0 {
		return sheet
	}

	headers := make([]string, len(raw[0]))
	for i, header := range raw[0] {
		headers[i] = normalizeKey(header)
	}
	sheet.headers = headers

	for _, cells := range raw[1:] {
		row := Row{columns: make(map[string]string, len(headers))}
		empty := true
		for i, header := range headers {
			if header == "" {
				continue
			}
			value := ""
			if i < len(cells) {
				value = cells[i]
			}
			row.columns[header] = value
			if strings.TrimSpace(value) != "" {
				empty = false
			}
		}
		if empty {
			continue
		}
		sheet.rows = append(sheet.rows, row)
	}
	return sheet
}

// Rows returns the data rows below the header.
func (s *Sheet) Rows() []Row {
	return s.rows
}

// HasColumn reports whether the header row contains the normalized column.
func (s *Sheet) HasColumn(name string) bool {
	key := normalizeKey(name)
	for _, header := range s.headers {
		if header == key {
			return true
		}
	}
	return false
}

func normalizeKey(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
