package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// QuotationSheetRow is one line of the quotations workbook.
type QuotationSheetRow struct {
	ID           string
	Date         string
	Category     string
	CustomerCode string
	Customer     string
	Total        float64
}

// QuotationSheetRows flattens quotations for export. nameOf resolves a
// customer id to its display name; nil leaves the id.
func QuotationSheetRows(qs []Quotation, nameOf func(string) string) []QuotationSheetRow {
	rows := make([]QuotationSheetRow, 0, len(qs))
	for _, q := range qs {
		name := q.CustomerID
		if nameOf != nil {
			name = nameOf(q.CustomerID)
		}
		rows = append(rows, QuotationSheetRow{
			ID:           q.ID,
			Date:         FormatDocDate(q.IssueDate),
			Category:     q.Category.Label(),
			CustomerCode: q.CustomerID,
			Customer:     name,
			Total:        q.Total,
		})
	}
	return rows
}

// GenerateQuotationsExcel writes the quotation list as a single-sheet
// workbook and returns the file contents. Totals are stored as numbers with
// a currency format so the sheet can be summed.
func GenerateQuotationsExcel(title string, rows []QuotationSheetRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Cotizaciones"
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	columns := []string{"A", "B", "C", "D", "E", "F"}
	lastCol := columns[len(columns)-1]
	widths := []float64{30, 12, 22, 18, 40, 16}
	for i, c := range columns {
		if err := f.SetColWidth(sheetName, c, c, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", c, err)
		}
	}

	// ── Styles ──────────────────────────────────────────────────────────

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#00A0B0"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	bodyStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create body style: %w", err)
	}

	moneyFmt := `"$"#,##0.00`
	moneyStyle, err := f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Size: 10},
		Border:       thinBorders(),
		CustomNumFmt: &moneyFmt,
	})
	if err != nil {
		return nil, fmt.Errorf("create money style: %w", err)
	}

	totalStyle, err := f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true, Size: 11},
		CustomNumFmt: &moneyFmt,
	})
	if err != nil {
		return nil, fmt.Errorf("create total style: %w", err)
	}

	// ── Title and headers ───────────────────────────────────────────────

	if title == "" {
		title = "Cotizaciones"
	}
	if err := f.MergeCell(sheetName, "A1", lastCol+"1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(sheetName, "A1", sanitizeExcelCell(title))
	f.SetCellStyle(sheetName, "A1", lastCol+"1", titleStyle)

	headers := []string{"Folio", "Fecha", "Categoría", "Clave cliente", "Cliente", "Total"}
	for i, h := range headers {
		f.SetCellValue(sheetName, columns[i]+"3", h)
	}
	f.SetCellStyle(sheetName, "A3", lastCol+"3", headerStyle)

	// ── Data rows ───────────────────────────────────────────────────────

	row := 4
	for _, r := range rows {
		n := fmt.Sprintf("%d", row)
		f.SetCellValue(sheetName, "A"+n, sanitizeExcelCell(r.ID))
		f.SetCellValue(sheetName, "B"+n, r.Date)
		f.SetCellValue(sheetName, "C"+n, sanitizeExcelCell(r.Category))
		f.SetCellValue(sheetName, "D"+n, sanitizeExcelCell(r.CustomerCode))
		f.SetCellValue(sheetName, "E"+n, sanitizeExcelCell(r.Customer))
		f.SetCellValue(sheetName, "F"+n, r.Total)
		f.SetCellStyle(sheetName, "A"+n, "E"+n, bodyStyle)
		f.SetCellStyle(sheetName, "F"+n, "F"+n, moneyStyle)
		row++
	}

	if len(rows) > 0 {
		n := fmt.Sprintf("%d", row)
		f.SetCellValue(sheetName, "E"+n, "Total:")
		f.SetCellFormula(sheetName, "F"+n, fmt.Sprintf("SUM(F4:F%d)", row-1))
		f.SetCellStyle(sheetName, "E"+n, "F"+n, totalStyle)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +, -,
// @, \t or \r as formulas, which can be abused for code execution or data theft.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns a slice of excelize.Border for thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}
