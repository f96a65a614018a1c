package services

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/cast"
	"github.com/xuri/excelize/v2"
)

// Column headers of the price sheet. Only Clave and Precio are read back.
const (
	sheetColKey   = "Clave"
	sheetColGroup = "Grupo"
	sheetColLabel = "Concepto"
	sheetColPrice = "Precio"
)

// ValidationError represents a single field-level error on one row.
type ValidationError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ImportResult summarises a price sheet upload.
type ImportResult struct {
	TotalRows int               `json:"total_rows"`
	Applied   int               `json:"applied"`
	Errors    []ValidationError `json:"errors"`
	FileName  string            `json:"-"`
}

func (r *ImportResult) OK() bool { return len(r.Errors) == 0 }

var ErrUnsupportedSheet = errors.New("formato no soportado: sube un archivo .csv o .xlsx")

// parseCSV reads a CSV file and returns headers + data rows.
func parseCSV(file io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(allRows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}
	return allRows[0], allRows[1:], nil
}

// parseExcel reads an xlsx file and returns headers + data rows from the first sheet.
func parseExcel(file io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}
	return rows[0], rows[1:], nil
}

// parseSheet picks the parser from the sniffed content, falling back to the
// file extension for plain-text CSV.
func parseSheet(data []byte, fileName string) ([]string, [][]string, error) {
	mt := mimetype.Detect(data)
	lower := strings.ToLower(fileName)
	switch {
	case mt.Is("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"),
		mt.Is("application/zip") && strings.HasSuffix(lower, ".xlsx"):
		return parseExcel(bytes.NewReader(data))
	case mt.Is("text/csv"), strings.HasPrefix(mt.String(), "text/plain") && strings.HasSuffix(lower, ".csv"):
		return parseCSV(bytes.NewReader(data))
	}
	return nil, nil, fmt.Errorf("%w (%s)", ErrUnsupportedSheet, mt.String())
}

// columnIndex maps each known header to its column position. Matching is
// case-insensitive and ignores surrounding spaces.
func columnIndex(headers []string) map[string]int {
	idx := map[string]int{}
	for i, h := range headers {
		norm := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		for _, want := range []string{sheetColKey, sheetColGroup, sheetColLabel, sheetColPrice} {
			if norm == strings.ToLower(want) {
				idx[want] = i
			}
		}
	}
	return idx
}

// parsePrice accepts "1,050.00", "$950" and plain numbers.
func parsePrice(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, errors.New("precio vacío")
	}
	return cast.ToFloat64E(s)
}

// ImportPriceSheet applies the prices in an uploaded CSV or XLSX sheet to a
// copy of base. Every row is checked; when any row fails, the returned list
// is base unchanged and the result lists each failure.
func ImportPriceSheet(base PriceList, data []byte, fileName string) (PriceList, *ImportResult, error) {
	headers, rows, err := parseSheet(data, fileName)
	if err != nil {
		return base, nil, err
	}
	cols := columnIndex(headers)
	keyCol, okKey := cols[sheetColKey]
	priceCol, okPrice := cols[sheetColPrice]
	if !okKey || !okPrice {
		return base, nil, fmt.Errorf("la hoja debe incluir las columnas %q y %q", sheetColKey, sheetColPrice)
	}

	next := base
	result := &ImportResult{FileName: fileName}
	seen := map[string]int{}
	for i, row := range rows {
		rowNum := i + 2
		cell := func(c int) string {
			if c < len(row) {
				return strings.TrimSpace(row[c])
			}
			return ""
		}
		key := cell(keyCol)
		if key == "" && cell(priceCol) == "" {
			continue
		}
		result.TotalRows++

		if prev, dup := seen[key]; dup {
			result.Errors = append(result.Errors, ValidationError{Row: rowNum, Field: sheetColKey,
				Message: fmt.Sprintf("clave repetida (ya aparece en la fila %d)", prev)})
			continue
		}
		seen[key] = rowNum

		price, err := parsePrice(cell(priceCol))
		if err != nil {
			result.Errors = append(result.Errors, ValidationError{Row: rowNum, Field: sheetColPrice,
				Message: fmt.Sprintf("precio inválido %q", cell(priceCol))})
			continue
		}
		if err := next.SetLeaf(key, price); err != nil {
			field, msg := sheetColKey, fmt.Sprintf("clave desconocida %q", key)
			if errors.Is(err, ErrNegativePrice) {
				field, msg = sheetColPrice, "el precio no puede ser negativo"
			}
			result.Errors = append(result.Errors, ValidationError{Row: rowNum, Field: field, Message: msg})
			continue
		}
		result.Applied++
	}

	if !result.OK() {
		return base, result, nil
	}
	return next, result, nil
}

// GeneratePriceSheet writes the price list as an editable workbook, one row
// per priced entry, in the layout ImportPriceSheet reads back.
func GeneratePriceSheet(pl PriceList) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Precios"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#00A0B0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	lockedStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10, Color: "#6B7280"},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create key style: %w", err)
	}
	moneyFmt := `#,##0.00`
	priceStyle, err := f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Size: 10, Bold: true},
		Border:       thinBorders(),
		CustomNumFmt: &moneyFmt,
	})
	if err != nil {
		return nil, fmt.Errorf("create price style: %w", err)
	}

	for i, h := range []string{sheetColKey, sheetColGroup, sheetColLabel, sheetColPrice} {
		c := string(rune('A'+i)) + "1"
		f.SetCellValue(sheet, c, h)
	}
	f.SetCellStyle(sheet, "A1", "D1", headerStyle)
	f.SetColWidth(sheet, "A", "A", 52)
	f.SetColWidth(sheet, "B", "B", 24)
	f.SetColWidth(sheet, "C", "C", 40)
	f.SetColWidth(sheet, "D", "D", 14)

	for i, leaf := range pl.Leaves() {
		n := fmt.Sprintf("%d", i+2)
		f.SetCellValue(sheet, "A"+n, leaf.Path)
		f.SetCellValue(sheet, "B"+n, sanitizeExcelCell(leaf.Group))
		f.SetCellValue(sheet, "C"+n, sanitizeExcelCell(leaf.Label))
		f.SetCellValue(sheet, "D"+n, leaf.Value)
		f.SetCellStyle(sheet, "A"+n, "C"+n, lockedStyle)
		f.SetCellStyle(sheet, "D"+n, "D"+n, priceStyle)
	}

	f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write price sheet: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateErrorReport creates a downloadable .xlsx file from validation errors.
func GenerateErrorReport(errs []ValidationError) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Errores"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DC2626"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    thinBorders(),
	})

	f.SetCellValue(sheet, "A1", "Fila")
	f.SetCellValue(sheet, "B1", "Campo")
	f.SetCellValue(sheet, "C1", "Error")
	f.SetCellStyle(sheet, "A1", "C1", headerStyle)
	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", "B", 22)
	f.SetColWidth(sheet, "C", "C", 55)

	for i, e := range errs {
		row := fmt.Sprintf("%d", i+2)
		f.SetCellValue(sheet, "A"+row, e.Row)
		f.SetCellValue(sheet, "B"+row, e.Field)
		f.SetCellValue(sheet, "C"+row, sanitizeExcelCell(e.Message))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write error report: %w", err)
	}
	return buf.Bytes(), nil
}
