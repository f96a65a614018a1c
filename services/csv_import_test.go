package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestParseCSV_Valid(t *testing.T) {
	input := "Clave,Precio\narticulatedUnit.tractorExterior,700\nrigidTruck.torton.enginePrice,500\n"
	headers, rows, err := parseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parseCSV() error = %v", err)
	}
	if len(headers) != 2 {
		t.Errorf("expected 2 headers, got %d", len(headers))
	}
	if len(rows) != 2 {
		t.Errorf("expected 2 data rows, got %d", len(rows))
	}
}

func TestParseCSV_HeaderOnly(t *testing.T) {
	_, _, err := parseCSV(strings.NewReader("Clave,Precio\n"))
	if err == nil {
		t.Fatal("expected error for header-only file")
	}
	if !strings.Contains(err.Error(), "at least one data row") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestParseCSV_Empty(t *testing.T) {
	if _, _, err := parseCSV(strings.NewReader("")); err == nil {
		t.Error("expected error for empty file")
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"950", 950, false},
		{"$1,050.00", 1050, false},
		{" 12.5 ", 12.5, false},
		{"", 0, true},
		{"mil", 0, true},
	}
	for _, tt := range tests {
		got, err := parsePrice(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parsePrice(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("parsePrice(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestImportPriceSheet_CSV(t *testing.T) {
	csv := "Clave,Concepto,Precio\n" +
		"articulatedUnit.tractorExterior,Tractor exterior,700\n" +
		"lightVehicle.packages.pickup.grande.premium,,\"1,400.00\"\n" +
		",,\n"
	got, res, err := ImportPriceSheet(DefaultPriceList(), []byte(csv), "precios.csv")
	if err != nil {
		t.Fatalf("ImportPriceSheet: %v", err)
	}
	if !res.OK() || res.Applied != 2 || res.TotalRows != 2 {
		t.Fatalf("result = %+v", res)
	}
	if got.ArticulatedUnit.TractorExterior != 700 || got.LightVehicle.Packages.Pickup.Grande.Premium != 1400 {
		t.Errorf("prices not applied: %+v", got)
	}
}

func TestImportPriceSheet_RowErrorsKeepBase(t *testing.T) {
	csv := "Clave,Precio\n" +
		"articulatedUnit.tractorExterior,700\n" +
		"articulatedUnit.noExiste,1\n" +
		"rigidTruck.torton.chassisPrice,-5\n" +
		"rigidTruck.torton.engineprice,abc\n" +
		"articulatedUnit.tractorExterior,710\n"
	base := DefaultPriceList()
	got, res, err := ImportPriceSheet(base, []byte(csv), "precios.csv")
	if err != nil {
		t.Fatal(err)
	}
	if got != base {
		t.Error("a sheet with errors must not change the list")
	}
	if len(res.Errors) != 4 {
		t.Fatalf("errors = %+v", res.Errors)
	}
	wantRows := []int{3, 4, 5, 6}
	for i, e := range res.Errors {
		if e.Row != wantRows[i] {
			t.Errorf("error %d row = %d, want %d", i, e.Row, wantRows[i])
		}
	}
	if res.Errors[1].Field != sheetColPrice {
		t.Errorf("negative price should be reported on the price column, got %q", res.Errors[1].Field)
	}
}

func TestImportPriceSheet_MissingColumns(t *testing.T) {
	_, _, err := ImportPriceSheet(DefaultPriceList(), []byte("Concepto,Importe\na,1\n"), "precios.csv")
	if err == nil || !strings.Contains(err.Error(), "Clave") {
		t.Errorf("err = %v", err)
	}
}

func TestImportPriceSheet_Unsupported(t *testing.T) {
	_, _, err := ImportPriceSheet(DefaultPriceList(), minimalPDF, "precios.pdf")
	if !errors.Is(err, ErrUnsupportedSheet) {
		t.Errorf("err = %v, want ErrUnsupportedSheet", err)
	}
}

func TestGeneratePriceSheet_RoundTrip(t *testing.T) {
	pl := DefaultPriceList()
	pl.RigidTruck.Rabon5.Chassis = 333

	data, err := GeneratePriceSheet(pl)
	if err != nil {
		t.Fatalf("GeneratePriceSheet: %v", err)
	}
	f, err := excelize.OpenReader(bytesReader(data))
	if err != nil {
		t.Fatal(err)
	}
	rows, _ := f.GetRows("Precios")
	f.Close()
	if len(rows) != len(pl.Leaves())+1 {
		t.Errorf("rows = %d, want %d", len(rows), len(pl.Leaves())+1)
	}

	got, res, err := ImportPriceSheet(DefaultPriceList(), data, "precios.xlsx")
	if err != nil {
		t.Fatalf("re-import: %v", err)
	}
	if !res.OK() {
		t.Fatalf("re-import errors: %+v", res.Errors)
	}
	if got != pl {
		t.Error("exported sheet should import back to the same list")
	}
}

func TestGenerateErrorReport(t *testing.T) {
	data, err := GenerateErrorReport([]ValidationError{{Row: 3, Field: "Precio", Message: "=HYPERLINK()"}})
	if err != nil {
		t.Fatal(err)
	}
	f, err := excelize.OpenReader(bytesReader(data))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if v, _ := f.GetCellValue("Errores", "C2"); v != "'=HYPERLINK()" {
		t.Errorf("message cell = %q", v)
	}
}
