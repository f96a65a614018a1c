package services

import "testing"

func TestFormatMXN_Values(t *testing.T) {
	tests := []struct {
		name   string
		input  float64
		expect string
	}{
		{"zero", 0, "$0.00"},
		{"small integer", 5, "$5.00"},
		{"with decimals", 42.50, "$42.50"},
		{"hundreds", 999.99, "$999.99"},
		{"thousands", 5750, "$5,750.00"},
		{"ten thousands", 12345.00, "$12,345.00"},
		{"hundred thousands", 123456.78, "$123,456.78"},
		{"millions", 1234567.89, "$1,234,567.89"},
		{"negative discount", -150, "-$150.00"},
		{"exact thousand boundary", 1000, "$1,000.00"},
		{"exact million boundary", 1000000, "$1,000,000.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatMXN(tt.input)
			if got != tt.expect {
				t.Errorf("FormatMXN(%v) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

func TestGroupThousands(t *testing.T) {
	tests := []struct {
		input  string
		expect string
	}{
		{"1", "1"},
		{"123", "123"},
		{"1234", "1,234"},
		{"123456", "123,456"},
		{"1234567", "1,234,567"},
	}
	for _, tt := range tests {
		if got := groupThousands(tt.input); got != tt.expect {
			t.Errorf("groupThousands(%q) = %q, want %q", tt.input, got, tt.expect)
		}
	}
}

func TestAmountToWordsMXN(t *testing.T) {
	tests := []struct {
		amount float64
		expect string
	}{
		{0, "CERO PESOS 00/100 M.N."},
		{1, "UN PESO 00/100 M.N."},
		{21, "VEINTIÚN PESOS 00/100 M.N."},
		{100, "CIEN PESOS 00/100 M.N."},
		{101, "CIENTO UN PESOS 00/100 M.N."},
		{680, "SEISCIENTOS OCHENTA PESOS 00/100 M.N."},
		{950.5, "NOVECIENTOS CINCUENTA PESOS 50/100 M.N."},
		{1000, "MIL PESOS 00/100 M.N."},
		{5750, "CINCO MIL SETECIENTOS CINCUENTA PESOS 00/100 M.N."},
		{21000, "VEINTIÚN MIL PESOS 00/100 M.N."},
		{31416.99, "TREINTA Y UN MIL CUATROCIENTOS DIECISÉIS PESOS 99/100 M.N."},
		{1000000, "UN MILLÓN DE PESOS 00/100 M.N."},
		{2500000, "DOS MILLONES QUINIENTOS MIL PESOS 00/100 M.N."},
		{-150, "MENOS CIENTO CINCUENTA PESOS 00/100 M.N."},
	}
	for _, tt := range tests {
		t.Run(FormatMXN(tt.amount), func(t *testing.T) {
			if got := AmountToWordsMXN(tt.amount); got != tt.expect {
				t.Errorf("AmountToWordsMXN(%v) = %q, want %q", tt.amount, got, tt.expect)
			}
		})
	}
}
