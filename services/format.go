package services

import (
	"fmt"
	"math"
	"strings"
)

// FormatMXN formats an amount as Mexican pesos with thousands separators and
// exactly two decimals, e.g. $5,750.00.
func FormatMXN(amount float64) string {
	negative := false
	if amount < 0 {
		negative = true
		amount = -amount
	}

	raw := fmt.Sprintf("%.2f", amount)
	parts := strings.SplitN(raw, ".", 2)

	result := "$" + groupThousands(parts[0]) + "." + parts[1]
	if negative {
		result = "-" + result
	}
	return result
}

// groupThousands inserts a comma every three digits from the right.
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	var b strings.Builder
	lead := n % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// AmountToWordsMXN spells an amount the way it is written on Mexican
// invoices: "CINCO MIL SETECIENTOS CINCUENTA PESOS 00/100 M.N.".
func AmountToWordsMXN(amount float64) string {
	if amount < 0 {
		return "MENOS " + AmountToWordsMXN(-amount)
	}

	cents := int64(math.Round(amount * 100))
	pesos := cents / 100
	centavos := cents % 100

	var words string
	switch {
	case pesos == 0:
		words = "CERO PESOS"
	case pesos == 1:
		words = "UN PESO"
	case pesos%1000000 == 0:
		words = spanishWords(pesos) + " DE PESOS"
	default:
		words = spanishWords(pesos) + " PESOS"
	}
	return fmt.Sprintf("%s %02d/100 M.N.", words, centavos)
}

// spanishWords spells n (n > 0) in upper case, with "uno" shortened to "un"
// as it always precedes a noun on a money amount.
func spanishWords(n int64) string {
	var parts []string

	if n >= 1000000 {
		millions := n / 1000000
		if millions == 1 {
			parts = append(parts, "UN MILLÓN")
		} else {
			parts = append(parts, spanishWords(millions)+" MILLONES")
		}
		n %= 1000000
	}

	if n >= 1000 {
		thousands := n / 1000
		if thousands == 1 {
			parts = append(parts, "MIL")
		} else {
			parts = append(parts, under1000(thousands)+" MIL")
		}
		n %= 1000
	}

	if n > 0 {
		parts = append(parts, under1000(n))
	}

	return strings.Join(parts, " ")
}

func under1000(n int64) string {
	if n == 100 {
		return "CIEN"
	}
	var parts []string
	if n >= 100 {
		parts = append(parts, hundreds[n/100])
		n %= 100
	}
	if n > 0 {
		parts = append(parts, under100(n))
	}
	return strings.Join(parts, " ")
}

func under100(n int64) string {
	if n < 30 {
		return units[n]
	}
	result := tensES[n/10]
	if n%10 != 0 {
		result += " Y " + units[n%10]
	}
	return result
}

var units = []string{
	"", "UN", "DOS", "TRES", "CUATRO", "CINCO", "SEIS", "SIETE", "OCHO", "NUEVE",
	"DIEZ", "ONCE", "DOCE", "TRECE", "CATORCE", "QUINCE", "DIECISÉIS", "DIECISIETE",
	"DIECIOCHO", "DIECINUEVE", "VEINTE", "VEINTIÚN", "VEINTIDÓS", "VEINTITRÉS",
	"VEINTICUATRO", "VEINTICINCO", "VEINTISÉIS", "VEINTISIETE", "VEINTIOCHO", "VEINTINUEVE",
}

var tensES = []string{
	"", "", "", "TREINTA", "CUARENTA", "CINCUENTA", "SESENTA", "SETENTA", "OCHENTA", "NOVENTA",
}

var hundreds = []string{
	"", "CIENTO", "DOSCIENTOS", "TRESCIENTOS", "CUATROCIENTOS", "QUINIENTOS",
	"SEISCIENTOS", "SETECIENTOS", "OCHOCIENTOS", "NOVECIENTOS",
}
