package mockdata

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	units = []string{"", "UNO", "DOS", "TRES", "CUATRO", "CINCO", "SEIS", "SIETE", "OCHO", "NUEVE",
		"DIEZ", "ONCE", "DOCE", "TRECE", "CATORCE", "QUINCE", "DIECISÉIS", "DIECISIETE", "DIECIOCHO", "DIECINUEVE",
		"VEINTE", "VEINTIUNO", "VEINTIDÓS", "VEINTITRÉS", "VEINTICUATRO", "VEINTICINCO", "VEINTISÉIS",
		"VEINTISIETE", "VEINTIOCHO", "VEINTINUEVE"}
	tens     = []string{"", "", "", "TREINTA", "CUARENTA", "CINCUENTA", "SESENTA", "SETENTA", "OCHENTA", "NOVENTA"}
	hundreds = []string{"", "CIENTO", "DOSCIENTOS", "TRESCIENTOS", "CUATROCIENTOS", "QUINIENTOS",
		"SEISCIENTOS", "SETECIENTOS", "OCHOCIENTOS", "NOVECIENTOS"}
)

// AmountInWords monto en letras como lo imprime el DTE: "CIENTO TRECE 50/100 USD".
func AmountInWords(amount decimal.Decimal) string {
	amount = amount.Abs().Round(2)
	whole := amount.IntPart()
	cents := amount.Sub(decimal.NewFromInt(whole)).Mul(decimal.NewFromInt(100)).IntPart()
	return fmt.Sprintf("%s %02d/100 USD", intToWords(whole), cents)
}

func intToWords(n int64) string {
	switch {
	case n == 0:
		return "CERO"
	case n >= 1_000_000:
		millions := n / 1_000_000
		head := "UN MILLÓN"
		if millions > 1 {
			head = intToWords(millions) + " MILLONES"
		}
		return join(head, below(n%1_000_000))
	default:
		return below(n)
	}
}

// below números menores a un millón; "" para cero.
func below(n int64) string {
	if n >= 1000 {
		thousands := n / 1000
		head := "MIL"
		if thousands > 1 {
			head = underThousand(thousands) + " MIL"
		}
		return join(head, underThousand(n%1000))
	}
	return underThousand(n)
}

func underThousand(n int64) string {
	if n == 100 {
		return "CIEN"
	}
	h, rest := n/100, n%100
	var tail string
	switch {
	case rest < 30:
		tail = units[rest]
	case rest%10 == 0:
		tail = tens[rest/10]
	default:
		tail = tens[rest/10] + " Y " + units[rest%10]
	}
	return join(hundreds[h], tail)
}

func join(parts ...string) string {
	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}
