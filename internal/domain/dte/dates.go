package dte

import "time"

// DateLayout formato de fecEmi.
const DateLayout = "2006-01-02"

// DateRange rango inclusivo sobre fecEmi. Un extremo vacío no restringe.
type DateRange struct {
	From string
	To   string
}

// NewDateRange construye el rango descartando extremos con formato inválido.
func NewDateRange(from, to string) DateRange {
	return DateRange{From: validDate(from), To: validDate(to)}
}

// SingleDay rango de un solo día.
func SingleDay(day string) DateRange {
	return DateRange{From: day, To: day}
}

func validDate(s string) string {
	if s == "" {
		return ""
	}
	if _, err := time.Parse(DateLayout, s); err != nil {
		return ""
	}
	return s
}

// IsZero sin restricción alguna.
func (r DateRange) IsZero() bool {
	return r.From == "" && r.To == ""
}

// Contains compara como texto: con YYYY-MM-DD el orden lexicográfico es el cronológico.
// Un documento sin fecha nunca entra en un rango con restricción.
func (r DateRange) Contains(date string) bool {
	if r.IsZero() {
		return true
	}
	if date == "" {
		return false
	}
	if r.From != "" && date < r.From {
		return false
	}
	if r.To != "" && date > r.To {
		return false
	}
	return true
}

// Intersect combina dos rangos quedándose con el más restrictivo en cada extremo.
func (r DateRange) Intersect(o DateRange) DateRange {
	out := r
	if o.From != "" && (out.From == "" || o.From > out.From) {
		out.From = o.From
	}
	if o.To != "" && (out.To == "" || o.To < out.To) {
		out.To = o.To
	}
	return out
}

// Day fecha local en formato fecEmi.
func Day(t time.Time) string {
	return t.Format(DateLayout)
}

// Yesterday fecha del día anterior en la zona horaria de now.
func Yesterday(now time.Time) string {
	return Day(now.AddDate(0, 0, -1))
}

// MonthsBack rango [now - months meses, now].
func MonthsBack(now time.Time, months int) DateRange {
	return DateRange{From: Day(now.AddDate(0, -months, 0)), To: Day(now)}
}
