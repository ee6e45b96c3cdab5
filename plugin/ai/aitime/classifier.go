package aitime

import (
	"regexp"
	"strings"
)

// temporalKeywordPattern matches any bilingual temporal keyword on the folded expression.
var temporalKeywordPattern = regexp.MustCompile(`\b(?:` +
	weekdayAlternation + `|` +
	`hoy|manana|ayer|anteayer|avui|dema|ahir|abans d'ahir|` +
	`semana|semanas|setmana|setmanes|mes|meses|mesos|ano|anos|any|anys|` +
	`finde|fin de semana|cap de setmana|` +
	`proximo|proxima|siguiente|que viene|que ve|vinent|propera|proper|` +
	`enero|febrero|marzo|abril|mayo|junio|julio|agosto|septiembre|setiembre|octubre|noviembre|diciembre|` +
	`gener|febrer|marc|maig|juny|juliol|agost|setembre|novembre|desembre|` +
	`mediodia|medianoche|migdia|mitjanit` +
	`)\b|\b(?:en|dentro de|d'aqui a|al cap de)\s+(?:\d+|un|una|dos|tres|quatre|cuatro|cinco|cinc)\s+(?:dias?|dies|horas?|hores|minutos?|minuts?)\b`)

// greetings are pure courtesy phrases that carry no temporal content.
var greetings = map[string]struct{}{
	"hola":            {},
	"holaa":           {},
	"buenas":          {},
	"buenos dias":     {},
	"buen dia":        {},
	"buenas tardes":   {},
	"buenas noches":   {},
	"hola buenas":     {},
	"que tal":         {},
	"gracias":         {},
	"muchas gracias":  {},
	"adios":           {},
	"hasta luego":     {},
	"vale":            {},
	"ok":              {},
	"okey":            {},
	"si":              {},
	"no":              {},
	"perfecto":        {},
	"de acuerdo":      {},
	"hey":             {},
	"hello":           {},
	"hi":              {},
	"bon dia":         {},
	"bona tarda":      {},
	"bona nit":        {},
	"bones":           {},
	"adeu":            {},
	"gracies":         {},
	"moltes gracies":  {},
	"merci":           {},
	"d'acord":         {},
	"fins despres":    {},
	"que tal estas":   {},
	"com estas":       {},
	"como estas":      {},
	"hola que tal":    {},
	"hola, que tal":   {},
	"hola, buenas":    {},
	"buenas, que tal": {},
}

// IsTemporallyClear reports whether the expression may carry temporal content.
//
// A temporal keyword always wins, even next to a greeting. A pure greeting
// returns false. Anything else returns true and defers to later stages.
func IsTemporallyClear(expression string) bool {
	folded := fold(expression)
	if folded == "" {
		return false
	}
	if temporalKeywordPattern.MatchString(folded) {
		return true
	}
	if _, ok := greetings[trimCourtesy(folded)]; ok {
		return false
	}
	return true
}

// trimCourtesy drops one trailing '.', '!' or '?' and a leading '¡' or '¿'.
func trimCourtesy(s string) string {
	s = strings.TrimPrefix(s, "¡")
	s = strings.TrimPrefix(s, "¿")
	if n := len(s); n > 0 {
		switch s[n-1] {
		case '.', '!', '?':
			s = s[:n-1]
		}
	}
	return strings.TrimSpace(s)
}
