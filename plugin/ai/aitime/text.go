package aitime

import (
	"strings"
	"sync"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldPool holds transformer chains that strip combining marks.
var foldPool = sync.Pool{
	New: func() any {
		return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	},
}

// fold lowercases s, strips diacritics and collapses whitespace.
// "Miércoles  DEMÀ" becomes "miercoles dema".
func fold(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return s
	}
	s = strings.NewReplacer("’", "'", "`", "'", "l·l", "ll", "l.l", "ll").Replace(s)

	tr := foldPool.Get().(transform.Transformer)
	out, _, err := transform.String(tr, s)
	tr.Reset()
	foldPool.Put(tr)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(out), " ")
}

// weekdayIndex maps folded weekday names (both languages) to their offset from Monday.
var weekdayIndex = map[string]int{
	"lunes":     0,
	"martes":    1,
	"miercoles": 2,
	"jueves":    3,
	"viernes":   4,
	"sabado":    5,
	"domingo":   6,
	"dilluns":   0,
	"dimarts":   1,
	"dimecres":  2,
	"dijous":    3,
	"divendres": 4,
	"dissabte":  5,
	"diumenge":  6,
}

// weekdayAlternation is the regexp alternation of every folded weekday name.
const weekdayAlternation = `lunes|martes|miercoles|jueves|viernes|sabado|domingo|` +
	`dilluns|dimarts|dimecres|dijous|divendres|dissabte|diumenge`

// mondayOffset returns the weekday's distance from Monday (Monday = 0, Sunday = 6).
func mondayOffset(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}
