package aitime

import (
	"strings"
	"time"

	"github.com/go-playground/locales"
	caLocale "github.com/go-playground/locales/ca"
	esLocale "github.com/go-playground/locales/es"
)

// SentinelValue fills every text field of an unresolved or undefined result.
const SentinelValue = "sin_definir"

// ISOLayout is RFC 3339 with a numeric offset, so UTC renders as +00:00.
const ISOLayout = "2006-01-02T15:04:05-07:00"

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

var translators = map[Language]locales.Translator{
	LanguageSpanish: esLocale.New(),
	LanguageCatalan: caLocale.New(),
}

// weekendNames lists the weekend day names per language, with and without diacritics.
var weekendNames = map[Language][]string{
	LanguageSpanish: {"sábado", "sabado", "domingo"},
	LanguageCatalan: {"dissabte", "diumenge"},
}

// Result is the boundary rendering of an Outcome.
type Result struct {
	Date      string `json:"fecha_resuelta"`
	Weekday   string `json:"dia_semana"`
	Time      string `json:"hora"`
	ISO       string `json:"iso_datetime"`
	IsWeekend bool   `json:"es_finde"`
	IsPast    bool   `json:"es_pasado"`
}

// Assemble renders outcome for the wire. Non-resolved outcomes render the
// sentinel in every text field and false flags.
func Assemble(outcome Outcome, ref time.Time) Result {
	if outcome.Kind != Resolved {
		return Result{
			Date:    SentinelValue,
			Weekday: SentinelValue,
			Time:    SentinelValue,
			ISO:     SentinelValue,
		}
	}

	t := outcome.Moment.Time
	name := weekdayName(t.Weekday(), outcome.Language)
	return Result{
		Date:      t.Format(dateLayout),
		Weekday:   name,
		Time:      t.Format(timeLayout),
		ISO:       t.Format(ISOLayout),
		IsWeekend: isWeekendName(name, outcome.Language),
		IsPast:    t.Before(ref),
	}
}

// weekdayName returns the lowercase weekday name in lang, Spanish by default.
func weekdayName(wd time.Weekday, lang Language) string {
	tr, ok := translators[lang]
	if !ok {
		tr = translators[LanguageSpanish]
	}
	return strings.ToLower(tr.WeekdayWide(wd))
}

func isWeekendName(name string, lang Language) bool {
	name = strings.ToLower(name)
	names, ok := weekendNames[lang]
	if !ok {
		names = weekendNames[LanguageSpanish]
	}
	for _, w := range names {
		if strings.Contains(name, w) {
			return true
		}
	}
	return false
}
