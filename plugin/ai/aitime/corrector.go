package aitime

import (
	"regexp"
	"strconv"
	"time"
)

var (
	// weekdayReferencePattern matches a weekday name. The article is optional:
	// a bare "lunes" names the same day as "el lunes".
	weekdayReferencePattern = regexp.MustCompile(`\b(?:(?:el|este|al|del|proximo|aquest|proper)\s+)?(?:` +
		weekdayAlternation + `)\b`)

	// dayCountPattern matches phrases that name an offset instead of a weekday.
	dayCountPattern = regexp.MustCompile(`\b(?:en|dentro de|d'aqui a|al cap de)\s+` +
		`(?:\d+|un|una|dos|dues|tres|cuatro|quatre|cinco|cinc|seis|sis|siete|set)\s+` +
		`(?:dias?|dies|semanas?|setmanes?)\b|` +
		`\bun (?:par|parell) de dies?\b|\bun par de dias\b|` +
		`\b(?:pasado manana|dema passat|passat dema)\b`)

	// explicitTimePattern matches any token that states a clock time.
	explicitTimePattern = regexp.MustCompile(`\b(?:a|sobre|hacia|cap a)\s+(?:la|las|les)\s+(?:\d{1,2}|` + hourWordAlternation + `)\b|` +
		`\b\d{1,2}[:.h]\d{2}\b|\b\d{1,2}\s*(?:h|hs|horas?|hores)\b|` +
		`\b(?:mediodia|medianoche|migdia|mitjanit)\b|\b(?:am|pm)\b`)

	// ambiguousHourPattern captures H in "a las H" / "a les H".
	ambiguousHourPattern = regexp.MustCompile(`\b(?:a|sobre|hacia|cap a)\s+(?:la|las|les)\s+(\d{1,2}|` + hourWordAlternation + `)\b`)

	// morningQualifierPattern matches qualifiers that pin an hour to the morning.
	morningQualifierPattern = regexp.MustCompile(`\b(?:de la manana|por la manana|de la madrugada|del mati|de la matinada|am)\b|\ba\.m\.`)
)

const hourWordAlternation = `una|dos|dues|tres|cuatro|quatre|cinco|cinc|seis|sis|siete|set|ocho|vuit|nueve|nou|diez|deu|once|onze|doce|dotze`

var hourWords = map[string]int{
	"una": 1, "dos": 2, "dues": 2, "tres": 3, "cuatro": 4, "quatre": 4,
	"cinco": 5, "cinc": 5, "seis": 6, "sis": 6, "siete": 7, "set": 7,
	"ocho": 8, "vuit": 8, "nueve": 9, "nou": 9, "diez": 10, "deu": 10,
	"once": 11, "onze": 11, "doce": 12, "dotze": 12,
}

// Correction names one corrector rule.
type Correction string

const (
	CorrectionPastWeekday   Correction = "past_weekday"
	CorrectionDefaultHour   Correction = "default_hour"
	CorrectionAmbiguousHour Correction = "ambiguous_hour"
	CorrectionMorningWindow Correction = "morning_window"
)

// Corrector applies the policy's business rules to a parser candidate.
type Corrector struct {
	policy Policy
}

// NewCorrector creates a corrector for policy.
func NewCorrector(policy Policy) *Corrector {
	return &Corrector{policy: policy}
}

// Correct normalizes candidate. The returned moment has provenance
// "corrected" when any rule changed it and "parser" otherwise.
func (c *Corrector) Correct(candidate, ref time.Time, expression string) Moment {
	m, _ := c.correct(candidate, ref, expression)
	return m
}

// correct also returns the rules that fired, in order.
func (c *Corrector) correct(candidate, ref time.Time, expression string) (Moment, []Correction) {
	folded := fold(expression)
	t := candidate
	var applied []Correction

	if c.policy.CorrectPastWeekdays && t.Before(ref) &&
		weekdayReferencePattern.MatchString(folded) && !dayCountPattern.MatchString(folded) {
		days := ((int(t.Weekday())-int(ref.Weekday()))%7 + 7) % 7
		if days == 0 {
			days = 7
		}
		t = time.Date(ref.Year(), ref.Month(), ref.Day()+days, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
		applied = append(applied, CorrectionPastWeekday)
	}

	if c.policy.AssignDefaultHour && t.Hour() == 0 && t.Minute() == 0 && !explicitTimePattern.MatchString(folded) {
		t = atHour(t, c.policy.DefaultHour, 0)
		applied = append(applied, CorrectionDefaultHour)
	}

	if c.policy.PromoteAmbiguousHour && !morningQualifierPattern.MatchString(folded) {
		if h, ok := ambiguousHour(folded); ok && h >= 1 && h <= c.policy.AmbiguousHourPMThreshold && t.Hour() == h {
			t = atHour(t, h+12, t.Minute())
			applied = append(applied, CorrectionAmbiguousHour)
		}
	}

	if c.policy.MorningWindow && t.Hour() >= 10 && t.Hour() < 14 && t.Weekday() != c.policy.MorningWindowWeekday {
		if pushed := atHour(t, c.policy.DefaultHour, 0); !pushed.Equal(t) {
			t = pushed
			applied = append(applied, CorrectionMorningWindow)
		}
	}

	provenance := ProvenanceParser
	if !t.Equal(candidate) {
		provenance = ProvenanceCorrected
	}
	return Moment{Time: t, Provenance: provenance}, applied
}

func ambiguousHour(folded string) (int, bool) {
	m := ambiguousHourPattern.FindStringSubmatch(folded)
	if m == nil {
		return 0, false
	}
	if h, err := strconv.Atoi(m[1]); err == nil {
		return h, true
	}
	h, ok := hourWords[m[1]]
	return h, ok
}
