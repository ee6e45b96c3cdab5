package es

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when/rules"
)

// RelativeDay handles hoy, manana, pasado manana, ayer and anteayer.
// "de la manana" and "por la manana" are time-of-day qualifiers and are ignored.
func RelativeDay(s rules.Strategy) rules.Rule {
	return &rules.F{
		RegExp: regexp.MustCompile(`(?i)(?:^|\W)((?:de|por)\s+la\s+)?` +
			`(pasado\s+manana|antes\s+de\s+ayer|anteayer|manana|hoy|ayer)(?:\W|$)`),
		Applier: func(m *rules.Match, c *rules.Context, o *rules.Options, ref time.Time) (bool, error) {
			if strings.TrimSpace(m.Captures[0]) != "" {
				return false, nil
			}
			if c.Duration != 0 && s != rules.Override {
				return false, nil
			}
			var days int
			switch strings.Join(strings.Fields(m.Captures[1]), " ") {
			case "hoy":
				days = 0
			case "manana":
				days = 1
			case "pasado manana":
				days = 2
			case "ayer":
				days = -1
			case "anteayer", "antes de ayer":
				days = -2
			}
			shift(c, ref, ref.AddDate(0, 0, days))
			return true, nil
		},
	}
}

// Weekday resolves a weekday name inside the current Monday-based week.
// "proximo lunes" moves a non-future weekday to the following week.
func Weekday(s rules.Strategy) rules.Rule {
	return &rules.F{
		RegExp: regexp.MustCompile(`(?i)(?:^|\W)(?:(?:el|este|al|del|para\s+el)\s+)?(proximo\s+)?(` +
			weekdayPattern + `)(?:\W|$)`),
		Applier: func(m *rules.Match, c *rules.Context, o *rules.Options, ref time.Time) (bool, error) {
			if c.Duration != 0 && s != rules.Override {
				return false, nil
			}
			target, ok := WeekdayOffset[strings.TrimSpace(m.Captures[1])]
			if !ok {
				return false, nil
			}
			diff := target - mondayOffset(ref.Weekday())
			if strings.TrimSpace(m.Captures[0]) != "" && diff <= 0 {
				diff += 7
			}
			shift(c, ref, ref.AddDate(0, 0, diff))
			midnight(c)
			return true, nil
		},
	}
}

// MonthDay handles "15 de noviembre" and "15 de noviembre de 2026".
func MonthDay(s rules.Strategy) rules.Rule {
	return &rules.F{
		RegExp: regexp.MustCompile(`(?i)(?:^|\W)(?:el\s+)?(\d{1,2})\s+de\s+(` + monthPattern +
			`)(?:\s+(?:de|del)\s+(\d{4}))?(?:\W|$)`),
		Applier: func(m *rules.Match, c *rules.Context, o *rules.Options, ref time.Time) (bool, error) {
			day, err := strconv.Atoi(m.Captures[0])
			if err != nil {
				return false, nil
			}
			month := MonthNumber[strings.TrimSpace(m.Captures[1])]
			year := ref.Year()
			if y := strings.TrimSpace(m.Captures[2]); y != "" {
				if year, err = strconv.Atoi(y); err != nil {
					return false, nil
				}
			}
			target := time.Date(year, time.Month(month), day,
				ref.Hour(), ref.Minute(), ref.Second(), ref.Nanosecond(), ref.Location())
			if target.Day() != day {
				return false, nil
			}
			shift(c, ref, target)
			midnight(c)
			return true, nil
		},
	}
}

// RelativeCount handles "en 3 dias", "dentro de dos semanas", "en un par de dias".
// The reference time of day is kept for day-sized units.
func RelativeCount(s rules.Strategy) rules.Rule {
	return &rules.F{
		RegExp: regexp.MustCompile(`(?i)(?:^|\W)(?:en|dentro\s+de)\s+(un\s+par\s+de|\d{1,3}|un|` + numberPattern +
			`)\s+(dias?|semanas?|horas?|minutos?|meses|mes|anos?)(?:\W|$)`),
		Applier: func(m *rules.Match, c *rules.Context, o *rules.Options, ref time.Time) (bool, error) {
			count := 2
			if q := strings.Join(strings.Fields(m.Captures[0]), " "); q != "un par de" {
				n, ok := parseNumber(q)
				if !ok {
					return false, nil
				}
				count = n
			}
			var target time.Time
			switch unit := strings.TrimSpace(m.Captures[1]); {
			case strings.HasPrefix(unit, "dia"):
				target = ref.AddDate(0, 0, count)
			case strings.HasPrefix(unit, "semana"):
				target = ref.AddDate(0, 0, 7*count)
			case strings.HasPrefix(unit, "hora"):
				target = ref.Add(time.Duration(count) * time.Hour)
			case strings.HasPrefix(unit, "minuto"):
				target = ref.Add(time.Duration(count) * time.Minute)
			case strings.HasPrefix(unit, "mes"):
				target = ref.AddDate(0, count, 0)
			default:
				target = ref.AddDate(count, 0, 0)
			}
			shift(c, ref, target)
			return true, nil
		},
	}
}

// NextPeriod handles "la semana que viene", "el mes que viene", "el proximo ano"
// and "este fin de semana".
func NextPeriod(s rules.Strategy) rules.Rule {
	return &rules.F{
		RegExp: regexp.MustCompile(`(?i)(?:^|\W)(?:` +
			`(semana|mes|ano)\s+(?:que\s+viene|proxim[oa]|siguiente)|` +
			`(?:proxim[oa]|siguiente)\s+(semana|mes|ano)|` +
			`(fin\s+de\s+semana|finde))(?:\W|$)`),
		Applier: func(m *rules.Match, c *rules.Context, o *rules.Options, ref time.Time) (bool, error) {
			if c.Duration != 0 && s != rules.Override {
				return false, nil
			}
			unit := strings.TrimSpace(m.Captures[0] + m.Captures[1])
			switch {
			case unit == "semana":
				shift(c, ref, ref.AddDate(0, 0, 7))
			case unit == "mes":
				shift(c, ref, ref.AddDate(0, 1, 0))
			case unit == "ano":
				shift(c, ref, ref.AddDate(1, 0, 0))
			case m.Captures[2] != "":
				diff := (5 - mondayOffset(ref.Weekday()) + 7) % 7
				if ref.Weekday() == time.Sunday {
					diff = 0
				}
				shift(c, ref, ref.AddDate(0, 0, diff))
				midnight(c)
			default:
				return false, nil
			}
			return true, nil
		},
	}
}

// NamedHour handles mediodia, medianoche and the "por la manana/tarde/noche" periods.
func NamedHour(s rules.Strategy) rules.Rule {
	return &rules.F{
		RegExp: regexp.MustCompile(`(?i)(?:^|\W)(?:por\s+la\s+(manana|tarde|noche)|(mediodia|medianoche))(?:\W|$)`),
		Applier: func(m *rules.Match, c *rules.Context, o *rules.Options, ref time.Time) (bool, error) {
			switch strings.TrimSpace(m.Captures[1]) {
			case "mediodia":
				setClock(c, 12, 0)
			case "medianoche":
				setClock(c, 0, 0)
			default:
				hour, ok := periodHour[strings.TrimSpace(m.Captures[0])]
				if !ok {
					return false, nil
				}
				setClock(c, hour, 0)
			}
			return true, nil
		},
	}
}

// periodHour is the representative hour of a part of the day.
var periodHour = map[string]int{
	"manana": 9,
	"tarde":  17,
	"noche":  21,
}

// HourMinute handles "a las 7", "a la una y media", "las 8 menos cuarto",
// "a las 10:30h" and "a las 9 de la noche".
func HourMinute(s rules.Strategy) rules.Rule {
	return &rules.F{
		RegExp: regexp.MustCompile(`(?i)(?:^|\W)(?:a\s+|sobre\s+|hacia\s+)?las?\s+(` + numberPattern + `)` +
			`(?:(?::|\.|h)(\d{2}))?(?:\s*(?:h|hs|horas?))?` +
			`(?:\s+y\s+(media|cuarto)|\s+(menos\s+cuarto))?` +
			`(?:\s+(de\s+la\s+manana|por\s+la\s+manana|de\s+la\s+madrugada|de\s+la\s+tarde|por\s+la\s+tarde|` +
			`de\s+la\s+noche|por\s+la\s+noche|am|a\.m\.|pm|p\.m\.))?(?:\W|$)`),
		Applier: func(m *rules.Match, c *rules.Context, o *rules.Options, ref time.Time) (bool, error) {
			hour, ok := parseNumber(m.Captures[0])
			if !ok || hour > 23 {
				return false, nil
			}
			minute := 0
			if mm := m.Captures[1]; mm != "" {
				minute, _ = strconv.Atoi(mm)
			}
			switch strings.TrimSpace(m.Captures[2]) {
			case "media":
				minute = 30
			case "cuarto":
				minute = 15
			}
			if m.Captures[3] != "" {
				hour--
				minute = 45
				if hour < 0 {
					hour = 23
				}
			}
			if minute > 59 {
				return false, nil
			}
			hour = applyQualifier(hour, strings.Join(strings.Fields(m.Captures[4]), " "))
			setClock(c, hour, minute)
			return true, nil
		},
	}
}

// Clock handles bare 24-hour times such as "19:30".
func Clock(s rules.Strategy) rules.Rule {
	return &rules.F{
		RegExp: regexp.MustCompile(`(?i)(?:^|\W)(\d{1,2}):(\d{2})(?:\s*(?:h|hs))?(?:\W|$)`),
		Applier: func(m *rules.Match, c *rules.Context, o *rules.Options, ref time.Time) (bool, error) {
			hour, _ := strconv.Atoi(m.Captures[0])
			minute, _ := strconv.Atoi(m.Captures[1])
			if hour > 23 || minute > 59 {
				return false, nil
			}
			setClock(c, hour, minute)
			return true, nil
		},
	}
}

// applyQualifier converts a 12-hour value using a part-of-day qualifier.
func applyQualifier(hour int, qualifier string) int {
	switch qualifier {
	case "de la tarde", "por la tarde", "pm", "p.m.":
		if hour < 12 {
			hour += 12
		}
	case "de la noche", "por la noche":
		switch {
		case hour == 12:
			hour = 0
		case hour >= 6 && hour < 12:
			hour += 12
		}
	case "de la manana", "por la manana", "de la madrugada", "am", "a.m.":
		if hour == 12 {
			hour = 0
		}
	}
	return hour
}
