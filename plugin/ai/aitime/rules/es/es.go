// Package es is a Spanish rule pack for the olebedev/when parser.
//
// Rules expect lowercase input without diacritics ("miercoles", "manana").
// Weekday names resolve inside the current Monday-based week, so a weekday
// already gone this week yields a past date; callers correct that.
package es

import (
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when/rules"
)

// All holds the rules in application order: date rules first, then parts of
// the day, then explicit clock times, so "a las 7" beats "por la tarde" and
// both beat a date rule's midnight default.
var All = []rules.Rule{
	RelativeDay(rules.Override),
	Weekday(rules.Override),
	MonthDay(rules.Override),
	RelativeCount(rules.Override),
	NextPeriod(rules.Override),
	NamedHour(rules.Override),
	HourMinute(rules.Override),
	Clock(rules.Override),
}

// WeekdayOffset maps weekday names to their distance from Monday.
var WeekdayOffset = map[string]int{
	"lunes":     0,
	"martes":    1,
	"miercoles": 2,
	"jueves":    3,
	"viernes":   4,
	"sabado":    5,
	"domingo":   6,
}

// MonthNumber maps month names to their number.
var MonthNumber = map[string]int{
	"enero":      1,
	"febrero":    2,
	"marzo":      3,
	"abril":      4,
	"mayo":       5,
	"junio":      6,
	"julio":      7,
	"agosto":     8,
	"septiembre": 9,
	"setiembre":  9,
	"octubre":    10,
	"noviembre":  11,
	"diciembre":  12,
}

// NumberWord maps the small spelled-out numbers used in hours and counts.
var NumberWord = map[string]int{
	"un":     1,
	"una":    1,
	"uno":    1,
	"dos":    2,
	"tres":   3,
	"cuatro": 4,
	"cinco":  5,
	"seis":   6,
	"siete":  7,
	"ocho":   8,
	"nueve":  9,
	"diez":   10,
	"once":   11,
	"doce":   12,
}

const (
	weekdayPattern = `lunes|martes|miercoles|jueves|viernes|sabado|domingo`
	monthPattern   = `enero|febrero|marzo|abril|mayo|junio|julio|agosto|septiembre|setiembre|octubre|noviembre|diciembre`
	numberPattern  = `\d{1,2}|una|uno|dos|tres|cuatro|cinco|seis|siete|ocho|nueve|diez|once|doce`
)

// parseNumber reads digits or a number word.
func parseNumber(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	n, ok := NumberWord[s]
	return n, ok
}

// shift records the calendar offset between ref and target on the context.
// AddDate keeps wall-clock time across DST changes; the resulting duration is
// exact for the base instant the parser is called with.
func shift(c *rules.Context, ref, target time.Time) {
	c.Duration = target.Sub(ref)
}

// midnight sets 00:00 unless a time rule already did.
func midnight(c *rules.Context) {
	if c.Hour == nil {
		zero, zeroMin := 0, 0
		c.Hour = &zero
		c.Minute = &zeroMin
	}
}

func setClock(c *rules.Context, hour, minute int) {
	c.Hour = &hour
	c.Minute = &minute
}

func mondayOffset(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}
