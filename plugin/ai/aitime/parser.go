package aitime

import (
	"context"
	"log/slog"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules"
	"github.com/olebedev/when/rules/common"

	"github.com/hrygo/fechador/plugin/ai/aitime/rules/es"
)

// matchDistance is the widest gap, in bytes, between rule matches that still
// belong to one expression ("el viernes por la tarde a las 7").
const matchDistance = 20

// BaseParser adapts the olebedev/when parser to Spanish and Catalan input.
type BaseParser struct {
	when       *when.Parser
	translator Translator
}

// NewBaseParser creates a parser. translator may be nil.
func NewBaseParser(translator Translator) *BaseParser {
	w := when.New(&rules.Options{Distance: matchDistance, MatchByOrder: true})
	w.Add(es.All...)
	w.Add(common.All...)
	return &BaseParser{when: w, translator: translator}
}

// Parse resolves expression against ref. The result is in ref's location.
//
// Spanish input is parsed directly. Catalan input goes through the
// substitution table first, then the raw text, then a model translation
// when a translator is configured. The first success wins. The raw text
// comes second because the Spanish rules match Catalan clock tokens
// ("dilluns 15:30") while skipping the Catalan weekday.
func (p *BaseParser) Parse(ctx context.Context, expression string, ref time.Time, lang Language) (time.Time, bool) {
	folded := fold(expression)
	if lang != LanguageCatalan {
		return p.parseFolded(folded, ref)
	}

	if substituted := translateCatalan(folded); substituted != folded {
		if t, ok := p.parseFolded(substituted, ref); ok {
			slog.Debug("catalan expression parsed via substitution", slog.String("substituted", substituted))
			return t, true
		}
	}
	if t, ok := p.parseFolded(folded, ref); ok {
		return t, true
	}

	if p.translator == nil {
		return time.Time{}, false
	}
	translated, err := p.translator.ToSpanish(ctx, expression)
	if err != nil {
		slog.Warn("catalan translation failed", slog.String("error", err.Error()))
		return time.Time{}, false
	}
	slog.Debug("catalan expression translated by model", slog.String("translated", translated))
	return p.parseFolded(fold(translated), ref)
}

func (p *BaseParser) parseFolded(text string, ref time.Time) (time.Time, bool) {
	if text == "" {
		return time.Time{}, false
	}
	res, err := p.when.Parse(text, ref)
	if err != nil {
		slog.Debug("base parser error", slog.String("text", text), slog.String("error", err.Error()))
		return time.Time{}, false
	}
	if res == nil {
		return time.Time{}, false
	}

	t := res.Time.In(ref.Location())
	// A clock set by a rule keeps the reference seconds; drop them.
	if t.Hour() != ref.Hour() || t.Minute() != ref.Minute() {
		t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, t.Location())
	}
	return t, true
}
