package aitime

import (
	"context"
	"regexp"
	"strings"

	"github.com/hrygo/fechador/plugin/ai"
	"github.com/hrygo/fechador/plugin/ai/timeout"
)

// Translator turns a Catalan expression into Spanish.
type Translator interface {
	ToSpanish(ctx context.Context, expression string) (string, error)
}

type substitution struct {
	pattern     *regexp.Regexp
	replacement string
}

// catalanSubstitutions is applied in order, so multiword phrases precede
// the single words they contain.
var catalanSubstitutions = compileSubstitutions([][2]string{
	{"dema passat", "pasado manana"},
	{"passat dema", "pasado manana"},
	{"abans d'ahir", "anteayer"},
	{"d'aqui a", "dentro de"},
	{"al cap de", "dentro de"},
	{"cap de setmana", "fin de semana"},
	{"setmana que ve", "semana que viene"},
	{"setmana vinent", "semana que viene"},
	{"setmana propera", "semana que viene"},
	{"propera setmana", "proxima semana"},
	{"mes que ve", "mes que viene"},
	{"mes vinent", "mes que viene"},
	{"que ve", "que viene"},
	{"cap a les", "hacia las"},
	{"a les", "a las"},
	{"del mati", "de la manana"},
	{"de la matinada", "de la madrugada"},
	{"de la tarda", "de la tarde"},
	{"del vespre", "de la tarde"},
	{"de la nit", "de la noche"},
	{"i mitja", "y media"},
	{"i quart", "y cuarto"},
	{"menys quart", "menos cuarto"},
	{"un parell de", "un par de"},

	{"dilluns", "lunes"},
	{"dimarts", "martes"},
	{"dimecres", "miercoles"},
	{"dijous", "jueves"},
	{"divendres", "viernes"},
	{"dissabte", "sabado"},
	{"diumenge", "domingo"},
	{"dema", "manana"},
	{"avui", "hoy"},
	{"ahir", "ayer"},
	{"migdia", "mediodia"},
	{"mitjanit", "medianoche"},

	{"gener", "enero"},
	{"febrer", "febrero"},
	{"marc", "marzo"},
	{"maig", "mayo"},
	{"juny", "junio"},
	{"juliol", "julio"},
	{"agost", "agosto"},
	{"setembre", "septiembre"},
	{"novembre", "noviembre"},
	{"desembre", "diciembre"},

	{"dies", "dias"},
	{"hores", "horas"},
	{"minuts", "minutos"},
	{"minut", "minuto"},
	{"setmanes", "semanas"},
	{"setmana", "semana"},
	{"mesos", "meses"},
	{"anys", "anos"},
	{"any", "ano"},

	{"vinent", "que viene"},
	{"propera", "proxima"},
	{"proper", "proximo"},
	{"aquest", "este"},
	{"aquesta", "esta"},

	{"dues", "dos"},
	{"quatre", "cuatro"},
	{"cinc", "cinco"},
	{"sis", "seis"},
	{"set", "siete"},
	{"vuit", "ocho"},
	{"nou", "nueve"},
	{"deu", "diez"},
	{"onze", "once"},
	{"dotze", "doce"},
})

func compileSubstitutions(pairs [][2]string) []substitution {
	subs := make([]substitution, len(pairs))
	for i, p := range pairs {
		subs[i] = substitution{
			pattern:     regexp.MustCompile(`\b` + regexp.QuoteMeta(p[0]) + `\b`),
			replacement: p[1],
		}
	}
	return subs
}

// translateCatalan rewrites a folded Catalan expression word by word into Spanish.
func translateCatalan(folded string) string {
	out := folded
	for _, s := range catalanSubstitutions {
		out = s.pattern.ReplaceAllLiteralString(out, s.replacement)
	}
	return out
}

const translationPrompt = "Traduce al español la siguiente expresión temporal en catalán. " +
	"Responde únicamente con la traducción, sin comillas ni explicaciones."

// modelTranslator asks the language model for a Spanish rendering.
type modelTranslator struct {
	llm ai.LLMService
}

// NewModelTranslator returns a Translator backed by llm.
func NewModelTranslator(llm ai.LLMService) Translator {
	return &modelTranslator{llm: llm}
}

func (t *modelTranslator) ToSpanish(ctx context.Context, expression string) (string, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout.TranslationTimeout)
	defer cancel()

	out, err := t.llm.Complete(ctx, ai.CompletionRequest{
		Messages:    ai.FormatMessages(translationPrompt, expression),
		Temperature: 0,
		MaxTokens:   64,
	})
	if err != nil {
		return "", err
	}
	return cleanModelText(out), nil
}

// cleanModelText strips code fences, quotes and surrounding whitespace,
// keeping the first non-empty line.
func cleanModelText(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	for _, line := range strings.Split(s, "\n") {
		line = strings.Trim(strings.TrimSpace(line), "`\"'«»“” ")
		if line != "" && line != "text" && line != "json" {
			return line
		}
	}
	return ""
}
