package aitime

import (
	"strings"
	"text/template"
	"time"
)

// Sentinel is the token the model answers with when an expression has no date.
const Sentinel = "SIN_DEFINIR"

var fallbackPrompt = template.Must(template.New("fallback").Parse(
	`Eres un resolutor de expresiones temporales en español y catalán.
Fecha y hora de referencia: {{.Reference}} ({{.Weekday}}), zona horaria {{.Zone}}.

Reglas:
- Devuelve una única fecha y hora en formato ISO 8601 con desfase horario, por ejemplo {{.Example}}.
- Nunca devuelvas una fecha anterior a la referencia cuando la expresión nombre un día de la semana; usa la próxima ocurrencia.
- "La semana que viene" o "la próxima semana" significa al menos 7 días después de la referencia.
- Para "en N días" o "dentro de N días" suma los días exactos, aunque caigan en fin de semana.
- Si no se indica hora, usa las {{printf "%02d" .DefaultHour}}:00.
- Una hora sin "de la mañana" entre la 1 y las {{.PMThreshold}} se interpreta por la tarde.
{{- if .WeekendSkip}}
- Si hoy es viernes y la expresión pide el próximo sábado o domingo, devuelve el lunes siguiente.
{{- end}}
- Si la expresión no contiene ninguna fecha, responde exactamente {{.Sentinel}}.
- Responde solo con la fecha o con {{.Sentinel}}, sin texto adicional.

Expresión: {{.Expression}}`))

type fallbackPromptData struct {
	Reference   string
	Weekday     string
	Zone        string
	Example     string
	DefaultHour int
	PMThreshold int
	WeekendSkip bool
	Sentinel    string
	Expression  string
}

// renderFallbackPrompt builds the deterministic fallback prompt.
func renderFallbackPrompt(expression string, ref time.Time, policy Policy) (string, error) {
	data := fallbackPromptData{
		Reference:   ref.Format(ISOLayout),
		Weekday:     weekdayName(ref.Weekday(), LanguageSpanish),
		Zone:        ref.Location().String(),
		Example:     atHour(ref, policy.DefaultHour, 0).Format(ISOLayout),
		DefaultHour: policy.DefaultHour,
		PMThreshold: policy.AmbiguousHourPMThreshold,
		WeekendSkip: policy.WeekendSkip,
		Sentinel:    Sentinel,
		Expression:  expression,
	}
	var b strings.Builder
	if err := fallbackPrompt.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}
