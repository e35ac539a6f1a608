package ai

import (
	"strings"

	"github.com/tidwall/gjson"

	"clasificador/domain/classification"
)

// ExtractJSONObject returns the substring from the first '{' to the last '}'.
// Models wrap their answer in prose or code fences often enough that this is the
// only reliable cut. ok is false when no such span exists.
func ExtractJSONObject(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return "", false
	}
	return text[start : end+1], true
}

// ParseClassification decodes untrusted model text into tagged values. It never
// fails: problems are logged and an empty classification is returned so the
// validator falls back to defaults.
func ParseClassification(text string, log *classification.LogEntries) classification.RawClassification {
	out := classification.RawClassification{}

	obj, ok := ExtractJSONObject(text)
	if !ok {
		log.Append("    [!!!] ERROR: No se encontró un objeto JSON en la respuesta de la IA. Se aplican valores por defecto.")
		return out
	}
	if !gjson.Valid(obj) {
		log.Appendf("    [!!!] ERROR: Falló el parsing JSON de la IA: JSON inválido. Respuesta IA: %s", text)
		return out
	}

	gjson.Parse(obj).ForEach(func(key, value gjson.Result) bool {
		out[key.String()] = rawValueOf(value)
		return true
	})
	return out
}

func rawValueOf(r gjson.Result) classification.RawValue {
	switch r.Type {
	case gjson.String:
		return classification.StringValue(r.Str)
	case gjson.Number:
		return classification.NumberValue(r.Raw)
	case gjson.True:
		return classification.BoolValue(true)
	case gjson.False:
		return classification.BoolValue(false)
	case gjson.JSON:
		return classification.StructuredValue(r.Raw)
	default:
		return classification.NullValue()
	}
}

// EscapeForLog renders a raw model reply on a single quoted log line.
func EscapeForLog(text string) string {
	r := strings.NewReplacer("'", `\'`, "\n", `\n`)
	return r.Replace(text)
}
