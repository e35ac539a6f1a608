package classification

import (
	"strings"

	"clasificador/domain/vocabulary"
)

// Validator checks every classification field against the registry and replaces
// anything missing, mistyped or out of vocabulary with the field default.
type Validator struct {
	registry *vocabulary.Registry
	fields   vocabulary.FieldMap
	keys     []string
}

// NewValidator builds a validator over the given registry and field map.
func NewValidator(registry *vocabulary.Registry, fields vocabulary.FieldMap) *Validator {
	return &Validator{
		registry: registry,
		fields:   fields,
		keys:     vocabulary.ClassificationKeys,
	}
}

// Validate returns a value for every classification key. It never fails; the only
// side effect is appending warnings to log.
func (v *Validator) Validate(raw RawClassification, log *LogEntries) Validated {
	out := make(Validated, len(v.keys))
	for _, display := range v.keys {
		internal := v.fields.InternalKeyFor(display)
		def := v.defaultFor(display)
		val := raw.Lookup(internal)

		switch {
		case !val.Present():
			out[display] = def
		case val.Kind != KindString:
			log.Appendf("[!] ADVERTENCIA: Campo '%s'. Valor de IA '%s' (tipo %s) NO ES VÁLIDO. Usando '%s'.",
				display, val.String(), val.Kind, def)
			out[display] = def
		default:
			norm := strings.ToUpper(strings.TrimSpace(val.Str))
			if len(v.registry.AdmissibleValues(internal)) > 0 && v.registry.IsAdmissible(internal, norm) {
				out[display] = norm
				continue
			}
			log.Appendf("[!] ADVERTENCIA: Campo '%s'. Valor de IA '%s' NO VÁLIDO. Usando '%s'.",
				display, val.Str, def)
			out[display] = def
		}
	}
	return out
}

func (v *Validator) defaultFor(display string) string {
	if d := v.registry.DefaultFor(display); d != "" {
		return d
	}
	return vocabulary.NoEspecificado
}
