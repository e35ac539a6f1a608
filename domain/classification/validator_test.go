package classification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clasificador/domain/vocabulary"
)

func newTestValidator() *Validator {
	return NewValidator(vocabulary.Default(), vocabulary.DefaultFieldMap())
}

func TestValidate_TotalCoverage(t *testing.T) {
	v := newTestValidator()
	log := NewLogEntries()

	out := v.Validate(RawClassification{}, log)

	require.Len(t, out, len(vocabulary.ClassificationKeys))
	for _, k := range vocabulary.ClassificationKeys {
		assert.Equal(t, vocabulary.Default().DefaultFor(k), out[k], k)
	}
	assert.Zero(t, log.Len(), "absent fields substitute silently")
}

func TestValidate_AcceptsNormalizedValues(t *testing.T) {
	v := newTestValidator()
	log := NewLogEntries()

	out := v.Validate(RawClassification{
		vocabulary.KeyCalificacion: StringValue("  robo "),
		vocabulary.KeyArma:         StringValue("Fuego"),
		vocabulary.KeyJurisdiccion: StringValue("san miguel"),
		vocabulary.KeyTentativa:    StringValue("SI"),
	}, log)

	assert.Equal(t, "ROBO", out["CALIFICACIÓN"])
	assert.Equal(t, "FUEGO", out["ARMAS"])
	assert.Equal(t, "SAN MIGUEL", out["JURISDICCIÓN"])
	assert.Equal(t, "SI", out["TENTATIVA"])
	assert.Zero(t, log.Len())
}

func TestValidate_Membership(t *testing.T) {
	v := newTestValidator()
	fm := vocabulary.DefaultFieldMap()
	reg := vocabulary.Default()

	raw := RawClassification{}
	for _, k := range vocabulary.ClassificationKeys {
		raw[fm.InternalKeyFor(k)] = StringValue("garbage " + k)
	}
	out := v.Validate(raw, NewLogEntries())

	for k, val := range out {
		assert.True(t, reg.IsAdmissible(fm.InternalKeyFor(k), val), "%s=%q not admissible", k, val)
	}
}

func TestValidate_DefaultSubstitutionWarns(t *testing.T) {
	v := newTestValidator()
	log := NewLogEntries()

	out := v.Validate(RawClassification{vocabulary.KeyCalificacion: StringValue("BANANA")}, log)

	assert.Equal(t, vocabulary.NingunoDeInteres, out["CALIFICACIÓN"])
	require.Equal(t, 1, log.Len())
	line := log.Lines()[0]
	assert.Contains(t, line, "CALIFICACIÓN")
	assert.Contains(t, line, "BANANA")
	assert.Contains(t, line, vocabulary.NingunoDeInteres)
}

func TestValidate_TypeRejection(t *testing.T) {
	v := newTestValidator()

	t.Run("number warns", func(t *testing.T) {
		log := NewLogEntries()
		out := v.Validate(RawClassification{vocabulary.KeyCalificacion: NumberValue("123")}, log)
		assert.Equal(t, vocabulary.NingunoDeInteres, out["CALIFICACIÓN"])
		require.Equal(t, 1, log.Len())
		assert.Contains(t, log.Lines()[0], "123")
		assert.Contains(t, log.Lines()[0], "number")
	})

	t.Run("null is silent", func(t *testing.T) {
		log := NewLogEntries()
		out := v.Validate(RawClassification{vocabulary.KeyCalificacion: NullValue()}, log)
		assert.Equal(t, vocabulary.NingunoDeInteres, out["CALIFICACIÓN"])
		assert.Zero(t, log.Len())
	})

	t.Run("structured and bool warn", func(t *testing.T) {
		log := NewLogEntries()
		out := v.Validate(RawClassification{
			vocabulary.KeyArma:      StructuredValue(`["FUEGO"]`),
			vocabulary.KeyTentativa: BoolValue(true),
		}, log)
		assert.Equal(t, vocabulary.NoEspecificado, out["ARMAS"])
		assert.Equal(t, vocabulary.No, out["TENTATIVA"])
		assert.Equal(t, 2, log.Len())
	})
}

func TestValidate_EmptyAdmissibleSetRejectsEverything(t *testing.T) {
	reg := vocabulary.NewRegistry(nil, map[string]string{"LUGAR": "X"})
	v := NewValidator(reg, vocabulary.DefaultFieldMap())
	log := NewLogEntries()

	out := v.Validate(RawClassification{vocabulary.KeyLugar: StringValue("FINCA")}, log)

	assert.Equal(t, "X", out["LUGAR"])
	assert.Equal(t, vocabulary.NoEspecificado, out["MODALIDAD"], "missing defaults fall back to NO ESPECIFICADO")
	assert.Equal(t, 1, log.Len())
}

func TestValidate_Deterministic(t *testing.T) {
	v := newTestValidator()
	raw := RawClassification{
		vocabulary.KeyModalidad: StringValue("motochorro"),
		vocabulary.KeyLugar:     StringValue("luna"),
	}
	a := v.Validate(raw, NewLogEntries())
	b := v.Validate(raw, NewLogEntries())
	assert.Equal(t, a, b)
}

func TestValidate_NilLog(t *testing.T) {
	v := newTestValidator()
	assert.NotPanics(t, func() {
		v.Validate(RawClassification{vocabulary.KeyLugar: StringValue("luna")}, nil)
	})
}
