package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clasificador/domain/classification"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"bare", `{"A":"B"}`, `{"A":"B"}`, true},
		{"prose", "Here it is: {\"A\":\"B\"} thanks", `{"A":"B"}`, true},
		{"fenced", "```json\n{\"A\":{\"x\":1}}\n```", `{"A":{"x":1}}`, true},
		{"none", "no braces here", "", false},
		{"reversed", "} then {", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSONObject(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseClassification_Kinds(t *testing.T) {
	log := classification.NewLogEntries()
	raw := ParseClassification(`Respuesta: {"ARMA":"fuego","N":123,"B":true,"Z":null,"S":["x"],"O":{"k":1}}`, log)

	require.Len(t, raw, 6)
	assert.Equal(t, classification.KindString, raw["ARMA"].Kind)
	assert.Equal(t, "fuego", raw["ARMA"].Str)
	assert.Equal(t, classification.KindNumber, raw["N"].Kind)
	assert.Equal(t, "123", raw["N"].Text)
	assert.Equal(t, classification.KindBool, raw["B"].Kind)
	assert.Equal(t, classification.KindNull, raw["Z"].Kind)
	assert.Equal(t, classification.KindStructured, raw["S"].Kind)
	assert.Equal(t, classification.KindStructured, raw["O"].Kind)
	assert.Zero(t, log.Len())
}

func TestParseClassification_NoBraces(t *testing.T) {
	log := classification.NewLogEntries()
	raw := ParseClassification("Lo siento, no puedo ayudar.", log)

	assert.Empty(t, raw)
	require.Equal(t, 1, log.Len())
	assert.Contains(t, log.Lines()[0], "ERROR")
}

func TestParseClassification_Invalid(t *testing.T) {
	log := classification.NewLogEntries()
	raw := ParseClassification(`{"ARMA": "FUEGO",}`, log)

	assert.Empty(t, raw)
	require.Equal(t, 1, log.Len())
	assert.Contains(t, log.Lines()[0], "Falló el parsing JSON")
	assert.Contains(t, log.Lines()[0], `{"ARMA": "FUEGO",}`)
}

func TestEscapeForLog(t *testing.T) {
	assert.Equal(t, `it\'s\nok`, EscapeForLog("it's\nok"))
}
