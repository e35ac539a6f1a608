package ai

import (
	"fmt"
	"strings"

	"clasificador/domain/vocabulary"
)

// PromptBuilder renders the classification instruction for one narrative.
// The output is a pure function of the narrative and the registry.
type PromptBuilder struct {
	registry *vocabulary.Registry
}

// NewPromptBuilder returns a builder over the given registry.
func NewPromptBuilder(registry *vocabulary.Registry) *PromptBuilder {
	return &PromptBuilder{registry: registry}
}

const promptHeader = `Analiza el siguiente relato delictivo. Identifica la información relevante para las siguientes categorías.
Tu respuesta debe ser estricta y ÚNICAMENTE un objeto JSON. No incluyas ningún otro texto, markdown, preámbulos o explicaciones fuera del JSON.

Relato: "%s"

`

// Field rules are kept in Spanish; the model answers in the vocabulary's language.
var promptRules = []string{
	`Para cada categoría, DEBES seleccionar uno de los valores válidos de la lista proporcionada. Si un valor no se puede determinar con certeza a partir del relato, o el relato no ofrece información para una categoría, DEBES utilizar el valor por defecto "NO ESPECIFICADO" (o "NO" para campos binarios como LESIONADA/TENTATIVA) de la lista de VALORES VÁLIDOS.`,
	`Usa como claves del objeto JSON exactamente los nombres de campo de la lista de VALORES VÁLIDOS.`,
	`Los valores deben ser EXACTOS (MAYÚSCULAS y SIN ACENTOS si el valor en la lista no los tiene, o CON ACENTOS si la lista los tiene).`,
	`Para "CALIFICACION LEGAL", prioriza el delito principal. Si no es de interés, usa "NINGUNO DE INTERÉS".`,
	`Para "ARMA", si no es de fuego o blanca, y se usó un objeto para dañar, clasifica como "IMPROPIA". Si no se menciona arma o no se usó, usa "NO ESPECIFICADO".`,
	`Para "LESIONADA", responde "SI" si el relato menciona lesiones/heridas, "NO" en caso contrario.`,
	`Para "VICTIMA", "IMPUTADO", si hay varios géneros o no se especifica, usa "AMBOS" o "NO ESPECIFICADO" respectivamente.`,
	`Para "MAYOR O MENOR", busca indicios de edad del imputado. Si no se puede determinar, usa "NO ESPECIFICADO".`,
	`Para "JURISDICCION" y "LUGAR", intenta extraer del relato los valores más precisos de las listas dadas.`,
	`Para "TENTATIVA", "SI" si el delito fue intentado pero no consumado, "NO" si fue consumado o no aplica.`,
	`Para "OBSERVACION" y "FRECUENCIA", usa "NO ESPECIFICADO" a menos que el relato brinde información explícita para una de las opciones válidas.`,
}

// Build returns the full prompt for narrative.
func (b *PromptBuilder) Build(narrative string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, promptHeader, narrative)

	sb.WriteString("INSTRUCCIONES CLAVE DE CLASIFICACIÓN:\n")
	for _, rule := range promptRules {
		sb.WriteString("- ")
		sb.WriteString(rule)
		sb.WriteByte('\n')
	}

	sb.WriteString("\nLISTA DE VALORES VÁLIDOS POR CAMPO (elige uno EXACTO, en MAYÚSCULAS):\n")
	for _, key := range b.registry.Fields() {
		values := b.registry.AdmissibleValues(key)
		quoted := make([]string, len(values))
		for i, v := range values {
			quoted[i] = `"` + v + `"`
		}
		fmt.Fprintf(&sb, "%q: [%s]\n", key, strings.Join(quoted, ", "))
	}
	return sb.String()
}

const (
	narrativeStart = `Relato: "`
	narrativeEnd   = "\"\n\nINSTRUCCIONES CLAVE DE CLASIFICACIÓN:"
)

// ExtractNarrative recovers the narrative from a prompt produced by Build. Offline
// classifiers use it since they only see the prompt.
func ExtractNarrative(prompt string) (string, bool) {
	start := strings.Index(prompt, narrativeStart)
	end := strings.LastIndex(prompt, narrativeEnd)
	if start < 0 || end < start+len(narrativeStart) {
		return "", false
	}
	return prompt[start+len(narrativeStart) : end], true
}
