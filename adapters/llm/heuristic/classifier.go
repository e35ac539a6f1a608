// Package heuristic is an offline keyword classifier. It answers in the same
// JSON shape as the model providers so its output goes through the same
// validation.
package heuristic

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"clasificador/ai"
	"clasificador/domain/vocabulary"
	"clasificador/internal/textfold"
)

// Classifier applies keyword rules to the narrative embedded in a prompt.
type Classifier struct {
	registry *vocabulary.Registry
}

// NewClassifier creates a keyword classifier over registry.
func NewClassifier(registry *vocabulary.Registry) *Classifier {
	return &Classifier{registry: registry}
}

func (c *Classifier) Provider() string { return "heuristic" }
func (c *Classifier) Model() string    { return "keywords-v1" }

// Classify implements ports.Classifier.
func (c *Classifier) Classify(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	narrative, ok := ai.ExtractNarrative(prompt)
	if !ok {
		narrative = prompt
	}
	out, err := json.Marshal(c.Interpret(narrative))
	if err != nil {
		return "", fmt.Errorf("encode heuristic classification: %w", err)
	}
	return string(out), nil
}

// text is a folded narrative with keyword helpers.
type text string

func (t text) has(keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(string(t), textfold.Fold(k)) {
			return true
		}
	}
	return false
}

func (t text) all(keywords ...string) bool {
	for _, k := range keywords {
		if !t.has(k) {
			return false
		}
	}
	return true
}

// Interpret returns internal key → value for narrative.
func (c *Classifier) Interpret(narrative string) map[string]string {
	t := text(textfold.Fold(narrative))
	out := map[string]string{
		vocabulary.KeyLesionada:   vocabulary.No,
		vocabulary.KeyObservacion: vocabulary.NoEspecificado,
		vocabulary.KeyFrecuencia:  vocabulary.NoEspecificado,
	}

	// Culpable injuries and traffic accidents are out of scope and end the analysis.
	if t.has("lesiones culposas", "lesion culposa", "accidente de transito", "accidente vial") {
		out[vocabulary.KeyCalificacion] = vocabulary.NingunoDeInteres
		return out
	}

	calificacion, modalidad := offense(t)
	out[vocabulary.KeyCalificacion] = calificacion
	out[vocabulary.KeyModalidad] = modalidad
	if calificacion == "LESIONES" {
		out[vocabulary.KeyLesionada] = vocabulary.Si
	}

	out[vocabulary.KeyArma] = weapon(t)
	if out[vocabulary.KeyLesionada] != vocabulary.Si && t.has("lesionada", "herida", "golpeada", "agredida", "sufrio lesiones") {
		out[vocabulary.KeyLesionada] = vocabulary.Si
	}
	out[vocabulary.KeyVictima] = gender(t, "victima", "damnificad")
	out[vocabulary.KeyImputado] = gender(t, "imputad", "autor", "aprehendid")
	out[vocabulary.KeyMayorMenor] = age(t)
	out[vocabulary.KeyJurisdiccion] = c.firstMentioned(t, vocabulary.KeyJurisdiccion)
	out[vocabulary.KeyLugar] = c.firstMentioned(t, vocabulary.KeyLugar)

	out[vocabulary.KeyTentativa] = vocabulary.No
	if t.has("intento de", "tentativa de", "fracaso el ilicito", "no se consumo") ||
		(t.has("no logro") && t.has("robar", "hurtar", "concretar")) {
		out[vocabulary.KeyTentativa] = vocabulary.Si
	}
	return out
}

func offense(t text) (string, string) {
	switch {
	case t.has("homicidio", "muerte", "fallec", "occiso", "asesinat"):
		switch {
		case t.has("femicidio"):
			return "HOMICIDIO", "FEMICIDIO"
		case t.has("intrafamiliar", "ambito familiar", "miembro de familia"):
			return "HOMICIDIO", "INTRAFAMILIAR"
		case t.has("riña", "gresca", "pelea mas de dos personas"):
			return "HOMICIDIO", "EN RIÑA"
		case t.has("ocasion de robo") || t.all("robo", "homicidio") || t.all("sustraccion", "homicidio"):
			return "HOMICIDIO", "EN OCASIÓN DE ROBO"
		case t.has("ajuste de cuentas", "vengar agravio", "deuda pendiente"):
			return "HOMICIDIO", "AJUSTE DE CUENTAS"
		case t.has("enfrentamiento armado", "tiroteo") || t.all("personal policial", "delincuentes"):
			return "HOMICIDIO", "ENFRENTAMIENTO ARMADO"
		}
		return "HOMICIDIO", "HOMICIDIO SIMPLE"

	case t.has("lesion", "herid", "golpe", "agred", "daño fisico", "contusiones"):
		if t.has("violencia de genero", "genero", "pareja", "intrafamiliar", "violencia familiar") {
			return "LESIONES", "VIOLENCIA DE GÉNERO"
		}
		return "LESIONES", vocabulary.NoEspecificado

	case t.has("robo", "sustrajo", "desapoderamiento", "apoderamiento ilegal", "sustraccion"):
		calificacion := "ROBO"
		if t.has("sin violencia", "sin fuerza", "sin intimidacion", "sin uso de fuerza") {
			calificacion = "HURTO"
		}
		return calificacion, theftModality(t)

	case t.has("usurpacion", "toma de terreno", "desalojo"):
		return "USURPACION", vocabulary.NoEspecificado

	case t.has("abuso sexual"):
		if t.has("acceso carnal") {
			return "ABUSO SEXUAL", "ABUSO SEXUAL CON ACCESO CARNAL"
		}
		return "ABUSO SEXUAL", "ABUSO SEXUAL SIMPLE"

	case t.has("ley 23737", "estupefacientes", "droga", "narcoticos"):
		switch {
		case t.has("comercializacion", "venta de droga"):
			return "LEY 23737", "COMERCIALIZACION"
		case t.has("tenencia", "poseia droga"):
			return "LEY 23737", "TENENCIA"
		case t.has("consumo", "consumia droga"):
			return "LEY 23737", "CONSUMO"
		case t.has("siembra", "cultivo"):
			return "LEY 23737", "SIEMBRA"
		}
		return "LEY 23737", vocabulary.NoEspecificado

	case t.has("abigeato", "robo de ganado", "animales"):
		return "ABIGEATO", "ABIGEATO"

	case t.has("estafa"):
		switch {
		case t.has("marketplace"):
			return "ESTAFAS", "ESTAFA MARKETPLACE"
		case t.has("whatsapp"):
			return "ESTAFAS", "ESTAFA WHATSAPP"
		case t.has("cuento del tio"):
			return "ESTAFAS", "ESTAFA CUENTO DEL TIO"
		}
		return "ESTAFAS", "ESTAFA OTROS"

	case t.has("abuso de armas"):
		return "ABUSO DE ARMAS", "ABUSO DE ARMAS"
	case t.has("tenencia de armas"):
		return "TENENCIA DE ARMAS", "TENENCIA DE ARMAS"
	case t.has("portacion de armas"):
		return "PORTACION DE ARMAS", "PORTACION DE ARMAS"
	case t.has("encubrimiento"):
		return "ENCUBRIMIENTO", "ENCUBRIMIENTO"

	case t.has("enfrentamiento", "tiroteo", "bandas antagonicas"):
		switch {
		case t.has("ocasion de robo", "robo"):
			return "OTROS", "EN OCASIÓN DE ROBO"
		case t.has("ajuste de cuentas"):
			return "OTROS", "AJUSTE DE CUENTAS"
		case t.has("riña", "gresca"):
			return "OTROS", "EN RIÑA"
		}
		return "OTROS", "ENFRENTAMIENTO ARMADO"
	}
	return vocabulary.NingunoDeInteres, vocabulary.NoEspecificado
}

func theftModality(t text) string {
	switch {
	case t.has("motochorro") || (t.has("moto") && t.has("asalto", "robo")) && !t.has("robo de moto", "hurto de moto", "sustraccion motovehiculo"):
		return "MOTOCHORRO"
	case t.has("entradera") || (t.all("domicilio", "ingreso") && t.has("violencia", "sorprenden")):
		return "ENTRADERA"
	case t.has("sustraccion automotor", "robo de auto", "hurto de auto"):
		return "SUSTRACCION AUTOMOTOR"
	case t.has("sustraccion motovehiculo", "robo de moto", "hurto de moto"):
		return "SUSTRACCION MOTOVEHICULO"
	case t.has("asalto"):
		return "ASALTO"
	}
	return vocabulary.NoEspecificado
}

func weapon(t text) string {
	switch {
	case t.has("arma de fuego", "pistola", "revolver", "disparo", "escopeta"):
		return "FUEGO"
	case t.has("arma blanca", "cuchillo", "navaja", "punzon"):
		return "BLANCA"
	case t.has("arma impropia", "palo", "piedra", "botella", "fierro", "objetos contundentes", "a golpes", "golpeado con"):
		return "IMPROPIA"
	}
	return vocabulary.NoEspecificado
}

var (
	maleWords   = []string{"masculino", "hombre", "señor", "varon", "individuo"}
	femaleWords = []string{"femenina", "mujer", "señora", "femina", "individua"}
	pluralWords = []string{"varios", "varias", "ambos", "personas", "mas de uno"}
)

// gender looks at the whole narrative once a role keyword is present.
func gender(t text, roleKeywords ...string) string {
	if !t.has(roleKeywords...) {
		return vocabulary.NoEspecificado
	}
	male, female := t.has(maleWords...), t.has(femaleWords...)
	switch {
	case (male && female) || t.has(pluralWords...):
		return "AMBOS"
	case male:
		return "MASCULINO"
	case female:
		return "FEMENINO"
	}
	return vocabulary.NoEspecificado
}

func age(t text) string {
	switch {
	case t.has("mayor de edad", "mayor de 18", "adulto", "mayor"):
		return "MAYOR"
	case t.has("menor de edad", "menor de 18", "adolescente", "niño", "menor"):
		return "MENOR"
	}
	return vocabulary.NoEspecificado
}

// firstMentioned returns the first admissible value, other than the sentinels,
// that appears in the narrative.
func (c *Classifier) firstMentioned(t text, key string) string {
	for _, v := range c.registry.AdmissibleValues(key) {
		if v == vocabulary.NoEspecificado || v == "OTRO" {
			continue
		}
		if t.has(v) {
			return v
		}
	}
	return vocabulary.NoEspecificado
}
