package app

import "strings"

// Messages shown to the user when a classification call fails.
const (
	QuotaExceededMessage      = "Error de Cuota de la API de Gemini: Límite de uso excedido para esta clave. Por favor, espere 24 horas o contacte al administrador para más cuota."
	ServiceUnavailableMessage = "Error interno del servicio de IA de Gemini. Por favor, intente de nuevo más tarde."
	genericFailurePrefix      = "Error de IA al procesar: "
)

// FailureKind classifies a per-row capability failure.
type FailureKind string

const (
	FailureQuota       FailureKind = "quota"
	FailureUnavailable FailureKind = "unavailable"
	FailureOther       FailureKind = "other"
)

// FailureRule maps errors whose text contains any of Patterns to Message.
type FailureRule struct {
	Kind     FailureKind
	Patterns []string
	Message  string
}

// FailureRules is evaluated top to bottom; the first rule with a matching
// substring wins.
type FailureRules []FailureRule

// DefaultFailureRules matches the quota and service-error texts produced by the
// Gemini and OpenAI-compatible clients.
func DefaultFailureRules() FailureRules {
	return FailureRules{
		{
			Kind:     FailureQuota,
			Patterns: []string{"429 You exceeded your current quota", "Error 429", "RESOURCE_EXHAUSTED"},
			Message:  QuotaExceededMessage,
		},
		{
			Kind:     FailureUnavailable,
			Patterns: []string{"500", "503"},
			Message:  ServiceUnavailableMessage,
		},
	}
}

// Describe returns the failure kind and the user-facing message for err.
func (rules FailureRules) Describe(err error) (FailureKind, string) {
	if err == nil {
		return "", ""
	}
	text := err.Error()
	for _, rule := range rules {
		for _, p := range rule.Patterns {
			if strings.Contains(text, p) {
				return rule.Kind, rule.Message
			}
		}
	}
	return FailureOther, genericFailurePrefix + text
}
