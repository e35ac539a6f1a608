package ports

import "context"

// Classifier is the external text-classification capability. It returns the
// model's raw text; parsing and validation happen on the caller's side so every
// provider is held to the same vocabulary.
type Classifier interface {
	Classify(ctx context.Context, prompt string) (string, error)
}

// ClassifierInfo is optional metadata a Classifier may expose for logs and reports.
type ClassifierInfo interface {
	Provider() string
	Model() string
}
