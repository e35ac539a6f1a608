package core

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

func (h Hash) String() string {
	return string(h)
}

// Short is the 12-char prefix used in log lines.
func (h Hash) Short() string {
	if len(h) <= 12 {
		return string(h)
	}
	return string(h[:12])
}

type (
	PromptHash     Hash
	VocabularyHash Hash
)

func NewPromptHash(prompt string) PromptHash { return PromptHash(NewHash([]byte(prompt))) }

func (h PromptHash) String() string     { return Hash(h).String() }
func (h VocabularyHash) String() string { return Hash(h).String() }

// ComputeVocabularyHash fingerprints admissible values so reports can tell which
// vocabulary revision classified a batch. Keys are sorted; value order is kept.
func ComputeVocabularyHash(values map[string][]string) VocabularyHash {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var data strings.Builder
	for _, key := range keys {
		data.WriteString(key)
		data.WriteByte('=')
		data.WriteString(strings.Join(values[key], "|"))
		data.WriteByte(';')
	}
	return VocabularyHash(NewHash([]byte(data.String())))
}
