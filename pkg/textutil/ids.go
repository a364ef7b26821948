package textutil

import gonanoid "github.com/matoous/go-nanoid/v2"

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// GenerateID returns prefix followed by a short random suffix,
// e.g. "segment_k3x9q2m1ab".
func GenerateID(prefix string) string {
	return prefix + "_" + gonanoid.MustGenerate(idAlphabet, 10)
}
