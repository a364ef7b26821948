package ai

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

const tokenEncoding = "o200k_base"

var encoding = sync.OnceValues(func() (*tiktoken.Tiktoken, error) {
	return tiktoken.GetEncoding(tokenEncoding)
})

// CountTokens returns the number of o200k tokens in text.
func CountTokens(text string) (int, error) {
	enc, err := encoding()
	if err != nil {
		return 0, err
	}
	return len(enc.Encode(text, nil, nil)), nil
}

// TruncateTokens cuts text to at most limit tokens. A limit <= 0 returns
// text unchanged.
func TruncateTokens(text string, limit int) (string, bool, error) {
	if limit <= 0 {
		return text, false, nil
	}
	enc, err := encoding()
	if err != nil {
		return "", false, err
	}
	tokens := enc.Encode(text, nil, nil)
	if len(tokens) <= limit {
		return text, false, nil
	}
	return enc.Decode(tokens[:limit]), true, nil
}
