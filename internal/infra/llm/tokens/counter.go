package tokens

import (
	"log/slog"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Counter estimates prompt sizes with a BPE encoding, or by words when the encoding is unavailable.
type Counter struct {
	enc *tiktoken.Tiktoken
}

// NewCounter loads the named encoding. tiktoken fetches BPE ranks on first use, so offline
// hosts end up with the word-based estimate.
func NewCounter(encoding string, logger *slog.Logger) *Counter {
	if strings.TrimSpace(encoding) == "" {
		return &Counter{}
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		if logger != nil {
			logger.Warn("token encoding unavailable, estimating by words", "encoding", encoding, "error", err)
		}
		return &Counter{}
	}
	return &Counter{enc: enc}
}

// Count returns the token count of text.
func (c *Counter) Count(text string) int {
	if c != nil && c.enc != nil {
		return len(c.enc.Encode(text, nil, nil))
	}
	return estimate(text)
}

// estimate assumes roughly four tokens per three words.
func estimate(text string) int {
	words := len(strings.Fields(text))
	return (words*4 + 2) / 3
}
