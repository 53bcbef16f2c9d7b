package generator

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// GPT2Encoding is the byte-pair encoding used by GPT-2 family models.
const GPT2Encoding = "r50k_base"

// Tokenizer encodes text to token ids and back.
type Tokenizer interface {
	Encode(text string) []int
	Decode(tokens []int) string
}

// TiktokenTokenizer adapts a tiktoken encoding to Tokenizer.
type TiktokenTokenizer struct {
	enc *tiktoken.Tiktoken
}

// NewTiktokenTokenizer loads the named encoding. The BPE ranks are fetched
// on first use and cached by tiktoken-go (see TIKTOKEN_CACHE_DIR).
func NewTiktokenTokenizer(encoding string) (*TiktokenTokenizer, error) {
	if encoding == "" {
		encoding = GPT2Encoding
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to load tokenizer %s: %w", encoding, err)
	}
	return &TiktokenTokenizer{enc: enc}, nil
}

func (t *TiktokenTokenizer) Encode(text string) []int {
	return t.enc.Encode(text, nil, nil)
}

func (t *TiktokenTokenizer) Decode(tokens []int) string {
	return t.enc.Decode(tokens)
}

// Truncate cuts text to at most limit tokens. A nil tokenizer or a
// non-positive limit leaves text unchanged.
func Truncate(tok Tokenizer, text string, limit int) string {
	if tok == nil || limit <= 0 || text == "" {
		return text
	}
	tokens := tok.Encode(text)
	if len(tokens) <= limit {
		return text
	}
	return tok.Decode(tokens[:limit])
}
