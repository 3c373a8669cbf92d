package corpus

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Splitter cuts document text into chunks of at most chunkSize tokens,
// carrying up to overlap tokens of trailing sentences into the next
// chunk so retrieval does not lose context at chunk boundaries.
type Splitter struct {
	chunkSize int
	overlap   int
	enc       *tiktoken.Tiktoken
}

func NewSplitter(chunkSize, overlap int) (*Splitter, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, fmt.Errorf("overlap %d must be in [0, chunk size %d)", overlap, chunkSize)
	}
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("load tokenizer: %w", err)
	}
	return &Splitter{
		chunkSize: chunkSize,
		overlap:   overlap,
		enc:       enc,
	}, nil
}

// Split packs sentences greedily up to the token budget. Deterministic:
// the same text always yields the same ordered chunks.
func (s *Splitter) Split(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var chunks []string
	var cur []string
	curTokens := 0

	flush := func() {
		if len(cur) > 0 {
			chunks = append(chunks, strings.Join(cur, " "))
		}
	}

	for _, sent := range splitSentences(text) {
		n := s.count(sent)
		if n > s.chunkSize {
			// Sentence alone blows the budget: flush and window it by tokens.
			flush()
			cur, curTokens = nil, 0
			chunks = append(chunks, s.windowTokens(sent)...)
			continue
		}
		if curTokens+n > s.chunkSize {
			flush()
			cur, curTokens = s.carryOverlap(cur)
			if curTokens+n > s.chunkSize {
				cur, curTokens = nil, 0
			}
		}
		cur = append(cur, sent)
		curTokens += n
	}
	flush()

	return chunks
}

// carryOverlap keeps trailing sentences of the previous chunk whose
// combined token count stays within the overlap budget.
func (s *Splitter) carryOverlap(prev []string) ([]string, int) {
	if s.overlap == 0 {
		return nil, 0
	}
	total := 0
	start := len(prev)
	for i := len(prev) - 1; i >= 0; i-- {
		n := s.count(prev[i])
		if total+n > s.overlap {
			break
		}
		total += n
		start = i
	}
	if start == len(prev) {
		return nil, 0
	}
	carried := make([]string, len(prev)-start)
	copy(carried, prev[start:])
	return carried, total
}

// windowTokens hard-splits an oversized sentence into token windows of
// chunkSize with overlap tokens shared between neighbours.
func (s *Splitter) windowTokens(sent string) []string {
	toks := s.enc.Encode(sent, nil, nil)
	step := s.chunkSize - s.overlap
	var out []string
	for i := 0; i < len(toks); i += step {
		end := i + s.chunkSize
		if end > len(toks) {
			end = len(toks)
		}
		part := strings.TrimSpace(s.enc.Decode(toks[i:end]))
		if part != "" {
			out = append(out, part)
		}
		if end == len(toks) {
			break
		}
	}
	return out
}

func (s *Splitter) count(text string) int {
	return len(s.enc.Encode(text, nil, nil))
}

// splitSentences breaks text on terminal punctuation and newlines.
// Intentionally simple: news titles and summaries are short prose.
func splitSentences(text string) []string {
	var sents []string
	var b strings.Builder

	emit := func() {
		sent := strings.TrimSpace(b.String())
		if sent != "" {
			sents = append(sents, sent)
		}
		b.Reset()
	}

	runes := []rune(text)
	for i, r := range runes {
		if r == '\n' {
			emit()
			continue
		}
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if i+1 == len(runes) || runes[i+1] == ' ' || runes[i+1] == '\n' {
				emit()
			}
		}
	}
	emit()

	return sents
}
