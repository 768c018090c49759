// Package sentiment scores chat text on an integer scale: positive is
// favorable, negative unfavorable, zero neutral. Scoring is best-effort
// from the pipeline's point of view; callers substitute a neutral score
// when a Scorer fails.
package sentiment

import (
	"context"
	"strings"
)

type Scorer interface {
	Score(ctx context.Context, text string) (int, error)
}

// LexiconScorer sums per-word valences from an AFINN-style lexicon.
// Words outside the lexicon contribute nothing.
type LexiconScorer struct {
	lexicon map[string]int
}

func NewLexiconScorer() *LexiconScorer {
	return &LexiconScorer{lexicon: defaultLexicon}
}

func (s *LexiconScorer) Score(ctx context.Context, text string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	score := 0
	for _, word := range tokenize(text) {
		score += s.lexicon[word]
	}
	return score, nil
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z':
			return false
		case r >= '0' && r <= '9':
			return false
		case r == '\'':
			return false
		default:
			return true
		}
	})
}
