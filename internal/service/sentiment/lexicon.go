// Package sentiment scores short English texts (headlines, comments)
// with a small valence lexicon. Scores are normalized to [-1, 1].
package sentiment

import (
	"math"
	"strings"
)

// valence per token, roughly on a -4..4 scale.
var lexicon = map[string]float64{
	"amazing":        3.1,
	"awesome":        3.1,
	"great":          3.0,
	"excellent":      3.2,
	"fantastic":      3.2,
	"incredible":     2.9,
	"best":           3.2,
	"love":           3.2,
	"loved":          2.9,
	"loves":          2.7,
	"perfect":        2.9,
	"brilliant":      2.8,
	"stunning":       2.7,
	"masterpiece":    3.4,
	"hit":            2.0,
	"win":            2.4,
	"wins":           2.4,
	"success":        2.6,
	"successful":     2.6,
	"triumph":        2.8,
	"acclaimed":      2.5,
	"praised":        2.3,
	"praise":         2.2,
	"celebrated":     2.2,
	"record":         1.5,
	"renewed":        2.0,
	"renewal":        1.9,
	"popular":        2.1,
	"hype":           1.8,
	"hyped":          1.8,
	"exciting":       2.2,
	"excited":        2.1,
	"thrilling":      2.3,
	"good":           1.9,
	"strong":         1.7,
	"surge":          1.6,
	"soars":          2.0,
	"soaring":        2.0,
	"top":            1.4,
	"favorite":       2.0,
	"beloved":        2.3,
	"funny":          1.9,
	"wow":            2.4,
	"bad":            -2.5,
	"worst":          -3.1,
	"terrible":       -3.0,
	"awful":          -2.9,
	"horrible":       -2.9,
	"boring":         -2.2,
	"disappointing":  -2.4,
	"disappointment": -2.4,
	"disappointed":   -2.2,
	"hate":           -2.7,
	"hated":          -2.6,
	"hates":          -2.4,
	"flop":           -2.6,
	"fail":           -2.5,
	"fails":          -2.4,
	"failure":        -2.6,
	"canceled":       -2.3,
	"cancelled":      -2.3,
	"cancellation":   -2.2,
	"axed":           -2.4,
	"decline":        -1.8,
	"declining":      -1.8,
	"drop":           -1.5,
	"drops":          -1.5,
	"plummet":        -2.2,
	"plummets":       -2.2,
	"controversy":    -1.9,
	"controversial":  -1.6,
	"backlash":       -2.1,
	"criticism":      -1.8,
	"criticized":     -1.9,
	"lawsuit":        -2.0,
	"scandal":        -2.3,
	"delay":          -1.4,
	"delayed":        -1.5,
	"weak":           -1.7,
	"mediocre":       -1.8,
	"dull":           -1.9,
	"mess":           -2.0,
	"trash":          -2.6,
	"cringe":         -2.0,
	"overrated":      -1.9,
	"underwhelming":  -2.1,
	"no":             -1.2,
	"sad":            -2.1,
	"angry":          -2.2,
}

var boosters = map[string]float64{
	"very":       0.293,
	"really":     0.293,
	"so":         0.293,
	"extremely":  0.293,
	"absolutely": 0.293,
	"totally":    0.293,
	"incredibly": 0.293,
	"slightly":   -0.293,
	"somewhat":   -0.293,
	"barely":     -0.293,
}

var negators = map[string]bool{
	"not":     true,
	"no":      true,
	"never":   true,
	"without": true,
	"isnt":    true,
	"wasnt":   true,
	"dont":    true,
	"didnt":   true,
	"wont":    true,
	"cant":    true,
}

// Score returns a compound sentiment in [-1, 1] for the given text.
// Empty or fully neutral text scores 0.
func Score(text string) float64 {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return 0
	}

	var sum float64
	for i, tok := range tokens {
		val, ok := lexicon[tok]
		if !ok {
			continue
		}
		// booster directly before the word amplifies or dampens it
		if i > 0 {
			if b, ok := boosters[tokens[i-1]]; ok {
				if val > 0 {
					val += b
				} else {
					val -= b
				}
			}
		}
		// a negator within the two preceding tokens flips the valence
		for j := i - 1; j >= 0 && j >= i-2; j-- {
			if negators[tokens[j]] {
				val *= -0.74
				break
			}
		}
		sum += val
	}

	return normalize(sum)
}

// ScoreAll averages Score over the given texts, skipping empties.
func ScoreAll(texts []string) float64 {
	var sum float64
	var n int
	for _, t := range texts {
		if strings.TrimSpace(t) == "" {
			continue
		}
		sum += Score(t)
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// normalize maps an unbounded valence sum into [-1, 1].
func normalize(sum float64) float64 {
	norm := sum / math.Sqrt(sum*sum+15)
	if norm > 1 {
		return 1
	}
	if norm < -1 {
		return -1
	}
	return norm
}

func tokenize(text string) []string {
	var tokens []string
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '\'':
			// drop apostrophes so "isn't" matches "isnt"
		default:
			if b.Len() > 0 {
				tokens = append(tokens, b.String())
				b.Reset()
			}
		}
	}
	if b.Len() > 0 {
		tokens = append(tokens, b.String())
	}
	return tokens
}
