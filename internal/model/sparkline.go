package model

import "strings"

// Thresholds are the upper bounds of the first four sparkline intensity
// levels; anything at or above the last bound lands in level 4. Bounds
// must be strictly increasing.
type Thresholds [4]float64

// DefaultThresholds buckets a percentage into idle (<0.1), low (<20),
// mid (<50), high (<70) and hot (>=70).
var DefaultThresholds = Thresholds{0.1, 20, 50, 70}

func (t Thresholds) level(v float64) int {
	for i, bound := range t {
		if v < bound {
			return i
		}
	}
	return 4
}

// sparkGlyphs maps a pair of intensity levels to one braille cell:
// row is the older sample's level (left dot column), column the newer
// one (right dot column). 5x5 levels, 25 glyphs.
var sparkGlyphs = [5][5]rune{
	{'⠀', '⢀', '⢠', '⢰', '⢸'},
	{'⡀', '⣀', '⣠', '⣰', '⣸'},
	{'⡄', '⣄', '⣤', '⣴', '⣼'},
	{'⡆', '⣆', '⣦', '⣶', '⣾'},
	{'⡇', '⣇', '⣧', '⣷', '⣿'},
}

// Sparkline renders a reading history as braille glyphs, two samples
// per cell, oldest on the left. An odd-length history is padded with a
// leading zero so the newest sample always occupies the right column of
// the last cell.
func Sparkline(vals []float64, t Thresholds) string {
	if len(vals) == 0 {
		return ""
	}
	if len(vals)%2 != 0 {
		padded := make([]float64, 0, len(vals)+1)
		padded = append(padded, 0)
		vals = append(padded, vals...)
	}
	var b strings.Builder
	for i := 0; i < len(vals); i += 2 {
		b.WriteRune(sparkGlyphs[t.level(vals[i])][t.level(vals[i+1])])
	}
	return b.String()
}
