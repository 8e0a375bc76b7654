package furigana

import (
	"iter"
)

// Segment is one parsed base[reading] pair.
type Segment struct {
	Base    string
	Reading string
}

// Parse returns the base[reading] pairs of an annotation string in
// document order. Text outside of pairs is dropped.
func Parse(annotation string) []Segment {
	var segments []Segment
	for seg := range Segments(annotation) {
		segments = append(segments, seg)
	}
	return segments
}

// Segments yields the base[reading] pairs of an annotation string. The
// sequence can be ranged over any number of times.
//
// A base is a non-empty run without '[' or ']' that is directly followed
// by '['. The reading runs up to the next ']' and may be empty so that
// skeletons like 歴[]史[] still produce one segment per kanji. Runs are
// matched greedily; a base followed by ']' or a '[' that is never closed
// produces nothing.
func Segments(annotation string) iter.Seq[Segment] {
	return func(yield func(Segment) bool) {
		s := annotation
		i, n := 0, len(s)

		for i < n {
			// Brackets cannot start a base
			for i < n && isBracket(s[i]) {
				i++
			}

			start := i
			for i < n && !isBracket(s[i]) {
				i++
			}
			if i == n {
				return
			}
			if s[i] == ']' {
				i++
				continue
			}

			// s[i] == '['
			end := i + 1
			for end < n && s[end] != ']' {
				end++
			}
			if end == n {
				// Unterminated, nothing after this can match either
				return
			}

			if !yield(Segment{Base: s[start:i], Reading: s[i+1 : end]}) {
				return
			}
			i = end + 1
		}
	}
}

// '[' and ']' are ASCII so byte scanning is safe on UTF-8 input.
func isBracket(b byte) bool {
	return b == '[' || b == ']'
}
