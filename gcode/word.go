package gcode

import (
	"strconv"
	"strings"
)

// Word is a single letter/value pair, such as G1 or X-2.5.
type Word struct {
	Letter byte
	Value  float64
}

// wordIndex maps accepted word letters to a slot used for duplicate detection.
var wordIndex = [256]int8{
	'F': 1, 'G': 2, 'I': 3, 'J': 4, 'K': 5, 'L': 6, 'M': 7, 'N': 8,
	'P': 9, 'R': 10, 'S': 11, 'T': 12, 'X': 13, 'Y': 14, 'Z': 15,
}

const numWordSlots = 16

func (w Word) IsAxis() bool {
	switch w.Letter {
	case 'X', 'Y', 'Z':
		return true
	}
	return false
}

// IsValid reports whether the letter is one the tokenizer accepts.
func (w Word) IsValid() bool {
	return wordIndex[w.Letter] != 0
}

func formatFloat(f float64, prec int) string {
	s := strconv.FormatFloat(f, 'f', prec, 64)
	if strings.ContainsRune(s, '.') {
		s = strings.TrimRight(s, "0")
	}
	s = strings.TrimRight(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}

func (w Word) String() string {
	return string(w.Letter) + formatFloat(w.Value, 4)
}
