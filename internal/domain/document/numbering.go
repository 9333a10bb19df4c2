package document

// Fixed ordered marker alphabets.  A glyph's 1-based position in its alphabet
// is the node number it denotes.  Glyphs outside these alphabets fail the
// marker predicate and fall through to plain-text classification.
var (
	// circledDigits covers ① (U+2460) through ⑳ (U+2473).
	circledDigits = []rune("①②③④⑤⑥⑦⑧⑨⑩⑪⑫⑬⑭⑮⑯⑰⑱⑲⑳")

	// koreanOrdinals covers 가 through 하, the 14 ordinal consonant syllables.
	koreanOrdinals = []rune("가나다라마바사아자차카타파하")
)

// CircledDigitNumber returns the 1-based number denoted by a circled-digit
// glyph, or false when r is not one of ①–⑳.
func CircledDigitNumber(r rune) (int, bool) {
	for i, g := range circledDigits {
		if g == r {
			return i + 1, true
		}
	}
	return 0, false
}

// KoreanOrdinalNumber returns the 1-based number denoted by a Korean ordinal
// glyph, or false when r is not one of 가–하.
func KoreanOrdinalNumber(r rune) (int, bool) {
	for i, g := range koreanOrdinals {
		if g == r {
			return i + 1, true
		}
	}
	return 0, false
}

// CircledDigitGlyph returns the glyph for a 1-based number, or 0 when the
// number is outside [1, 20].
func CircledDigitGlyph(n int) rune {
	if n < 1 || n > len(circledDigits) {
		return 0
	}
	return circledDigits[n-1]
}

// KoreanOrdinalGlyph returns the glyph for a 1-based number, or 0 when the
// number is outside [1, 14].
func KoreanOrdinalGlyph(n int) rune {
	if n < 1 || n > len(koreanOrdinals) {
		return 0
	}
	return koreanOrdinals[n-1]
}

//Personal.AI order the ending
