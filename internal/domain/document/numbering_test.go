package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCircledDigitNumber(t *testing.T) {
	n, ok := CircledDigitNumber('①')
	assert.True(t, ok)
	assert.Equal(t, 1, n)

	n, ok = CircledDigitNumber('⑳')
	assert.True(t, ok)
	assert.Equal(t, 20, n)

	_, ok = CircledDigitNumber('㉑') // beyond the supported 20-glyph alphabet
	assert.False(t, ok)

	_, ok = CircledDigitNumber('1')
	assert.False(t, ok)
}

func TestKoreanOrdinalNumber(t *testing.T) {
	n, ok := KoreanOrdinalNumber('가')
	assert.True(t, ok)
	assert.Equal(t, 1, n)

	n, ok = KoreanOrdinalNumber('하')
	assert.True(t, ok)
	assert.Equal(t, 14, n)

	_, ok = KoreanOrdinalNumber('갸')
	assert.False(t, ok)
}

func TestGlyphRoundTrip(t *testing.T) {
	for i := 1; i <= 20; i++ {
		g := CircledDigitGlyph(i)
		n, ok := CircledDigitNumber(g)
		assert.True(t, ok)
		assert.Equal(t, i, n)
	}
	for i := 1; i <= 14; i++ {
		g := KoreanOrdinalGlyph(i)
		n, ok := KoreanOrdinalNumber(g)
		assert.True(t, ok)
		assert.Equal(t, i, n)
	}
	assert.Equal(t, rune(0), CircledDigitGlyph(21))
	assert.Equal(t, rune(0), KoreanOrdinalGlyph(0))
}

//Personal.AI order the ending
