package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextSimilarity_ExactMatch(t *testing.T) {
	assert.Equal(t, 1.0, TextSimilarity("boundary dispute", "boundary dispute"))
}

func TestTextSimilarity_NormalizesCaseAndWhitespace(t *testing.T) {
	assert.Equal(t, 1.0, TextSimilarity("Foo Bar", "foo bar"))
	assert.Equal(t, 1.0, TextSimilarity("  smith vs jones  ", "Smith vs Jones"))
}

func TestTextSimilarity_EmptyInputs(t *testing.T) {
	assert.Equal(t, 0.0, TextSimilarity("", "something"))
	assert.Equal(t, 0.0, TextSimilarity("something", ""))
	assert.Equal(t, 0.0, TextSimilarity("", ""))
	assert.Equal(t, 0.0, TextSimilarity("   ", "something"))
}

func TestTextSimilarity_WordContainment(t *testing.T) {
	// "smith" matches "smith", "vs" is contained in "vs.", "jones" matches
	score := TextSimilarity("Smith vs Jones", "Smith vs. Jones")
	assert.Equal(t, 1.0, score)

	// Partial overlap: 2 of 3 words match against a 2-word list -> 2*2/(3+2)
	score = TextSimilarity("boundary dispute fence", "boundary dispute")
	assert.InDelta(t, 0.8, score, 0.0001)
}

func TestTextSimilarity_NoOverlap(t *testing.T) {
	assert.Equal(t, 0.0, TextSimilarity("alpha beta", "gamma delta"))
}

func TestTextSimilarity_RepeatedWords(t *testing.T) {
	// Each repeated word counts once per occurrence in the first list
	score := TextSimilarity("fraud fraud fraud", "fraud")
	assert.InDelta(t, 1.5, score, 0.0001) // 2*3/(3+1) - containment counts every occurrence
}

func TestTextSimilarity_SingleCharacterTokens(t *testing.T) {
	// Must not panic and single chars are contained by longer words
	assert.NotPanics(t, func() {
		TextSimilarity("a b c", "abc")
	})
	score := TextSimilarity("a", "apple")
	assert.InDelta(t, 1.0, score, 0.0001) // 2*1/(1+1)
}

func TestTextSimilarity_ScoreRangeTypical(t *testing.T) {
	// Typical inputs with differing word counts stay within [0,1]
	score := TextSimilarity("property line disagreement with neighbor", "property disagreement")
	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 1.0)
}
