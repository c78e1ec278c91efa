package news

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLeanForKnownSources(t *testing.T) {
	tests := []struct {
		sourceID string
		want     Lean
	}{
		{"cnn", LeanLeft},
		{"bbc-news", LeanCenter},
		{"reuters", LeanCenter},
		{"fox-news", LeanRight},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LeanFor(tt.sourceID), tt.sourceID)
	}
}

func TestLeanForHeuristics(t *testing.T) {
	assert.Equal(t, LeanLeft, LeanFor("daily-progressive-dispatch"))
	assert.Equal(t, LeanRight, LeanFor("the-conservative-ledger"))
	assert.Equal(t, LeanCenter, LeanFor("some-local-paper"), "unknown sources default to center")
}

func TestKnownSource(t *testing.T) {
	assert.True(t, KnownSource("bbc-news"))
	assert.False(t, KnownSource("some-local-paper"))
}
