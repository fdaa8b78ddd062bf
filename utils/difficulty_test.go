package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateDifficulty(t *testing.T) {
	tests := []struct {
		word string
		want int
	}{
		{"", 1},
		{"cat", 1},
		{"word", 1},
		{"apple", 2},
		{"baseball", 2},
		{"wonderful", 3},
		{"intelligence", 3},
		{"extraordinary", 4},
		{"internationalization", 4},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CalculateDifficulty(tt.word), "word %q", tt.word)
	}
}

func TestCalculateDifficultyCountsRunesNotBytes(t *testing.T) {
	// 4 characters, 12 bytes in UTF-8
	assert.Equal(t, 1, CalculateDifficulty("四个汉字"))
	// 6 characters
	assert.Equal(t, 2, CalculateDifficulty("привет"))
}

func TestDifficultyName(t *testing.T) {
	assert.Equal(t, "easy", DifficultyName(1))
	assert.Equal(t, "medium", DifficultyName(2))
	assert.Equal(t, "hard", DifficultyName(3))
	assert.Equal(t, "expert", DifficultyName(4))
	assert.Equal(t, "unknown", DifficultyName(0))
}
