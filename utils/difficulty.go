package utils

import (
	"unicode/utf8"

	"github.com/wordclimb/wordclimb-api/config"
)

// CalculateDifficulty maps a word to its difficulty tier by character
// count: <5 easy, 5-8 medium, 9-12 hard, >12 expert. Counts runes, not
// bytes, so multi-byte text classifies correctly.
func CalculateDifficulty(word string) int {
	length := utf8.RuneCountInString(word)

	switch {
	case length < 5:
		return config.DifficultyEasy
	case length <= 8:
		return config.DifficultyMedium
	case length <= 12:
		return config.DifficultyHard
	default:
		return config.DifficultyExpert
	}
}

// DifficultyName returns the display label for a tier.
func DifficultyName(difficulty int) string {
	switch difficulty {
	case config.DifficultyEasy:
		return "easy"
	case config.DifficultyMedium:
		return "medium"
	case config.DifficultyHard:
		return "hard"
	case config.DifficultyExpert:
		return "expert"
	default:
		return "unknown"
	}
}
