package config

import (
	"os"
	"strconv"
)

// Settings carries the tunable learning parameters. It is built once at
// startup and passed into the services explicitly rather than read from
// globals, so tests can run with their own values.
type Settings struct {
	// PassAccuracy is the minimum percentage to complete a stage.
	PassAccuracy float64
	// WordsPerGroup is the advertised group size (description text only;
	// the real size is the sum of GroupComposition).
	WordsPerGroup int
	// GroupComposition maps difficulty tier (1..4) to the number of
	// words of that tier placed into each generated group. Tiers absent
	// or zero are never auto-allocated.
	GroupComposition map[int]int
}

// Difficulty tiers.
const (
	DifficultyEasy   = 1
	DifficultyMedium = 2
	DifficultyHard   = 3
	DifficultyExpert = 4
)

// Learning stages.
const (
	StageRecognition = 1
	StageTypedCopy   = 2
	StageRecall      = 3
)

// LoadSettings builds Settings from the environment, falling back to
// the defaults: pass at 80%, groups of 4 easy + 4 medium + 2 hard.
func LoadSettings() Settings {
	s := Settings{
		PassAccuracy:  80,
		WordsPerGroup: 10,
		GroupComposition: map[int]int{
			DifficultyEasy:   4,
			DifficultyMedium: 4,
			DifficultyHard:   2,
		},
	}

	if v := os.Getenv("PASS_ACCURACY"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			s.PassAccuracy = f
		}
	}

	return s
}
