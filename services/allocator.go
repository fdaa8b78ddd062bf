package services

import (
	"fmt"

	"github.com/wordclimb/wordclimb-api/config"
	"github.com/wordclimb/wordclimb-api/models"
	"gorm.io/gorm"
)

// CreateBalancedGroups partitions the unassigned-word pool into new
// groups matching settings.GroupComposition. Words are consumed in
// catalog order so repeated runs over the same pool are reproducible.
// The number of creatable groups is the minimum over configured tiers
// of available/required; zero creatable groups is a successful no-op.
// All creations happen in a single transaction.
func CreateBalancedGroups(db *gorm.DB, settings config.Settings) (int, error) {
	pool, err := WordsNotInGroups(db)
	if err != nil {
		return 0, err
	}

	buckets := make(map[int][]models.Word)
	for _, w := range pool {
		buckets[w.Difficulty] = append(buckets[w.Difficulty], w)
	}

	creatable := -1
	for tier, count := range settings.GroupComposition {
		if count <= 0 {
			continue
		}
		possible := len(buckets[tier]) / count
		if creatable < 0 || possible < creatable {
			creatable = possible
		}
	}
	if creatable <= 0 {
		return 0, nil
	}

	created := 0
	err = db.Transaction(func(tx *gorm.DB) error {
		for i := 0; i < creatable; i++ {
			var maxSequence int
			row := tx.Model(&models.WordGroup{}).Select("COALESCE(MAX(sequence), 0)").Row()
			if err := row.Scan(&maxSequence); err != nil {
				return err
			}

			group := models.WordGroup{
				Name:        fmt.Sprintf("Word Group %d", maxSequence+1),
				Description: fmt.Sprintf("A balanced group of %d words", settings.WordsPerGroup),
				Sequence:    maxSequence + 1,
			}
			if err := tx.Create(&group).Error; err != nil {
				return err
			}

			for tier := config.DifficultyEasy; tier <= config.DifficultyExpert; tier++ {
				count := settings.GroupComposition[tier]
				if count <= 0 {
					continue
				}
				take := buckets[tier][:count]
				buckets[tier] = buckets[tier][count:]
				for _, word := range take {
					member := models.GroupWord{GroupID: group.ID, WordID: word.ID}
					if err := tx.Create(&member).Error; err != nil {
						return err
					}
				}
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

// CheckAllocatorFeasible fails with ErrInsufficientWords when any
// configured tier lacks enough unassigned words for even one group.
func CheckAllocatorFeasible(db *gorm.DB, settings config.Settings) error {
	pool, err := WordsNotInGroups(db)
	if err != nil {
		return err
	}

	available := make(map[int]int)
	for _, w := range pool {
		available[w.Difficulty]++
	}

	for tier := config.DifficultyEasy; tier <= config.DifficultyExpert; tier++ {
		count := settings.GroupComposition[tier]
		if count > 0 && available[tier] < count {
			return fmt.Errorf("tier %d needs %d unassigned words, has %d: %w",
				tier, count, available[tier], ErrInsufficientWords)
		}
	}
	return nil
}
