package services

import (
	"errors"
	"time"

	"github.com/wordclimb/wordclimb-api/config"
	"github.com/wordclimb/wordclimb-api/models"
	"gorm.io/gorm"
)

// StageProgress is the per-stage slice of a group progress report.
type StageProgress struct {
	Completed    bool       `json:"completed"`
	Accuracy     float64    `json:"accuracy"`
	LastPractice *time.Time `json:"last_practice"`
}

// GroupProgress reports one group's stage progress plus its unlock
// state for a user.
type GroupProgress struct {
	GroupID     uint                  `json:"id"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Sequence    int                   `json:"sequence"`
	Stages      map[int]StageProgress `json:"stages"`
	Unlocked    bool                  `json:"unlocked"`
}

// CheckGroupUnlocked reports whether the user may practice the group.
// The first group in sequence is always unlocked; any later group
// requires a completed stage-3 record on the group one sequence back.
// A missing predecessor (a gap in sequence numbering) counts as
// unlocked, matching the reference behavior.
func CheckGroupUnlocked(db *gorm.DB, userID, groupID uint) (bool, error) {
	var group models.WordGroup
	if err := db.First(&group, groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	if group.Sequence == 1 {
		return true, nil
	}

	var prev models.WordGroup
	err := db.Where("sequence = ?", group.Sequence-1).First(&prev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}

	var count int64
	err = db.Model(&models.UserProgress{}).
		Where("user_id = ? AND group_id = ? AND stage = ? AND completed = ?",
			userID, prev.ID, config.StageRecall, true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateLearningProgress upserts the (user, group, stage) record with
// the submitted accuracy. Accuracy and completion are overwritten on
// every submission, never averaged with prior attempts.
func UpdateLearningProgress(db *gorm.DB, settings config.Settings, userID, groupID uint, stage int, accuracy float64) (*models.UserProgress, error) {
	var progress models.UserProgress
	err := db.Where(models.UserProgress{UserID: userID, GroupID: groupID, Stage: stage}).
		FirstOrCreate(&progress).Error
	if err != nil {
		return nil, err
	}

	progress.Accuracy = accuracy
	progress.Completed = accuracy >= settings.PassAccuracy
	progress.LastPractice = time.Now().UTC()

	if err := db.Save(&progress).Error; err != nil {
		return nil, err
	}
	return &progress, nil
}

// UserProgressReport builds the full progress view: every group in
// sequence order with its three stages (zero progress for stages never
// practiced) and the unlock flag.
func UserProgressReport(db *gorm.DB, userID uint) ([]GroupProgress, error) {
	var groups []models.WordGroup
	if err := db.Order("sequence asc").Find(&groups).Error; err != nil {
		return nil, err
	}

	var records []models.UserProgress
	if err := db.Where("user_id = ?", userID).Find(&records).Error; err != nil {
		return nil, err
	}

	report := make([]GroupProgress, 0, len(groups))
	for _, group := range groups {
		gp := GroupProgress{
			GroupID:     group.ID,
			Name:        group.Name,
			Description: group.Description,
			Sequence:    group.Sequence,
			Stages:      make(map[int]StageProgress, 3),
		}

		for stage := config.StageRecognition; stage <= config.StageRecall; stage++ {
			gp.Stages[stage] = StageProgress{}
			for i := range records {
				if records[i].GroupID == group.ID && records[i].Stage == stage {
					last := records[i].LastPractice
					gp.Stages[stage] = StageProgress{
						Completed:    records[i].Completed,
						Accuracy:     records[i].Accuracy,
						LastPractice: &last,
					}
					break
				}
			}
		}

		unlocked, err := CheckGroupUnlocked(db, userID, group.ID)
		if err != nil {
			return nil, err
		}
		gp.Unlocked = unlocked
		report = append(report, gp)
	}

	return report, nil
}

// GroupProgressReport is the single-group variant of the report.
func GroupProgressReport(db *gorm.DB, userID, groupID uint) (*GroupProgress, error) {
	var group models.WordGroup
	if err := db.First(&group, groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	gp := GroupProgress{
		GroupID:     group.ID,
		Name:        group.Name,
		Description: group.Description,
		Sequence:    group.Sequence,
		Stages:      make(map[int]StageProgress, 3),
	}

	var records []models.UserProgress
	if err := db.Where("user_id = ? AND group_id = ?", userID, group.ID).Find(&records).Error; err != nil {
		return nil, err
	}
	for stage := config.StageRecognition; stage <= config.StageRecall; stage++ {
		gp.Stages[stage] = StageProgress{}
	}
	for i := range records {
		last := records[i].LastPractice
		gp.Stages[records[i].Stage] = StageProgress{
			Completed:    records[i].Completed,
			Accuracy:     records[i].Accuracy,
			LastPractice: &last,
		}
	}

	unlocked, err := CheckGroupUnlocked(db, userID, group.ID)
	if err != nil {
		return nil, err
	}
	gp.Unlocked = unlocked
	return &gp, nil
}

// FinalChallengeUnlocked reports whether stage 3 of every group is
// completed. False when no groups exist.
func FinalChallengeUnlocked(db *gorm.DB, userID uint) (bool, error) {
	var groups []models.WordGroup
	if err := db.Find(&groups).Error; err != nil {
		return false, err
	}
	if len(groups) == 0 {
		return false, nil
	}

	for _, group := range groups {
		var count int64
		err := db.Model(&models.UserProgress{}).
			Where("user_id = ? AND group_id = ? AND stage = ? AND completed = ?",
				userID, group.ID, config.StageRecall, true).
			Count(&count).Error
		if err != nil {
			return false, err
		}
		if count == 0 {
			return false, nil
		}
	}
	return true, nil
}
