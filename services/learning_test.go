package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wordclimb/wordclimb-api/config"
	"github.com/wordclimb/wordclimb-api/models"
	"gorm.io/gorm"
)

func seedGroupWithWords(t *testing.T, db *gorm.DB, sequence, n int) (*models.WordGroup, []models.Word) {
	t.Helper()
	group := seedGroup(t, db, sequence)
	words := seedWords(t, db, config.DifficultyEasy, n)
	for _, w := range words {
		addToGroup(t, db, group.ID, w.ID)
	}
	return group, words
}

func resultsFor(words []models.Word, correct int) []WordResult {
	results := make([]WordResult, len(words))
	for i, w := range words {
		results[i] = WordResult{WordID: w.ID, Correct: i < correct}
	}
	return results
}

func TestSubmitLearningResult(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "alice")
	group, words := seedGroupWithWords(t, db, 1, 5)

	result, err := SubmitLearningResult(db, testSettings(), user.ID, group.ID, 1, resultsFor(words, 4), 42)
	require.NoError(t, err)

	assert.Equal(t, 80.0, result.Accuracy)
	assert.Equal(t, 4, result.CorrectWords)
	assert.Equal(t, 5, result.TotalWords)
	assert.True(t, result.Completed)
	assert.Equal(t, 1, result.Rank)

	// A learning record per word, attempts bumped.
	var records []models.WordLearningRecord
	require.NoError(t, db.Where("user_id = ? AND stage = ?", user.ID, 1).Find(&records).Error)
	assert.Len(t, records, 5)

	// The score row lands under the synthetic level key.
	var score models.Score
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&score).Error)
	assert.Equal(t, fmt.Sprintf("group_%d_stage_1", group.ID), score.Level)
	assert.Equal(t, 80.0, score.Score)
	assert.Equal(t, 42, score.TimeSpent)
}

func TestSubmitLearningResultRoundsAccuracy(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "alice")
	group, words := seedGroupWithWords(t, db, 1, 3)

	// 2/3 = 66.67% rounds to 67.
	result, err := SubmitLearningResult(db, testSettings(), user.ID, group.ID, 1, resultsFor(words, 2), 10)
	require.NoError(t, err)
	assert.Equal(t, 67.0, result.Accuracy)
	assert.False(t, result.Completed)
}

func TestSubmitLearningResultValidation(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "alice")
	group, words := seedGroupWithWords(t, db, 1, 2)

	_, err := SubmitLearningResult(db, testSettings(), 999, group.ID, 1, resultsFor(words, 1), 10)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = SubmitLearningResult(db, testSettings(), user.ID, 999, 1, resultsFor(words, 1), 10)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = SubmitLearningResult(db, testSettings(), user.ID, group.ID, 4, resultsFor(words, 1), 10)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = SubmitLearningResult(db, testSettings(), user.ID, group.ID, 1, nil, 10)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSubmitLearningResultLockedGroup(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "alice")
	seedGroup(t, db, 1)
	locked, words := seedGroupWithWords(t, db, 2, 2)

	_, err := SubmitLearningResult(db, testSettings(), user.ID, locked.ID, 1, resultsFor(words, 2), 10)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestLearningRecordCountersAccumulate(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "alice")
	group, words := seedGroupWithWords(t, db, 1, 2)

	_, err := SubmitLearningResult(db, testSettings(), user.ID, group.ID, 1, resultsFor(words, 1), 10)
	require.NoError(t, err)
	_, err = SubmitLearningResult(db, testSettings(), user.ID, group.ID, 1, resultsFor(words, 2), 10)
	require.NoError(t, err)

	var record models.WordLearningRecord
	require.NoError(t, db.Where("user_id = ? AND word_id = ? AND stage = ?", user.ID, words[0].ID, 1).
		First(&record).Error)
	assert.Equal(t, 2, record.Attempts)
	assert.Equal(t, 2, record.Correct)

	record = models.WordLearningRecord{}
	require.NoError(t, db.Where("user_id = ? AND word_id = ? AND stage = ?", user.ID, words[1].ID, 1).
		First(&record).Error)
	assert.Equal(t, 2, record.Attempts)
	assert.Equal(t, 1, record.Correct, "only the second submission marked it correct")
}

func TestSubmitSkipsResultsWithoutWordID(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "alice")
	group, words := seedGroupWithWords(t, db, 1, 2)

	results := append(resultsFor(words, 2), WordResult{WordID: 0, Correct: true})
	result, err := SubmitLearningResult(db, testSettings(), user.ID, group.ID, 1, results, 10)
	require.NoError(t, err)

	// The id-less result still counts toward accuracy but creates no record.
	assert.Equal(t, 3, result.TotalWords)
	var count int64
	require.NoError(t, db.Model(&models.WordLearningRecord{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestLearningRecordAccuracyZeroAttempts(t *testing.T) {
	record := models.WordLearningRecord{}
	assert.Equal(t, 0, record.Accuracy())

	record = models.WordLearningRecord{Attempts: 3, Correct: 2}
	assert.Equal(t, 67, record.Accuracy())
}

func TestLearningWords(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "alice")
	group, words := seedGroupWithWords(t, db, 1, 3)

	_, err := SubmitLearningResult(db, testSettings(), user.ID, group.ID, 1, resultsFor(words, 2), 10)
	require.NoError(t, err)

	annotated, err := LearningWords(db, user.ID, group.ID, 1)
	require.NoError(t, err)
	require.Len(t, annotated, 3)

	byID := map[uint]LearningWord{}
	for _, lw := range annotated {
		byID[lw.ID] = lw
	}
	assert.Equal(t, 1, byID[words[0].ID].LearningRecord.Attempts)
	assert.Equal(t, 100, byID[words[0].ID].LearningRecord.Accuracy)
	assert.Equal(t, 0, byID[words[2].ID].LearningRecord.Correct)

	// Stats are per stage: stage 2 has no records yet.
	annotated, err = LearningWords(db, user.ID, group.ID, 2)
	require.NoError(t, err)
	for _, lw := range annotated {
		assert.Zero(t, lw.LearningRecord.Attempts)
	}
}

func TestLearningWordsLockedGroup(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "alice")
	seedGroup(t, db, 1)
	locked, _ := seedGroupWithWords(t, db, 2, 2)

	_, err := LearningWords(db, user.ID, locked.ID, 1)
	assert.ErrorIs(t, err, ErrForbidden)
}
