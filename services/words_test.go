package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wordclimb/wordclimb-api/config"
	"github.com/wordclimb/wordclimb-api/models"
)

func TestCreateWordRoundTrip(t *testing.T) {
	db := testDB(t)

	created, err := CreateWord(db, "dictionary", "字典", 0)
	require.NoError(t, err)
	assert.Equal(t, 3, created.Difficulty, "10 letters derive to hard")

	var read models.Word
	require.NoError(t, db.First(&read, created.ID).Error)
	assert.Equal(t, "dictionary", read.Word)
	assert.Equal(t, "字典", read.Translation)
	assert.Equal(t, created.Difficulty, read.Difficulty)
}

func TestCreateWordExplicitDifficultyWins(t *testing.T) {
	db := testDB(t)

	created, err := CreateWord(db, "cat", "猫", 4)
	require.NoError(t, err)
	assert.Equal(t, 4, created.Difficulty)
}

func TestCreateWordValidation(t *testing.T) {
	db := testDB(t)

	_, err := CreateWord(db, "  ", "translation", 0)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = CreateWord(db, "word", "", 0)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = CreateWord(db, "duplicate", "one", 0)
	require.NoError(t, err)
	_, err = CreateWord(db, "duplicate", "two", 0)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestUpdateWord(t *testing.T) {
	db := testDB(t)
	first, err := CreateWord(db, "first", "一", 0)
	require.NoError(t, err)
	_, err = CreateWord(db, "second", "二", 0)
	require.NoError(t, err)

	newText := "renamed"
	updated, err := UpdateWord(db, first.ID, &newText, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Word)
	assert.Equal(t, "一", updated.Translation, "untouched fields survive")

	// Renaming onto another word's text is a duplicate.
	clash := "second"
	_, err = UpdateWord(db, first.ID, &clash, nil, nil)
	assert.ErrorIs(t, err, ErrDuplicate)

	// Renaming to its own current text is fine.
	same := "renamed"
	_, err = UpdateWord(db, first.ID, &same, nil, nil)
	assert.NoError(t, err)

	_, err = UpdateWord(db, 999, &newText, nil, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteWordCascades(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "alice")
	group := seedGroup(t, db, 1)
	word, err := CreateWord(db, "ephemeral", "短暂", 0)
	require.NoError(t, err)
	addToGroup(t, db, group.ID, word.ID)
	require.NoError(t, db.Create(&models.WordLearningRecord{
		UserID: user.ID, WordID: word.ID, Stage: 1, Attempts: 3, Correct: 2,
	}).Error)

	require.NoError(t, DeleteWord(db, word.ID))

	var count int64
	require.NoError(t, db.Model(&models.GroupWord{}).Where("word_id = ?", word.ID).Count(&count).Error)
	assert.Zero(t, count, "membership removed")
	require.NoError(t, db.Model(&models.WordLearningRecord{}).Where("word_id = ?", word.ID).Count(&count).Error)
	assert.Zero(t, count, "learning records removed")

	// The group itself survives.
	var remaining models.WordGroup
	assert.NoError(t, db.First(&remaining, group.ID).Error)

	assert.ErrorIs(t, DeleteWord(db, word.ID), ErrNotFound)
}

func TestRecreateWordAfterDelete(t *testing.T) {
	db := testDB(t)
	word, err := CreateWord(db, "phoenix", "凤凰", 0)
	require.NoError(t, err)
	require.NoError(t, DeleteWord(db, word.ID))

	// The deleted row must not linger and trip the unique word index.
	recreated, err := CreateWord(db, "phoenix", "不死鸟", 0)
	require.NoError(t, err)
	assert.NotEqual(t, word.ID, recreated.ID)
	assert.Equal(t, "不死鸟", recreated.Translation)
}

func TestWordsNotInGroups(t *testing.T) {
	db := testDB(t)
	group := seedGroup(t, db, 1)
	words := seedWords(t, db, config.DifficultyEasy, 3)
	addToGroup(t, db, group.ID, words[1].ID)

	pool, err := WordsNotInGroups(db)
	require.NoError(t, err)
	require.Len(t, pool, 2)
	assert.Equal(t, words[0].ID, pool[0].ID, "catalog order preserved")
	assert.Equal(t, words[2].ID, pool[1].ID)
}

func TestFinalChallengeWords(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "alice")
	done := seedGroup(t, db, 1)
	pending := seedGroup(t, db, 2)
	doneWords := seedWords(t, db, config.DifficultyEasy, 2)
	pendingWords := seedWords(t, db, config.DifficultyMedium, 2)
	for _, w := range doneWords {
		addToGroup(t, db, done.ID, w.ID)
	}
	for _, w := range pendingWords {
		addToGroup(t, db, pending.ID, w.ID)
	}

	words, err := FinalChallengeWords(db, user.ID)
	require.NoError(t, err)
	assert.Empty(t, words, "nothing completed yet")

	_, err = UpdateLearningProgress(db, testSettings(), user.ID, done.ID, config.StageRecall, 100)
	require.NoError(t, err)

	words, err = FinalChallengeWords(db, user.ID)
	require.NoError(t, err)
	require.Len(t, words, 2)
	for _, w := range words {
		assert.Equal(t, config.DifficultyEasy, w.Difficulty)
	}
}
