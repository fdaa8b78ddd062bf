package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wordclimb/wordclimb-api/config"
	"github.com/wordclimb/wordclimb-api/models"
)

func TestFirstGroupAlwaysUnlocked(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "alice")
	group := seedGroup(t, db, 1)

	unlocked, err := CheckGroupUnlocked(db, user.ID, group.ID)
	require.NoError(t, err)
	assert.True(t, unlocked)
}

func TestGroupUnlockRequiresPriorRecallCompleted(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "alice")
	first := seedGroup(t, db, 1)
	second := seedGroup(t, db, 2)

	unlocked, err := CheckGroupUnlocked(db, user.ID, second.ID)
	require.NoError(t, err)
	assert.False(t, unlocked, "second group locked before any progress")

	// Completing stages 1 and 2 is not enough.
	for stage := 1; stage <= 2; stage++ {
		_, err = UpdateLearningProgress(db, testSettings(), user.ID, first.ID, stage, 100)
		require.NoError(t, err)
	}
	unlocked, err = CheckGroupUnlocked(db, user.ID, second.ID)
	require.NoError(t, err)
	assert.False(t, unlocked)

	// A failed stage 3 does not unlock.
	_, err = UpdateLearningProgress(db, testSettings(), user.ID, first.ID, 3, 50)
	require.NoError(t, err)
	unlocked, err = CheckGroupUnlocked(db, user.ID, second.ID)
	require.NoError(t, err)
	assert.False(t, unlocked)

	// A passing stage 3 does.
	_, err = UpdateLearningProgress(db, testSettings(), user.ID, first.ID, 3, 90)
	require.NoError(t, err)
	unlocked, err = CheckGroupUnlocked(db, user.ID, second.ID)
	require.NoError(t, err)
	assert.True(t, unlocked)
}

func TestUnlockIsPerUser(t *testing.T) {
	db := testDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	first := seedGroup(t, db, 1)
	second := seedGroup(t, db, 2)

	_, err := UpdateLearningProgress(db, testSettings(), alice.ID, first.ID, 3, 100)
	require.NoError(t, err)

	unlocked, err := CheckGroupUnlocked(db, alice.ID, second.ID)
	require.NoError(t, err)
	assert.True(t, unlocked)

	unlocked, err = CheckGroupUnlocked(db, bob.ID, second.ID)
	require.NoError(t, err)
	assert.False(t, unlocked)
}

// A gap in sequence numbering makes the group unlock unconditionally.
// Quirky but deliberate: it mirrors the reference system, where a group
// with no sequence-N-1 predecessor is treated as reachable.
func TestGroupWithMissingPredecessorIsUnlocked(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "alice")
	seedGroup(t, db, 1)
	gapped := seedGroup(t, db, 5)

	unlocked, err := CheckGroupUnlocked(db, user.ID, gapped.ID)
	require.NoError(t, err)
	assert.True(t, unlocked)
}

func TestUpdateLearningProgressOverwrites(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "alice")
	group := seedGroup(t, db, 1)

	progress, err := UpdateLearningProgress(db, testSettings(), user.ID, group.ID, 1, 90)
	require.NoError(t, err)
	assert.Equal(t, 90.0, progress.Accuracy)
	assert.True(t, progress.Completed)
	firstPractice := progress.LastPractice

	// A worse resubmission overwrites, it does not average.
	progress, err = UpdateLearningProgress(db, testSettings(), user.ID, group.ID, 1, 40)
	require.NoError(t, err)
	assert.Equal(t, 40.0, progress.Accuracy)
	assert.False(t, progress.Completed)
	assert.False(t, progress.LastPractice.Before(firstPractice))

	// Still a single row for the triple.
	var count int64
	require.NoError(t, db.Model(&models.UserProgress{}).
		Where("user_id = ? AND group_id = ? AND stage = ?", user.ID, group.ID, 1).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUpdateLearningProgressThresholdBoundary(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "alice")
	group := seedGroup(t, db, 1)

	progress, err := UpdateLearningProgress(db, testSettings(), user.ID, group.ID, 2, 80)
	require.NoError(t, err)
	assert.True(t, progress.Completed, "exactly the threshold passes")

	progress, err = UpdateLearningProgress(db, testSettings(), user.ID, group.ID, 2, 79)
	require.NoError(t, err)
	assert.False(t, progress.Completed)
}

func TestUserProgressReport(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "alice")
	first := seedGroup(t, db, 1)
	seedGroup(t, db, 2)

	_, err := UpdateLearningProgress(db, testSettings(), user.ID, first.ID, 1, 100)
	require.NoError(t, err)

	report, err := UserProgressReport(db, user.ID)
	require.NoError(t, err)
	require.Len(t, report, 2)

	assert.True(t, report[0].Unlocked)
	assert.True(t, report[0].Stages[1].Completed)
	assert.Equal(t, 100.0, report[0].Stages[1].Accuracy)
	assert.NotNil(t, report[0].Stages[1].LastPractice)

	// Never-practiced stages report zero progress.
	assert.False(t, report[0].Stages[2].Completed)
	assert.Zero(t, report[0].Stages[2].Accuracy)
	assert.Nil(t, report[0].Stages[2].LastPractice)

	assert.False(t, report[1].Unlocked)
}

func TestGroupProgressReportUnknownGroup(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "alice")

	_, err := GroupProgressReport(db, user.ID, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFinalChallengeUnlocked(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "alice")

	// No groups at all: locked.
	unlocked, err := FinalChallengeUnlocked(db, user.ID)
	require.NoError(t, err)
	assert.False(t, unlocked)

	first := seedGroup(t, db, 1)
	second := seedGroup(t, db, 2)

	_, err = UpdateLearningProgress(db, testSettings(), user.ID, first.ID, config.StageRecall, 100)
	require.NoError(t, err)
	unlocked, err = FinalChallengeUnlocked(db, user.ID)
	require.NoError(t, err)
	assert.False(t, unlocked, "one group still incomplete")

	_, err = UpdateLearningProgress(db, testSettings(), user.ID, second.ID, config.StageRecall, 100)
	require.NoError(t, err)
	unlocked, err = FinalChallengeUnlocked(db, user.ID)
	require.NoError(t, err)
	assert.True(t, unlocked)
}
