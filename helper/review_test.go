package helper

import (
	"testing"

	"quicksports/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedApprovedReview(t *testing.T, db *gorm.DB) *model.Review {
	t.Helper()
	review := model.Review{UserId: 3, VenueId: 1, Rating: 5, IsApproved: true}
	require.NoError(t, db.Create(&review).Error)
	return &review
}

// Two voters acting on the same stale copy of the review must both land:
// the counter is recomputed from the vote rows, not written back absolutely.
func TestApplyVoteIsAdditiveAcrossStaleCopies(t *testing.T) {
	db := openTestDB(t, &model.Review{}, &model.ReviewVote{})
	review := seedApprovedReview(t, db)

	first := *review
	second := *review

	count, err := ApplyVote(db, &first, 8)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = ApplyVote(db, &second, 9)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, 2, second.HelpfulCount)

	var stored model.Review
	require.NoError(t, db.First(&stored, review.ID).Error)
	assert.Equal(t, 2, stored.HelpfulCount)
}

func TestApplyVoteRejectsDuplicatePair(t *testing.T) {
	db := openTestDB(t, &model.Review{}, &model.ReviewVote{})
	review := seedApprovedReview(t, db)

	_, err := ApplyVote(db, review, 8)
	require.NoError(t, err)

	_, err = ApplyVote(db, review, 8)
	require.Error(t, err)

	var stored model.Review
	require.NoError(t, db.First(&stored, review.ID).Error)
	assert.Equal(t, 1, stored.HelpfulCount)
}

func TestRemoveVoteRecounts(t *testing.T) {
	db := openTestDB(t, &model.Review{}, &model.ReviewVote{})
	review := seedApprovedReview(t, db)

	_, err := ApplyVote(db, review, 8)
	require.NoError(t, err)
	_, err = ApplyVote(db, review, 9)
	require.NoError(t, err)

	count, err := RemoveVote(db, review, 8)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	var stored model.Review
	require.NoError(t, db.First(&stored, review.ID).Error)
	assert.Equal(t, 1, stored.HelpfulCount)

	// removing a vote that is not there is harmless
	count, err = RemoveVote(db, review, 8)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
