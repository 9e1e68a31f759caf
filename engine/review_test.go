package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingReview() Review {
	return Review{
		ID:           11,
		AuthorID:     3,
		VenueID:      5,
		VenueOwnerID: 2,
		Rating:       4,
	}
}

func approvedReview() Review {
	r := pendingReview()
	r.IsApproved = true
	return r
}

func TestModerateApprove(t *testing.T) {
	update, err := Moderate(pendingReview(), ActionApprove, 1, "", testNow)
	require.NoError(t, err)

	assert.True(t, update.Changed)
	assert.True(t, update.Approve)
	assert.False(t, update.Delete)
	require.NotNil(t, update.ModeratedBy)
	assert.Equal(t, uint(1), *update.ModeratedBy)
	require.Len(t, update.SideEffects, 1)
	assert.Equal(t, "REVIEW_APPROVED", update.SideEffects[0].Notification.Type)
	assert.Equal(t, uint(3), update.SideEffects[0].Notification.UserID)
}

func TestModerateApproveTwiceIsNoOp(t *testing.T) {
	update, err := Moderate(approvedReview(), ActionApprove, 1, "", testNow)
	require.NoError(t, err)
	assert.False(t, update.Changed)
	assert.Empty(t, update.SideEffects)
}

func TestModerateRejectRequiresReason(t *testing.T) {
	_, err := Moderate(pendingReview(), ActionReject, 1, "", testNow)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindMissingReason))
}

func TestModerateRejectDeletesAndNotifies(t *testing.T) {
	update, err := Moderate(pendingReview(), ActionReject, 1, "spam", testNow)
	require.NoError(t, err)

	assert.True(t, update.Changed)
	assert.True(t, update.Delete)
	require.NotNil(t, update.RejectionReason)
	assert.Equal(t, "spam", *update.RejectionReason)
	require.Len(t, update.SideEffects, 1)
	assert.Equal(t, "REVIEW_REJECTED", update.SideEffects[0].Notification.Type)
	assert.Contains(t, update.SideEffects[0].Notification.Message, "spam")
}

func TestModerateUnknownAction(t *testing.T) {
	_, err := Moderate(pendingReview(), "ESCALATE", 1, "", testNow)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindInvalidState))
}

func TestFlagAccumulatesReasons(t *testing.T) {
	review := approvedReview()

	first := Flag(review, 8, "offensive language")
	require.NotNil(t, first.FlagReason)
	assert.Equal(t, "[user #8] offensive language", *first.FlagReason)
	assert.True(t, first.Flagged)

	review.IsFlagged = true
	review.FlagReason = first.FlagReason

	second := Flag(review, 9, "fake review")
	require.NotNil(t, second.FlagReason)
	assert.Equal(t, "[user #8] offensive language; [user #9] fake review", *second.FlagReason)
}

func TestVoteHelpful(t *testing.T) {
	review := approvedReview()
	review.HelpfulCount = 2

	update, err := VoteHelpful(review, 8, false)
	require.NoError(t, err)
	require.NotNil(t, update.HelpfulCount)
	assert.Equal(t, 3, *update.HelpfulCount)
}

func TestVoteHelpfulOwnReview(t *testing.T) {
	review := approvedReview()

	_, err := VoteHelpful(review, review.AuthorID, false)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindCannotVoteOwnReview))
}

func TestVoteHelpfulTwice(t *testing.T) {
	_, err := VoteHelpful(approvedReview(), 8, true)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindAlreadyVoted))
}

func TestUnvoteHelpful(t *testing.T) {
	review := approvedReview()
	review.HelpfulCount = 1

	update, err := UnvoteHelpful(review, 8, true)
	require.NoError(t, err)
	require.NotNil(t, update.HelpfulCount)
	assert.Equal(t, 0, *update.HelpfulCount)

	_, err = UnvoteHelpful(review, 8, false)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindNotVoted))
}

func TestUnvoteHelpfulNeverGoesNegative(t *testing.T) {
	review := approvedReview()
	review.HelpfulCount = 0

	update, err := UnvoteHelpful(review, 8, true)
	require.NoError(t, err)
	assert.Equal(t, 0, *update.HelpfulCount)
}

func TestAddOwnerResponse(t *testing.T) {
	update, err := AddOwnerResponse(approvedReview(), 2, false, "thanks for visiting", testNow)
	require.NoError(t, err)

	assert.True(t, update.Changed)
	require.NotNil(t, update.OwnerResponse)
	assert.Equal(t, "thanks for visiting", *update.OwnerResponse)
	require.NotNil(t, update.RespondedAt)
	require.Len(t, update.SideEffects, 1)
	assert.Equal(t, "REVIEW_RESPONSE", update.SideEffects[0].Notification.Type)
}

func TestAddOwnerResponseRejectsNonOwner(t *testing.T) {
	_, err := AddOwnerResponse(approvedReview(), 99, false, "hi", testNow)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindNotVenueOwner))
}

func TestAddOwnerResponseAdminBypass(t *testing.T) {
	update, err := AddOwnerResponse(approvedReview(), 99, true, "handled by support", testNow)
	require.NoError(t, err)
	assert.True(t, update.Changed)
}

func TestOwnerResponseSingleton(t *testing.T) {
	review := approvedReview()
	existing := "already answered"
	review.OwnerResponse = &existing

	_, err := AddOwnerResponse(review, 2, false, "second answer", testNow)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindAlreadyResponded))

	update, err := UpdateOwnerResponse(review, 2, false, "edited answer", testNow)
	require.NoError(t, err)
	assert.Equal(t, "edited answer", *update.OwnerResponse)

	del, err := DeleteOwnerResponse(review, 2, false)
	require.NoError(t, err)
	assert.True(t, del.ClearResponse)
}

func TestUpdateOwnerResponseWithoutExisting(t *testing.T) {
	_, err := UpdateOwnerResponse(approvedReview(), 2, false, "text", testNow)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindNoResponseToUpdate))

	_, err = DeleteOwnerResponse(approvedReview(), 2, false)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindNoResponseToUpdate))
}

func TestAggregateRating(t *testing.T) {
	reviews := []Review{
		{Rating: 5, IsApproved: true},
		{Rating: 5, IsApproved: true},
		{Rating: 4, IsApproved: true},
		{Rating: 3, IsApproved: true},
	}

	summary := AggregateRating(reviews)

	assert.Equal(t, 4, summary.Count)
	require.NotNil(t, summary.Mean)
	assert.Equal(t, 4.25, *summary.Mean)
	require.NotNil(t, summary.MeanDisplay)
	assert.Equal(t, 4.3, *summary.MeanDisplay)
	assert.Equal(t, map[int]int{1: 0, 2: 0, 3: 1, 4: 1, 5: 2}, summary.Distribution)
}

func TestAggregateRatingRoundsHalfUp(t *testing.T) {
	// 9 fives and 11 fours: mean 4.45 displays as 4.5, not 4.4
	var reviews []Review
	for i := 0; i < 9; i++ {
		reviews = append(reviews, Review{Rating: 5, IsApproved: true})
	}
	for i := 0; i < 11; i++ {
		reviews = append(reviews, Review{Rating: 4, IsApproved: true})
	}
	summary := AggregateRating(reviews)

	require.NotNil(t, summary.Mean)
	assert.InDelta(t, 4.45, *summary.Mean, 0.0001)
	require.NotNil(t, summary.MeanDisplay)
	assert.Equal(t, 4.5, *summary.MeanDisplay)
}

func TestAggregateRatingSkipsUnapprovedAndInvalid(t *testing.T) {
	reviews := []Review{
		{Rating: 5, IsApproved: true},
		{Rating: 1, IsApproved: false},
		{Rating: 0, IsApproved: true},
		{Rating: 6, IsApproved: true},
	}

	summary := AggregateRating(reviews)

	assert.Equal(t, 1, summary.Count)
	require.NotNil(t, summary.Mean)
	assert.Equal(t, 5.0, *summary.Mean)
}

func TestAggregateRatingEmptySet(t *testing.T) {
	summary := AggregateRating(nil)

	assert.Equal(t, 0, summary.Count)
	assert.Nil(t, summary.Mean)
	assert.Nil(t, summary.MeanDisplay)
	assert.Equal(t, map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}, summary.Distribution)
}
