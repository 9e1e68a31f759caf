package engine

import (
	"fmt"
	"math"
	"time"
)

type ModerationAction string

const (
	ActionApprove ModerationAction = "APPROVE"
	ActionReject  ModerationAction = "REJECT"
)

// Review is the engine's view of a review row.
type Review struct {
	ID            uint
	AuthorID      uint
	VenueID       uint
	VenueOwnerID  uint
	Rating        int
	IsApproved    bool
	IsFlagged     bool
	FlagReason    *string
	HelpfulCount  int
	OwnerResponse *string
}

// ReviewUpdate is the computed mutation for a review; zero-value fields are
// left untouched by the executor. Delete means the row is removed entirely.
type ReviewUpdate struct {
	Changed         bool
	Approve         bool
	Delete          bool
	ModeratedBy     *uint
	ModeratedAt     *time.Time
	RejectionReason *string
	Flagged         bool
	FlagReason      *string
	HelpfulCount    *int
	OwnerResponse   *string
	ClearResponse   bool
	RespondedAt     *time.Time
	SideEffects     []SideEffect
}

// Moderate computes the outcome of an admin APPROVE/REJECT action.
// Approving an already-approved review is an accepted no-op.
func Moderate(r Review, action ModerationAction, moderatorID uint, reason string, now time.Time) (ReviewUpdate, error) {
	switch action {
	case ActionApprove:
		if r.IsApproved {
			return ReviewUpdate{Changed: false}, nil
		}
		u := ReviewUpdate{
			Changed:     true,
			Approve:     true,
			ModeratedBy: &moderatorID,
			ModeratedAt: &now,
		}
		u.SideEffects = append(u.SideEffects, reviewNotification(r, "REVIEW_APPROVED", "Review published",
			"Your review has been approved and is now visible.", moderatorID))
		return u, nil

	case ActionReject:
		if reason == "" {
			return ReviewUpdate{}, newError(KindMissingReason, "a reason is required to reject a review")
		}
		// Reject removes the review rather than keeping a rejected-but-visible row.
		u := ReviewUpdate{
			Changed:         true,
			Delete:          true,
			ModeratedBy:     &moderatorID,
			ModeratedAt:     &now,
			RejectionReason: &reason,
		}
		u.SideEffects = append(u.SideEffects, reviewNotification(r, "REVIEW_REJECTED", "Review removed",
			fmt.Sprintf("Your review was removed by a moderator. Reason: %s", reason), moderatorID))
		return u, nil
	}

	return ReviewUpdate{}, newError(KindInvalidState, fmt.Sprintf("unknown moderation action %q", action))
}

// Flag marks a review for moderation. Reasons accumulate so the full
// flag history survives repeated reports.
func Flag(r Review, reporterID uint, reason string) ReviewUpdate {
	entry := fmt.Sprintf("[user #%d] %s", reporterID, reason)
	combined := entry
	if r.FlagReason != nil && *r.FlagReason != "" {
		combined = *r.FlagReason + "; " + entry
	}
	return ReviewUpdate{
		Changed:    true,
		Flagged:    true,
		FlagReason: &combined,
	}
}

// VoteHelpful records one helpful vote. hasVoted is the storage-layer answer
// to "does a (review, voter) row already exist"; the unique constraint there
// closes the race between concurrent votes.
func VoteHelpful(r Review, voterID uint, hasVoted bool) (ReviewUpdate, error) {
	if voterID == r.AuthorID {
		return ReviewUpdate{}, newError(KindCannotVoteOwnReview, "you cannot vote on your own review")
	}
	if hasVoted {
		return ReviewUpdate{}, newError(KindAlreadyVoted, "you already voted on this review")
	}
	count := r.HelpfulCount + 1
	return ReviewUpdate{Changed: true, HelpfulCount: &count}, nil
}

// UnvoteHelpful removes a previously recorded vote; the count never goes below zero.
func UnvoteHelpful(r Review, voterID uint, hasVoted bool) (ReviewUpdate, error) {
	if !hasVoted {
		return ReviewUpdate{}, newError(KindNotVoted, "you have not voted on this review")
	}
	count := r.HelpfulCount - 1
	if count < 0 {
		count = 0
	}
	return ReviewUpdate{Changed: true, HelpfulCount: &count}, nil
}

// AddOwnerResponse attaches the single owner reply to a review. The caller
// resolves admin permission; isAdmin bypasses the owner check only.
func AddOwnerResponse(r Review, responderID uint, isAdmin bool, text string, now time.Time) (ReviewUpdate, error) {
	if !isAdmin && responderID != r.VenueOwnerID {
		return ReviewUpdate{}, newError(KindNotVenueOwner, "only the venue owner can respond to this review")
	}
	if r.OwnerResponse != nil {
		return ReviewUpdate{}, newError(KindAlreadyResponded, "this review already has a response, use update instead")
	}
	u := ReviewUpdate{
		Changed:       true,
		OwnerResponse: &text,
		RespondedAt:   &now,
	}
	u.SideEffects = append(u.SideEffects, reviewNotification(r, "REVIEW_RESPONSE", "Owner replied to your review",
		"The venue owner responded to your review.", responderID))
	return u, nil
}

func UpdateOwnerResponse(r Review, responderID uint, isAdmin bool, text string, now time.Time) (ReviewUpdate, error) {
	if !isAdmin && responderID != r.VenueOwnerID {
		return ReviewUpdate{}, newError(KindNotVenueOwner, "only the venue owner can respond to this review")
	}
	if r.OwnerResponse == nil {
		return ReviewUpdate{}, newError(KindNoResponseToUpdate, "no response exists yet")
	}
	return ReviewUpdate{Changed: true, OwnerResponse: &text, RespondedAt: &now}, nil
}

func DeleteOwnerResponse(r Review, responderID uint, isAdmin bool) (ReviewUpdate, error) {
	if !isAdmin && responderID != r.VenueOwnerID {
		return ReviewUpdate{}, newError(KindNotVenueOwner, "only the venue owner can remove this response")
	}
	if r.OwnerResponse == nil {
		return ReviewUpdate{}, newError(KindNoResponseToUpdate, "nothing to delete")
	}
	return ReviewUpdate{Changed: true, ClearResponse: true}, nil
}

// RatingSummary aggregates the approved reviews of a venue.
type RatingSummary struct {
	Count        int         `json:"count"`
	Mean         *float64    `json:"mean"`        // full precision, nil for an empty set
	MeanDisplay  *float64    `json:"meanDisplay"` // rounded half-up to one decimal
	Distribution map[int]int `json:"distribution"`
}

// AggregateRating computes count, mean and the 1-5 histogram over approved
// reviews. An empty set yields count 0 and nil means, never a division by zero.
func AggregateRating(reviews []Review) RatingSummary {
	dist := map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	sum, count := 0, 0
	for _, r := range reviews {
		if !r.IsApproved {
			continue
		}
		if r.Rating < 1 || r.Rating > 5 {
			continue
		}
		dist[r.Rating]++
		sum += r.Rating
		count++
	}

	summary := RatingSummary{Count: count, Distribution: dist}
	if count > 0 {
		mean := float64(sum) / float64(count)
		display := math.Floor(mean*10+0.5) / 10 // round half-up
		summary.Mean = &mean
		summary.MeanDisplay = &display
	}
	return summary
}

func reviewNotification(r Review, typ, title, message string, actorID uint) SideEffect {
	return SideEffect{
		Kind: EffectNotificationCreate,
		Notification: &NotificationInstruction{
			UserID:  r.AuthorID,
			Type:    typ,
			Title:   title,
			Message: message,
			Data:    map[string]any{"reviewId": r.ID, "adminId": actorID},
		},
	}
}
