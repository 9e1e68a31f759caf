package helper

import (
	"quicksports/engine"
	"quicksports/model"

	"gorm.io/gorm"
)

// ApplyReviewUpdate persists an engine review update in one transaction and
// then runs the side effects. Like bookings, side-effect failures come back
// as warnings and never roll the mutation back.
func ApplyReviewUpdate(db *gorm.DB, review *model.Review, update engine.ReviewUpdate) ([]string, error) {
	if !update.Changed {
		return nil, nil
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if update.Delete {
			if err := tx.Where("review_id = ?", review.ID).Delete(&model.ReviewVote{}).Error; err != nil {
				return err
			}
			return tx.Delete(review).Error
		}

		fields := map[string]any{}
		if update.Approve {
			fields["is_approved"] = true
			fields["is_flagged"] = false
			fields["flag_reason"] = nil
		}
		if update.ModeratedBy != nil {
			fields["moderated_by"] = *update.ModeratedBy
		}
		if update.ModeratedAt != nil {
			fields["moderated_at"] = *update.ModeratedAt
		}
		if update.Flagged {
			fields["is_flagged"] = true
			fields["flag_reason"] = update.FlagReason
		}
		if update.HelpfulCount != nil {
			fields["helpful_count"] = *update.HelpfulCount
		}
		if update.OwnerResponse != nil {
			fields["owner_response"] = *update.OwnerResponse
			fields["responded_at"] = update.RespondedAt
		}
		if update.ClearResponse {
			fields["owner_response"] = nil
			fields["responded_at"] = nil
		}
		if len(fields) == 0 {
			return nil
		}
		return tx.Model(review).Updates(fields).Error
	})
	if err != nil {
		return nil, err
	}

	if update.Approve {
		review.IsApproved = true
		review.IsFlagged = false
		review.FlagReason = nil
	}
	if update.Flagged {
		review.IsFlagged = true
		review.FlagReason = update.FlagReason
	}
	if update.HelpfulCount != nil {
		review.HelpfulCount = *update.HelpfulCount
	}
	if update.OwnerResponse != nil {
		review.OwnerResponse = update.OwnerResponse
		review.RespondedAt = update.RespondedAt
	}
	if update.ClearResponse {
		review.OwnerResponse = nil
		review.RespondedAt = nil
	}

	warnings := ExecuteSideEffects(db, update.SideEffects)
	return warnings, nil
}

// ApplyVote inserts the (review, voter) row and recomputes the helpful counter
// from the vote rows inside the same transaction. The recount makes concurrent
// votes by different users additive; the unique index rejects a duplicate pair.
func ApplyVote(db *gorm.DB, review *model.Review, voterID uint) (int, error) {
	var count int64
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&model.ReviewVote{ReviewId: review.ID, UserId: voterID}).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.ReviewVote{}).Where("review_id = ?", review.ID).Count(&count).Error; err != nil {
			return err
		}
		return tx.Model(review).UpdateColumn("helpful_count", count).Error
	})
	if err != nil {
		return 0, err
	}
	review.HelpfulCount = int(count)
	return int(count), nil
}

// RemoveVote deletes the voter's row and recounts, same scheme as ApplyVote.
func RemoveVote(db *gorm.DB, review *model.Review, voterID uint) (int, error) {
	var count int64
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("review_id = ? AND user_id = ?", review.ID, voterID).
			Delete(&model.ReviewVote{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.ReviewVote{}).Where("review_id = ?", review.ID).Count(&count).Error; err != nil {
			return err
		}
		return tx.Model(review).UpdateColumn("helpful_count", count).Error
	})
	if err != nil {
		return 0, err
	}
	review.HelpfulCount = int(count)
	return int(count), nil
}
