package helper

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"quicksports/database"
	"quicksports/engine"
	"quicksports/model"
)

const ratingCacheTTL = 48 * time.Hour

func ratingCacheKey(venueId uint) string {
	return fmt.Sprintf("venue:%d:rating", venueId)
}

// EngineReview maps a stored review (with its venue's owner) to the engine view.
func EngineReview(r model.Review, venueOwnerId uint) engine.Review {
	return engine.Review{
		ID:            r.ID,
		AuthorID:      r.UserId,
		VenueID:       r.VenueId,
		VenueOwnerID:  venueOwnerId,
		Rating:        r.Rating,
		IsApproved:    r.IsApproved,
		IsFlagged:     r.IsFlagged,
		FlagReason:    r.FlagReason,
		HelpfulCount:  r.HelpfulCount,
		OwnerResponse: r.OwnerResponse,
	}
}

// VenueRatingSummary aggregates a venue's approved reviews, going through the
// redis cache first. The cache is refreshed on review mutations and daily.
func VenueRatingSummary(venueId uint) (engine.RatingSummary, error) {
	if database.Redis != nil {
		cached, err := database.Redis.Get(context.Background(), ratingCacheKey(venueId)).Result()
		if err == nil {
			var summary engine.RatingSummary
			if json.Unmarshal([]byte(cached), &summary) == nil {
				return summary, nil
			}
		}
	}
	return RefreshVenueRating(venueId)
}

// RefreshVenueRating recomputes the summary from storage, caches it and
// mirrors the display mean onto the venue row for cheap listing queries.
func RefreshVenueRating(venueId uint) (engine.RatingSummary, error) {
	db := database.DB

	var reviews []model.Review
	if err := db.Where("venue_id = ? AND is_approved = ?", venueId, true).Find(&reviews).Error; err != nil {
		return engine.RatingSummary{}, err
	}

	views := make([]engine.Review, 0, len(reviews))
	for _, r := range reviews {
		views = append(views, EngineReview(r, 0))
	}
	summary := engine.AggregateRating(views)

	display := 0.0
	if summary.MeanDisplay != nil {
		display = *summary.MeanDisplay
	}
	if err := db.Model(&model.Venue{}).Where("id = ?", venueId).Update("rating", display).Error; err != nil {
		log.Printf("Venue rating update failed (venue=%d): %v", venueId, err)
	}

	if database.Redis != nil {
		if payload, err := json.Marshal(summary); err == nil {
			database.Redis.Set(context.Background(), ratingCacheKey(venueId), payload, ratingCacheTTL)
		}
	}

	return summary, nil
}

// RefreshAllVenueRatings walks every active venue; used by the daily job.
func RefreshAllVenueRatings() {
	db := database.DB

	var venueIds []uint
	if err := db.Model(&model.Venue{}).Where("is_active = ?", true).Pluck("id", &venueIds).Error; err != nil {
		log.Printf("Rating refresh scan failed: %v", err)
		return
	}

	for _, id := range venueIds {
		if _, err := RefreshVenueRating(id); err != nil {
			log.Printf("Rating refresh failed (venue=%d): %v", id, err)
		}
	}
	log.Printf("Refreshed rating cache for %d venues", len(venueIds))
}
