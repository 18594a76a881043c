package catalog

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shop-backend/model"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Upsert writes a customer's review of a family as one conditional insert:
// a second review by the same customer updates the first instead of adding a
// row, so concurrent submissions cannot produce duplicates. The family's
// denormalized rating and review count are recomputed afterwards.
func (r *ReviewRepository) Upsert(ctx context.Context, review *model.Review) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "customer_id"}, {Name: "family_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"rating", "comment", "customer_name", "customer_avatar", "updated_at",
		}),
	}).Create(review).Error
	if err != nil {
		return err
	}
	return r.refreshFamilyRating(ctx, review.FamilyID)
}

func (r *ReviewRepository) refreshFamilyRating(ctx context.Context, familyID uint) error {
	var agg struct {
		Avg   float64
		Count int
	}
	err := r.db.WithContext(ctx).Model(&model.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("family_id = ?", familyID).
		Scan(&agg).Error
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(&model.Family{}).
		Where("id = ?", familyID).
		Updates(map[string]interface{}{
			"rating":       agg.Avg,
			"review_count": agg.Count,
		}).Error
}

func (r *ReviewRepository) ListByFamily(ctx context.Context, familyID uint) ([]model.Review, error) {
	var reviews []model.Review
	err := r.db.WithContext(ctx).
		Where("family_id = ?", familyID).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}
