package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"warbler/internal/model"
)

// FollowRepository manages the follows edge set. Add and Remove are idempotent.
type FollowRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) *FollowRepository {
	return &FollowRepository{db: db}
}

// Add inserts the edge if absent and reports whether a row was written.
func (r *FollowRepository) Add(ctx context.Context, followerID, followedID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Omit(clause.Associations).
		Create(&model.Follow{FollowerID: followerID, FollowedID: followedID})
	if result.Error != nil {
		return false, fmt.Errorf("add follow failed: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Remove deletes the edge if present and reports whether a row was removed.
func (r *FollowRepository) Remove(ctx context.Context, followerID, followedID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&model.Follow{})
	if result.Error != nil {
		return false, fmt.Errorf("remove follow failed: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *FollowRepository) Exists(ctx context.Context, followerID, followedID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("check follow failed: %w", err)
	}
	return count > 0, nil
}

// FollowedIDs lists the ids of the users followerID follows.
func (r *FollowRepository) FollowedIDs(ctx context.Context, followerID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("follower_id = ?", followerID).
		Pluck("followed_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("list followed ids failed: %w", err)
	}
	return ids, nil
}
