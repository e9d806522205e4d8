package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"warbler/internal/model"
)

const maxListLimit = 100

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(ctx context.Context, message *model.Message) error {
	if err := r.db.WithContext(ctx).Omit("User").Create(message).Error; err != nil {
		return fmt.Errorf("create message failed: %w", err)
	}
	return nil
}

func (r *MessageRepository) GetByID(ctx context.Context, id uint) (*model.Message, error) {
	var message model.Message
	if err := r.db.WithContext(ctx).Preload("User").First(&message, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get message failed: %w", err)
	}
	return &message, nil
}

func (r *MessageRepository) ListByUserID(ctx context.Context, userID uint, limit int) ([]model.Message, error) {
	var messages []model.Message
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		Order("messages.timestamp DESC").
		Order("messages.id DESC").
		Limit(clampLimit(limit)).
		Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("list messages failed: %w", err)
	}
	return messages, nil
}

// ListRecentByAuthors returns the newest messages written by any of authorIDs.
func (r *MessageRepository) ListRecentByAuthors(ctx context.Context, authorIDs []uint, limit int) ([]model.Message, error) {
	if len(authorIDs) == 0 {
		return nil, nil
	}
	var messages []model.Message
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id IN ?", authorIDs).
		Order("messages.timestamp DESC").
		Order("messages.id DESC").
		Limit(clampLimit(limit)).
		Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("list recent messages failed: %w", err)
	}
	return messages, nil
}

// ListLikedBy returns the messages userID has liked, newest first.
func (r *MessageRepository) ListLikedBy(ctx context.Context, userID uint) ([]model.Message, error) {
	var messages []model.Message
	if err := r.db.WithContext(ctx).
		Preload("User").
		Joins("JOIN likes ON likes.message_id = messages.id").
		Where("likes.user_id = ?", userID).
		Order("messages.timestamp DESC").
		Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("list liked messages failed: %w", err)
	}
	return messages, nil
}

// Delete removes the message and the likes on it.
func (r *MessageRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("message_id = ?", id).Delete(&model.Like{}).Error; err != nil {
			return fmt.Errorf("delete message likes failed: %w", err)
		}
		if err := tx.Delete(&model.Message{}, id).Error; err != nil {
			return fmt.Errorf("delete message failed: %w", err)
		}
		return nil
	})
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
