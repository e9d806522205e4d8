package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"warbler/internal/model"
)

type UserRepository struct {
	db *gorm.DB
}

type UserStats struct {
	Messages  int64
	Following int64
	Followers int64
	Likes     int64
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create user failed: %w", translate(err))
	}
	return nil
}

// Update writes every profile column, including ones set back to empty strings.
func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	err := r.db.WithContext(ctx).
		Model(user).
		Select("username", "email", "image_url", "header_image_url", "bio", "location", "updated_at").
		Updates(user).Error
	if err != nil {
		return fmt.Errorf("update user failed: %w", translate(err))
	}
	return nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user by username failed: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user by id failed: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Order("username ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users failed: %w", err)
	}
	return users, nil
}

// likeEscaper escapes LIKE wildcards with '!', which every supported dialect reads verbatim.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// SearchByUsername matches usernames containing fragment anywhere, literally.
func (r *UserRepository) SearchByUsername(ctx context.Context, fragment string) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).
		Where("username LIKE ? ESCAPE '!'", "%"+likeEscaper.Replace(fragment)+"%").
		Order("username ASC").
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("search users failed: %w", err)
	}
	return users, nil
}

// ListFollowing returns the users that userID follows.
func (r *UserRepository) ListFollowing(ctx context.Context, userID uint) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).
		Joins("JOIN follows ON follows.followed_id = users.id").
		Where("follows.follower_id = ?", userID).
		Order("users.username ASC").
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list following failed: %w", err)
	}
	return users, nil
}

// ListFollowers returns the users following userID.
func (r *UserRepository) ListFollowers(ctx context.Context, userID uint) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.followed_id = ?", userID).
		Order("users.username ASC").
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list followers failed: %w", err)
	}
	return users, nil
}

func (r *UserRepository) Stats(ctx context.Context, userID uint) (UserStats, error) {
	var stats UserStats
	db := r.db.WithContext(ctx)
	if err := db.Model(&model.Message{}).Where("user_id = ?", userID).Count(&stats.Messages).Error; err != nil {
		return stats, fmt.Errorf("count messages failed: %w", err)
	}
	if err := db.Model(&model.Follow{}).Where("follower_id = ?", userID).Count(&stats.Following).Error; err != nil {
		return stats, fmt.Errorf("count following failed: %w", err)
	}
	if err := db.Model(&model.Follow{}).Where("followed_id = ?", userID).Count(&stats.Followers).Error; err != nil {
		return stats, fmt.Errorf("count followers failed: %w", err)
	}
	if err := db.Model(&model.Like{}).Where("user_id = ?", userID).Count(&stats.Likes).Error; err != nil {
		return stats, fmt.Errorf("count likes failed: %w", err)
	}
	return stats, nil
}

// DeleteCascade removes the user together with their messages, the likes on
// those messages, the likes they made and every follow edge touching them.
// It reports false when no such user existed.
func (r *UserRepository) DeleteCascade(ctx context.Context, userID uint) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ownMessages := tx.Model(&model.Message{}).Select("id").Where("user_id = ?", userID)

		if err := tx.Where("user_id = ? OR message_id IN (?)", userID, ownMessages).Delete(&model.Like{}).Error; err != nil {
			return fmt.Errorf("delete likes failed: %w", err)
		}
		if err := tx.Where("follower_id = ? OR followed_id = ?", userID, userID).Delete(&model.Follow{}).Error; err != nil {
			return fmt.Errorf("delete follows failed: %w", err)
		}
		if err := tx.Where("user_id = ?", userID).Delete(&model.Message{}).Error; err != nil {
			return fmt.Errorf("delete messages failed: %w", err)
		}
		result := tx.Delete(&model.User{}, userID)
		if result.Error != nil {
			return fmt.Errorf("delete user failed: %w", result.Error)
		}
		deleted = result.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}
