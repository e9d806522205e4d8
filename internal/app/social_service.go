package app

import (
	"context"
	"strings"

	"warbler/internal/model"
	"warbler/internal/repository"
)

type SocialService struct {
	userRepo    *repository.UserRepository
	followRepo  *repository.FollowRepository
	likeRepo    *repository.LikeRepository
	messageRepo *repository.MessageRepository
	activity    *ActivityRecorder
}

// UserSummary is the header shown on every per-user page.
type UserSummary struct {
	User  *model.User
	Stats repository.UserStats
}

type Profile struct {
	UserSummary
	Messages []model.Message
}

func NewSocialService(
	userRepo *repository.UserRepository,
	followRepo *repository.FollowRepository,
	likeRepo *repository.LikeRepository,
	messageRepo *repository.MessageRepository,
	activity *ActivityRecorder,
) *SocialService {
	return &SocialService{
		userRepo:    userRepo,
		followRepo:  followRepo,
		likeRepo:    likeRepo,
		messageRepo: messageRepo,
		activity:    activity,
	}
}

func (s *SocialService) ListUsers(ctx context.Context, query string) ([]model.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.userRepo.List(ctx)
	}
	return s.userRepo.SearchByUsername(ctx, query)
}

func (s *SocialService) Summary(ctx context.Context, userID uint) (*UserSummary, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	stats, err := s.userRepo.Stats(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UserSummary{User: user, Stats: stats}, nil
}

func (s *SocialService) Profile(ctx context.Context, userID uint) (*Profile, error) {
	summary, err := s.Summary(ctx, userID)
	if err != nil {
		return nil, err
	}
	messages, err := s.messageRepo.ListByUserID(ctx, userID, FeedLimit)
	if err != nil {
		return nil, err
	}
	return &Profile{UserSummary: *summary, Messages: messages}, nil
}

func (s *SocialService) Following(ctx context.Context, userID uint) ([]model.User, error) {
	return s.userRepo.ListFollowing(ctx, userID)
}

func (s *SocialService) Followers(ctx context.Context, userID uint) ([]model.User, error) {
	return s.userRepo.ListFollowers(ctx, userID)
}

func (s *SocialService) LikedMessages(ctx context.Context, userID uint) ([]model.Message, error) {
	return s.messageRepo.ListLikedBy(ctx, userID)
}

// IsFollowing reports whether followerID follows followedID.
func (s *SocialService) IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error) {
	return s.followRepo.Exists(ctx, followerID, followedID)
}

// IsFollowedBy reports whether userID is followed by otherID.
func (s *SocialService) IsFollowedBy(ctx context.Context, userID, otherID uint) (bool, error) {
	return s.followRepo.Exists(ctx, otherID, userID)
}

// FollowedIDs returns the ids userID follows, for rendering follow buttons.
func (s *SocialService) FollowedIDs(ctx context.Context, userID uint) (map[uint]bool, error) {
	ids, err := s.followRepo.FollowedIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func (s *SocialService) Follow(ctx context.Context, actorID, targetID uint) error {
	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrUserNotFound
	}
	if actorID == targetID {
		return ErrCannotFollowSelf
	}

	added, err := s.followRepo.Add(ctx, actorID, targetID)
	if err != nil {
		return err
	}
	if added {
		s.activity.Record(ctx, model.ActivityUserFollowed, actorID, targetID)
	}
	return nil
}

// Unfollow is a no-op when the edge or the target does not exist.
func (s *SocialService) Unfollow(ctx context.Context, actorID, targetID uint) error {
	removed, err := s.followRepo.Remove(ctx, actorID, targetID)
	if err != nil {
		return err
	}
	if removed {
		s.activity.Record(ctx, model.ActivityUserUnfollowed, actorID, targetID)
	}
	return nil
}

func (s *SocialService) Like(ctx context.Context, userID, messageID uint) error {
	message, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if message == nil {
		return ErrMessageNotFound
	}

	added, err := s.likeRepo.Add(ctx, userID, messageID)
	if err != nil {
		return err
	}
	if added {
		s.activity.Record(ctx, model.ActivityMessageLiked, userID, messageID)
	}
	return nil
}

// Unlike is a no-op when the like or the message does not exist.
func (s *SocialService) Unlike(ctx context.Context, userID, messageID uint) error {
	removed, err := s.likeRepo.Remove(ctx, userID, messageID)
	if err != nil {
		return err
	}
	if removed {
		s.activity.Record(ctx, model.ActivityMessageUnliked, userID, messageID)
	}
	return nil
}

func (s *SocialService) HasLiked(ctx context.Context, userID, messageID uint) (bool, error) {
	return s.likeRepo.Exists(ctx, userID, messageID)
}

// LikedMessageIDs returns the subset of messages userID has liked as a set.
func (s *SocialService) LikedMessageIDs(ctx context.Context, userID uint, messages []model.Message) (map[uint]bool, error) {
	ids := make([]uint, 0, len(messages))
	for _, m := range messages {
		ids = append(ids, m.ID)
	}
	liked, err := s.likeRepo.LikedMessageIDs(ctx, userID, ids)
	if err != nil {
		return nil, err
	}
	set := make(map[uint]bool, len(liked))
	for _, id := range liked {
		set[id] = true
	}
	return set, nil
}
