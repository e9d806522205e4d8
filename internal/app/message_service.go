package app

import (
	"context"
	"strings"
	"unicode/utf8"

	"warbler/internal/model"
	"warbler/internal/repository"
)

// FeedLimit caps the home feed and profile message lists.
const FeedLimit = 100

type MessageService struct {
	messageRepo *repository.MessageRepository
	followRepo  *repository.FollowRepository
	activity    *ActivityRecorder
}

func NewMessageService(messageRepo *repository.MessageRepository, followRepo *repository.FollowRepository, activity *ActivityRecorder) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		followRepo:  followRepo,
		activity:    activity,
	}
}

func (s *MessageService) Create(ctx context.Context, userID uint, text string) (*model.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrMessageEmpty
	}
	if utf8.RuneCountInString(text) > model.MaxMessageLength {
		return nil, ErrMessageTooLong
	}

	message := &model.Message{UserID: userID, Text: text}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}
	s.activity.Record(ctx, model.ActivityMessageCreated, userID, message.ID)
	return message, nil
}

func (s *MessageService) Get(ctx context.Context, id uint) (*model.Message, error) {
	message, err := s.messageRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if message == nil {
		return nil, ErrMessageNotFound
	}
	return message, nil
}

// Delete removes a message and its likes. Only the author may delete.
func (s *MessageService) Delete(ctx context.Context, actorID, id uint) error {
	message, err := s.messageRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if message == nil {
		return ErrMessageNotFound
	}
	if message.UserID != actorID {
		return ErrNotMessageOwner
	}
	if err := s.messageRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.activity.Record(ctx, model.ActivityMessageDeleted, actorID, id)
	return nil
}

// Feed returns the newest messages written by userID or anyone they follow.
func (s *MessageService) Feed(ctx context.Context, userID uint) ([]model.Message, error) {
	authors, err := s.followRepo.FollowedIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	authors = append(authors, userID)
	return s.messageRepo.ListRecentByAuthors(ctx, authors, FeedLimit)
}
