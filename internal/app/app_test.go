package app

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"warbler/internal/model"
	"warbler/internal/repository"
	"warbler/internal/testutil"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []model.ActivityEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event model.ActivityEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) types() []model.ActivityType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]model.ActivityType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type services struct {
	db        *gorm.DB
	auth      *AuthService
	social    *SocialService
	messages  *MessageService
	publisher *recordingPublisher
}

func newServices(t *testing.T) *services {
	t.Helper()
	db := testutil.NewDB(t)
	publisher := &recordingPublisher{}
	activity := NewActivityRecorder(publisher, nil)

	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	return &services{
		db:        db,
		auth:      NewAuthService(userRepo, bcrypt.MinCost, activity),
		social:    NewSocialService(userRepo, followRepo, likeRepo, messageRepo, activity),
		messages:  NewMessageService(messageRepo, followRepo, activity),
		publisher: publisher,
	}
}

func (s *services) signup(t *testing.T, username string) *model.User {
	t.Helper()
	user, err := s.auth.Signup(context.Background(), SignupInput{
		Username: username,
		Email:    username + "@test.com",
		Password: "password",
	})
	require.NoError(t, err)
	return user
}

func (s *services) userCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, s.db.Model(&model.User{}).Count(&count).Error)
	return count
}

var errBrokerDown = errors.New("broker down")
