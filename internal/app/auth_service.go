package app

import (
	"context"
	"errors"
	"strings"

	"warbler/internal/model"
	"warbler/internal/repository"
)

type AuthService struct {
	userRepo   *repository.UserRepository
	bcryptCost int
	activity   *ActivityRecorder
}

type SignupInput struct {
	Username string
	Email    string
	Password string
	ImageURL string
}

// ProfileInput.Password is the current password, not a new one.
type ProfileInput struct {
	Username       string
	Email          string
	ImageURL       string
	HeaderImageURL string
	Bio            string
	Location       string
	Password       string
}

func NewAuthService(userRepo *repository.UserRepository, bcryptCost int, activity *ActivityRecorder) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		bcryptCost: bcryptCost,
		activity:   activity,
	}
}

func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*model.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)
	if input.Password == "" {
		return nil, ErrPasswordRequired
	}
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if email == "" {
		return nil, ErrEmailRequired
	}

	hash, err := hashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:       username,
		Email:          email,
		PasswordHash:   hash,
		ImageURL:       orDefault(input.ImageURL, model.DefaultImageURL),
		HeaderImageURL: model.DefaultHeaderImageURL,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUsernameOrEmailTaken
		}
		return nil, err
	}

	s.activity.Record(ctx, model.ActivityUserSignedUp, user.ID, 0)
	return user, nil
}

// Authenticate returns ErrInvalidCredential for every kind of mismatch so
// callers cannot tell an unknown username from a wrong password.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredential
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil || !checkPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredential
	}
	return user, nil
}

func (s *AuthService) VerifyPassword(user *model.User, candidate string) bool {
	if user == nil {
		return false
	}
	return checkPassword(user.PasswordHash, candidate)
}

func (s *AuthService) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	if id == 0 {
		return nil, nil
	}
	return s.userRepo.GetByID(ctx, id)
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID uint, input ProfileInput) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !checkPassword(user.PasswordHash, input.Password) {
		return nil, ErrInvalidCredential
	}

	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if email == "" {
		return nil, ErrEmailRequired
	}

	user.Username = username
	user.Email = email
	user.ImageURL = orDefault(input.ImageURL, model.DefaultImageURL)
	user.HeaderImageURL = orDefault(input.HeaderImageURL, model.DefaultHeaderImageURL)
	user.Bio = strings.TrimSpace(input.Bio)
	user.Location = strings.TrimSpace(input.Location)

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUsernameOrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

// DeleteAccount removes the user with their messages, the likes on those
// messages, the likes they made and every follow edge touching them.
func (s *AuthService) DeleteAccount(ctx context.Context, userID uint) error {
	deleted, err := s.userRepo.DeleteCascade(ctx, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrUserNotFound
	}
	s.activity.Record(ctx, model.ActivityUserDeleted, userID, 0)
	return nil
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
