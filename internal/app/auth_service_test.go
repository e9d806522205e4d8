package app

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warbler/internal/model"
)

func TestSignup_DefaultImage(t *testing.T) {
	s := newServices(t)

	user, err := s.auth.Signup(context.Background(), SignupInput{
		Username: "Jeanne",
		Email:    "test@test.com",
		Password: "testing123",
	})
	require.NoError(t, err)
	assert.Equal(t, model.DefaultImageURL, user.ImageURL)
	assert.Equal(t, model.DefaultHeaderImageURL, user.HeaderImageURL)
	assert.NotEqual(t, "testing123", user.PasswordHash)
	assert.Contains(t, s.publisher.types(), model.ActivityUserSignedUp)
}

func TestSignup_ExplicitImageKept(t *testing.T) {
	s := newServices(t)

	user, err := s.auth.Signup(context.Background(), SignupInput{
		Username: "Jeanne",
		Email:    "test@test.com",
		Password: "testing123",
		ImageURL: "https://img.example.com/jeanne.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://img.example.com/jeanne.png", user.ImageURL)
}

func TestSignup_EmptyPasswordPersistsNothing(t *testing.T) {
	s := newServices(t)

	_, err := s.auth.Signup(context.Background(), SignupInput{Username: "jeanne", Email: "j@test.com"})
	assert.ErrorIs(t, err, ErrPasswordRequired)
	assert.Zero(t, s.userCount(t))
}

func TestSignup_PasswordLimitCountsBytes(t *testing.T) {
	s := newServices(t)

	_, err := s.auth.Signup(context.Background(), SignupInput{
		Username: "jeanne",
		Email:    "j@test.com",
		Password: strings.Repeat("é", 40),
	})
	assert.ErrorIs(t, err, ErrPasswordTooLong)
	assert.Zero(t, s.userCount(t))

	user, err := s.auth.Signup(context.Background(), SignupInput{
		Username: "jeanne",
		Email:    "j@test.com",
		Password: strings.Repeat("é", 36),
	})
	require.NoError(t, err)
	assert.True(t, s.auth.VerifyPassword(user, strings.Repeat("é", 36)))
}

func TestSignup_DuplicateLeavesCountUnchanged(t *testing.T) {
	s := newServices(t)
	s.signup(t, "jeanne")

	_, err := s.auth.Signup(context.Background(), SignupInput{Username: "jeanne", Email: "fresh@test.com", Password: "password"})
	assert.ErrorIs(t, err, ErrUsernameOrEmailTaken)

	_, err = s.auth.Signup(context.Background(), SignupInput{Username: "fresh", Email: "jeanne@test.com", Password: "password"})
	assert.ErrorIs(t, err, ErrUsernameOrEmailTaken)

	assert.Equal(t, int64(1), s.userCount(t))
}

func TestAuthenticate(t *testing.T) {
	s := newServices(t)
	created := s.signup(t, "jeanne")
	ctx := context.Background()

	user, err := s.auth.Authenticate(ctx, "jeanne", "password")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "jeanne", "Password"},
		{"unknown user", "nobody", "password"},
		{"empty password", "jeanne", ""},
		{"empty username", "", "password"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			user, err := s.auth.Authenticate(ctx, tc.username, tc.password)
			assert.ErrorIs(t, err, ErrInvalidCredential)
			assert.Nil(t, user)
		})
	}
}

func TestAuthenticate_MalformedHash(t *testing.T) {
	s := newServices(t)
	user := s.signup(t, "jeanne")
	require.NoError(t, s.db.Model(user).Update("password", "not-a-bcrypt-hash").Error)

	_, err := s.auth.Authenticate(context.Background(), "jeanne", "password")
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestUpdateProfile(t *testing.T) {
	s := newServices(t)
	user := s.signup(t, "jeanne")
	ctx := context.Background()

	_, err := s.auth.UpdateProfile(ctx, user.ID, ProfileInput{Username: "jeanne2", Email: "j2@test.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredential)

	updated, err := s.auth.UpdateProfile(ctx, user.ID, ProfileInput{
		Username: "jeanne2",
		Email:    "j2@test.com",
		Bio:      "bird watcher",
		Location: "Lyon",
		Password: "password",
	})
	require.NoError(t, err)
	assert.Equal(t, "jeanne2", updated.Username)
	assert.Equal(t, model.DefaultImageURL, updated.ImageURL)
	assert.Equal(t, model.DefaultHeaderImageURL, updated.HeaderImageURL)

	stored, err := s.auth.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "bird watcher", stored.Bio)
	assert.True(t, s.auth.VerifyPassword(stored, "password"))
}

func TestUpdateProfile_DuplicateUsername(t *testing.T) {
	s := newServices(t)
	s.signup(t, "taken")
	user := s.signup(t, "jeanne")

	_, err := s.auth.UpdateProfile(context.Background(), user.ID, ProfileInput{Username: "taken", Email: "jeanne@test.com", Password: "password"})
	assert.ErrorIs(t, err, ErrUsernameOrEmailTaken)
}

func TestDeleteAccount(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	jeanne := s.signup(t, "jeanne")
	other := s.signup(t, "other")

	msg, err := s.messages.Create(ctx, jeanne.ID, "goodbye")
	require.NoError(t, err)
	require.NoError(t, s.social.Like(ctx, other.ID, msg.ID))
	require.NoError(t, s.social.Follow(ctx, other.ID, jeanne.ID))
	require.NoError(t, s.social.Follow(ctx, jeanne.ID, other.ID))

	require.NoError(t, s.auth.DeleteAccount(ctx, jeanne.ID))
	assert.ErrorIs(t, s.auth.DeleteAccount(ctx, jeanne.ID), ErrUserNotFound)

	_, err = s.messages.Get(ctx, msg.ID)
	assert.ErrorIs(t, err, ErrMessageNotFound)
	following, err := s.social.Following(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, following)
	liked, err := s.social.LikedMessages(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, liked)
}

func TestActivityRecorder_PublishFailureIsSwallowed(t *testing.T) {
	s := newServices(t)
	s.publisher.err = errBrokerDown

	user := s.signup(t, "jeanne")
	assert.NotZero(t, user.ID)
	assert.Len(t, s.publisher.types(), 1)
}
