package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"warbler/internal/model"
	"warbler/internal/testutil"
)

func createUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	user := &model.User{
		Username:     username,
		Email:        username + "@test.com",
		PasswordHash: "hashed",
	}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), user))
	return user
}

func createMessage(t *testing.T, db *gorm.DB, userID uint, text string, at time.Time) *model.Message {
	t.Helper()
	message := &model.Message{UserID: userID, Text: text, Timestamp: at}
	require.NoError(t, NewMessageRepository(db).Create(context.Background(), message))
	return message
}

func createMessages(t *testing.T, db *gorm.DB, userID uint, n int, start time.Time) {
	t.Helper()
	for i := 0; i < n; i++ {
		createMessage(t, db, userID, fmt.Sprintf("warble %d", i), start.Add(time.Duration(i)*time.Minute))
	}
}

func newTestDB(t *testing.T) *gorm.DB {
	return testutil.NewDB(t)
}
