// Command seed fills the database with demo users, messages, follows and likes.
package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log/slog"
	"os"

	"github.com/brianvoe/gofakeit/v6"

	"warbler/internal/app"
	"warbler/internal/bootstrap"
	"warbler/internal/repository"
)

func main() {
	users := flag.Int("users", 20, "number of users to create")
	messages := flag.Int("messages", 5, "messages per user")
	follows := flag.Int("follows", 5, "follows per user")
	likes := flag.Int("likes", 5, "likes per user")
	seed := flag.Int64("seed", 0, "random seed (0 picks one)")
	flag.Parse()

	ctx := context.Background()
	a, err := bootstrap.New(ctx)
	if err != nil {
		slog.Error("bootstrap failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	faker := gofakeit.New(*seed)
	s := newSeeder(a, faker)
	err = s.run(ctx, plan{users: *users, messages: *messages, follows: *follows, likes: *likes})
	os.Exit(finish(a.Logger, a, err))
}

// finish closes resources whatever the seed outcome and returns the exit code.
func finish(logger *slog.Logger, resources io.Closer, runErr error) int {
	code := 0
	if runErr != nil {
		logger.Error("seed failed", slog.String("error", runErr.Error()))
		code = 1
	}
	if err := resources.Close(); err != nil {
		logger.Error("close resources failed", slog.String("error", err.Error()))
		code = 1
	}
	return code
}

type plan struct {
	users    int
	messages int
	follows  int
	likes    int
}

type seeder struct {
	faker    *gofakeit.Faker
	logger   *slog.Logger
	auth     *app.AuthService
	social   *app.SocialService
	messages *app.MessageService
}

func newSeeder(a *bootstrap.App, faker *gofakeit.Faker) *seeder {
	userRepo := repository.NewUserRepository(a.DB)
	followRepo := repository.NewFollowRepository(a.DB)
	likeRepo := repository.NewLikeRepository(a.DB)
	messageRepo := repository.NewMessageRepository(a.DB)
	activity := app.NewActivityRecorder(a.Publisher, a.Logger)

	return &seeder{
		faker:    faker,
		logger:   a.Logger,
		auth:     app.NewAuthService(userRepo, a.Config.Auth.BcryptCost, activity),
		social:   app.NewSocialService(userRepo, followRepo, likeRepo, messageRepo, activity),
		messages: app.NewMessageService(messageRepo, followRepo, activity),
	}
}

func (s *seeder) run(ctx context.Context, p plan) error {
	var userIDs, messageIDs []uint
	for len(userIDs) < p.users {
		user, err := s.auth.Signup(ctx, app.SignupInput{
			Username: s.faker.Username(),
			Email:    s.faker.Email(),
			Password: "password",
		})
		if errors.Is(err, app.ErrUsernameOrEmailTaken) {
			continue
		}
		if err != nil {
			return err
		}
		userIDs = append(userIDs, user.ID)

		for i := 0; i < p.messages; i++ {
			text := s.faker.Sentence(s.faker.Number(3, 15))
			if len(text) > 140 {
				text = text[:140]
			}
			msg, err := s.messages.Create(ctx, user.ID, text)
			if err != nil {
				return err
			}
			messageIDs = append(messageIDs, msg.ID)
		}
	}

	for _, id := range userIDs {
		for i := 0; i < p.follows && len(userIDs) > 1; i++ {
			target := userIDs[s.faker.Number(0, len(userIDs)-1)]
			if err := s.social.Follow(ctx, id, target); err != nil && !errors.Is(err, app.ErrCannotFollowSelf) {
				return err
			}
		}
		for i := 0; i < p.likes && len(messageIDs) > 0; i++ {
			if err := s.social.Like(ctx, id, messageIDs[s.faker.Number(0, len(messageIDs)-1)]); err != nil {
				return err
			}
		}
	}

	s.logger.Info("seed complete",
		slog.Int("users", len(userIDs)),
		slog.Int("messages", len(messageIDs)),
	)
	return nil
}
