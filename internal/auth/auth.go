package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	sl "survey_backend/internal/lib/logger"
	"survey_backend/internal/lib/passwords"
	"survey_backend/internal/models"
	"survey_backend/internal/storage"
)

var (
	ErrEmailTaken    = errors.New("email already associated to a user")
	ErrUnknownEmail  = errors.New("email not associated with a user")
	ErrWrongPassword = errors.New("incorrect password")
)

type Auth struct {
	log         *slog.Logger
	usrSaver    UserSaver
	usrProvider UserProvider
	bcryptCost  int
}

type UserSaver interface {
	SaveUser(ctx context.Context, email string, passHash []byte, firstName, lastName string) (models.User, error)
}

type UserProvider interface {
	UserByEmail(ctx context.Context, email string) (models.User, error)
	UserByID(ctx context.Context, id string) (models.User, error)
}

func New(
	log *slog.Logger,
	userSaver UserSaver,
	userProvider UserProvider,
	bcryptCost int,
) *Auth {
	return &Auth{
		log:         log,
		usrSaver:    userSaver,
		usrProvider: userProvider,
		bcryptCost:  bcryptCost,
	}
}

// Register creates a new user. The availability pre-check runs before the
// hash so a doomed signup never pays the bcrypt cost; the unique index on
// users.email stays the authoritative guard against concurrent signups.
func (a *Auth) Register(
	ctx context.Context,
	email, password, firstName, lastName string,
) (models.User, error) {
	const op = "auth.Register"

	log := a.log.With(slog.String("op", op))

	_, err := a.usrProvider.UserByEmail(ctx, email)
	if err == nil {
		log.Warn("email already registered")
		return models.User{}, ErrEmailTaken
	}
	if !errors.Is(err, storage.ErrUserNotFound) {
		log.Error("failed to check email availability", sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	passHash, err := a.HashPassword(password)
	if err != nil {
		log.Error("failed to generate password hash", sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	user, err := a.usrSaver.SaveUser(ctx, email, passHash, firstName, lastName)
	if err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			log.Warn("user already exists")
			return models.User{}, ErrEmailTaken
		}

		log.Error("failed to save user", sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user registered", slog.String("uid", user.ID))

	return user, nil
}

// Login checks credentials and returns the matching user. Unknown email and
// wrong password fail with distinct sentinels so the gate can report which
// step failed, as the API always has.
func (a *Auth) Login(ctx context.Context, email, password string) (models.User, error) {
	const op = "auth.Login"

	log := a.log.With(slog.String("op", op))

	user, err := a.usrProvider.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Warn("user not found")
			return models.User{}, ErrUnknownEmail
		}

		log.Error("failed to get user", sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	ok, err := passwords.Verify(password, user.PassHash)
	if err != nil {
		log.Error("failed to verify password", sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		log.Info("invalid credentials")
		return models.User{}, ErrWrongPassword
	}

	log.Info("user logged in successfully", slog.String("uid", user.ID))

	return user, nil
}

// HashPassword is used on registration and whenever a user changes their
// password. It must never run on an already-hashed value.
func (a *Auth) HashPassword(password string) ([]byte, error) {
	return passwords.Hash(password, a.bcryptCost)
}
