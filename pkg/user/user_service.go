package user

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// maxPasswordLength is the number of bytes bcrypt accepts.
const maxPasswordLength = 72

type Service interface {
	Register(ctx context.Context, registration Registration) (User, error)
	Authenticate(ctx context.Context, email, password string) (User, error)
	GetCurrentUser(ctx context.Context) (User, error)
	GetUserByUid(ctx context.Context, uid string) (User, error)
	UpdateProfile(ctx context.Context, update ProfileUpdate) (User, error)
}

type UserServiceImpl struct {
	repo     Repo
	hashCost int
}

func NewUserService(repo Repo) *UserServiceImpl {
	return &UserServiceImpl{repo: repo, hashCost: bcrypt.DefaultCost}
}

func (u *UserServiceImpl) Register(ctx context.Context, registration Registration) (User, error) {
	email, err := normalizeEmail(registration.Email)
	if err != nil {
		return User{}, err
	}
	if err := validatePassword(registration.Password); err != nil {
		return User{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(registration.Password), u.hashCost)
	if err != nil {
		return User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := User{
		Uid:          uuid.NewString(),
		Email:        email,
		FirstName:    strings.TrimSpace(registration.FirstName),
		LastName:     strings.TrimSpace(registration.LastName),
		PasswordHash: string(hash),
	}
	id, err := u.repo.CreateUser(ctx, user)
	if err != nil {
		return User{}, err
	}
	user.Id = id
	log.Infof("registered user %s", user.Uid)
	return user, nil
}

func (u *UserServiceImpl) Authenticate(ctx context.Context, email, password string) (User, error) {
	user, err := u.repo.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (u *UserServiceImpl) GetCurrentUser(ctx context.Context) (User, error) {
	userId, err := CurrentId(ctx)
	if err != nil {
		return User{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return u.repo.GetUser(ctx, userId)
}

func (u *UserServiceImpl) GetUserByUid(ctx context.Context, uid string) (User, error) {
	return u.repo.GetUserByUid(ctx, uid)
}

func (u *UserServiceImpl) UpdateProfile(ctx context.Context, update ProfileUpdate) (User, error) {
	current, err := u.GetCurrentUser(ctx)
	if err != nil {
		return User{}, err
	}

	email, err := normalizeEmail(update.Email)
	if err != nil {
		return User{}, err
	}
	current.Email = email
	current.FirstName = strings.TrimSpace(update.FirstName)
	current.LastName = strings.TrimSpace(update.LastName)

	if update.NewPassword != "" {
		if update.CurrentPassword == "" ||
			bcrypt.CompareHashAndPassword([]byte(current.PasswordHash), []byte(update.CurrentPassword)) != nil {
			return User{}, ErrIncorrectPassword
		}
		if err := validatePassword(update.NewPassword); err != nil {
			return User{}, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(update.NewPassword), u.hashCost)
		if err != nil {
			return User{}, fmt.Errorf("failed to hash password: %w", err)
		}
		current.PasswordHash = string(hash)
	}

	return u.repo.UpdateUser(ctx, current.Id, current)
}

func normalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", fmt.Errorf("%w: email is required", ErrUserDataInvalid)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("%w: email is not valid", ErrUserDataInvalid)
	}
	return strings.ToLower(email), nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must have at least %d characters", ErrUserDataInvalid, minPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return fmt.Errorf("%w: password must have at most %d bytes", ErrUserDataInvalid, maxPasswordLength)
	}
	return nil
}
