package service

import (
	"context"
	"errors"
	"sync"

	"github.com/harlequingg/tasktracker/internal/data"
	"github.com/harlequingg/tasktracker/internal/validator"
	"github.com/sirupsen/logrus"
)

// bcrypt ignores input past this many bytes.
const maxPasswordBytes = 72

type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthService struct {
	users  UserStore
	hasher Hasher
	logger logrus.FieldLogger

	dummyOnce sync.Once
	dummyHash []byte
}

func NewAuthService(users UserStore, hasher Hasher, logger logrus.FieldLogger) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		logger: logger,
	}
}

// Register creates a user and returns its public projection.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*data.PublicUser, error) {
	v := validator.New()
	v.CheckStruct(&in)
	v.Check(len(in.Password) <= maxPasswordBytes, "password", "must be at most 72 bytes long")
	if !v.Valid() {
		msg := "Invalid registration details."
		if in.Name == "" || in.Username == "" || in.Email == "" || in.Password == "" {
			msg = "All fields are required."
		}
		return nil, validationError(msg, v.Errors)
	}

	existing, err := s.users.GetUserByUsername(ctx, in.Username)
	if err != nil {
		return nil, internalError(err)
	}
	if existing != nil {
		return nil, conflictError("username")
	}
	existing, err = s.users.GetUserByEmail(ctx, in.Email)
	if err != nil {
		return nil, internalError(err)
	}
	if existing != nil {
		return nil, conflictError("email")
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, internalError(err)
	}

	u := &data.User{
		CreatedAt:    now(),
		Name:         in.Name,
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
	}
	err = s.users.InsertUser(ctx, u)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrDuplicateUsername):
			return nil, conflictError("username")
		case errors.Is(err, data.ErrDuplicateEmail):
			return nil, conflictError("email")
		default:
			return nil, internalError(err)
		}
	}

	s.logger.WithField("user_id", u.ID).Info("user registered")
	pub := u.Public()
	return &pub, nil
}

// Login checks a username or email against a password. Unknown users and
// wrong passwords fail with the same error.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*data.PublicUser, error) {
	if identifier == "" || password == "" {
		return nil, validationError("Username/Email and password are required.", nil)
	}

	u, err := s.users.GetUserByLogin(ctx, identifier)
	if err != nil {
		return nil, internalError(err)
	}
	if u == nil {
		s.burnCompare(password)
		return nil, authenticationError("Invalid credentials.")
	}

	err = s.hasher.Compare(u.PasswordHash, password)
	if err != nil {
		if errors.Is(err, ErrMismatchedPassword) {
			return nil, authenticationError("Invalid credentials.")
		}
		return nil, internalError(err)
	}

	pub := u.Public()
	return &pub, nil
}

// burnCompare spends about as long as a real password check so a missing
// account cannot be told apart by timing.
func (s *AuthService) burnCompare(password string) {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash("tasktracker-dummy-password")
		if err != nil {
			s.logger.WithError(err).Warn("could not prepare dummy hash")
			return
		}
		s.dummyHash = hash
	})
	if s.dummyHash != nil {
		_ = s.hasher.Compare(s.dummyHash, password)
	}
}
