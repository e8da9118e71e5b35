package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"remarkly/internal/auth"
	"remarkly/internal/cache"
	"remarkly/internal/errors"
	"remarkly/internal/model"
	"remarkly/internal/repository"
)

const (
	bcryptCost   = 10
	userCacheTTL = 5 * time.Minute
)

// FileStore removes stored upload files. Satisfied by upload.Store.
type FileStore interface {
	Remove(path string) error
}

// ProfileUpdateInput carries the optional profile fields. Empty strings are
// treated as "no change"; a provided email is checked for uniqueness.
type ProfileUpdateInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// UserService handles registration, authentication and profile operations.
type UserService interface {
	Register(ctx context.Context, firstName, lastName, email, password string) (*model.User, string, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*model.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, in ProfileUpdateInput) (*model.User, string, error)
	UpdateProfileImage(ctx context.Context, id uuid.UUID, imagePath string, in ProfileUpdateInput) (*model.User, string, error)
	DeleteProfileImage(ctx context.Context, id uuid.UUID) (*model.User, error)
}

type userService struct {
	repo       repository.UserRepository
	jwtService *auth.JWTService
	uploads    FileStore
	cache      *cache.Client
}

// NewUserService builds a UserService.
func NewUserService(repo repository.UserRepository, jwtService *auth.JWTService, uploads FileStore, cache *cache.Client) UserService {
	return &userService{
		repo:       repo,
		jwtService: jwtService,
		uploads:    uploads,
		cache:      cache,
	}
}

func (s *userService) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("user:%s", id)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new user with a hashed password and issues a credential.
func (s *userService) Register(ctx context.Context, firstName, lastName, email, password string) (*model.User, string, error) {
	email = normalizeEmail(email)

	existing, err := s.repo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, "", errors.ErrUserExists
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, "", fmt.Errorf("check user existence: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: string(hashed),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.jwtService.GenerateToken(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}
	return user, token, nil
}

// Login authenticates by email and password and issues a fresh credential.
// An unknown email and a wrong password fail identically.
func (s *userService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, "", errors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", errors.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}
	return user, token, nil
}

// GetProfile returns the user's own record, with caching.
func (s *userService) GetProfile(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, userCacheTTL)
	}
	return user, nil
}

// applyProfileFields applies the optional profile fields to user in place.
// An email change is validated against the unique constraint up front.
func (s *userService) applyProfileFields(ctx context.Context, user *model.User, in ProfileUpdateInput) error {
	if in.FirstName != "" {
		user.FirstName = in.FirstName
	}
	if in.LastName != "" {
		user.LastName = in.LastName
	}
	if in.Email != "" {
		email := normalizeEmail(in.Email)
		if email != user.Email {
			existing, err := s.repo.FindByEmail(ctx, email)
			if err == nil && existing != nil {
				return errors.ErrEmailTaken
			}
			if err != nil && err != gorm.ErrRecordNotFound {
				return fmt.Errorf("check email: %w", err)
			}
			user.Email = email
		}
	}
	if in.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hashed)
	}
	return nil
}

// UpdateProfile applies optional profile fields and issues a fresh credential.
func (s *userService) UpdateProfile(ctx context.Context, id uuid.UUID, in ProfileUpdateInput) (*model.User, string, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, "", errors.ErrUserNotFound
		}
		return nil, "", fmt.Errorf("find user: %w", err)
	}

	if err := s.applyProfileFields(ctx, user, in); err != nil {
		return nil, "", err
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, "", fmt.Errorf("update user: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))

	token, err := s.jwtService.GenerateToken(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}
	return user, token, nil
}

// UpdateProfileImage attaches an already-stored image path to the profile,
// removing the previous file first, and applies the optional profile fields.
// The caller is responsible for cleaning up imagePath when an error is returned.
func (s *userService) UpdateProfileImage(ctx context.Context, id uuid.UUID, imagePath string, in ProfileUpdateInput) (*model.User, string, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, "", errors.ErrUserNotFound
		}
		return nil, "", fmt.Errorf("find user: %w", err)
	}

	if imagePath != "" {
		if user.ProfileImage != nil {
			// best-effort, a stale file must not block the update
			_ = s.uploads.Remove(*user.ProfileImage)
		}
		user.ProfileImage = &imagePath
	}

	if err := s.applyProfileFields(ctx, user, in); err != nil {
		return nil, "", err
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, "", fmt.Errorf("update user: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))

	token, err := s.jwtService.GenerateToken(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}
	return user, token, nil
}

// DeleteProfileImage removes the stored file and clears both image columns.
// No new credential is issued.
func (s *userService) DeleteProfileImage(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if user.ProfileImage != nil {
		_ = s.uploads.Remove(*user.ProfileImage)
		user.ProfileImage = nil
		user.ProfileImagePublicId = nil
		if err := s.repo.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
		_ = s.cache.Delete(ctx, s.cacheKey(id))
	}
	return user, nil
}
