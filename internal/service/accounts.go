// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/olegiv/oblog/internal/auth"
	"github.com/olegiv/oblog/internal/store"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 8

// AccountService handles registration, login and the bootstrap admin.
type AccountService struct {
	blog   *BlogService
	logger *slog.Logger
}

// NewAccountService creates a new AccountService.
func NewAccountService(blog *BlogService, logger *slog.Logger) *AccountService {
	return &AccountService{
		blog:   blog,
		logger: logger,
	}
}

// RegisterInput holds the registration form fields.
type RegisterInput struct {
	Email    string
	Name     string
	Password string
}

// Register hashes the password and creates the account. The first account
// becomes the admin. Fails with ErrConflict when the email is taken.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (store.User, error) {
	if strings.TrimSpace(in.Password) == "" {
		return store.User{}, required("password")
	}
	if len(in.Password) < MinPasswordLength {
		return store.User{}, &ValidationError{
			Field:   "password",
			Message: fmt.Sprintf("must be at least %d characters", MinPasswordLength),
		}
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return store.User{}, fmt.Errorf("hashing password: %w", err)
	}

	user, err := s.blog.CreateUser(ctx, UserInput{
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: hash,
	})
	if err != nil {
		return store.User{}, err
	}

	s.logger.Info("user registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// Authenticate returns the user whose email and password match. An unknown
// email and a wrong password both yield ErrInvalidCredentials. Hashes in a
// legacy format or with outdated parameters are upgraded on success.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (store.User, error) {
	user, err := s.blog.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return store.User{}, ErrInvalidCredentials
		}
		return store.User{}, err
	}

	ok, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil {
		s.logger.Error("stored password hash is malformed", "user_id", user.ID, "error", err)
		return store.User{}, ErrInvalidCredentials
	}
	if !ok {
		return store.User{}, ErrInvalidCredentials
	}

	if auth.NeedsRehash(user.PasswordHash) {
		s.rehash(ctx, &user, password)
	}
	return user, nil
}

// rehash stores a fresh Argon2id hash. Failures are logged and do not
// block the login.
func (s *AccountService) rehash(ctx context.Context, user *store.User, password string) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		s.logger.Warn("failed to rehash password", "user_id", user.ID, "error", err)
		return
	}
	if err := s.blog.UpdateUserPassword(ctx, user.ID, hash); err != nil {
		s.logger.Warn("failed to store rehashed password", "user_id", user.ID, "error", err)
		return
	}
	user.PasswordHash = hash
	s.logger.Info("password hash upgraded", "user_id", user.ID)
}

// EnsureAdmin creates the admin account from the given credentials when the
// database has no users yet. It reports whether an account was created.
func (s *AccountService) EnsureAdmin(ctx context.Context, email, name, password string) (bool, error) {
	count, err := s.blog.CountUsers(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	user, err := s.Register(ctx, RegisterInput{Email: email, Name: name, Password: password})
	if err != nil {
		return false, fmt.Errorf("creating admin user: %w", err)
	}
	if user.Role != auth.RoleAdmin {
		// Someone registered between the count and the insert.
		return false, nil
	}
	return true, nil
}
