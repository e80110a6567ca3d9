// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for identity loading, route
// guards, request IDs, access logging and response hardening.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/olegiv/oblog/internal/auth"
	"github.com/olegiv/oblog/internal/logging"
	"github.com/olegiv/oblog/internal/service"
	"github.com/olegiv/oblog/internal/store"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// ContextKeyUser holds the store.User of the authenticated request.
const ContextKeyUser ContextKey = "user"

// LoginRequiredMessage is flashed when an anonymous visitor hits a page that
// needs an account.
const LoginRequiredMessage = "You need to login or register to comment."

// UserLoader looks up users by ID.
type UserLoader interface {
	GetUserByID(ctx context.Context, id int64) (store.User, error)
}

// LoadIdentity resolves the session to a user and stores it in the request
// context. Anonymous requests pass through untouched. A session pointing at
// a user that no longer exists is destroyed and the request continues
// anonymously.
func LoadIdentity(sessions *auth.Sessions, users UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := sessions.UserID(r.Context())
			if userID == 0 {
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.GetUserByID(r.Context(), userID)
			if err != nil {
				if errors.Is(err, service.ErrNotFound) {
					if endErr := sessions.End(r.Context()); endErr != nil {
						slog.ErrorContext(r.Context(), "failed to end stale session", "error", endErr)
					}
				} else {
					slog.ErrorContext(r.Context(), "failed to load session user", "user_id", userID, "error", err)
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			ctx = logging.WithUserID(ctx, user.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUser retrieves the current user from the request context.
// Returns nil if no user is in context.
func GetUser(r *http.Request) *store.User {
	user, ok := r.Context().Value(ContextKeyUser).(store.User)
	if !ok {
		return nil
	}
	return &user
}

// GetUserID returns the current user's ID from context, or 0 if not found.
func GetUserID(r *http.Request) int64 {
	if user := GetUser(r); user != nil {
		return user.ID
	}
	return 0
}

// RequireLogin redirects anonymous requests to /login with a flash notice.
// It must run after LoadIdentity.
func RequireLogin(sessions *auth.Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if GetUser(r) == nil {
				sessions.Flash(r.Context(), LoginRequiredMessage)
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin answers 403 to every request whose user is not the admin,
// anonymous visitors included. forbidden renders the refusal; nil falls back
// to a plain-text response.
func RequireAdmin(forbidden http.Handler) func(http.Handler) http.Handler {
	if forbidden == nil {
		forbidden = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "Forbidden", http.StatusForbidden)
		})
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUser(r)
			if user == nil || !auth.IsAdmin(*user) {
				slog.WarnContext(r.Context(), "access denied",
					"status", http.StatusForbidden,
					"method", r.Method,
					"path", r.URL.Path,
					"user_id", GetUserID(r),
					"remote_addr", r.RemoteAddr,
				)
				forbidden.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
