// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"context"
	"fmt"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/oblog/internal/store"
)

// Session keys.
const (
	SessionKeyUserID = "user_id"
	SessionKeyFlash  = "flash"
)

// User roles.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Sessions binds user identities to server-side sessions. The cookie only
// carries an opaque token; the user ID lives in the session store.
type Sessions struct {
	sm *scs.SessionManager
}

// NewSessions creates a Sessions backed by the given session manager.
func NewSessions(sm *scs.SessionManager) *Sessions {
	return &Sessions{sm: sm}
}

// Start issues a fresh session token for user. The token is renewed first so
// a token planted before login cannot be reused afterwards.
func (s *Sessions) Start(ctx context.Context, user store.User) error {
	if err := s.sm.RenewToken(ctx); err != nil {
		return fmt.Errorf("renewing session token: %w", err)
	}
	s.sm.Put(ctx, SessionKeyUserID, user.ID)
	return nil
}

// UserID returns the user ID bound to the current session, or 0 when the
// request is anonymous. Missing, expired and unknown tokens all read as 0.
func (s *Sessions) UserID(ctx context.Context) int64 {
	return s.sm.GetInt64(ctx, SessionKeyUserID)
}

// End destroys the current session.
func (s *Sessions) End(ctx context.Context) error {
	if err := s.sm.Destroy(ctx); err != nil {
		return fmt.Errorf("destroying session: %w", err)
	}
	return nil
}

// Flash stores a one-shot message shown on the next rendered page.
func (s *Sessions) Flash(ctx context.Context, message string) {
	s.sm.Put(ctx, SessionKeyFlash, message)
}

// PopFlash returns and clears the pending flash message.
func (s *Sessions) PopFlash(ctx context.Context) string {
	return s.sm.PopString(ctx, SessionKeyFlash)
}

// IsAdmin reports whether user holds the admin role.
func IsAdmin(user store.User) bool {
	return user.Role == RoleAdmin
}
