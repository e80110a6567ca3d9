// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"fmt"

	"github.com/olegiv/oblog/internal/auth"
	"github.com/olegiv/oblog/internal/store"
)

// CanManagePosts reports whether user may create, edit and delete posts.
func CanManagePosts(user *store.User) bool {
	return user != nil && auth.IsAdmin(*user)
}

// CanEditComment reports whether user may change the text of c.
// Only the comment's author may edit it.
func CanEditComment(user *store.User, c store.Comment) bool {
	return user != nil && user.ID == c.AuthorID
}

// CanDeleteComment reports whether user may delete c.
// The author and the admin may delete a comment.
func CanDeleteComment(user *store.User, c store.Comment) bool {
	return user != nil && (user.ID == c.AuthorID || auth.IsAdmin(*user))
}

// AuthorizeCommentEdit returns ErrNotCommentAuthor unless user wrote c.
func AuthorizeCommentEdit(user *store.User, c store.Comment) error {
	if !CanEditComment(user, c) {
		return fmt.Errorf("comment %d: %w", c.ID, ErrNotCommentAuthor)
	}
	return nil
}
