// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service implements the blog's data access rules on top of the
// store: validation, sanitization, uniqueness and multi-statement deletes.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/olegiv/oblog/internal/auth"
	"github.com/olegiv/oblog/internal/store"
	"github.com/olegiv/oblog/internal/util"
)

// DateLayout is the display format of a post's publication date.
const DateLayout = "January 02, 2006"

// htmlSanitizer cleans user-supplied rich text (post bodies, comments).
// UGCPolicy keeps formatting markup and drops scripts, handlers and styles.
var htmlSanitizer = bluemonday.UGCPolicy()

// BlogService is the single point of access to users, posts and comments.
type BlogService struct {
	db      *sql.DB
	queries *store.Queries
	now     func() time.Time
}

// NewBlogService creates a new BlogService.
func NewBlogService(db *sql.DB) *BlogService {
	return &BlogService{
		db:      db,
		queries: store.New(db),
		now:     time.Now,
	}
}

// PostInput holds the editable fields of a post.
type PostInput struct {
	Title    string
	Subtitle string
	Body     string
	ImgURL   string
	// Date is the display date; empty means today.
	Date     string
	AuthorID int64
}

// UserInput holds the fields of a new user.
type UserInput struct {
	Email        string
	Name         string
	PasswordHash string
}

// CommentInput holds the fields of a new comment.
type CommentInput struct {
	Text     string
	AuthorID int64
	PostID   int64
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// =============================================================================
// POSTS
// =============================================================================

// ListPosts returns all posts with their author names, ordered by title.
func (s *BlogService) ListPosts(ctx context.Context) ([]store.ListPostsRow, error) {
	posts, err := s.queries.ListPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	return posts, nil
}

// GetPost returns the post with the given ID.
func (s *BlogService) GetPost(ctx context.Context, id int64) (store.Post, error) {
	post, err := s.queries.GetPostByID(ctx, id)
	if err != nil {
		return store.Post{}, notFound(err, "post", id)
	}
	return post, nil
}

// GetPostWithAuthor returns the post with the given ID and its author's name.
func (s *BlogService) GetPostWithAuthor(ctx context.Context, id int64) (store.GetPostWithAuthorRow, error) {
	row, err := s.queries.GetPostWithAuthor(ctx, id)
	if err != nil {
		return store.GetPostWithAuthorRow{}, notFound(err, "post", id)
	}
	return row, nil
}

// GetPostBySlug returns the post with the given slug.
func (s *BlogService) GetPostBySlug(ctx context.Context, slug string) (store.Post, error) {
	post, err := s.queries.GetPostBySlug(ctx, slug)
	if err != nil {
		return store.Post{}, notFound(err, "post", slug)
	}
	return post, nil
}

// CreatePost validates and inserts a new post. A title already used by
// another post yields a *ValidationError wrapping ErrConflict.
func (s *BlogService) CreatePost(ctx context.Context, in PostInput) (store.Post, error) {
	in, err := cleanPostInput(in)
	if err != nil {
		return store.Post{}, err
	}
	if in.AuthorID == 0 {
		return store.Post{}, required("author")
	}

	slug, err := s.uniqueSlug(ctx, in.Title, 0)
	if err != nil {
		return store.Post{}, err
	}

	now := s.now()
	date := in.Date
	if date == "" {
		date = now.Format(DateLayout)
	}

	post, err := s.queries.CreatePost(ctx, store.CreatePostParams{
		Title:     in.Title,
		Slug:      slug,
		Subtitle:  in.Subtitle,
		Body:      in.Body,
		ImgUrl:    in.ImgURL,
		Date:      date,
		AuthorID:  in.AuthorID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return store.Post{}, postWriteError(err, "creating post")
	}
	return post, nil
}

// UpdatePost overwrites the title, subtitle, image URL and body of existing.
// ID, date and author never change.
func (s *BlogService) UpdatePost(ctx context.Context, existing store.Post, in PostInput) (store.Post, error) {
	in, err := cleanPostInput(in)
	if err != nil {
		return store.Post{}, err
	}

	slug := existing.Slug
	if in.Title != existing.Title {
		if slug, err = s.uniqueSlug(ctx, in.Title, existing.ID); err != nil {
			return store.Post{}, err
		}
	}

	post, err := s.queries.UpdatePost(ctx, store.UpdatePostParams{
		Title:     in.Title,
		Slug:      slug,
		Subtitle:  in.Subtitle,
		Body:      in.Body,
		ImgUrl:    in.ImgURL,
		UpdatedAt: s.now(),
		ID:        existing.ID,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Post{}, notFound(err, "post", existing.ID)
		}
		return store.Post{}, postWriteError(err, "updating post")
	}
	return post, nil
}

// DeletePost removes a post together with all of its comments in one
// transaction.
func (s *BlogService) DeletePost(ctx context.Context, id int64) error {
	return store.InTx(ctx, s.db, func(q *store.Queries) error {
		if _, err := q.GetPostByID(ctx, id); err != nil {
			return notFound(err, "post", id)
		}
		if _, err := q.DeleteCommentsForPost(ctx, id); err != nil {
			return fmt.Errorf("deleting comments of post %d: %w", id, err)
		}
		if _, err := q.DeletePost(ctx, id); err != nil {
			return fmt.Errorf("deleting post %d: %w", id, err)
		}
		return nil
	})
}

func cleanPostInput(in PostInput) (PostInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Subtitle = strings.TrimSpace(in.Subtitle)
	in.ImgURL = strings.TrimSpace(in.ImgURL)
	in.Body = strings.TrimSpace(htmlSanitizer.Sanitize(in.Body))

	switch {
	case in.Title == "":
		return in, required("title")
	case in.Subtitle == "":
		return in, required("subtitle")
	case in.ImgURL == "":
		return in, required("img_url")
	case in.Body == "":
		return in, required("body")
	}

	if !isHTTPURL(in.ImgURL) {
		return in, &ValidationError{Field: "img_url", Message: "must be an http or https URL"}
	}
	return in, nil
}

func isHTTPURL(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// uniqueSlug derives a slug from title that no other post uses.
func (s *BlogService) uniqueSlug(ctx context.Context, title string, selfID int64) (string, error) {
	base := util.Slugify(title)
	if base == "" {
		base = "post"
	}

	slug := base
	for i := 2; ; i++ {
		existing, err := s.queries.GetPostBySlug(ctx, slug)
		if errors.Is(err, sql.ErrNoRows) || (err == nil && existing.ID == selfID) {
			return slug, nil
		}
		if err != nil {
			return "", fmt.Errorf("checking slug %q: %w", slug, err)
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

func postWriteError(err error, action string) error {
	if store.IsUniqueViolation(err) {
		return &ValidationError{
			Field:   "title",
			Message: "is already used by another post",
			Err:     ErrConflict,
		}
	}
	if store.IsForeignKeyViolation(err) {
		return fmt.Errorf("%s: author: %w", action, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", action, err)
}

// =============================================================================
// USERS
// =============================================================================

// CreateUser inserts a new user. The first account ever created becomes the
// admin; every later account is a regular user. Fails with ErrConflict when
// the email is already registered.
func (s *BlogService) CreateUser(ctx context.Context, in UserInput) (store.User, error) {
	in.Email = NormalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)

	switch {
	case in.Email == "":
		return store.User{}, required("email")
	case in.Name == "":
		return store.User{}, required("name")
	case in.PasswordHash == "":
		return store.User{}, required("password")
	}

	var user store.User
	err := store.InTx(ctx, s.db, func(q *store.Queries) error {
		count, err := q.CountUsers(ctx)
		if err != nil {
			return fmt.Errorf("counting users: %w", err)
		}

		role := auth.RoleUser
		if count == 0 {
			role = auth.RoleAdmin
		}

		now := s.now()
		user, err = q.CreateUser(ctx, store.CreateUserParams{
			Email:        in.Email,
			PasswordHash: in.PasswordHash,
			Name:         in.Name,
			Role:         role,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if err != nil {
			if store.IsUniqueViolation(err) {
				return fmt.Errorf("email %s: %w", in.Email, ErrConflict)
			}
			return fmt.Errorf("creating user: %w", err)
		}
		return nil
	})
	if err != nil {
		return store.User{}, err
	}
	return user, nil
}

// GetUserByEmail returns the user registered with email.
func (s *BlogService) GetUserByEmail(ctx context.Context, email string) (store.User, error) {
	email = NormalizeEmail(email)
	user, err := s.queries.GetUserByEmail(ctx, email)
	if err != nil {
		return store.User{}, notFound(err, "user", email)
	}
	return user, nil
}

// GetUserByID returns the user with the given ID.
func (s *BlogService) GetUserByID(ctx context.Context, id int64) (store.User, error) {
	user, err := s.queries.GetUserByID(ctx, id)
	if err != nil {
		return store.User{}, notFound(err, "user", id)
	}
	return user, nil
}

// CountUsers returns the number of registered users.
func (s *BlogService) CountUsers(ctx context.Context) (int64, error) {
	count, err := s.queries.CountUsers(ctx)
	if err != nil {
		return 0, fmt.Errorf("counting users: %w", err)
	}
	return count, nil
}

// UpdateUserPassword replaces the stored password hash of a user.
func (s *BlogService) UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error {
	err := s.queries.UpdateUserPassword(ctx, store.UpdateUserPasswordParams{
		PasswordHash: passwordHash,
		UpdatedAt:    s.now(),
		ID:           id,
	})
	if err != nil {
		return fmt.Errorf("updating password of user %d: %w", id, err)
	}
	return nil
}

// DeleteUser removes a user with all of their posts and comments. Comments
// other users left on those posts go too, since comments do not cascade
// from posts.
func (s *BlogService) DeleteUser(ctx context.Context, id int64) error {
	return store.InTx(ctx, s.db, func(q *store.Queries) error {
		if _, err := q.GetUserByID(ctx, id); err != nil {
			return notFound(err, "user", id)
		}
		if _, err := q.DeleteCommentsOnAuthorPosts(ctx, id); err != nil {
			return fmt.Errorf("deleting comments on posts of user %d: %w", id, err)
		}
		if _, err := q.DeleteUser(ctx, id); err != nil {
			return fmt.Errorf("deleting user %d: %w", id, err)
		}
		return nil
	})
}

// =============================================================================
// COMMENTS
// =============================================================================

// ListCommentsForPost returns the comments of a post, oldest first.
func (s *BlogService) ListCommentsForPost(ctx context.Context, postID int64) ([]store.ListCommentsForPostRow, error) {
	comments, err := s.queries.ListCommentsForPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("listing comments of post %d: %w", postID, err)
	}
	return comments, nil
}

// GetComment returns the comment with the given ID.
func (s *BlogService) GetComment(ctx context.Context, id int64) (store.Comment, error) {
	comment, err := s.queries.GetCommentByID(ctx, id)
	if err != nil {
		return store.Comment{}, notFound(err, "comment", id)
	}
	return comment, nil
}

// CreateComment adds a comment to an existing post.
func (s *BlogService) CreateComment(ctx context.Context, in CommentInput) (store.Comment, error) {
	text := strings.TrimSpace(htmlSanitizer.Sanitize(in.Text))
	if text == "" {
		return store.Comment{}, required("text")
	}

	if _, err := s.queries.GetPostByID(ctx, in.PostID); err != nil {
		return store.Comment{}, notFound(err, "post", in.PostID)
	}

	now := s.now()
	comment, err := s.queries.CreateComment(ctx, store.CreateCommentParams{
		Text:      text,
		AuthorID:  in.AuthorID,
		PostID:    in.PostID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		if store.IsForeignKeyViolation(err) {
			return store.Comment{}, fmt.Errorf("creating comment: %w", ErrNotFound)
		}
		return store.Comment{}, fmt.Errorf("creating comment: %w", err)
	}
	return comment, nil
}

// UpdateComment overwrites the text of existing. Only its author may change it.
func (s *BlogService) UpdateComment(ctx context.Context, user *store.User, existing store.Comment, text string) (store.Comment, error) {
	if err := AuthorizeCommentEdit(user, existing); err != nil {
		return store.Comment{}, err
	}

	text = strings.TrimSpace(htmlSanitizer.Sanitize(text))
	if text == "" {
		return store.Comment{}, required("text")
	}

	comment, err := s.queries.UpdateCommentText(ctx, store.UpdateCommentTextParams{
		Text:      text,
		UpdatedAt: s.now(),
		ID:        existing.ID,
	})
	if err != nil {
		return store.Comment{}, notFound(err, "comment", existing.ID)
	}
	return comment, nil
}

// DeleteComment removes c on behalf of user. Only the comment's author and
// the admin may delete it.
func (s *BlogService) DeleteComment(ctx context.Context, user *store.User, c store.Comment) error {
	if !CanDeleteComment(user, c) {
		return fmt.Errorf("comment %d: %w", c.ID, ErrCannotDeleteComment)
	}

	n, err := s.queries.DeleteComment(ctx, c.ID)
	if err != nil {
		return fmt.Errorf("deleting comment %d: %w", c.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("comment %d: %w", c.ID, ErrNotFound)
	}
	return nil
}
