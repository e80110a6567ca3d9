package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/oblog/internal/auth"
	"github.com/olegiv/oblog/internal/store"
	"github.com/olegiv/oblog/internal/testutil"
)

func newTestBlog(t *testing.T) *BlogService {
	t.Helper()
	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	svc := NewBlogService(db)
	svc.now = func() time.Time { return time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC) }
	return svc
}

func mustCreateUser(t *testing.T, svc *BlogService, email string) store.User {
	t.Helper()
	user, err := svc.CreateUser(context.Background(), UserInput{
		Email:        email,
		Name:         "Name " + email,
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	return user
}

func validPost(authorID int64, title string) PostInput {
	return PostInput{
		Title:    title,
		Subtitle: "World",
		Body:     "<p>...</p>",
		ImgURL:   "http://x/img.png",
		AuthorID: authorID,
	}
}

func TestCreateUser_RoundTrip(t *testing.T) {
	svc := newTestBlog(t)
	ctx := context.Background()

	created := mustCreateUser(t, svc, "  Alice@Example.COM ")
	assert.Equal(t, "alice@example.com", created.Email)

	got, err := svc.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Name, got.Name)

	got, err = svc.GetUserByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	svc := newTestBlog(t)
	ctx := context.Background()

	mustCreateUser(t, svc, "bob@example.com")

	_, err := svc.CreateUser(ctx, UserInput{Email: "BOB@example.com", Name: "Other", PasswordHash: "h"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)

	count, err := svc.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestCreateUser_RequiredFields(t *testing.T) {
	svc := newTestBlog(t)

	tests := []struct {
		name  string
		in    UserInput
		field string
	}{
		{"missing email", UserInput{Name: "n", PasswordHash: "h"}, "email"},
		{"blank email", UserInput{Email: "   ", Name: "n", PasswordHash: "h"}, "email"},
		{"missing name", UserInput{Email: "a@b.c", PasswordHash: "h"}, "name"},
		{"missing hash", UserInput{Email: "a@b.c", Name: "n"}, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateUser(context.Background(), tt.in)
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestCreateUser_FirstAccountIsAdmin(t *testing.T) {
	svc := newTestBlog(t)

	first := mustCreateUser(t, svc, "first@example.com")
	second := mustCreateUser(t, svc, "second@example.com")
	third := mustCreateUser(t, svc, "third@example.com")

	assert.True(t, auth.IsAdmin(first))
	assert.False(t, auth.IsAdmin(second))
	assert.False(t, auth.IsAdmin(third))
}

func TestGetUser_NotFound(t *testing.T) {
	svc := newTestBlog(t)
	ctx := context.Background()

	_, err := svc.GetUserByEmail(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetUserByID(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreatePost(t *testing.T) {
	svc := newTestBlog(t)
	ctx := context.Background()
	admin := mustCreateUser(t, svc, "admin@example.com")

	post, err := svc.CreatePost(ctx, validPost(admin.ID, "Hello World"))
	require.NoError(t, err)

	assert.NotZero(t, post.ID)
	assert.Equal(t, "Hello World", post.Title)
	assert.Equal(t, "hello-world", post.Slug)
	assert.Equal(t, "March 05, 2024", post.Date)
	assert.Equal(t, admin.ID, post.AuthorID)

	bySlug, err := svc.GetPostBySlug(ctx, "hello-world")
	require.NoError(t, err)
	assert.Equal(t, post.ID, bySlug.ID)
}

func TestCreatePost_KeepsExplicitDate(t *testing.T) {
	svc := newTestBlog(t)
	admin := mustCreateUser(t, svc, "admin@example.com")

	in := validPost(admin.ID, "Dated")
	in.Date = "August 24, 2019"
	post, err := svc.CreatePost(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "August 24, 2019", post.Date)
}

func TestCreatePost_Validation(t *testing.T) {
	svc := newTestBlog(t)
	admin := mustCreateUser(t, svc, "admin@example.com")

	tests := []struct {
		name   string
		mutate func(*PostInput)
		field  string
	}{
		{"missing title", func(p *PostInput) { p.Title = " " }, "title"},
		{"missing subtitle", func(p *PostInput) { p.Subtitle = "" }, "subtitle"},
		{"missing body", func(p *PostInput) { p.Body = "" }, "body"},
		{"body only script", func(p *PostInput) { p.Body = "<script>alert(1)</script>" }, "body"},
		{"missing image", func(p *PostInput) { p.ImgURL = "" }, "img_url"},
		{"relative image", func(p *PostInput) { p.ImgURL = "/img.png" }, "img_url"},
		{"javascript image", func(p *PostInput) { p.ImgURL = "javascript:alert(1)" }, "img_url"},
		{"missing author", func(p *PostInput) { p.AuthorID = 0 }, "author"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validPost(admin.ID, "Valid")
			tt.mutate(&in)

			_, err := svc.CreatePost(context.Background(), in)
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
			assert.False(t, errors.Is(err, ErrConflict))
		})
	}
}

func TestCreatePost_DuplicateTitle(t *testing.T) {
	svc := newTestBlog(t)
	ctx := context.Background()
	admin := mustCreateUser(t, svc, "admin@example.com")

	_, err := svc.CreatePost(ctx, validPost(admin.ID, "Same"))
	require.NoError(t, err)

	_, err = svc.CreatePost(ctx, validPost(admin.ID, "Same"))
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "title", vErr.Field)
	assert.ErrorIs(t, err, ErrConflict)

	posts, err := svc.ListPosts(ctx)
	require.NoError(t, err)
	assert.Len(t, posts, 1)
}

func TestCreatePost_SlugCollision(t *testing.T) {
	svc := newTestBlog(t)
	ctx := context.Background()
	admin := mustCreateUser(t, svc, "admin@example.com")

	first, err := svc.CreatePost(ctx, validPost(admin.ID, "Hello!"))
	require.NoError(t, err)
	second, err := svc.CreatePost(ctx, validPost(admin.ID, "Hello?"))
	require.NoError(t, err)
	third, err := svc.CreatePost(ctx, validPost(admin.ID, "¡Привет!"))
	require.NoError(t, err)

	assert.Equal(t, "hello", first.Slug)
	assert.Equal(t, "hello-2", second.Slug)
	assert.Equal(t, "post", third.Slug)
}

func TestCreatePost_SanitizesBody(t *testing.T) {
	svc := newTestBlog(t)
	admin := mustCreateUser(t, svc, "admin@example.com")

	in := validPost(admin.ID, "XSS")
	in.Body = `<p onclick="steal()">Hi <b>there</b></p><script>alert(1)</script>`
	post, err := svc.CreatePost(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, "<p>Hi <b>there</b></p>", post.Body)
}

func TestCreatePost_UnknownAuthor(t *testing.T) {
	svc := newTestBlog(t)

	_, err := svc.CreatePost(context.Background(), validPost(404, "Orphan"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListPosts_OrderedByTitle(t *testing.T) {
	svc := newTestBlog(t)
	ctx := context.Background()
	admin := mustCreateUser(t, svc, "admin@example.com")

	for _, title := range []string{"Zebra", "Apple", "Mango"} {
		_, err := svc.CreatePost(ctx, validPost(admin.ID, title))
		require.NoError(t, err)
	}

	posts, err := svc.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, "Apple", posts[0].Post.Title)
	assert.Equal(t, "Mango", posts[1].Post.Title)
	assert.Equal(t, "Zebra", posts[2].Post.Title)
	assert.Equal(t, admin.Name, posts[0].AuthorName)
}

func TestUpdatePost(t *testing.T) {
	svc := newTestBlog(t)
	ctx := context.Background()
	admin := mustCreateUser(t, svc, "admin@example.com")

	post, err := svc.CreatePost(ctx, validPost(admin.ID, "Before"))
	require.NoError(t, err)

	updated, err := svc.UpdatePost(ctx, post, PostInput{
		Title:    "After",
		Subtitle: "New subtitle",
		Body:     "<p>New body</p>",
		ImgURL:   "https://example.com/new.png",
		Date:     "January 01, 1999",
		AuthorID: 12345,
	})
	require.NoError(t, err)

	assert.Equal(t, post.ID, updated.ID)
	assert.Equal(t, "After", updated.Title)
	assert.Equal(t, "after", updated.Slug)
	assert.Equal(t, "New subtitle", updated.Subtitle)
	assert.Equal(t, "<p>New body</p>", updated.Body)
	assert.Equal(t, "https://example.com/new.png", updated.ImgUrl)
	assert.Equal(t, post.Date, updated.Date, "date is immutable")
	assert.Equal(t, post.AuthorID, updated.AuthorID, "author is immutable")
}

func TestUpdatePost_SameTitleKeepsSlug(t *testing.T) {
	svc := newTestBlog(t)
	ctx := context.Background()
	admin := mustCreateUser(t, svc, "admin@example.com")

	post, err := svc.CreatePost(ctx, validPost(admin.ID, "Stable"))
	require.NoError(t, err)

	in := validPost(admin.ID, "Stable")
	in.Subtitle = "Changed"
	updated, err := svc.UpdatePost(ctx, post, in)
	require.NoError(t, err)
	assert.Equal(t, post.Slug, updated.Slug)
	assert.Equal(t, "Changed", updated.Subtitle)
}

func TestUpdatePost_TitleTaken(t *testing.T) {
	svc := newTestBlog(t)
	ctx := context.Background()
	admin := mustCreateUser(t, svc, "admin@example.com")

	_, err := svc.CreatePost(ctx, validPost(admin.ID, "Taken"))
	require.NoError(t, err)
	post, err := svc.CreatePost(ctx, validPost(admin.ID, "Mine"))
	require.NoError(t, err)

	_, err = svc.UpdatePost(ctx, post, validPost(admin.ID, "Taken"))
	assert.ErrorIs(t, err, ErrConflict)

	got, err := svc.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mine", got.Title)
}

func TestUpdatePost_Deleted(t *testing.T) {
	svc := newTestBlog(t)
	ctx := context.Background()
	admin := mustCreateUser(t, svc, "admin@example.com")

	post, err := svc.CreatePost(ctx, validPost(admin.ID, "Gone"))
	require.NoError(t, err)
	require.NoError(t, svc.DeletePost(ctx, post.ID))

	_, err = svc.UpdatePost(ctx, post, validPost(admin.ID, "Gone again"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeletePost_RemovesComments(t *testing.T) {
	svc := newTestBlog(t)
	ctx := context.Background()
	admin := mustCreateUser(t, svc, "admin@example.com")
	reader := mustCreateUser(t, svc, "reader@example.com")

	post, err := svc.CreatePost(ctx, validPost(admin.ID, "Doomed"))
	require.NoError(t, err)
	for _, text := range []string{"one", "two", "three"} {
		_, err := svc.CreateComment(ctx, CommentInput{Text: text, AuthorID: reader.ID, PostID: post.ID})
		require.NoError(t, err)
	}

	require.NoError(t, svc.DeletePost(ctx, post.ID))

	comments, err := svc.ListCommentsForPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)

	_, err = svc.GetPost(ctx, post.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeletePost_NotFound(t *testing.T) {
	svc := newTestBlog(t)

	err := svc.DeletePost(context.Background(), 77)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestComments_CRUD(t *testing.T) {
	svc := newTestBlog(t)
	ctx := context.Background()
	admin := mustCreateUser(t, svc, "admin@example.com")
	reader := mustCreateUser(t, svc, "reader@example.com")
	post, err := svc.CreatePost(ctx, validPost(admin.ID, "Discussed"))
	require.NoError(t, err)

	c, err := svc.CreateComment(ctx, CommentInput{Text: " <em>First</em> ", AuthorID: reader.ID, PostID: post.ID})
	require.NoError(t, err)
	assert.Equal(t, "<em>First</em>", c.Text)

	rows, err := svc.ListCommentsForPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, reader.Name, rows[0].AuthorName)
	assert.Equal(t, reader.Email, rows[0].AuthorEmail)

	updated, err := svc.UpdateComment(ctx, &reader, c, "Edited")
	require.NoError(t, err)
	assert.Equal(t, "Edited", updated.Text)
	assert.Equal(t, c.PostID, updated.PostID)

	got, err := svc.GetComment(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Edited", got.Text)

	require.NoError(t, svc.DeleteComment(ctx, &reader, c))
	_, err = svc.GetComment(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.DeleteComment(ctx, &reader, c), ErrNotFound)
}

func TestComments_Forbidden(t *testing.T) {
	svc := newTestBlog(t)
	ctx := context.Background()
	admin := mustCreateUser(t, svc, "admin@example.com")
	author := mustCreateUser(t, svc, "author@example.com")
	other := mustCreateUser(t, svc, "other@example.com")
	post, err := svc.CreatePost(ctx, validPost(admin.ID, "Guarded"))
	require.NoError(t, err)
	c, err := svc.CreateComment(ctx, CommentInput{Text: "Mine", AuthorID: author.ID, PostID: post.ID})
	require.NoError(t, err)

	for _, u := range []*store.User{nil, &other, &admin} {
		_, err := svc.UpdateComment(ctx, u, c, "Hijacked")
		assert.ErrorIs(t, err, ErrForbidden)
		assert.ErrorIs(t, err, ErrNotCommentAuthor)
	}

	for _, u := range []*store.User{nil, &other} {
		err := svc.DeleteComment(ctx, u, c)
		assert.ErrorIs(t, err, ErrForbidden)
		assert.ErrorIs(t, err, ErrCannotDeleteComment)
	}

	got, err := svc.GetComment(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mine", got.Text)

	require.NoError(t, svc.DeleteComment(ctx, &admin, c))
}

func TestCreateComment_Invalid(t *testing.T) {
	svc := newTestBlog(t)
	ctx := context.Background()
	admin := mustCreateUser(t, svc, "admin@example.com")
	post, err := svc.CreatePost(ctx, validPost(admin.ID, "P"))
	require.NoError(t, err)

	_, err = svc.CreateComment(ctx, CommentInput{Text: "  ", AuthorID: admin.ID, PostID: post.ID})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "text", vErr.Field)

	_, err = svc.CreateComment(ctx, CommentInput{Text: "hi", AuthorID: admin.ID, PostID: 999})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.CreateComment(ctx, CommentInput{Text: "hi", AuthorID: 999, PostID: post.ID})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateComment_RejectsEmpty(t *testing.T) {
	svc := newTestBlog(t)
	ctx := context.Background()
	admin := mustCreateUser(t, svc, "admin@example.com")
	post, err := svc.CreatePost(ctx, validPost(admin.ID, "P"))
	require.NoError(t, err)
	c, err := svc.CreateComment(ctx, CommentInput{Text: "keep", AuthorID: admin.ID, PostID: post.ID})
	require.NoError(t, err)

	_, err = svc.UpdateComment(ctx, &admin, c, "<script>x</script>")
	require.Error(t, err)

	got, err := svc.GetComment(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "keep", got.Text)
}

func TestDeleteUser_Cascades(t *testing.T) {
	svc := newTestBlog(t)
	ctx := context.Background()
	admin := mustCreateUser(t, svc, "admin@example.com")
	reader := mustCreateUser(t, svc, "reader@example.com")

	adminPost, err := svc.CreatePost(ctx, validPost(admin.ID, "Admin post"))
	require.NoError(t, err)
	readerPost, err := svc.CreatePost(ctx, validPost(reader.ID, "Reader post"))
	require.NoError(t, err)

	// The admin comments on the reader's post and the reader on the admin's.
	onReaderPost, err := svc.CreateComment(ctx, CommentInput{Text: "a", AuthorID: admin.ID, PostID: readerPost.ID})
	require.NoError(t, err)
	readerComment, err := svc.CreateComment(ctx, CommentInput{Text: "b", AuthorID: reader.ID, PostID: adminPost.ID})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(ctx, reader.ID))

	_, err = svc.GetUserByID(ctx, reader.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.GetPost(ctx, readerPost.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.GetComment(ctx, onReaderPost.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.GetComment(ctx, readerComment.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetPost(ctx, adminPost.ID)
	assert.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteUser(ctx, reader.ID), ErrNotFound)
}

func TestScenario_AdminPostUserComment(t *testing.T) {
	svc := newTestBlog(t)
	ctx := context.Background()

	admin := mustCreateUser(t, svc, "admin@example.com")
	user2 := mustCreateUser(t, svc, "user2@example.com")
	require.True(t, auth.IsAdmin(admin))
	require.False(t, auth.IsAdmin(user2))

	_, err := svc.CreatePost(ctx, validPost(admin.ID, "Zzz last"))
	require.NoError(t, err)
	post, err := svc.CreatePost(ctx, PostInput{
		Title:    "Hello",
		Subtitle: "World",
		Body:     "...",
		ImgURL:   "http://x/img.png",
		AuthorID: admin.ID,
	})
	require.NoError(t, err)

	posts, err := svc.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, post.ID, posts[0].Post.ID)

	_, err = svc.CreateComment(ctx, CommentInput{Text: "Nice", AuthorID: user2.ID, PostID: post.ID})
	require.NoError(t, err)

	comments, err := svc.ListCommentsForPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "Nice", comments[0].Comment.Text)

	require.NoError(t, svc.DeletePost(ctx, post.ID))

	comments, err = svc.ListCommentsForPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
	_, err = svc.GetPost(ctx, post.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
