// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/oblog/internal/metrics"
	"github.com/olegiv/oblog/internal/middleware"
	"github.com/olegiv/oblog/internal/render"
	"github.com/olegiv/oblog/internal/service"
	"github.com/olegiv/oblog/internal/store"
	"github.com/olegiv/oblog/internal/util"
)

// BlogHandler handles the public blog pages, post management and comments.
type BlogHandler struct {
	blog     *service.BlogService
	renderer *render.Renderer
	about    template.HTML
}

// NewBlogHandler creates a new BlogHandler. about is the pre-rendered body of
// the about page.
func NewBlogHandler(blog *service.BlogService, renderer *render.Renderer, about template.HTML) *BlogHandler {
	return &BlogHandler{
		blog:     blog,
		renderer: renderer,
		about:    about,
	}
}

type indexView struct {
	Posts []store.ListPostsRow
}

type postView struct {
	Post     store.GetPostWithAuthorRow
	Comments []store.ListCommentsForPostRow
}

type editorView struct {
	Heading string
	Action  string
}

// postURL returns the canonical URL of a post page.
func postURL(id int64) string {
	return fmt.Sprintf("%s?%s=%d", RoutePost, ParamPostID, id)
}

// queryID parses a positive ID query parameter. It renders 400 and returns
// false when the parameter is missing or malformed.
func (h *BlogHandler) queryID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, ok := util.ParseID(r.URL.Query().Get(name))
	if !ok {
		renderError(w, r, h.renderer, http.StatusBadRequest, fmt.Sprintf("Missing or invalid %s.", name))
		return 0, false
	}
	return id, true
}

// Index handles GET / - lists all posts ordered by title.
func (h *BlogHandler) Index(w http.ResponseWriter, r *http.Request) {
	posts, err := h.blog.ListPosts(r.Context())
	if err != nil {
		logAndInternalError(w, r, h.renderer, "failed to list posts", "error", err)
		return
	}

	renderPage(w, r, h.renderer, http.StatusOK, templateIndex, render.TemplateData{
		Data: indexView{Posts: posts},
	})
}

// ShowPost handles GET /post?post_id=N - the post with its comments.
func (h *BlogHandler) ShowPost(w http.ResponseWriter, r *http.Request) {
	id, ok := h.queryID(w, r, ParamPostID)
	if !ok {
		return
	}

	post, err := h.blog.GetPostWithAuthor(r.Context(), id)
	if err != nil {
		serviceError(w, r, h.renderer, err, "load post")
		return
	}

	comments, err := h.blog.ListCommentsForPost(r.Context(), id)
	if err != nil {
		logAndInternalError(w, r, h.renderer, "failed to list comments", "post_id", id, "error", err)
		return
	}

	renderPage(w, r, h.renderer, http.StatusOK, templatePost, render.TemplateData{
		Title: post.Post.Title,
		Data:  postView{Post: post, Comments: comments},
		Form:  CommentForm{},
	})
}

// PostBySlug handles GET /posts/{slug} by redirecting to the post page.
func (h *BlogHandler) PostBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if !util.IsValidSlug(slug) {
		renderError(w, r, h.renderer, http.StatusNotFound, "")
		return
	}

	post, err := h.blog.GetPostBySlug(r.Context(), slug)
	if err != nil {
		serviceError(w, r, h.renderer, err, "load post by slug")
		return
	}
	http.Redirect(w, r, postURL(post.ID), http.StatusMovedPermanently)
}

// NewPostForm handles GET /new-post.
func (h *BlogHandler) NewPostForm(w http.ResponseWriter, r *http.Request) {
	h.renderEditor(w, r, http.StatusOK, editorView{Heading: "New Post", Action: RouteNewPost}, PostForm{}, nil)
}

// CreatePost handles POST /new-post.
func (h *BlogHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	view := editorView{Heading: "New Post", Action: RouteNewPost}

	if err := r.ParseForm(); err != nil {
		renderError(w, r, h.renderer, http.StatusBadRequest, MsgInvalidForm)
		return
	}
	form := postFormFrom(r)
	if errs := validateForm(form); errs != nil {
		h.renderEditor(w, r, http.StatusUnprocessableEntity, view, form, errs)
		return
	}

	user := middleware.GetUser(r)
	post, err := h.blog.CreatePost(r.Context(), service.PostInput{
		Title:    form.Title,
		Subtitle: form.Subtitle,
		Body:     form.Body,
		ImgURL:   form.ImgURL,
		AuthorID: user.ID,
	})
	if err != nil {
		if errs, ok := validationErrors(err); ok {
			h.renderEditor(w, r, http.StatusUnprocessableEntity, view, form, errs)
			return
		}
		serviceError(w, r, h.renderer, err, "create post")
		return
	}

	metrics.PostsTotal.WithLabelValues(metrics.ActionCreated).Inc()
	slog.InfoContext(r.Context(), "post created", "post_id", post.ID, "slug", post.Slug)
	http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
}

// EditPostForm handles GET /edit/{id} with the form pre-filled.
func (h *BlogHandler) EditPostForm(w http.ResponseWriter, r *http.Request) {
	post, ok := h.pathPost(w, r)
	if !ok {
		return
	}

	form := PostForm{
		Title:    post.Title,
		Subtitle: post.Subtitle,
		ImgURL:   post.ImgUrl,
		Body:     post.Body,
	}
	h.renderEditor(w, r, http.StatusOK, editView(post), form, nil)
}

// UpdatePost handles POST /edit/{id}.
func (h *BlogHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	post, ok := h.pathPost(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		renderError(w, r, h.renderer, http.StatusBadRequest, MsgInvalidForm)
		return
	}
	form := postFormFrom(r)
	if errs := validateForm(form); errs != nil {
		h.renderEditor(w, r, http.StatusUnprocessableEntity, editView(post), form, errs)
		return
	}

	updated, err := h.blog.UpdatePost(r.Context(), post, service.PostInput{
		Title:    form.Title,
		Subtitle: form.Subtitle,
		Body:     form.Body,
		ImgURL:   form.ImgURL,
	})
	if err != nil {
		if errs, ok := validationErrors(err); ok {
			h.renderEditor(w, r, http.StatusUnprocessableEntity, editView(post), form, errs)
			return
		}
		serviceError(w, r, h.renderer, err, "update post")
		return
	}

	metrics.PostsTotal.WithLabelValues(metrics.ActionUpdated).Inc()
	slog.InfoContext(r.Context(), "post updated", "post_id", updated.ID)
	http.Redirect(w, r, postURL(updated.ID), http.StatusSeeOther)
}

// DeletePost handles /delete?post_id=N - removes the post and its comments.
func (h *BlogHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := h.queryID(w, r, ParamPostID)
	if !ok {
		return
	}

	if err := h.blog.DeletePost(r.Context(), id); err != nil {
		serviceError(w, r, h.renderer, err, "delete post")
		return
	}

	metrics.PostsTotal.WithLabelValues(metrics.ActionDeleted).Inc()
	slog.InfoContext(r.Context(), "post deleted", "post_id", id)
	http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
}

// About handles GET /about.
func (h *BlogHandler) About(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, http.StatusOK, templateAbout, render.TemplateData{
		Title: "About",
		Data:  h.about,
	})
}

func editView(post store.Post) editorView {
	return editorView{
		Heading: "Edit Post",
		Action:  fmt.Sprintf("/edit/%d", post.ID),
	}
}

// pathPost loads the post named by the {id} path parameter.
func (h *BlogHandler) pathPost(w http.ResponseWriter, r *http.Request) (store.Post, bool) {
	id, ok := util.ParseID(chi.URLParam(r, "id"))
	if !ok {
		renderError(w, r, h.renderer, http.StatusNotFound, "")
		return store.Post{}, false
	}

	post, err := h.blog.GetPost(r.Context(), id)
	if err != nil {
		serviceError(w, r, h.renderer, err, "load post")
		return store.Post{}, false
	}
	return post, true
}

func (h *BlogHandler) renderEditor(w http.ResponseWriter, r *http.Request, status int, view editorView, form PostForm, errs map[string]string) {
	renderPage(w, r, h.renderer, status, templateMakePost, render.TemplateData{
		Title:  view.Heading,
		Data:   view,
		Form:   form,
		Errors: errs,
	})
}
