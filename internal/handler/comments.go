// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/olegiv/oblog/internal/metrics"
	"github.com/olegiv/oblog/internal/middleware"
	"github.com/olegiv/oblog/internal/render"
	"github.com/olegiv/oblog/internal/service"
	"github.com/olegiv/oblog/internal/store"
)

type commentEditView struct {
	Post    store.Post
	Comment store.Comment
}

// AddComment handles POST /post?post_id=N.
func (h *BlogHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	postID, ok := h.queryID(w, r, ParamPostID)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		renderError(w, r, h.renderer, http.StatusBadRequest, MsgInvalidForm)
		return
	}
	form := commentFormFrom(r)
	if errs := validateForm(form); errs != nil {
		flashAndRedirect(w, r, h.renderer, postURL(postID), firstError(errs))
		return
	}

	user := middleware.GetUser(r)
	comment, err := h.blog.CreateComment(r.Context(), service.CommentInput{
		Text:     form.Text,
		AuthorID: user.ID,
		PostID:   postID,
	})
	if err != nil {
		if errs, ok := validationErrors(err); ok {
			flashAndRedirect(w, r, h.renderer, postURL(postID), firstError(errs))
			return
		}
		serviceError(w, r, h.renderer, err, "create comment")
		return
	}

	metrics.CommentsTotal.WithLabelValues(metrics.ActionCreated).Inc()
	slog.InfoContext(r.Context(), "comment created", "comment_id", comment.ID, "post_id", postID)
	http.Redirect(w, r, postURL(postID), http.StatusSeeOther)
}

// EditCommentForm handles GET /edit_comment?post_id=N&comment_id=M.
func (h *BlogHandler) EditCommentForm(w http.ResponseWriter, r *http.Request) {
	post, comment, ok := h.ownComment(w, r)
	if !ok {
		return
	}
	h.renderCommentEditor(w, r, http.StatusOK, post, comment, CommentForm{Text: comment.Text}, nil)
}

// UpdateComment handles POST /edit_comment?post_id=N&comment_id=M.
// Only the comment's author may change it; anyone else gets a 403 and the
// stored text stays as it was.
func (h *BlogHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	post, comment, ok := h.ownComment(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		renderError(w, r, h.renderer, http.StatusBadRequest, MsgInvalidForm)
		return
	}
	form := commentFormFrom(r)
	if errs := validateForm(form); errs != nil {
		h.renderCommentEditor(w, r, http.StatusUnprocessableEntity, post, comment, form, errs)
		return
	}

	if _, err := h.blog.UpdateComment(r.Context(), middleware.GetUser(r), comment, form.Text); err != nil {
		if errs, ok := validationErrors(err); ok {
			h.renderCommentEditor(w, r, http.StatusUnprocessableEntity, post, comment, form, errs)
			return
		}
		serviceError(w, r, h.renderer, err, "update comment")
		return
	}

	metrics.CommentsTotal.WithLabelValues(metrics.ActionUpdated).Inc()
	http.Redirect(w, r, postURL(post.ID), http.StatusSeeOther)
}

// DeleteComment handles /delete_comment?post_id=N&comment_id=M. The author
// and the admin may delete a comment.
func (h *BlogHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	post, comment, ok := h.loadComment(w, r)
	if !ok {
		return
	}

	if err := h.blog.DeleteComment(r.Context(), middleware.GetUser(r), comment); err != nil {
		serviceError(w, r, h.renderer, err, "delete comment")
		return
	}

	metrics.CommentsTotal.WithLabelValues(metrics.ActionDeleted).Inc()
	slog.InfoContext(r.Context(), "comment deleted", "comment_id", comment.ID, "post_id", post.ID)
	http.Redirect(w, r, postURL(post.ID), http.StatusSeeOther)
}

// loadComment resolves the post_id and comment_id parameters. A comment that
// belongs to a different post is reported as not found.
func (h *BlogHandler) loadComment(w http.ResponseWriter, r *http.Request) (store.Post, store.Comment, bool) {
	postID, ok := h.queryID(w, r, ParamPostID)
	if !ok {
		return store.Post{}, store.Comment{}, false
	}
	commentID, ok := h.queryID(w, r, ParamCommentID)
	if !ok {
		return store.Post{}, store.Comment{}, false
	}

	post, err := h.blog.GetPost(r.Context(), postID)
	if err != nil {
		serviceError(w, r, h.renderer, err, "load post")
		return store.Post{}, store.Comment{}, false
	}
	comment, err := h.blog.GetComment(r.Context(), commentID)
	if err != nil {
		serviceError(w, r, h.renderer, err, "load comment")
		return store.Post{}, store.Comment{}, false
	}
	if comment.PostID != post.ID {
		renderError(w, r, h.renderer, http.StatusNotFound, "")
		return store.Post{}, store.Comment{}, false
	}
	return post, comment, true
}

// ownComment is loadComment plus the author check.
func (h *BlogHandler) ownComment(w http.ResponseWriter, r *http.Request) (store.Post, store.Comment, bool) {
	post, comment, ok := h.loadComment(w, r)
	if !ok {
		return store.Post{}, store.Comment{}, false
	}

	if err := service.AuthorizeCommentEdit(middleware.GetUser(r), comment); err != nil {
		serviceError(w, r, h.renderer, err, "edit comment")
		return store.Post{}, store.Comment{}, false
	}
	return post, comment, true
}

func (h *BlogHandler) renderCommentEditor(w http.ResponseWriter, r *http.Request, status int, post store.Post, comment store.Comment, form CommentForm, errs map[string]string) {
	renderPage(w, r, h.renderer, status, templateEditComment, render.TemplateData{
		Title:  "Edit comment",
		Data:   commentEditView{Post: post, Comment: comment},
		Form:   form,
		Errors: errs,
	})
}
