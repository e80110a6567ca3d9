// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/olegiv/oblog/internal/render"
	"github.com/olegiv/oblog/internal/service"
)

// errorView is the data of the error page.
type errorView struct {
	Status  int
	Heading string
	Message string
}

// flashAndRedirect sets a flash message and redirects to the given URL.
// Uses http.StatusSeeOther (303) so a POST is followed by a GET.
func flashAndRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message string) {
	renderer.SetFlash(r, message)
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// renderError renders the error page with the given status. message may be
// empty.
func renderError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, status int, message string) {
	data := render.TemplateData{
		Title: http.StatusText(status),
		Data: errorView{
			Status:  status,
			Heading: http.StatusText(status),
			Message: message,
		},
	}
	if err := renderer.RenderStatus(w, r, status, templateError, data); err != nil {
		slog.ErrorContext(r.Context(), "failed to render error page", "status", status, "error", err)
		http.Error(w, http.StatusText(status), status)
	}
}

// logAndInternalError logs an error and renders a 500 page.
func logAndInternalError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, logMsg string, args ...any) {
	slog.ErrorContext(r.Context(), logMsg, args...)
	renderError(w, r, renderer, http.StatusInternalServerError, "")
}

// renderPage renders a page and turns template failures into a 500.
func renderPage(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, status int, name string, data render.TemplateData) {
	if err := renderer.RenderStatus(w, r, status, name, data); err != nil {
		logAndInternalError(w, r, renderer, "failed to render template", "template", name, "error", err)
	}
}

// serviceError maps a service error to a response. Not-found and forbidden
// errors get their own pages; anything else is logged as a 500.
func serviceError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, err error, action string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		renderError(w, r, renderer, http.StatusNotFound, "")
	case errors.Is(err, service.ErrForbidden):
		slog.WarnContext(r.Context(), "action denied", "action", action, "error", err)
		renderError(w, r, renderer, http.StatusForbidden, forbiddenMessage(err))
	default:
		logAndInternalError(w, r, renderer, fmt.Sprintf("failed to %s", action), "error", err)
	}
}

func forbiddenMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrNotCommentAuthor):
		return MsgNotCommentAuthor
	case errors.Is(err, service.ErrCannotDeleteComment):
		return MsgCannotDelete
	}
	return ""
}

// Forbidden returns the handler used by the admin guard.
func Forbidden(renderer *render.Renderer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		renderError(w, r, renderer, http.StatusForbidden, MsgAdminOnly)
	})
}

// NotFound returns the handler for unknown routes.
func NotFound(renderer *render.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderError(w, r, renderer, http.StatusNotFound, "")
	}
}
