// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/olegiv/oblog/internal/auth"
	"github.com/olegiv/oblog/internal/metrics"
	"github.com/olegiv/oblog/internal/render"
	"github.com/olegiv/oblog/internal/service"
)

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	accounts *service.AccountService
	sessions *auth.Sessions
	renderer *render.Renderer
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(accounts *service.AccountService, sessions *auth.Sessions, renderer *render.Renderer) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		sessions: sessions,
		renderer: renderer,
	}
}

// RegisterForm handles GET /register.
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.renderRegister(w, r, http.StatusOK, RegisterForm{}, nil)
}

// Register handles POST /register. A new account is logged in straight away.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		renderError(w, r, h.renderer, http.StatusBadRequest, MsgInvalidForm)
		return
	}
	form := registerFormFrom(r)
	if errs := validateForm(form); errs != nil {
		h.renderRegister(w, r, http.StatusUnprocessableEntity, form, errs)
		return
	}

	user, err := h.accounts.Register(r.Context(), service.RegisterInput{
		Email:    form.Email,
		Name:     form.Name,
		Password: form.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrConflict):
			flashAndRedirect(w, r, h.renderer, RouteLogin, MsgAlreadyRegistered)
		default:
			if errs, ok := validationErrors(err); ok {
				h.renderRegister(w, r, http.StatusUnprocessableEntity, form, errs)
				return
			}
			logAndInternalError(w, r, h.renderer, "failed to register user", "error", err)
		}
		return
	}

	metrics.RegistrationsTotal.Inc()

	if err := h.sessions.Start(r.Context(), user); err != nil {
		logAndInternalError(w, r, h.renderer, "failed to start session", "user_id", user.ID, "error", err)
		return
	}
	http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
}

// LoginForm handles GET /login.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.renderLogin(w, r, http.StatusOK, LoginForm{}, nil)
}

// Login handles POST /login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		renderError(w, r, h.renderer, http.StatusBadRequest, MsgInvalidForm)
		return
	}
	form := loginFormFrom(r)
	if errs := validateForm(form); errs != nil {
		form.Password = ""
		h.renderLogin(w, r, http.StatusUnprocessableEntity, form, errs)
		return
	}

	user, err := h.accounts.Authenticate(r.Context(), form.Email, form.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues(metrics.LoginFailure).Inc()
			slog.InfoContext(r.Context(), "failed login attempt", "ip", r.RemoteAddr)
			flashAndRedirect(w, r, h.renderer, RouteLogin, MsgInvalidCredentials)
			return
		}
		logAndInternalError(w, r, h.renderer, "failed to authenticate", "error", err)
		return
	}

	if err := h.sessions.Start(r.Context(), user); err != nil {
		logAndInternalError(w, r, h.renderer, "failed to start session", "user_id", user.ID, "error", err)
		return
	}

	metrics.LoginsTotal.WithLabelValues(metrics.LoginSuccess).Inc()
	slog.InfoContext(r.Context(), "user logged in", "user_id", user.ID)
	http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
}

// Logout handles GET and POST /logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.End(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "failed to end session", "error", err)
	}
	http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
}

func (h *AuthHandler) renderRegister(w http.ResponseWriter, r *http.Request, status int, form RegisterForm, errs map[string]string) {
	form.Password = ""
	renderPage(w, r, h.renderer, status, templateRegister, render.TemplateData{
		Title:  "Register",
		Form:   form,
		Errors: errs,
	})
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, status int, form LoginForm, errs map[string]string) {
	renderPage(w, r, h.renderer, status, templateLogin, render.TemplateData{
		Title:  "Log In",
		Form:   form,
		Errors: errs,
	})
}
