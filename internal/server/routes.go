// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package server wires services, handlers and middleware into the HTTP
// router.
package server

import (
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/olegiv/oblog/internal/auth"
	"github.com/olegiv/oblog/internal/config"
	"github.com/olegiv/oblog/internal/handler"
	"github.com/olegiv/oblog/internal/middleware"
	"github.com/olegiv/oblog/internal/render"
	"github.com/olegiv/oblog/internal/service"
	"github.com/olegiv/oblog/internal/version"
	"github.com/olegiv/oblog/web"
)

// aboutPage is the markdown source of /about inside web.Content.
const aboutPage = "content/about.md"

// Deps holds everything the router needs from main.
type Deps struct {
	DB             *sql.DB
	Config         *config.Config
	Logger         *slog.Logger
	SessionManager *scs.SessionManager
	Version        version.Info
}

// NewRouter builds the application handler.
func NewRouter(deps Deps) (http.Handler, error) {
	cfg := deps.Config
	sessions := auth.NewSessions(deps.SessionManager)

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return nil, fmt.Errorf("getting templates fs: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS: templatesFS,
		Sessions:    sessions,
		SiteName:    cfg.SiteName,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing renderer: %w", err)
	}

	aboutSrc, err := web.Content.ReadFile(aboutPage)
	if err != nil {
		return nil, fmt.Errorf("reading about page: %w", err)
	}
	about, err := render.Markdown(aboutSrc)
	if err != nil {
		return nil, fmt.Errorf("rendering about page: %w", err)
	}

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return nil, fmt.Errorf("getting static fs: %w", err)
	}

	blogService := service.NewBlogService(deps.DB)
	accountService := service.NewAccountService(blogService, deps.Logger)

	blogHandler := handler.NewBlogHandler(blogService, renderer, about)
	authHandler := handler.NewAuthHandler(accountService, sessions, renderer)
	healthHandler := handler.NewHealthHandler(deps.DB, deps.Version)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.Metrics)
	r.Use(chimw.Recoverer)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))

	// Static files and health checks need no session
	r.Handle(handler.RouteStatic, http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	r.Get(handler.RouteHealth, healthHandler.Health)
	if cfg.MetricsEnabled {
		r.Handle(handler.RouteMetrics, promhttp.Handler())
	}

	r.Group(func(r chi.Router) {
		r.Use(deps.SessionManager.LoadAndSave)
		r.Use(middleware.CSRF(middleware.DefaultCSRFConfig(
			[]byte(cfg.SessionSecret), cfg.IsDevelopment(), cfg.ServerPort)))
		r.Use(middleware.LoadIdentity(sessions, blogService))

		// Public
		r.Get(handler.RouteRoot, blogHandler.Index)
		r.Get(handler.RouteAbout, blogHandler.About)
		r.Get(handler.RoutePostBySlug, blogHandler.PostBySlug)

		r.Get(handler.RouteRegister, authHandler.RegisterForm)
		r.Post(handler.RouteRegister, authHandler.Register)
		r.Get(handler.RouteLogin, authHandler.LoginForm)
		r.Post(handler.RouteLogin, authHandler.Login)
		r.With(middleware.RequireSameSite).Get(handler.RouteLogout, authHandler.Logout)
		r.Post(handler.RouteLogout, authHandler.Logout)

		// Logged-in users
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireLogin(sessions))

			r.Get(handler.RoutePost, blogHandler.ShowPost)
			r.Post(handler.RoutePost, blogHandler.AddComment)
			r.Get(handler.RouteEditComment, blogHandler.EditCommentForm)
			r.Post(handler.RouteEditComment, blogHandler.UpdateComment)
			r.With(middleware.RequireSameSite).Get(handler.RouteDeleteComment, blogHandler.DeleteComment)
			r.Post(handler.RouteDeleteComment, blogHandler.DeleteComment)
		})

		// Admin only
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(handler.Forbidden(renderer)))

			r.Get(handler.RouteNewPost, blogHandler.NewPostForm)
			r.Post(handler.RouteNewPost, blogHandler.CreatePost)
			r.Get(handler.RouteEditPost, blogHandler.EditPostForm)
			r.Post(handler.RouteEditPost, blogHandler.UpdatePost)
			r.With(middleware.RequireSameSite).Get(handler.RouteDeletePost, blogHandler.DeletePost)
			r.Post(handler.RouteDeletePost, blogHandler.DeletePost)
		})

		r.NotFound(handler.NotFound(renderer))
	})

	return r, nil
}
