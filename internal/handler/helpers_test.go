package handler

import (
	"context"
	"database/sql"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/oblog/internal/auth"
	"github.com/olegiv/oblog/internal/middleware"
	"github.com/olegiv/oblog/internal/render"
	"github.com/olegiv/oblog/internal/service"
	"github.com/olegiv/oblog/internal/store"
	"github.com/olegiv/oblog/internal/testutil"
	"github.com/olegiv/oblog/web"
)

type testEnv struct {
	db       *sql.DB
	sm       *scs.SessionManager
	sessions *auth.Sessions
	renderer *render.Renderer
	blog     *service.BlogService
	accounts *service.AccountService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	sm := scs.New()
	sessions := auth.NewSessions(sm)

	templates, err := fs.Sub(web.Templates, "templates")
	require.NoError(t, err)

	renderer, err := render.New(render.Config{
		TemplatesFS: templates,
		Sessions:    sessions,
		SiteName:    "Test Blog",
	})
	require.NoError(t, err)

	blog := service.NewBlogService(db)
	return &testEnv{
		db:       db,
		sm:       sm,
		sessions: sessions,
		renderer: renderer,
		blog:     blog,
		accounts: service.NewAccountService(blog, testutil.DiscardLogger()),
	}
}

func (e *testEnv) blogHandler() *BlogHandler {
	return NewBlogHandler(e.blog, e.renderer, "<p>About this blog</p>")
}

func (e *testEnv) authHandler() *AuthHandler {
	return NewAuthHandler(e.accounts, e.sessions, e.renderer)
}

// serve runs h inside a loaded session with user as the request identity.
// A nil user makes the request anonymous.
func (e *testEnv) serve(h http.HandlerFunc, req *http.Request, user *store.User) *httptest.ResponseRecorder {
	wrapped := e.sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user != nil {
			r = r.WithContext(context.WithValue(r.Context(), middleware.ContextKeyUser, *user))
		}
		h(w, r)
	}))

	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)
	return rec
}

func getRequest(target string) *http.Request {
	return httptest.NewRequest(http.MethodGet, target, nil)
}

func postRequest(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// withURLParam attaches a chi route parameter to req.
func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}
