package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/vintegcorp/vintegcorp/auth"
	"github.com/vintegcorp/vintegcorp/internal/config"
	"github.com/vintegcorp/vintegcorp/ratelimit"
	"github.com/vintegcorp/vintegcorp/storage/sqlite"
)

const (
	testAdminEmail    = "admin@corp.com"
	testAdminPassword = "admin-password"
	testConfig        = `
env: TEST
jwt_secret: a-test-secret-value
rate_limit:
  disabled: true
limits:
  max_body_bytes: 4096
  max_document_bytes: 128
`
)

type testFixture struct {
	server     *Server
	store      *sqlite.Store
	adminToken string
	adminID    string
}

func testEnv(t *testing.T) {
	t.Helper()
	for _, v := range []string{"PORT", "APP_NAME", "ENV", "LOG_LEVEL", "JWT_SECRET", "CORS_ALLOWED_ORIGINS",
		"RATE_LIMIT_DISABLED", "BCRYPT_COST"} {
		t.Setenv(v, "")
	}
	t.Setenv("ADMIN_EMAIL", testAdminEmail)
	t.Setenv("ADMIN_PASSWORD", testAdminPassword)
	t.Setenv("DATABASE_URL", "sqlite://"+filepath.Join(t.TempDir(), "intranet.db"))
}

func loadTestConfig(t *testing.T) config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o644))
	cfg, err := config.Load(path)
	require.NoError(t, err)
	return cfg
}

// setupTestFixture starts a server on a fresh database with the admin logged in
func setupTestFixture(t *testing.T, options ...Option) *testFixture {
	t.Helper()
	testEnv(t)
	cfg := loadTestConfig(t)

	dbPath, err := cfg.GetDatabasePath()
	require.NoError(t, err)
	store, err := sqlite.Open(context.Background(), dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	options = append([]Option{WithHasher(auth.NewHasher(bcrypt.MinCost)), WithLogger(zerolog.Nop())}, options...)
	srv, err := New(cfg, ReposFromStore(store), options...)
	require.NoError(t, err)

	f := &testFixture{server: srv, store: store}
	f.adminToken, f.adminID = f.login(t, testAdminEmail, testAdminPassword)
	return f
}

func (f *testFixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	return rec
}

func (f *testFixture) login(t *testing.T, email, password string) (string, string) {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	decode(t, rec, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token, resp.User.ID
}

// addEmployee creates an employee through the API and returns its token and id
func (f *testFixture) addEmployee(t *testing.T, email string) (string, string) {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/users", f.adminToken, map[string]any{
		"name": "Jane Doe", "email": email, "role": "EMPLOYEE", "position": "Engineer", "department": "R&D",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return f.login(t, email, "123456")
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
}

func requireMessage(t *testing.T, rec *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	var body messageBody
	decode(t, rec, &body)
	require.Equal(t, message, body.Message)
}

func TestHealth(t *testing.T) {
	f := setupTestFixture(t)
	rec := f.do(t, http.MethodGet, "/api/health", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body healthBody
	decode(t, rec, &body)
	require.Equal(t, "ok", body.Status)
	require.NotEmpty(t, body.Timestamp)

	h := rec.Header()
	require.Equal(t, "nosniff", h.Get("X-Content-Type-Options"))
	require.Equal(t, "DENY", h.Get("X-Frame-Options"))
	require.NotEmpty(t, h.Get("Strict-Transport-Security"))
	require.NotEmpty(t, h.Get("X-Request-Id"))
	require.Equal(t, "*", h.Get("Access-Control-Allow-Origin"))
}

func TestPreflight(t *testing.T) {
	f := setupTestFixture(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/does-not-exist", nil)
	req.Header.Set("Origin", "https://intranet.example")
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "https://intranet.example", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	require.Equal(t, "86400", rec.Header().Get("Access-Control-Max-Age"))
	require.Empty(t, rec.Body.String())
}

func TestRouteNotFound(t *testing.T) {
	f := setupTestFixture(t)
	requireMessage(t, f.do(t, http.MethodGet, "/api/nope", "", nil), http.StatusNotFound, "Route not found: GET /api/nope")
	requireMessage(t, f.do(t, http.MethodPut, "/api/tasks", f.adminToken, nil), http.StatusNotFound, "Route not found: PUT /api/tasks")
}

func TestRateLimit(t *testing.T) {
	f := setupTestFixture(t, WithLimiter(ratelimit.New(ratelimit.WithMaxRequests(1))))

	// the fixture's login used up the window
	rec := f.do(t, http.MethodGet, "/api/health", "", nil)
	requireMessage(t, rec, http.StatusTooManyRequests, MsgTooManyRequests)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	other := httptest.NewRecorder()
	f.server.ServeHTTP(other, req)
	require.Equal(t, http.StatusOK, other.Code)
}

func TestAuthentication(t *testing.T) {
	f := setupTestFixture(t)

	requireMessage(t, f.do(t, http.MethodGet, "/api/users", "", nil), http.StatusUnauthorized, auth.MsgMissingToken)
	requireMessage(t, f.do(t, http.MethodGet, "/api/users", "garbage", nil), http.StatusUnauthorized, auth.MsgInvalidToken)
	requireMessage(t, f.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": testAdminEmail, "password": "wrong-one"}),
		http.StatusUnauthorized, auth.MsgInvalidCredentials)

	rec := f.do(t, http.MethodGet, "/api/users", f.adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), testAdminEmail)
	require.NotContains(t, rec.Body.String(), "password")
}

func TestValidationRunsBeforeAuth(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(t, http.MethodPost, "/api/tasks", "", map[string]string{"title": ""})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body messageBody
	decode(t, rec, &body)
	require.True(t, strings.HasPrefix(body.Message, "Validation Error: "), body.Message)
	require.Contains(t, body.Message, "title")
	require.Contains(t, body.Message, "priority")
}

func TestUserAdministration(t *testing.T) {
	f := setupTestFixture(t)
	employeeToken, employeeID := f.addEmployee(t, "jane@corp.com")

	t.Run("duplicate email", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/users", f.adminToken, map[string]any{
			"name": "Jane Again", "email": "JANE@corp.com", "role": "EMPLOYEE", "position": "Engineer", "department": "R&D",
		})
		requireMessage(t, rec, http.StatusConflict, msgEmailTaken)
	})

	t.Run("employees cannot add users", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/users", employeeToken, map[string]any{
			"name": "Mallory", "email": "mallory@corp.com", "role": "ADMIN", "position": "Intruder", "department": "None",
		})
		requireMessage(t, rec, http.StatusForbidden, msgAccessDenied)

		_, err := f.store.Users().GetByEmail(context.Background(), "mallory@corp.com")
		require.Error(t, err)
	})

	t.Run("two letter name from an employee is refused", func(t *testing.T) {
		jo := map[string]any{"name": "Jo", "email": "x@y.com", "role": "EMPLOYEE", "position": "Dev", "department": "Tech"}
		requireMessage(t, f.do(t, http.MethodPost, "/api/users", employeeToken, jo), http.StatusForbidden, msgAccessDenied)

		_, err := f.store.Users().GetByEmail(context.Background(), "x@y.com")
		require.Error(t, err)

		require.Equal(t, http.StatusCreated, f.do(t, http.MethodPost, "/api/users", f.adminToken, jo).Code)

		jo["name"], jo["email"] = "J", "j@y.com"
		rec := f.do(t, http.MethodPost, "/api/users", f.adminToken, jo)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "name")
	})

	t.Run("role changes by employees are ignored", func(t *testing.T) {
		rec := f.do(t, http.MethodPatch, "/api/users/"+employeeID, employeeToken, map[string]any{"role": "ADMIN", "position": "Lead"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var u struct {
			Role     string `json:"role"`
			Position string `json:"position"`
		}
		decode(t, rec, &u)
		require.Equal(t, "EMPLOYEE", u.Role)
		require.Equal(t, "Lead", u.Position)
	})

	t.Run("employees cannot edit others", func(t *testing.T) {
		rec := f.do(t, http.MethodPatch, "/api/users/"+f.adminID, employeeToken, map[string]any{"name": "Hacked"})
		requireMessage(t, rec, http.StatusForbidden, msgAccessDenied)
	})

	t.Run("admins cannot delete themselves", func(t *testing.T) {
		requireMessage(t, f.do(t, http.MethodDelete, "/api/users/"+f.adminID, f.adminToken, nil), http.StatusBadRequest, msgNoSelfDelete)
	})

	t.Run("employees cannot delete users", func(t *testing.T) {
		requireMessage(t, f.do(t, http.MethodDelete, "/api/users/"+f.adminID, employeeToken, nil), http.StatusForbidden, msgOnlyAdminDeletes)
	})

	t.Run("soft delete hides the user", func(t *testing.T) {
		rec := f.do(t, http.MethodDelete, "/api/users/"+employeeID, f.adminToken, nil)
		require.Equal(t, http.StatusNoContent, rec.Code)
		list := f.do(t, http.MethodGet, "/api/users", f.adminToken, nil)
		require.NotContains(t, list.Body.String(), "jane@corp.com")
	})
}

func TestChangePassword(t *testing.T) {
	f := setupTestFixture(t)
	token, _ := f.addEmployee(t, "jane@corp.com")

	rec := f.do(t, http.MethodPost, "/api/auth/change-password", token, map[string]string{
		"email": "jane@corp.com", "oldPass": "wrong-pass", "newPass": "brand-new-pass",
	})
	requireMessage(t, rec, http.StatusUnauthorized, auth.MsgWrongOldPassword)

	rec = f.do(t, http.MethodPost, "/api/auth/change-password", token, map[string]string{
		"email": "jane@corp.com", "oldPass": "123456", "newPass": "brand-new-pass",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	f.login(t, "jane@corp.com", "brand-new-pass")
}

func TestTasks(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(t, http.MethodPost, "/api/projects", f.adminToken, map[string]string{"name": "Apollo"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var project struct {
		ID string `json:"id"`
	}
	decode(t, rec, &project)

	rec = f.do(t, http.MethodPost, "/api/tasks", f.adminToken, map[string]any{
		"title": "Write report", "priority": "high", "status": "done", "project_id": project.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var task struct {
		ID           string  `json:"id"`
		Status       string  `json:"status"`
		AssigneeName string  `json:"assignee_name"`
		ProjectName  *string `json:"project_name"`
		ProjectID    *string `json:"project_id"`
	}
	decode(t, rec, &task)
	require.Equal(t, "todo", task.Status)
	require.NotNil(t, task.ProjectName)
	require.Equal(t, "Apollo", *task.ProjectName)

	t.Run("camelCase patch", func(t *testing.T) {
		rec := f.do(t, http.MethodPatch, "/api/tasks/"+task.ID, f.adminToken, map[string]any{
			"assigneeName": "Bob", "status": "in-progress", "projectId": nil,
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		decode(t, rec, &task)
		require.Equal(t, "in-progress", task.Status)
		require.Equal(t, "Bob", task.AssigneeName)
		require.Nil(t, task.ProjectID)
	})

	t.Run("unknown project", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/tasks", f.adminToken, map[string]any{
			"title": "Orphan", "priority": "low", "project_id": "5f0c7d7e-8a39-4c55-9b89-0f8f2c6c9d11",
		})
		requireMessage(t, rec, http.StatusBadRequest, "Validation Error: referenced record does not exist")
	})

	t.Run("missing task", func(t *testing.T) {
		rec := f.do(t, http.MethodPatch, "/api/tasks/5f0c7d7e-8a39-4c55-9b89-0f8f2c6c9d11", f.adminToken, map[string]any{"title": "x"})
		requireMessage(t, rec, http.StatusNotFound, msgTaskNotFound)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		require.Equal(t, http.StatusNoContent, f.do(t, http.MethodDelete, "/api/tasks/"+task.ID, f.adminToken, nil).Code)
		require.Equal(t, http.StatusNoContent, f.do(t, http.MethodDelete, "/api/tasks/"+task.ID, f.adminToken, nil).Code)
	})
}

func TestAnnouncementInteractions(t *testing.T) {
	f := setupTestFixture(t)
	employeeToken, employeeID := f.addEmployee(t, "jane@corp.com")

	requireMessage(t, f.do(t, http.MethodPost, "/api/announcements", employeeToken, map[string]any{
		"title": "Party", "content": "Friday", "priority": "low",
	}), http.StatusForbidden, msgForbidden)

	rec := f.do(t, http.MethodPost, "/api/announcements", f.adminToken, map[string]any{
		"title": "Office move", "content": "We move on Monday", "priority": "high", "isPinned": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var a struct {
		ID       string   `json:"id"`
		IsPinned bool     `json:"is_pinned"`
		LikedBy  []string `json:"liked_by"`
		ReadBy   []string `json:"read_by"`
		Comments []struct {
			AuthorID string `json:"author_id"`
			Content  string `json:"content"`
		} `json:"comments"`
	}
	decode(t, rec, &a)
	require.True(t, a.IsPinned)

	like := func() {
		rec := f.do(t, http.MethodPost, "/api/announcements/"+a.ID+"/like", employeeToken, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		decode(t, rec, &a)
	}
	like()
	require.Equal(t, []string{employeeID}, a.LikedBy)
	like()
	require.Empty(t, a.LikedBy)

	rec = f.do(t, http.MethodPost, "/api/announcements/"+a.ID+"/comments", employeeToken, map[string]any{
		"content": "See you there", "authorName": "Jane Doe", "authorAvatar": "",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &a)
	require.Len(t, a.Comments, 1)
	require.Equal(t, employeeID, a.Comments[0].AuthorID)

	for range 2 {
		rec = f.do(t, http.MethodPost, "/api/announcements/"+a.ID+"/read", "", map[string]string{"userId": employeeID})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
	requireMessage(t, f.do(t, http.MethodPost, "/api/announcements/5f0c7d7e-8a39-4c55-9b89-0f8f2c6c9d11/like", employeeToken, nil),
		http.StatusNotFound, msgAnnouncementNotFound)
}

func TestFeed(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(t, http.MethodPost, "/api/feed", f.adminToken, map[string]string{"content": "Hello team"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var post struct {
		ID         string `json:"id"`
		AuthorName string `json:"author_name"`
		LikesCount int    `json:"likes_count"`
	}
	decode(t, rec, &post)
	require.Equal(t, DefaultSuperAdminName, post.AuthorName)

	rec = f.do(t, http.MethodPost, "/api/feed/"+post.ID+"/like", f.adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &post)
	require.Equal(t, 1, post.LikesCount)

	requireMessage(t, f.do(t, http.MethodPost, "/api/feed/5f0c7d7e-8a39-4c55-9b89-0f8f2c6c9d11/comments", f.adminToken,
		map[string]string{"content": "hi", "authorName": "A"}), http.StatusNotFound, msgPostNotFound)
}

func TestDocuments(t *testing.T) {
	f := setupTestFixture(t)

	requireMessage(t, f.do(t, http.MethodPost, "/api/documents", f.adminToken, map[string]any{
		"filename": "big.pdf", "data": strings.Repeat("A", 200),
	}), http.StatusRequestEntityTooLarge, msgDocumentTooLarge)

	rec := f.do(t, http.MethodPost, "/api/documents", f.adminToken, map[string]any{
		"filename": "policy.txt", "mime_type": "text/plain", "file_size_bytes": 5, "data": "aGVsbG8=",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.NotContains(t, rec.Body.String(), "aGVsbG8=")
	var doc struct {
		ID string `json:"id"`
	}
	decode(t, rec, &doc)

	rec = f.do(t, http.MethodGet, "/api/documents/"+doc.ID, f.adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "aGVsbG8=")

	list := f.do(t, http.MethodGet, "/api/documents", f.adminToken, nil)
	require.Equal(t, http.StatusOK, list.Code)
	require.Contains(t, list.Body.String(), "policy.txt")
	require.NotContains(t, list.Body.String(), "aGVsbG8=")

	requireMessage(t, f.do(t, http.MethodGet, "/api/documents/5f0c7d7e-8a39-4c55-9b89-0f8f2c6c9d11", f.adminToken, nil),
		http.StatusNotFound, msgDocumentNotFound)
}

func TestBodyTooLarge(t *testing.T) {
	f := setupTestFixture(t)
	huge := `{"email":"a@b.co","password":"` + strings.Repeat("x", 5000) + `"}`
	requireMessage(t, f.do(t, http.MethodPost, "/api/auth/login", "", huge), http.StatusRequestEntityTooLarge, "Request body too large")
}

func TestPanicIsHidden(t *testing.T) {
	f := setupTestFixture(t)
	f.server.register(http.MethodGet, `^/api/boom$`, func(http.ResponseWriter, *http.Request, []string) error {
		panic("kaboom")
	}, noStore())

	rec := f.do(t, http.MethodGet, "/api/boom", "", nil)
	requireMessage(t, rec, http.StatusInternalServerError, msgInternal)
	require.NotContains(t, rec.Body.String(), "kaboom")
}

type brokenWriter struct {
	header   http.Header
	statuses []int
}

func (b *brokenWriter) Header() http.Header { return b.header }

func (b *brokenWriter) WriteHeader(status int) { b.statuses = append(b.statuses, status) }

func (b *brokenWriter) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestResponseEncodingFailure(t *testing.T) {
	f := setupTestFixture(t)
	f.server.register(http.MethodGet, `^/api/unencodable$`, func(w http.ResponseWriter, _ *http.Request, _ []string) error {
		return f.server.writeJSON(w, http.StatusOK, map[string]any{"ch": make(chan int)})
	}, noStore())

	rec := f.do(t, http.MethodGet, "/api/unencodable", "", nil)
	requireMessage(t, rec, http.StatusInternalServerError, msgInternal)
	require.Equal(t, 1, strings.Count(rec.Body.String(), "{"))
}

func TestResponseWriteFailureIsNotTranslated(t *testing.T) {
	f := setupTestFixture(t)
	w := &brokenWriter{header: http.Header{}}
	require.NoError(t, f.server.writeJSON(w, http.StatusCreated, messageBody{Message: "ok"}))
	require.Equal(t, []int{http.StatusCreated}, w.statuses)
	require.Equal(t, "application/json", w.header.Get("Content-Type"))
}

func TestStoreUnavailable(t *testing.T) {
	testEnv(t)
	t.Setenv("DATABASE_URL", "")
	srv, err := New(loadTestConfig(t), nil, WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	f := &testFixture{server: srv}

	require.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/health", "", nil).Code)
	requireMessage(t, f.do(t, http.MethodGet, "/api/users", "", nil), http.StatusInternalServerError,
		"Configuration Error: DATABASE_URL is not set")
	requireMessage(t, f.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "a@b.co", "password": "secret"}),
		http.StatusInternalServerError, "Configuration Error: DATABASE_URL is not set")
}

func TestSeedAdminIsIdempotent(t *testing.T) {
	f := setupTestFixture(t)
	hasher := auth.NewHasher(bcrypt.MinCost)

	password, err := SeedAdmin(context.Background(), f.store.Users(), hasher, testAdminEmail, "", zerolog.Nop())
	require.NoError(t, err)
	require.Empty(t, password)

	password, err = SeedAdmin(context.Background(), f.store.Users(), hasher, "root@corp.com", "", zerolog.Nop())
	require.NoError(t, err)
	require.NotEmpty(t, password)
	f.login(t, "root@corp.com", password)
}

func TestRoutesListing(t *testing.T) {
	f := setupTestFixture(t)
	routes := f.server.Routes()
	require.Equal(t, http.MethodGet, routes[0].Method)
	require.False(t, routes[0].UsesStore)

	var read *RouteInfo
	for i := range routes {
		if strings.Contains(routes[i].Pattern, "read") {
			read = &routes[i]
		}
	}
	require.NotNil(t, read)
	require.False(t, read.Auth)
	require.NotEmpty(t, read.Body)
}
