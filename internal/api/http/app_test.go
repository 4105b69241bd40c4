package http_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	httptransport "github.com/spec-kit/account-service/internal/api/http"
	"github.com/spec-kit/account-service/internal/api/http/handlers"
	"github.com/spec-kit/account-service/internal/api/views"
	"github.com/spec-kit/account-service/internal/auth"
	"github.com/spec-kit/account-service/internal/config"
	"github.com/spec-kit/account-service/internal/domain"
	"github.com/spec-kit/account-service/internal/events"
	"github.com/spec-kit/account-service/internal/observability"
	"github.com/spec-kit/account-service/internal/persistence"
	"github.com/spec-kit/account-service/internal/repository"
	"github.com/spec-kit/account-service/internal/service"
	"github.com/spec-kit/account-service/internal/session"
)

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[int64]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.byID {
		if existing.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	r.nextID++
	user.ID = r.nextID
	clone := *user
	r.byID[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.byID {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) List(_ context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := make([]domain.User, 0, len(r.byID))
	for _, user := range r.byID {
		users = append(users, *user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *fakeUserRepo) Approve(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	user.Approved = true
	clone := *user
	return &clone, nil
}

func newTestApp(t *testing.T, repo repository.UserRepository, adminKey string) *fiber.App {
	t.Helper()

	logger := zap.NewNop()
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	sessions := session.NewManager(session.NewMemoryStorage(), tokens, logger, false)

	cfg := config.Config{}
	cfg.Auth.BcryptCost = bcrypt.MinCost
	accountService := service.NewAccountService(cfg, service.AccountDependencies{
		UserRepo:   repo,
		Dispatcher: events.NewInMemoryDispatcher(),
	})

	app := fiber.New(fiber.Config{
		Views:       views.Engine(),
		ViewsLayout: "layouts/main",
	})
	httptransport.RegisterMiddlewares(app, logger, observability.NewMetrics(), sessions, 5*time.Second)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:   handlers.NewHealthHandler("account-service", "test", &persistence.Postgres{}, &persistence.Redis{}),
		Pages:    handlers.NewPagesHandler(),
		Accounts: handlers.NewAccountsHandler(accountService),
		Admin:    handlers.NewAdminHandler(accountService),
		AdminKey: adminKey,
	})
	return app
}

// browser drives the app the way a cookie-holding client would.
type browser struct {
	t       *testing.T
	app     *fiber.App
	cookies map[string]string
}

func newBrowser(t *testing.T, app *fiber.App) *browser {
	return &browser{t: t, app: app, cookies: make(map[string]string)}
}

func (b *browser) get(path string) *http.Response {
	return b.do(fiber.MethodGet, path, nil)
}

func (b *browser) postForm(path string, form url.Values) *http.Response {
	return b.do(fiber.MethodPost, path, form)
}

func (b *browser) do(method, path string, form url.Values) *http.Response {
	b.t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for name, value := range b.cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}

	resp, err := b.app.Test(req, -1)
	require.NoError(b.t, err)

	for _, cookie := range resp.Cookies() {
		if cookie.MaxAge < 0 || cookie.Value == "" {
			delete(b.cookies, cookie.Name)
			continue
		}
		b.cookies[cookie.Name] = cookie.Value
	}
	return resp
}

func (b *browser) body(resp *http.Response) string {
	b.t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)
	return string(raw)
}

func location(resp *http.Response) string {
	return resp.Header.Get("Location")
}

func TestHomePageRenders(t *testing.T) {
	app := newTestApp(t, newFakeUserRepo(), "")
	b := newBrowser(t, app)

	resp := b.get("/")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, b.body(resp), "Welcome")
}

func TestDashboardWithoutSessionRedirectsToLogin(t *testing.T) {
	app := newTestApp(t, newFakeUserRepo(), "")
	b := newBrowser(t, app)

	resp := b.get("/dashboard")
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", location(resp))

	resp = b.get("/login")
	assert.Contains(t, b.body(resp), "Please login first")
}

func TestRegisterRejectsBlankFields(t *testing.T) {
	repo := newFakeUserRepo()
	app := newTestApp(t, repo, "")
	b := newBrowser(t, app)

	resp := b.postForm("/register", url.Values{"username": {"alice"}})
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/register", location(resp))

	resp = b.get("/register")
	assert.Contains(t, b.body(resp), "required")

	users, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestRegisterDuplicateEmailKeepsSingleRow(t *testing.T) {
	repo := newFakeUserRepo()
	app := newTestApp(t, repo, "")
	b := newBrowser(t, app)

	form := url.Values{"username": {"alice"}, "email": {"a@x.com"}, "password": {"pw1"}}
	resp := b.postForm("/register", form)
	assert.Equal(t, "/login", location(resp))

	resp = b.postForm("/register", form)
	assert.Equal(t, "/register", location(resp))

	resp = b.get("/register")
	assert.Contains(t, b.body(resp), "Email already registered")

	users, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestApproveUnknownUserFlashesNotFound(t *testing.T) {
	app := newTestApp(t, newFakeUserRepo(), "")
	b := newBrowser(t, app)

	resp := b.get("/admin/approve/999")
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/admin", location(resp))

	resp = b.get("/admin")
	assert.Contains(t, b.body(resp), "User not found")
}

func TestAdminKeyGateWhenConfigured(t *testing.T) {
	app := newTestApp(t, newFakeUserRepo(), "sekrit")
	b := newBrowser(t, app)

	resp := b.get("/admin")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = b.get("/admin?key=sekrit")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRegistrationApprovalLoginLifecycle(t *testing.T) {
	repo := newFakeUserRepo()
	app := newTestApp(t, repo, "")
	b := newBrowser(t, app)

	// register
	resp := b.postForm("/register", url.Values{
		"username": {"alice"},
		"email":    {"a@x.com"},
		"password": {"pw1"},
	})
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", location(resp))
	resp = b.get("/login")
	assert.Contains(t, b.body(resp), "Registration successful")

	// login before approval stays out
	creds := url.Values{"email": {"a@x.com"}, "password": {"pw1"}}
	resp = b.postForm("/login", creds)
	assert.Equal(t, "/login", location(resp))
	resp = b.get("/login")
	assert.Contains(t, b.body(resp), "pending approval")

	// admin sees the account and approves it
	resp = b.get("/admin")
	assert.Contains(t, b.body(resp), "a@x.com")

	users, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)

	resp = b.get("/admin/approve/1")
	assert.Equal(t, "/admin", location(resp))
	resp = b.get("/admin")
	assert.Contains(t, b.body(resp), "User alice has been approved")

	// wrong password still uses the uniform message
	resp = b.postForm("/login", url.Values{"email": {"a@x.com"}, "password": {"nope"}})
	assert.Equal(t, "/login", location(resp))
	resp = b.get("/login")
	assert.Contains(t, b.body(resp), "Invalid email or password")

	// approved login reaches the dashboard
	resp = b.postForm("/login", creds)
	assert.Equal(t, "/dashboard", location(resp))
	resp = b.get("/dashboard")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, b.body(resp), "alice")

	// logout clears the session
	resp = b.get("/logout")
	assert.Equal(t, "/", location(resp))
	resp = b.get("/")
	assert.Contains(t, b.body(resp), "You have been logged out")

	resp = b.get("/dashboard")
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", location(resp))
}
