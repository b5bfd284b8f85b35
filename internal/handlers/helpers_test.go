package handlers_test

import (
	"context"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pustakahub/pustaka-backend/internal/config"
	"github.com/pustakahub/pustaka-backend/internal/handlers"
	"github.com/pustakahub/pustaka-backend/internal/models"
	"github.com/pustakahub/pustaka-backend/internal/repository"
	"github.com/pustakahub/pustaka-backend/internal/routes"
	"github.com/pustakahub/pustaka-backend/internal/services"
	"github.com/pustakahub/pustaka-backend/internal/storage"
)

type memDirectory struct {
	users map[string]*models.User
}

func (d *memDirectory) FindByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := d.users[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return user, nil
}

func (d *memDirectory) Create(_ context.Context, user *models.User) error {
	user.ID = uuid.New()
	d.users[user.Email] = user
	return nil
}

func (d *memDirectory) Update(_ context.Context, user *models.User) error {
	d.users[user.Email] = user
	return nil
}

type memCatalog struct {
	books map[uuid.UUID]*models.Book
}

func (c *memCatalog) List(_ context.Context) ([]models.Book, error) {
	out := make([]models.Book, 0, len(c.books))
	for _, b := range c.books {
		out = append(out, *b)
	}
	return out, nil
}

func (c *memCatalog) FindByID(_ context.Context, id uuid.UUID) (*models.Book, error) {
	book, ok := c.books[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *book
	return &clone, nil
}

func (c *memCatalog) Create(_ context.Context, book *models.Book) error {
	book.ID = uuid.New()
	c.books[book.ID] = book
	return nil
}

func (c *memCatalog) Save(_ context.Context, book *models.Book) error {
	c.books[book.ID] = book
	return nil
}

func (c *memCatalog) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := c.books[id]; !ok {
		return repository.ErrNotFound
	}
	delete(c.books, id)
	return nil
}

type testEnv struct {
	app    *fiber.App
	issuer *services.TokenIssuer
	auth   *services.AuthService
	dir    *memDirectory
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{
		JWTSecret:          "test-secret",
		JWTExpiry:          time.Hour,
		GoogleClientID:     "test-client",
		GoogleClientSecret: "test-client-secret",
		GoogleRedirectURL:  "http://localhost/api/auth/google/redirect",
	}

	dir := &memDirectory{users: make(map[string]*models.User)}
	cat := &memCatalog{books: make(map[uuid.UUID]*models.Book)}
	issuer := services.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiry)
	authService := services.NewAuthService(dir, issuer)
	bookService := services.NewBookService(cat)

	uploads, err := storage.NewStore(t.TempDir())
	require.NoError(t, err)

	app := fiber.New()
	routes.Setup(app,
		issuer.Secret(),
		handlers.NewAuthHandler(authService, services.NewGoogleJWKSClient(), cfg),
		handlers.NewBookHandler(bookService, uploads),
		handlers.NewHealthHandler(),
	)

	return &testEnv{app: app, issuer: issuer, auth: authService, dir: dir}
}

// bearer registers a user with the given role and returns a valid
// Authorization header value for them.
func (e *testEnv) bearer(t *testing.T, email, role string) string {
	t.Helper()
	user, err := e.auth.Register(context.Background(), email, "pw12345678", "Test User", role)
	require.NoError(t, err)
	token, err := e.issuer.Issue(user)
	require.NoError(t, err)
	return "Bearer " + token
}
