package apiclient_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/meat_shop/internal/cache"
	"github.com/Skotchmaster/meat_shop/internal/config"
	"github.com/Skotchmaster/meat_shop/internal/db/dbtest"
	"github.com/Skotchmaster/meat_shop/internal/httpserver"
	authmw "github.com/Skotchmaster/meat_shop/internal/middleware/auth"
	"github.com/Skotchmaster/meat_shop/internal/middleware/metrics"
	"github.com/Skotchmaster/meat_shop/internal/repo"
	"github.com/Skotchmaster/meat_shop/internal/search"
	"github.com/Skotchmaster/meat_shop/internal/service"
	"github.com/Skotchmaster/meat_shop/internal/transport"
	"github.com/Skotchmaster/meat_shop/pkg/apiclient"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	db := dbtest.Open(t)
	r := repo.New(db)
	access, refresh := []byte("a"), []byte("r")

	authSvc := service.NewAuthService(r, access, refresh)
	seedSvc := &service.SeedService{Repo: r, Admins: []config.AdminSeed{{Username: "admin", Password: "Admin@123"}}}
	_, err := seedSvc.Run(context.Background())
	require.NoError(t, err)

	e := httpserver.New(slog.New(slog.NewJSONHandler(io.Discard, nil)), &httpserver.Deps{
		DB: db,
		Products: &httpserver.ProductHTTP{
			Svc:      service.NewCatalogService(r, cache.NewMemory(time.Minute), nil, nil),
			Searcher: &search.DBSearcher{Repo: r},
		},
		Categories: &httpserver.CategoryHTTP{Svc: service.NewCategoryService(r, nil)},
		Auth:       &httpserver.AuthHTTP{Svc: authSvc},
		Seed:       &httpserver.SeedHTTP{Svc: seedSvc, Secret: "s33d"},
		AuthMW:     authmw.NewAutoRefreshMiddleware(access, authSvc, false),
		Metrics:    metrics.New("apiclient_test"),
	})
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv
}

func newClient(t *testing.T, url string) *apiclient.Client {
	t.Helper()
	c, err := apiclient.NewClient(url, 2*time.Second)
	require.NoError(t, err)
	return c
}

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestNewClient_RejectsRelativeURL(t *testing.T) {
	_, err := apiclient.NewClient("localhost", time.Second)
	assert.Error(t, err)
}

func TestClient_AdminFlow(t *testing.T) {
	srv := newServer(t)
	c := newClient(t, srv.URL)
	ctx := context.Background()

	_, err := c.CreateProduct(ctx, transport.ProductRequest{Label: "X", PricePerUnit: price("1"), CategoryID: 1})
	assert.Equal(t, http.StatusUnauthorized, apiclient.Status(err))

	role, err := c.Login(ctx, "admin", "Admin@123")
	require.NoError(t, err)
	assert.Equal(t, "admin", role)

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "admin", me.Username)

	cats, err := c.ListCategories(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, cats)

	p, err := c.CreateProduct(ctx, transport.ProductRequest{
		Label: "Boiler Chicken", PricePerUnit: price("220.5"), CategoryID: cats[0].ID,
	})
	require.NoError(t, err)
	assert.Equal(t, cats[0].Unit, p.Unit)

	p, err = c.UpdateProduct(ctx, p.ID, transport.ProductRequest{
		Label: "Boiler Chicken", PricePerUnit: price("210"), CategoryID: cats[0].ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "210.00", p.PricePerUnit.StringFixed(2))

	list, err := c.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	res, err := c.Search(ctx, "boiler", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Meta.Total)

	err = c.DeleteCategory(ctx, cats[0].ID)
	var apiErr *apiclient.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Category is used by 1 product(s)", apiErr.Message)

	require.NoError(t, c.DeleteProduct(ctx, p.ID))
	_, err = c.GetProduct(ctx, p.ID)
	assert.Equal(t, http.StatusNotFound, apiclient.Status(err))

	require.NoError(t, c.Logout(ctx))
	_, err = c.Me(ctx)
	assert.Equal(t, http.StatusUnauthorized, apiclient.Status(err))
}

func TestClient_RegisterAndSeed(t *testing.T) {
	srv := newServer(t)
	c := newClient(t, srv.URL)
	ctx := context.Background()

	role, err := c.Register(ctx, "asha", "secret-pw")
	require.NoError(t, err)
	assert.Equal(t, "user", role)

	_, err = c.Register(ctx, "asha", "secret-pw")
	assert.Equal(t, http.StatusConflict, apiclient.Status(err))

	_, err = c.Seed(ctx, "wrong")
	assert.Equal(t, http.StatusForbidden, apiclient.Status(err))

	res, err := c.Seed(ctx, "s33d")
	require.NoError(t, err)
	assert.Contains(t, res.Existing, "admin")
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := newClient(t, url)
	_, err := c.ListProducts(context.Background())
	assert.ErrorIs(t, err, apiclient.ErrTransport)
	assert.Zero(t, apiclient.Status(err))
}

func TestClient_ErrorWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	c := newClient(t, srv.URL)
	_, err := c.ListCategories(context.Background())
	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Empty(t, apiErr.Message)
}
