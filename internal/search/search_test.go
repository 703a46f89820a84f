package search

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/meat_shop/internal/db/dbtest"
	"github.com/Skotchmaster/meat_shop/internal/models"
	"github.com/Skotchmaster/meat_shop/internal/repo"
)

func TestDBSearcher(t *testing.T) {
	r := repo.New(dbtest.Open(t))
	ctx := context.Background()

	c := &models.Category{Label: "Boiler Chicken", Value: "boiler_chicken", Unit: models.UnitKg}
	require.NoError(t, r.CreateCategory(ctx, c))
	for _, label := range []string{"Chicken breast", "Chicken wings", "Mutton"} {
		_, err := r.CreateProduct(ctx, &models.Product{
			Label: label, Name: label, PricePerUnit: decimal.NewFromInt(100),
			Unit: models.UnitKg, CategoryID: c.ID, IsActive: true,
		})
		require.NoError(t, err)
	}

	s := &DBSearcher{Repo: r}

	total, items, err := s.Search(ctx, "  chicken ", -5, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, items, 2)

	total, items, err = s.Search(ctx, "   ", 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, items)
}

func TestQueryBody(t *testing.T) {
	body := queryBody("curry", 20, 10)
	assert.Equal(t, 20, body["from"])
	assert.Equal(t, 10, body["size"])
}

func TestDecodeHits(t *testing.T) {
	raw := `{"hits":{"total":{"value":3},"hits":[
		{"_source":{"id":4,"label":"Curry cut","pricePerUnit":"240","unit":"kg","categoryId":1,"isActive":true}}
	]}}`
	total, items, err := decodeHits(strings.NewReader(raw))
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, items, 1)
	assert.EqualValues(t, 4, items[0].ID)
	assert.True(t, items[0].PricePerUnit.Equal(decimal.NewFromInt(240)))
}

func TestElastic_IndexAndSearch(t *testing.T) {
	url := os.Getenv("TEST_ES_URL")
	if url == "" {
		t.Skip("TEST_ES_URL not set")
	}
	client, err := NewClient(url, os.Getenv("TEST_ES_USER"), os.Getenv("TEST_ES_PASSWORD"))
	require.NoError(t, err)

	e := &Elastic{ES: client, Index: "meat_shop_test"}
	ctx := context.Background()
	p := models.Product{ID: 991, Label: "Country chicken", PricePerUnit: decimal.NewFromInt(450), Unit: models.UnitKg, IsActive: true}
	require.NoError(t, e.IndexProduct(ctx, p))
	defer func() { _ = e.RemoveProduct(ctx, p.ID) }()

	require.Eventually(t, func() bool {
		total, _, err := e.Search(ctx, "country", 0, 10)
		return err == nil && total > 0
	}, 10*time.Second, 500*time.Millisecond)
}
