package cart

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/meat_shop/internal/models"
)

type flakyStorage struct {
	*MemoryStorage
	fail bool
}

func (f *flakyStorage) Save(key string, data []byte) error {
	if f.fail {
		return errors.New("disk full")
	}
	return f.MemoryStorage.Save(key, data)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func chicken(q string) Item {
	return Item{ID: 1, Label: "Chicken", Price: dec("200"), Quantity: dec(q), Unit: models.UnitKg}
}

func eggs(q string) Item {
	return Item{ID: 2, Label: "Eggs", Price: dec("6"), Quantity: dec(q), Unit: models.UnitPiece}
}

func assertSameItems(t *testing.T, want, got []Item) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.Equal(t, want[i].Unit, got[i].Unit)
		assert.True(t, want[i].Quantity.Equal(got[i].Quantity), "quantity of %d", want[i].ID)
		assert.True(t, want[i].Total.Equal(got[i].Total), "total of %d", want[i].ID)
	}
}

func openEmpty(t *testing.T) (*Cart, *MemoryStorage) {
	t.Helper()
	store := NewMemoryStorage()
	c, err := Open(store)
	require.NoError(t, err)
	return c, store
}

func TestIncrement_KgStepRecomputesTotal(t *testing.T) {
	c, _ := openEmpty(t)
	require.NoError(t, c.AddOrUpdate(chicken("0.5")))

	require.NoError(t, c.Increment(1))

	it, ok := c.Get(1)
	require.True(t, ok)
	assert.Equal(t, "0.75", it.Quantity.String())
	assert.Equal(t, "150.00", it.Total.StringFixed(2))
}

func TestDecrement_ToZeroRemoves(t *testing.T) {
	c, _ := openEmpty(t)
	require.NoError(t, c.AddOrUpdate(chicken("0.25")))
	require.NoError(t, c.AddOrUpdate(eggs("3")))

	require.NoError(t, c.Decrement(1))

	assert.Equal(t, 1, c.Len())
	_, ok := c.Get(1)
	assert.False(t, ok)
}

func TestTotalInvariantAfterEveryMutation(t *testing.T) {
	c, _ := openEmpty(t)
	check := func() {
		t.Helper()
		for _, it := range c.Items() {
			assert.True(t, it.Total.Equal(it.Quantity.Mul(it.Price).Round(2)), "item %d", it.ID)
			assert.True(t, it.Quantity.IsPositive())
		}
	}

	require.NoError(t, c.AddOrUpdate(chicken("1.333")))
	check()
	require.NoError(t, c.Increment(1))
	check()
	require.NoError(t, c.AddOrUpdate(eggs("12")))
	check()
	require.NoError(t, c.SetQuantity(2, "7"))
	check()
	require.NoError(t, c.Decrement(2))
	check()
}

func TestAddOrUpdate_OverwritesExisting(t *testing.T) {
	c, _ := openEmpty(t)
	require.NoError(t, c.AddOrUpdate(chicken("0.5")))
	require.NoError(t, c.AddOrUpdate(chicken("2")))

	assert.Equal(t, 1, c.Len())
	it, _ := c.Get(1)
	assert.Equal(t, "2", it.Quantity.String())
	assert.Equal(t, "400.00", it.Total.StringFixed(2))
}

func TestAddOrUpdate_RejectsNonPositive(t *testing.T) {
	c, _ := openEmpty(t)
	assert.ErrorIs(t, c.AddOrUpdate(chicken("0")), ErrNonPositiveQuantity)
	assert.ErrorIs(t, c.AddOrUpdate(chicken("-1")), ErrNonPositiveQuantity)
	assert.ErrorIs(t, c.AddOrUpdate(chicken("0.0001")), ErrNonPositiveQuantity)
	assert.Zero(t, c.Len())
}

func TestGrandTotal(t *testing.T) {
	c, _ := openEmpty(t)
	assert.True(t, c.GrandTotal().IsZero())

	require.NoError(t, c.AddOrUpdate(chicken("0.75")))
	require.NoError(t, c.AddOrUpdate(eggs("10")))

	assert.Equal(t, "210.00", c.GrandTotal().StringFixed(2))
}

func TestSetQuantity(t *testing.T) {
	c, _ := openEmpty(t)
	require.NoError(t, c.AddOrUpdate(chicken("1")))
	require.NoError(t, c.AddOrUpdate(eggs("2")))

	require.NoError(t, c.SetQuantity(1, "1.23456"))
	it, _ := c.Get(1)
	assert.Equal(t, "1.235", it.Quantity.String())
	assert.Equal(t, "247.00", it.Total.StringFixed(2))

	require.NoError(t, c.SetQuantity(2, "2.4"))
	it, _ = c.Get(2)
	assert.Equal(t, "2", it.Quantity.String())

	require.NoError(t, c.SetQuantity(2, "abc"))
	_, ok := c.Get(2)
	assert.False(t, ok)

	require.NoError(t, c.SetQuantity(1, "0"))
	assert.Zero(t, c.Len())

	assert.ErrorIs(t, c.SetQuantity(9, "1"), ErrNotInCart)
}

func TestRemoveAndClearAll(t *testing.T) {
	c, store := openEmpty(t)
	require.NoError(t, c.AddOrUpdate(chicken("1")))
	require.NoError(t, c.AddOrUpdate(eggs("2")))

	require.NoError(t, c.Remove(1))
	require.NoError(t, c.Remove(1))
	assert.Equal(t, 1, c.Len())

	require.NoError(t, c.ClearAll())
	assert.Zero(t, c.Len())

	raw, found, err := store.Load(Key)
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `{"version":1,"items":[]}`, string(raw))
}

func TestWriteThrough_Reopen(t *testing.T) {
	c, store := openEmpty(t)
	require.NoError(t, c.AddOrUpdate(chicken("0.5")))
	require.NoError(t, c.AddOrUpdate(eggs("6")))

	again, err := Open(store)
	require.NoError(t, err)
	assertSameItems(t, c.Items(), again.Items())
}

func TestFailedSave_KeepsPreviousState(t *testing.T) {
	store := &flakyStorage{MemoryStorage: NewMemoryStorage()}
	c, err := Open(store)
	require.NoError(t, err)
	require.NoError(t, c.AddOrUpdate(chicken("1")))

	store.fail = true
	assert.Error(t, c.AddOrUpdate(eggs("1")))
	assert.Error(t, c.Increment(1))
	assert.Error(t, c.ClearAll())

	assert.Equal(t, 1, c.Len())
	it, _ := c.Get(1)
	assert.Equal(t, "1", it.Quantity.String())

	store.fail = false
	again, err := Open(store)
	require.NoError(t, err)
	assertSameItems(t, c.Items(), again.Items())
}

func TestOpen_MigratesLegacyArray(t *testing.T) {
	store := NewMemoryStorage()
	legacy := `[
		{"id":1,"label":"Chicken","price":200,"quantity":0.5,"total":1},
		{"id":2,"label":"Eggs","price":6,"quantity":0,"unit":"piece"},
		{"id":3,"label":"Mutton","price":"650.5","quantity":1.23456}
	]`
	require.NoError(t, store.Save(Key, []byte(legacy)))

	c, err := Open(store)
	require.NoError(t, err)

	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, models.UnitKg, items[0].Unit)
	assert.Equal(t, "100.00", items[0].Total.StringFixed(2))
	assert.Equal(t, "1.235", items[1].Quantity.String())
	assert.Equal(t, "803.37", items[1].Total.StringFixed(2))

	raw, _, err := store.Load(Key)
	require.NoError(t, err)
	var env struct {
		Version int               `json:"version"`
		Items   []json.RawMessage `json:"items"`
	}
	require.NoError(t, json.Unmarshal(raw, &env))
	assert.Equal(t, Version, env.Version)
	assert.Len(t, env.Items, 2)
}

func TestOpen_ResetsUnreadableCart(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want error
	}{
		{"future version", `{"version":2,"items":[]}`, ErrUnsupportedVersion},
		{"missing version", `{"items":[]}`, ErrCorruptCart},
		{"garbage", `not json`, ErrCorruptCart},
		{"broken object", `{not json`, ErrCorruptCart},
		{"broken array", `[{"id":`, ErrCorruptCart},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMemoryStorage()
			require.NoError(t, store.Save(Key, []byte(tt.raw)))

			c, err := Open(store)
			require.NoError(t, err)
			assert.Zero(t, c.Len())
			assert.ErrorIs(t, c.Recovered(), tt.want)

			bad, found, err := store.Load(BadKey)
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, tt.raw, string(bad))

			raw, _, err := store.Load(Key)
			require.NoError(t, err)
			assert.JSONEq(t, `{"version":1,"items":[]}`, string(raw))

			require.NoError(t, c.AddOrUpdate(chicken("1")))
			assert.Equal(t, 1, c.Len())
		})
	}
}

func TestOpen_UnreadableCartAndFailingStorage(t *testing.T) {
	store := &flakyStorage{MemoryStorage: NewMemoryStorage()}
	require.NoError(t, store.MemoryStorage.Save(Key, []byte(`{not json`)))
	store.fail = true

	_, err := Open(store)
	assert.Error(t, err)
}

func TestOpen_ReadableCartHasNoRecoveredError(t *testing.T) {
	c, store := openEmpty(t)
	require.NoError(t, c.AddOrUpdate(chicken("1")))

	again, err := Open(store)
	require.NoError(t, err)
	assert.NoError(t, again.Recovered())
	_, found, err := store.Load(BadKey)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestOpen_RewritesRenormalizedEnvelope(t *testing.T) {
	store := NewMemoryStorage()
	stale := `{"version":1,"items":[{"id":1,"label":"Chicken","price":"200","quantity":"0.5","total":"1","unit":"kg"}]}`
	require.NoError(t, store.Save(Key, []byte(stale)))

	_, err := Open(store)
	require.NoError(t, err)

	raw, _, err := store.Load(Key)
	require.NoError(t, err)
	var env struct {
		Items []Item `json:"items"`
	}
	require.NoError(t, json.Unmarshal(raw, &env))
	require.Len(t, env.Items, 1)
	assert.Equal(t, "100.00", env.Items[0].Total.StringFixed(2))
}

func TestOpen_LeavesCanonicalEnvelopeAlone(t *testing.T) {
	store := NewMemoryStorage()
	canonical := `{"version":1, "items":[{"id":1,"label":"Chicken","price":"200","quantity":"0.5","total":"100","unit":"kg"}]}`
	require.NoError(t, store.Save(Key, []byte(canonical)))

	c, err := Open(store)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())

	raw, _, err := store.Load(Key)
	require.NoError(t, err)
	assert.Equal(t, canonical, string(raw))
}

func TestOutOfRangeValues(t *testing.T) {
	c, _ := openEmpty(t)

	huge := chicken("1")
	huge.Quantity = dec("1e2000000000")
	assert.ErrorIs(t, c.AddOrUpdate(huge), ErrOutOfRange)

	pricey := chicken("1")
	pricey.Price = dec("123456789")
	assert.ErrorIs(t, c.AddOrUpdate(pricey), ErrOutOfRange)

	assert.ErrorIs(t, c.AddOrUpdate(chicken("10000.5")), ErrOutOfRange)

	require.NoError(t, c.AddOrUpdate(eggs("10000")))
	assert.ErrorIs(t, c.Increment(2), ErrOutOfRange)
	it, _ := c.Get(2)
	assert.Equal(t, "10000", it.Quantity.String())

	require.NoError(t, c.SetQuantity(2, "1e2000000000"))
	assert.Zero(t, c.Len())
}

func TestOpen_DropsOutOfRangeRows(t *testing.T) {
	store := NewMemoryStorage()
	blob := `{"version":1,"items":[
		{"id":1,"label":"Chicken","price":"200","quantity":"1e2000000000","unit":"kg"},
		{"id":2,"label":"Eggs","price":"1e2000000000","quantity":"1","unit":"piece"},
		{"id":3,"label":"Mutton","price":"650","quantity":"1","unit":"kg"}
	]}`
	require.NoError(t, store.Save(Key, []byte(blob)))

	c, err := Open(store)
	require.NoError(t, err)
	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, uint(3), items[0].ID)
}

func TestFromProduct(t *testing.T) {
	p := models.Product{
		ID: 4, Label: "Eggs", PricePerUnit: dec("7.5"), Unit: models.UnitDozen,
		Category: models.Category{ID: 3, Label: "Eggs", Value: "eggs", Unit: models.UnitDozen},
	}
	it := FromProduct(p, dec("2"))
	assert.Equal(t, uint(4), it.ID)
	assert.Equal(t, "15.00", it.Total.StringFixed(2))
	require.NotNil(t, it.Category)
	assert.Equal(t, "eggs", it.Category.Value)
}

func TestFileStorage(t *testing.T) {
	fs := &FileStorage{Dir: t.TempDir()}

	_, found, err := fs.Load(Key)
	require.NoError(t, err)
	assert.False(t, found)

	c, err := Open(fs)
	require.NoError(t, err)
	require.NoError(t, c.AddOrUpdate(chicken("0.5")))

	again, err := Open(fs)
	require.NoError(t, err)
	assertSameItems(t, c.Items(), again.Items())
}
