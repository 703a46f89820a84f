// Package admin keeps the dashboard's local copy of the catalog and applies
// edits optimistically: the change shows up at once, the request runs in the
// background, and a failed request rolls the record back to its last synced
// state before refetching.
package admin

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/meat_shop/internal/models"
	"github.com/Skotchmaster/meat_shop/internal/transport"
)

type Status int

const (
	Synced Status = iota
	PendingWrite
	Reconciling
)

func (s Status) String() string {
	switch s {
	case Synced:
		return "synced"
	case PendingWrite:
		return "pending"
	case Reconciling:
		return "reconciling"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// API is the subset of the shop client the dashboard needs.
type API interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateProduct(ctx context.Context, req transport.ProductRequest) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uint, req transport.ProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uint) error
	CreateCategory(ctx context.Context, req transport.CategoryRequest) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uint) error
}

type Level int

const (
	Info Level = iota
	Error
)

type Notifier interface {
	Notify(level Level, msg string)
}

type NotifierFunc func(level Level, msg string)

func (f NotifierFunc) Notify(level Level, msg string) { f(level, msg) }

type nopNotifier struct{}

func (nopNotifier) Notify(Level, string) {}

// DefaultTimeout stays well above the server's worst case for one write,
// which includes an inline event publish.
const DefaultTimeout = 10 * time.Second

type Options struct {
	// Timeout bounds every background request. Zero means DefaultTimeout.
	Timeout time.Duration
	// ResyncOnSuccess refetches everything after each confirmed write.
	ResyncOnSuccess bool
	Notifier        Notifier
	Logger          *slog.Logger
}

type ProductInput struct {
	Label      string
	Price      string
	CategoryID uint
	IsActive   *bool
}

type CategoryInput struct {
	Label string
	Unit  string
}

type productEntry struct {
	cur      models.Product
	synced   *models.Product // nil until the server confirms a create
	inflight int
	deleted  bool
	status   Status
}

type categoryEntry struct {
	cur      models.Category
	synced   *models.Category
	inflight int
	deleted  bool
	status   Status
}

type Controller struct {
	api     API
	notify  Notifier
	log     *slog.Logger
	timeout time.Duration
	resync  bool

	mu         sync.Mutex
	products   []*productEntry
	categories []*categoryEntry
	nextTemp   uint

	wg sync.WaitGroup
}

func New(api API, opts Options) *Controller {
	c := &Controller{
		api:      api,
		notify:   opts.Notifier,
		log:      opts.Logger,
		timeout:  opts.Timeout,
		resync:   opts.ResyncOnSuccess,
		nextTemp: math.MaxUint32,
	}
	if c.notify == nil {
		c.notify = nopNotifier{}
	}
	if c.log == nil {
		c.log = slog.Default()
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	return c
}

// Wait blocks until every background write and its follow-up refetch is done.
func (c *Controller) Wait() { c.wg.Wait() }

// Load fetches both collections and replaces every entity without a write
// in flight.
func (c *Controller) Load(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cats, err := c.api.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}
	prods, err := c.api.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("list products: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.mergeCategories(cats)
	c.mergeProducts(prods)
	return nil
}

func (c *Controller) Resync(ctx context.Context) error {
	return c.Load(ctx)
}

func (c *Controller) Products() []models.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Product, 0, len(c.products))
	for _, e := range c.products {
		if !e.deleted {
			out = append(out, e.cur)
		}
	}
	return out
}

func (c *Controller) Categories() []models.Category {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Category, 0, len(c.categories))
	for _, e := range c.categories {
		if !e.deleted {
			out = append(out, e.cur)
		}
	}
	return out
}

func (c *Controller) ProductStatus(id uint) (Status, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e := c.findProduct(id); e != nil {
		return e.status, true
	}
	return 0, false
}

func (c *Controller) CategoryStatus(id uint) (Status, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e := c.findCategory(id); e != nil {
		return e.status, true
	}
	return 0, false
}

func validateProduct(in ProductInput) (transport.ProductRequest, error) {
	label := strings.TrimSpace(in.Label)
	if label == "" {
		return transport.ProductRequest{}, invalid("Product name required")
	}
	price, err := decimal.NewFromString(strings.TrimSpace(in.Price))
	if err != nil || !models.ValidPrice(price) {
		return transport.ProductRequest{}, invalid("Valid price required")
	}
	if in.CategoryID == 0 {
		return transport.ProductRequest{}, invalid("Category required")
	}
	price = price.Round(2)
	return transport.ProductRequest{
		Label:        label,
		PricePerUnit: &price,
		CategoryID:   in.CategoryID,
		IsActive:     in.IsActive,
	}, nil
}

func validateCategory(in CategoryInput) (transport.CategoryRequest, error) {
	label := strings.TrimSpace(in.Label)
	if label == "" {
		return transport.CategoryRequest{}, invalid("Category name required")
	}
	u, ok := models.ParseUnit(in.Unit)
	if !ok {
		return transport.CategoryRequest{}, invalid("Invalid unit")
	}
	return transport.CategoryRequest{Label: label, Unit: string(u)}, nil
}

func (c *Controller) tempID() uint {
	id := c.nextTemp
	c.nextTemp--
	return id
}

// background runs fn with the write timeout and keeps Wait honest.
func (c *Controller) background(fn func(ctx context.Context)) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()
		fn(ctx)
	}()
}

// afterWrite runs the follow-up of a finished write outside the lock.
func (c *Controller) afterWrite(op string, err error) {
	if err == nil {
		if c.resync {
			if rErr := c.Load(context.Background()); rErr != nil {
				c.log.Warn("admin_resync_error", "op", op, "error", rErr)
			}
		}
		return
	}

	msg := failureMessage(err)
	c.log.Warn("admin_write_error", "op", op, "reason", msg, "error", err)
	c.notify.Notify(Error, msg)
	if rErr := c.Load(context.Background()); rErr != nil {
		c.log.Warn("admin_refetch_error", "op", op, "error", rErr)
	}
}
