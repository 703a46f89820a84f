package admin

import (
	"context"

	"github.com/Skotchmaster/meat_shop/internal/models"
	"github.com/Skotchmaster/meat_shop/internal/transport"
)

// CreateProduct shows the product at once under a temporary id. The id is
// replaced by the server's once the POST succeeds.
func (c *Controller) CreateProduct(in ProductInput) (models.Product, error) {
	req, err := validateProduct(in)
	if err != nil {
		return models.Product{}, err
	}

	c.mu.Lock()
	p := c.applyProduct(models.Product{ID: c.tempID(), IsActive: true}, req)
	e := &productEntry{cur: p, inflight: 1, status: PendingWrite}
	c.products = append(c.products, e)
	c.mu.Unlock()

	c.notify.Notify(Info, "Product added")
	c.background(func(ctx context.Context) {
		got, err := c.api.CreateProduct(ctx, req)
		c.settleProduct(e, got, err)
		c.afterWrite("product_create", err)
	})
	return p, nil
}

func (c *Controller) UpdateProduct(id uint, in ProductInput) (models.Product, error) {
	req, err := validateProduct(in)
	if err != nil {
		return models.Product{}, err
	}

	c.mu.Lock()
	e, err := c.editableProduct(id)
	if err != nil {
		c.mu.Unlock()
		return models.Product{}, err
	}
	e.cur = c.applyProduct(e.cur, req)
	e.inflight++
	e.status = PendingWrite
	p := e.cur
	c.mu.Unlock()

	c.notify.Notify(Info, "Product updated")
	c.background(func(ctx context.Context) {
		got, err := c.api.UpdateProduct(ctx, id, req)
		c.settleProduct(e, got, err)
		c.afterWrite("product_update", err)
	})
	return p, nil
}

// DeleteProduct hides the product until the DELETE settles.
func (c *Controller) DeleteProduct(id uint) error {
	c.mu.Lock()
	e, err := c.editableProduct(id)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	e.deleted = true
	e.inflight++
	e.status = PendingWrite
	c.mu.Unlock()

	c.notify.Notify(Info, "Product deleted")
	c.background(func(ctx context.Context) {
		err := c.api.DeleteProduct(ctx, id)
		c.mu.Lock()
		e.inflight--
		if err != nil {
			c.rollbackProduct(e)
		} else {
			c.dropProduct(e)
		}
		c.mu.Unlock()
		c.afterWrite("product_delete", err)
	})
	return nil
}

func (c *Controller) settleProduct(e *productEntry, got *models.Product, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e.inflight--
	if err != nil {
		c.rollbackProduct(e)
		return
	}
	synced := *got
	e.synced = &synced
	if e.inflight == 0 {
		e.cur = synced
		e.status = Synced
	}
	// A refetch that ran while the POST was in flight may already list it.
	for _, other := range c.products {
		if other != e && other.cur.ID == synced.ID && other.inflight == 0 {
			c.dropProduct(other)
			break
		}
	}
}

// rollbackProduct restores the last synced state. A product the server never
// confirmed disappears.
func (c *Controller) rollbackProduct(e *productEntry) {
	if e.synced == nil {
		c.dropProduct(e)
		return
	}
	e.cur = *e.synced
	e.deleted = false
	e.status = Reconciling
}

func (c *Controller) applyProduct(p models.Product, req transport.ProductRequest) models.Product {
	p.Label = req.Label
	p.Name = req.Label
	p.PricePerUnit = *req.PricePerUnit
	p.CategoryID = req.CategoryID
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if cat := c.findCategory(req.CategoryID); cat != nil {
		p.Unit = cat.cur.Unit
		p.Category = cat.cur
	}
	return p
}

func (c *Controller) editableProduct(id uint) (*productEntry, error) {
	e := c.findProduct(id)
	if e == nil || e.deleted {
		return nil, ErrNotFound
	}
	if e.synced == nil {
		return nil, ErrNotSynced
	}
	return e, nil
}

func (c *Controller) findProduct(id uint) *productEntry {
	for _, e := range c.products {
		if e.cur.ID == id {
			return e
		}
	}
	return nil
}

func (c *Controller) dropProduct(target *productEntry) {
	for i, e := range c.products {
		if e == target {
			c.products = append(c.products[:i], c.products[i+1:]...)
			return
		}
	}
}

// mergeProducts takes the server list as the new state, except for entries
// with a write in flight, which keep their local state.
func (c *Controller) mergeProducts(list []models.Product) {
	pending := map[uint]*productEntry{}
	for _, e := range c.products {
		if e.inflight > 0 {
			pending[e.cur.ID] = e
		}
	}

	next := make([]*productEntry, 0, len(list)+len(pending))
	for _, p := range list {
		synced := p
		if e, ok := pending[p.ID]; ok {
			e.synced = &synced
			next = append(next, e)
			delete(pending, p.ID)
			continue
		}
		next = append(next, &productEntry{cur: p, synced: &synced, status: Synced})
	}
	for _, e := range c.products {
		if _, ok := pending[e.cur.ID]; ok {
			next = append(next, e)
		}
	}
	c.products = next
}
