package admin

import (
	"context"

	"github.com/Skotchmaster/meat_shop/internal/models"
)

func (c *Controller) CreateCategory(in CategoryInput) (models.Category, error) {
	req, err := validateCategory(in)
	if err != nil {
		return models.Category{}, err
	}

	c.mu.Lock()
	cat := models.Category{ID: c.tempID(), Label: req.Label, Value: models.Slug(req.Label), Unit: models.Unit(req.Unit)}
	e := &categoryEntry{cur: cat, inflight: 1, status: PendingWrite}
	c.categories = append(c.categories, e)
	c.mu.Unlock()

	c.notify.Notify(Info, "Category added")
	c.background(func(ctx context.Context) {
		got, err := c.api.CreateCategory(ctx, req)
		c.mu.Lock()
		e.inflight--
		if err != nil {
			c.rollbackCategory(e)
		} else {
			synced := *got
			e.synced = &synced
			if e.inflight == 0 {
				e.cur = synced
				e.status = Synced
			}
			for _, other := range c.categories {
				if other != e && other.cur.ID == synced.ID && other.inflight == 0 {
					c.dropCategory(other)
					break
				}
			}
		}
		c.mu.Unlock()
		c.afterWrite("category_create", err)
	})
	return cat, nil
}

// DeleteCategory refuses, without a request, to delete a category that a
// product on screen still uses.
func (c *Controller) DeleteCategory(id uint) error {
	c.mu.Lock()
	e := c.findCategory(id)
	if e == nil || e.deleted {
		c.mu.Unlock()
		return ErrNotFound
	}
	if e.synced == nil {
		c.mu.Unlock()
		return ErrNotSynced
	}
	for _, p := range c.products {
		if !p.deleted && p.cur.CategoryID == id {
			c.mu.Unlock()
			return ErrCategoryInUse
		}
	}
	e.deleted = true
	e.inflight++
	e.status = PendingWrite
	c.mu.Unlock()

	c.notify.Notify(Info, "Category deleted")
	c.background(func(ctx context.Context) {
		err := c.api.DeleteCategory(ctx, id)
		c.mu.Lock()
		e.inflight--
		if err != nil {
			c.rollbackCategory(e)
		} else {
			c.dropCategory(e)
		}
		c.mu.Unlock()
		c.afterWrite("category_delete", err)
	})
	return nil
}

func (c *Controller) rollbackCategory(e *categoryEntry) {
	if e.synced == nil {
		c.dropCategory(e)
		return
	}
	e.cur = *e.synced
	e.deleted = false
	e.status = Reconciling
}

func (c *Controller) findCategory(id uint) *categoryEntry {
	for _, e := range c.categories {
		if e.cur.ID == id {
			return e
		}
	}
	return nil
}

func (c *Controller) dropCategory(target *categoryEntry) {
	for i, e := range c.categories {
		if e == target {
			c.categories = append(c.categories[:i], c.categories[i+1:]...)
			return
		}
	}
}

func (c *Controller) mergeCategories(list []models.Category) {
	pending := map[uint]*categoryEntry{}
	for _, e := range c.categories {
		if e.inflight > 0 {
			pending[e.cur.ID] = e
		}
	}

	next := make([]*categoryEntry, 0, len(list)+len(pending))
	for _, cat := range list {
		synced := cat
		if e, ok := pending[cat.ID]; ok {
			e.synced = &synced
			next = append(next, e)
			delete(pending, cat.ID)
			continue
		}
		next = append(next, &categoryEntry{cur: cat, synced: &synced, status: Synced})
	}
	for _, e := range c.categories {
		if _, ok := pending[e.cur.ID]; ok {
			next = append(next, e)
		}
	}
	c.categories = next
}
