package business

import (
	"context"
	"fmt"
	"sort"

	"goinventory_api/internal/inventory/models"
)

// memStore is an in-memory stand-in for the Postgres repositories. The unit
// of work runs each transaction against a deep copy and swaps it in on
// commit, so rollback-on-error behaves like the real thing.
type memStore struct {
	products map[int]models.CanonicalProduct
	links    map[int64]models.ChannelLink
	records  []models.MergeRecord
	nextRec  int64

	// failure injection
	failAppend     bool
	failListLinks  bool
	extraLinkCount map[int]int
}

func newMemStore() *memStore {
	return &memStore{
		products:       make(map[int]models.CanonicalProduct),
		links:          make(map[int64]models.ChannelLink),
		extraLinkCount: make(map[int]int),
	}
}

func (s *memStore) clone() *memStore {
	c := newMemStore()
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.links {
		c.links[k] = v
	}
	c.records = append(c.records, s.records...)
	c.nextRec = s.nextRec
	c.failAppend = s.failAppend
	c.failListLinks = s.failListLinks
	for k, v := range s.extraLinkCount {
		c.extraLinkCount[k] = v
	}
	return c
}

type memUoW struct {
	store *memStore
}

func (u *memUoW) WithinTx(_ context.Context, fn func(tx RepositoryTx) error) error {
	working := u.store.clone()
	if err := fn(&memTx{store: working}); err != nil {
		return err
	}
	*u.store = *working
	return nil
}

type memTx struct {
	store *memStore
}

func (t *memTx) Products() ProductStore { return &memProducts{store: t.store} }
func (t *memTx) Links() LinkStore       { return &memLinks{store: t.store} }
func (t *memTx) MergeLog() MergeLogStore {
	return &memMergeLog{store: t.store}
}
func (t *memTx) LockProduct(context.Context, int) error { return nil }

type memProducts struct {
	store *memStore
}

func (p *memProducts) GetByID(_ context.Context, id int) (*models.CanonicalProduct, error) {
	prod, ok := p.store.products[id]
	if !ok {
		return nil, nil
	}
	out := prod
	return &out, nil
}

func (p *memProducts) Insert(_ context.Context, prod *models.CanonicalProduct) error {
	if _, exists := p.store.products[prod.ID]; exists {
		return fmt.Errorf("product %d already exists", prod.ID)
	}
	p.store.products[prod.ID] = *prod
	return nil
}

func (p *memProducts) Delete(_ context.Context, id int) error {
	delete(p.store.products, id)
	return nil
}

type memLinks struct {
	store *memStore
}

func (l *memLinks) ListByProduct(_ context.Context, productID int) ([]models.ChannelLink, error) {
	if l.store.failListLinks {
		return nil, fmt.Errorf("link store unavailable")
	}
	var out []models.ChannelLink
	for _, link := range l.store.links {
		if link.ProductID == productID {
			out = append(out, link)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (l *memLinks) CountByProduct(_ context.Context, productID int) (int, error) {
	count := l.store.extraLinkCount[productID]
	for _, link := range l.store.links {
		if link.ProductID == productID {
			count++
		}
	}
	return count, nil
}

func (l *memLinks) Relink(_ context.Context, linkID int64, productID int) error {
	link, ok := l.store.links[linkID]
	if !ok {
		return fmt.Errorf("relink %d: link not found", linkID)
	}
	link.ProductID = productID
	l.store.links[linkID] = link
	return nil
}

func (l *memLinks) RelinkAll(_ context.Context, fromProduct, toProduct int) (int64, error) {
	var moved int64
	for id, link := range l.store.links {
		if link.ProductID == fromProduct {
			link.ProductID = toProduct
			l.store.links[id] = link
			moved++
		}
	}
	return moved, nil
}

func (l *memLinks) RelinkMany(_ context.Context, linkIDs []int64, productID int) error {
	for _, id := range linkIDs {
		if err := l.Relink(context.Background(), id, productID); err != nil {
			return err
		}
	}
	return nil
}

type memMergeLog struct {
	store *memStore
}

func (m *memMergeLog) Append(_ context.Context, rec *models.MergeRecord) error {
	if m.store.failAppend {
		return fmt.Errorf("merge log unavailable")
	}
	m.store.nextRec++
	rec.ID = m.store.nextRec
	m.store.records = append(m.store.records, *rec)
	return nil
}

func (m *memMergeLog) LatestByMergedProduct(_ context.Context, mergedProductID int) (*models.MergeRecord, error) {
	var latest *models.MergeRecord
	for i := range m.store.records {
		rec := &m.store.records[i]
		if rec.MergedProductID != mergedProductID {
			continue
		}
		if latest == nil || rec.MergedAt.After(latest.MergedAt) ||
			(rec.MergedAt.Equal(latest.MergedAt) && rec.ID > latest.ID) {
			latest = rec
		}
	}
	if latest == nil {
		return nil, nil
	}
	out := *latest
	return &out, nil
}
