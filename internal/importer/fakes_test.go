package importer

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dquinterov/mesacompras-backend/pkg/db/models"
	"github.com/dquinterov/mesacompras-backend/pkg/enums"
)

// fakeCatalog mirrors the store's substring resolution over a fixed fixture,
// first match by id.
type fakeCatalog struct {
	entries []models.CatalogEntry
}

func (f *fakeCatalog) Resolve(_ context.Context, text string, category *enums.CatalogCategory) (*models.CatalogEntry, error) {
	needle := Normalize(text)
	if needle == "" {
		return nil, nil
	}
	for i := range f.entries {
		entry := f.entries[i]
		if category != nil && entry.Category != *category {
			continue
		}
		if strings.Contains(Normalize(entry.Value), needle) {
			return &entry, nil
		}
	}
	return nil, nil
}

func (f *fakeCatalog) ResolveID(ctx context.Context, text string, category enums.CatalogCategory) (*int64, error) {
	entry, err := f.Resolve(ctx, text, &category)
	if err != nil || entry == nil {
		return nil, err
	}
	id := entry.ID
	return &id, nil
}

type fakeSuppliers struct {
	parties []models.Party
}

func (f *fakeSuppliers) ResolveSupplierID(_ context.Context, text string) (*int64, error) {
	needle := Normalize(text)
	if needle == "" {
		return nil, nil
	}
	for i := range f.parties {
		party := f.parties[i]
		if party.Type != enums.PartyTypeSupplier {
			continue
		}
		if strings.Contains(Normalize(party.Name), needle) {
			id := party.ID
			return &id, nil
		}
	}
	return nil, nil
}

// fakeOrders collects inserted orders and can be told to reject specific
// order codes.
type fakeOrders struct {
	mu         sync.Mutex
	nextID     int64
	created    []*models.Order
	rejectCode string
}

func (f *fakeOrders) Create(_ context.Context, order *models.Order) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rejectCode != "" && order.Code == f.rejectCode {
		return nil, fmt.Errorf("constraint violation on code %q", order.Code)
	}
	f.nextID++
	order.ID = f.nextID
	f.created = append(f.created, order)
	return order, nil
}

type fakeInvoices struct {
	clients map[int64]int64
}

func (f *fakeInvoices) FindClientID(_ context.Context, invoiceID int64) (int64, error) {
	clientID, ok := f.clients[invoiceID]
	if !ok {
		return 0, fmt.Errorf("invoice %d not found", invoiceID)
	}
	return clientID, nil
}
