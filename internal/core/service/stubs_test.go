package service

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/campusprint/stationery-admin/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubStore struct {
	mu     sync.Mutex
	values map[string]string
	delErr error

	// getErr is returned by the failGetAt-th Get (1-based); zero disables it.
	getErr    error
	failGetAt int
	gets      int
}

func newStubStore(kv ...string) *stubStore {
	s := &stubStore{values: map[string]string{}}
	for i := 0; i+1 < len(kv); i += 2 {
		s.values[kv[i]] = kv[i+1]
	}
	return s
}

func (s *stubStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets++
	if s.failGetAt > 0 && s.gets == s.failGetAt {
		return "", s.getErr
	}
	return s.values[key], nil
}

func (s *stubStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *stubStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.values, k)
	}
	return s.delErr
}

func (s *stubStore) get(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[key]
}

type stubAuthAPI struct {
	loginPair domain.CredentialPair
	loginErr  error

	registerErr error
	registered  []domain.Registration

	refreshPair  domain.CredentialPair
	refreshErr   error
	refreshCalls atomic.Int32
	refreshGate  chan struct{} // when set, Refresh blocks until closed
	refreshStart chan struct{}

	logoutErr   error
	loggedOut   []string
	identities  map[string]*domain.Identity // access token → identity
	detailCalls []string
	detailMu    sync.Mutex
}

func (a *stubAuthAPI) Login(_ context.Context, email, password string) (domain.CredentialPair, error) {
	if a.loginErr != nil {
		return domain.CredentialPair{}, a.loginErr
	}
	return a.loginPair, nil
}

func (a *stubAuthAPI) Register(_ context.Context, reg domain.Registration) error {
	a.registered = append(a.registered, reg)
	return a.registerErr
}

func (a *stubAuthAPI) Refresh(ctx context.Context, refresh string) (domain.CredentialPair, error) {
	a.refreshCalls.Add(1)
	if a.refreshStart != nil {
		select {
		case a.refreshStart <- struct{}{}:
		default:
		}
	}
	if a.refreshGate != nil {
		select {
		case <-a.refreshGate:
		case <-ctx.Done():
			return domain.CredentialPair{}, ctx.Err()
		}
	}
	if a.refreshErr != nil {
		return domain.CredentialPair{}, a.refreshErr
	}
	return a.refreshPair, nil
}

func (a *stubAuthAPI) Logout(_ context.Context, refresh string) error {
	a.loggedOut = append(a.loggedOut, refresh)
	return a.logoutErr
}

func (a *stubAuthAPI) UserDetails(_ context.Context, access string) (*domain.Identity, error) {
	a.detailMu.Lock()
	a.detailCalls = append(a.detailCalls, access)
	a.detailMu.Unlock()
	if id, ok := a.identities[access]; ok {
		cp := *id
		return &cp, nil
	}
	return nil, &domain.RequestError{Status: 401, Message: "Given token not valid for any token type"}
}

type countingNavigator struct {
	n atomic.Int32
}

func (c *countingNavigator) RedirectToLogin() { c.n.Add(1) }

type stubAdminAPI struct {
	mu sync.Mutex

	stats     *domain.DashboardStats
	statsErr  error
	active    []domain.Order
	past      []domain.Order
	printouts []domain.Printout
	pastPrint []domain.Printout
	listErr   error

	completeErr error
	completed   []domain.OrderID

	items     []domain.Item
	itemErr   error
	nextID    int64
	itemCalls int

	// bareUpdates makes UpdateItem reply with a message and no item.
	bareUpdates bool
}

func (s *stubAdminAPI) GetAllActiveOrders(context.Context) ([]domain.Order, error) {
	return append([]domain.Order(nil), s.active...), s.listErr
}

func (s *stubAdminAPI) GetAllPastOrders(context.Context) ([]domain.Order, error) {
	return append([]domain.Order(nil), s.past...), s.listErr
}

func (s *stubAdminAPI) GetAllActivePrintouts(context.Context) ([]domain.Printout, error) {
	return append([]domain.Printout(nil), s.printouts...), s.listErr
}

func (s *stubAdminAPI) GetAllPastPrintouts(context.Context) ([]domain.Printout, error) {
	return append([]domain.Printout(nil), s.pastPrint...), s.listErr
}

func (s *stubAdminAPI) GetDashboardStats(context.Context) (*domain.DashboardStats, error) {
	if s.statsErr != nil {
		return nil, s.statsErr
	}
	return s.stats, nil
}

func (s *stubAdminAPI) GetOrderDetails(_ context.Context, id domain.OrderID) (*domain.OrderDetail, error) {
	for _, o := range s.active {
		if o.OrderID == id {
			return &domain.OrderDetail{Order: o}, nil
		}
	}
	return nil, &domain.RequestError{Status: 404, Message: "Order not found"}
}

func (s *stubAdminAPI) GetPrintoutDetails(_ context.Context, id domain.OrderID) (*domain.PrintoutDetail, error) {
	for _, p := range s.printouts {
		if p.OrderID == id {
			return &domain.PrintoutDetail{Printout: p}, nil
		}
	}
	return nil, &domain.RequestError{Status: 404, Message: "Printout not found"}
}

func (s *stubAdminAPI) CompleteOrder(_ context.Context, id domain.OrderID) (*domain.Completion, error) {
	if s.completeErr != nil {
		return nil, s.completeErr
	}
	s.completed = append(s.completed, id)
	return &domain.Completion{Message: "Order marked as completed", OrderID: id}, nil
}

func (s *stubAdminAPI) CompletePrintout(_ context.Context, id domain.OrderID) (*domain.Completion, error) {
	return s.CompleteOrder(context.Background(), id)
}

func (s *stubAdminAPI) GetItems(context.Context) ([]domain.Item, error) {
	return append([]domain.Item(nil), s.items...), s.itemErr
}

func (s *stubAdminAPI) CreateItem(_ context.Context, in domain.ItemInput) (*domain.ItemMutation, error) {
	s.itemCalls++
	if s.itemErr != nil {
		return nil, s.itemErr
	}
	s.nextID++
	it := in.ApplyTo(domain.Item{ID: s.nextID})
	return &domain.ItemMutation{Message: "Item created", Item: it}, nil
}

func (s *stubAdminAPI) UpdateItem(_ context.Context, id int64, in domain.ItemInput) (*domain.ItemMutation, error) {
	s.itemCalls++
	if s.itemErr != nil {
		return nil, s.itemErr
	}
	for _, it := range s.items {
		if it.ID == id {
			if s.bareUpdates {
				return &domain.ItemMutation{Message: "Item updated"}, nil
			}
			return &domain.ItemMutation{Message: "Item updated", Item: in.ApplyTo(it)}, nil
		}
	}
	return nil, &domain.RequestError{Status: 404, Message: "Item not found"}
}

func (s *stubAdminAPI) DeleteItem(_ context.Context, id int64) (*domain.MessageResponse, error) {
	s.itemCalls++
	if s.itemErr != nil {
		return nil, s.itemErr
	}
	return &domain.MessageResponse{Message: "Item deleted"}, nil
}

func (s *stubAdminAPI) ToggleItemStock(_ context.Context, id int64) (*domain.StockToggle, error) {
	s.itemCalls++
	if s.itemErr != nil {
		return nil, s.itemErr
	}
	for _, it := range s.items {
		if it.ID == id {
			return &domain.StockToggle{ItemID: id, InStock: !it.InStock}, nil
		}
	}
	return nil, &domain.RequestError{Status: 404, Message: "Item not found"}
}

func (s *stubAdminAPI) DownloadPrintout(context.Context, domain.OrderID) (*domain.Blob, error) {
	return nil, domain.ErrNotAuthenticated
}

func (s *stubAdminAPI) DownloadPrintoutFile(context.Context, int64) (*domain.Blob, error) {
	return nil, domain.ErrNotAuthenticated
}
