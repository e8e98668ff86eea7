package handler

import (
	"context"
	gosync "sync"
	"time"

	syncapp "github.com/printsync/backend/internal/application/sync"
	"github.com/printsync/backend/internal/domain/sync"
)

// In-memory fakes shared by the handler tests.

type fakeMerchantRepo struct {
	mu        gosync.Mutex
	policies  map[string]*sync.MerchantPolicy
	saveErr   error
	deleteErr error
	deleted   []string
}

func newFakeMerchantRepo() *fakeMerchantRepo {
	return &fakeMerchantRepo{policies: make(map[string]*sync.MerchantPolicy)}
}

func (r *fakeMerchantRepo) FindByShop(_ context.Context, shop string) (*sync.MerchantPolicy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.policies[shop]
	if !ok {
		return nil, sync.ErrMerchantNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *fakeMerchantRepo) Save(_ context.Context, policy *sync.MerchantPolicy) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *policy
	r.policies[policy.Shop] = &copied
	return nil
}

func (r *fakeMerchantRepo) DeleteByShop(_ context.Context, shop string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.policies, shop)
	r.deleted = append(r.deleted, shop)
	return nil
}

type fakeMappingRepo struct {
	deleteErr error
	deleted   []string
}

func (r *fakeMappingRepo) Find(context.Context, string, string) (*sync.OrderMapping, error) {
	return nil, sync.ErrMappingNotFound
}

func (r *fakeMappingRepo) Record(context.Context, *sync.OrderMapping) error {
	return nil
}

func (r *fakeMappingRepo) DeleteByShop(_ context.Context, shop string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	r.deleted = append(r.deleted, shop)
	return nil
}

type fakeActivityRepo struct {
	records   []sync.ActivityRecord
	listErr   error
	deleteErr error
	deleted   []string
}

func (r *fakeActivityRepo) Append(_ context.Context, record *sync.ActivityRecord) error {
	r.records = append(r.records, *record)
	return nil
}

func (r *fakeActivityRepo) List(_ context.Context, shop string, page, pageSize int) ([]sync.ActivityRecord, int64, error) {
	if r.listErr != nil {
		return nil, 0, r.listErr
	}
	var matched []sync.ActivityRecord
	for i := len(r.records) - 1; i >= 0; i-- {
		if r.records[i].Shop == shop {
			matched = append(matched, r.records[i])
		}
	}
	total := int64(len(matched))
	start := (page - 1) * pageSize
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *fakeActivityRepo) DeleteByShop(_ context.Context, shop string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	r.deleted = append(r.deleted, shop)
	return nil
}

type fakeDeliveryStore struct {
	mu   gosync.Mutex
	seen map[string]bool
	err  error
}

func newFakeDeliveryStore() *fakeDeliveryStore {
	return &fakeDeliveryStore{seen: make(map[string]bool)}
}

func (s *fakeDeliveryStore) MarkDelivered(_ context.Context, deliveryID string, _ time.Duration) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seen[deliveryID] {
		return false, nil
	}
	s.seen[deliveryID] = true
	return true, nil
}

func (s *fakeDeliveryStore) IsDelivered(_ context.Context, deliveryID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seen[deliveryID], nil
}

func (s *fakeDeliveryStore) Close() error { return nil }

type stubReconciler struct {
	mu      gosync.Mutex
	outcome syncapp.Outcome
	calls   int
	shops   []string
	orders  []*sync.Order
}

func (r *stubReconciler) Reconcile(_ context.Context, shop string, order *sync.Order) syncapp.Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.shops = append(r.shops, shop)
	r.orders = append(r.orders, order)
	return r.outcome
}

type stubPlatform struct {
	testErr error
	tested  []string
}

func (p *stubPlatform) FindContactsByEmail(context.Context, string, string) ([]sync.Contact, error) {
	return nil, nil
}

func (p *stubPlatform) CreateCustomer(context.Context, string, *sync.CustomerCreateInput) (*sync.Customer, error) {
	return &sync.Customer{}, nil
}

func (p *stubPlatform) CreateQuote(context.Context, string, *sync.QuoteCreateInput) (*sync.Quote, error) {
	return &sync.Quote{}, nil
}

func (p *stubPlatform) TestConnection(_ context.Context, apiKey string) error {
	p.tested = append(p.tested, apiKey)
	return p.testErr
}
