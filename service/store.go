package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ZaneerahEssop/QUANTIX-sub001/model"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a contract, event or vendor does not exist
var ErrNotFound = errors.New("not found")

// StoreError is a failed read or write against the backing store. Callers may
// retry; the service never does.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store %s: %v", e.Op, e.Err) }
func (e *StoreError) Unwrap() error { return e.Err }

// Store persists contracts and the events and vendors they refer to.
// SaveContract upserts on the (event, vendor) pair and assigns an id to new
// records; the last write wins.
type Store interface {
	GetContract(ctx context.Context, id string) (*model.Contract, error)
	GetContractByPair(ctx context.Context, eventID, vendorID string) (*model.Contract, error)
	SaveContract(ctx context.Context, c *model.Contract) error

	GetEvent(ctx context.Context, id string) (*model.Event, error)
	CreateEvent(ctx context.Context, e *model.Event) error
	GetVendor(ctx context.Context, id string) (*model.Vendor, error)
	CreateVendor(ctx context.Context, v *model.Vendor) error

	Close() error
}

// MemoryStore keeps everything in process memory. Records are copied on the
// way in and out so callers never share state with the store.
type MemoryStore struct {
	mu        sync.RWMutex
	contracts map[string]*model.Contract
	pairs     map[pairKey]string
	events    map[string]*model.Event
	vendors   map[string]*model.Vendor
	now       func() time.Time
}

type pairKey struct{ eventID, vendorID string }

func NewMemoryStore() *MemoryStore {
	slog.Info("memory contract store initialized")
	return &MemoryStore{
		contracts: make(map[string]*model.Contract),
		pairs:     make(map[pairKey]string),
		events:    make(map[string]*model.Event),
		vendors:   make(map[string]*model.Vendor),
		now:       time.Now,
	}
}

func (s *MemoryStore) GetContract(_ context.Context, id string) (*model.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.contracts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return c.Clone(), nil
}

func (s *MemoryStore) GetContractByPair(_ context.Context, eventID, vendorID string) (*model.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.pairs[pairKey{eventID, vendorID}]
	if !ok {
		return nil, ErrNotFound
	}
	return s.contracts[id].Clone(), nil
}

func (s *MemoryStore) SaveContract(_ context.Context, c *model.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey{c.EventID, c.VendorID}
	if c.ID == "" {
		c.ID = s.pairs[key]
	}
	if existing, ok := s.contracts[c.ID]; ok {
		if existing.EventID != c.EventID || existing.VendorID != c.VendorID {
			return &StoreError{Op: "save contract", Err: fmt.Errorf("contract %s belongs to another event or vendor", c.ID)}
		}
		c.CreatedAt = existing.CreatedAt
	} else {
		if id, taken := s.pairs[key]; taken && id != c.ID {
			return &StoreError{Op: "save contract", Err: fmt.Errorf("event %s already has a contract with vendor %s", c.EventID, c.VendorID)}
		}
		if c.ID == "" {
			c.ID = uuid.New().String()
		}
		c.CreatedAt = s.now()
	}
	c.UpdatedAt = s.now()

	s.contracts[c.ID] = c.Clone()
	s.pairs[key] = c.ID
	return nil
}

func (s *MemoryStore) GetEvent(_ context.Context, id string) (*model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *e
	return &out, nil
}

func (s *MemoryStore) CreateEvent(_ context.Context, e *model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	e.CreatedAt, e.UpdatedAt = s.now(), s.now()
	stored := *e
	s.events[e.ID] = &stored
	return nil
}

func (s *MemoryStore) GetVendor(_ context.Context, id string) (*model.Vendor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vendors[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *v
	return &out, nil
}

func (s *MemoryStore) CreateVendor(_ context.Context, v *model.Vendor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	v.CreatedAt, v.UpdatedAt = s.now(), s.now()
	stored := *v
	s.vendors[v.ID] = &stored
	return nil
}

// Count returns the number of contracts in the store
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.contracts)
}

func (s *MemoryStore) Close() error { return nil }
