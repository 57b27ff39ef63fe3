package service

import (
	"sync"
	"time"

	"github.com/samidev/credit-service/internal/cache"
	"github.com/samidev/credit-service/internal/repository"
	"github.com/sirupsen/logrus"
)

// Service handles business logic
type Service struct {
	store repository.Store
	cache cache.Cache
	log   *logrus.Logger

	// now is swapped out in tests for deterministic dates
	now func() time.Time

	// per-customer locks serializing credit-limit mutations
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// NewService initializes a new service. The cache may be nil, in which
// case list responses are served from the store on every call.
func NewService(store repository.Store, c cache.Cache, log *logrus.Logger) *Service {
	return &Service{
		store: store,
		cache: c,
		log:   log,
		now:   time.Now,
		locks: make(map[int64]*sync.Mutex),
	}
}

// customerLock returns the mutex serializing ledger operations for a
// customer. Concurrent originations or repayments against the same
// customer must not interleave their read-modify-write of the used
// credit limit.
func (s *Service) customerLock(customerID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[customerID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[customerID] = l
	}
	return l
}
