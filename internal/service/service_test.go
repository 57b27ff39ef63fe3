package service

import (
	"io"
	"time"

	"github.com/samidev/credit-service/internal/models"
	"github.com/samidev/credit-service/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Fixed clock for deterministic schedules: 2026-01-15.
var testNow = time.Date(2026, time.January, 15, 10, 0, 0, 0, time.UTC)

func newTestService(store repository.Store) *Service {
	log := logrus.New()
	log.SetOutput(io.Discard)
	svc := NewService(store, nil, log)
	svc.now = func() time.Time { return testNow }
	return svc
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newCustomer(store repository.Store, limit, used string) *models.Customer {
	c := &models.Customer{
		Name:        "Ada",
		Surname:     "Lovelace",
		CreditLimit: dec(limit),
	}
	c.UsedCreditLimit = dec(used)
	if err := store.CreateCustomer(c); err != nil {
		panic(err)
	}
	return c
}

// fakeCache is an in-memory Cache for asserting read-through and
// invalidation behavior.
type fakeCache struct {
	data map[string]string
	sets int
	hits int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]string)}
}

func (f *fakeCache) Get(key string) (string, bool) {
	v, ok := f.data[key]
	if ok {
		f.hits++
	}
	return v, ok
}

func (f *fakeCache) Set(key, value string, _ time.Duration) error {
	f.sets++
	f.data[key] = value
	return nil
}

func (f *fakeCache) Delete(key string) error {
	delete(f.data, key)
	return nil
}
