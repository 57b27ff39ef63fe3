package service

import (
	"errors"
	"sync"
	"testing"

	"github.com/samidev/credit-service/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCapacity(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := newTestService(store)
	c := newCustomer(store, "1000", "400")

	ok, err := svc.ValidateCapacity(c.ID, dec("600"))
	require.NoError(t, err)
	assert.True(t, ok, "exactly the available credit should pass")

	ok, err = svc.ValidateCapacity(c.ID, dec("600.01"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestValidateCapacityUnknownCustomer(t *testing.T) {
	svc := newTestService(repository.NewMemoryStore())

	_, err := svc.ValidateCapacity(42, dec("1"))
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestAdjustUsedCredit(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := newTestService(store)
	c := newCustomer(store, "1000", "100")

	require.NoError(t, svc.AdjustUsedCredit(c.ID, dec("250")))
	require.NoError(t, svc.AdjustUsedCredit(c.ID, dec("-50")))

	stored, err := store.GetCustomer(c.ID)
	require.NoError(t, err)
	assert.True(t, stored.UsedCreditLimit.Equal(dec("300")), "used = %s", stored.UsedCreditLimit)
}

func TestAdjustUsedCreditInvariantViolations(t *testing.T) {
	tests := []struct {
		name  string
		delta string
	}{
		{"result would be negative", "-101"},
		{"result would exceed the limit", "900.01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := repository.NewMemoryStore()
			svc := newTestService(store)
			c := newCustomer(store, "1000", "100")

			err := svc.AdjustUsedCredit(c.ID, dec(tt.delta))
			assert.True(t, errors.Is(err, ErrInvalidState))

			// No partial mutation on rejection.
			stored, err := store.GetCustomer(c.ID)
			require.NoError(t, err)
			assert.True(t, stored.UsedCreditLimit.Equal(dec("100")))
		})
	}
}

func TestAdjustUsedCreditBoundaries(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := newTestService(store)
	c := newCustomer(store, "1000", "100")

	// Down to exactly zero and up to exactly the limit are both legal.
	require.NoError(t, svc.AdjustUsedCredit(c.ID, dec("-100")))
	require.NoError(t, svc.AdjustUsedCredit(c.ID, dec("1000")))

	stored, err := store.GetCustomer(c.ID)
	require.NoError(t, err)
	assert.True(t, stored.UsedCreditLimit.Equal(dec("1000")))
}

func TestAdjustUsedCreditSerializesPerCustomer(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := newTestService(store)
	c := newCustomer(store, "10000", "0")

	// 100 concurrent reservations of 100 each must land exactly on the
	// limit with no lost updates.
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := svc.AdjustUsedCredit(c.ID, dec("100")); err != nil {
				t.Errorf("adjust failed: %v", err)
			}
		}()
	}
	wg.Wait()

	stored, err := store.GetCustomer(c.ID)
	require.NoError(t, err)
	assert.True(t, stored.UsedCreditLimit.Equal(dec("10000")), "used = %s", stored.UsedCreditLimit)
}
