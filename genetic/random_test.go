package genetic

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSource_Seeded(t *testing.T) {
	a, b := NewSource(123), NewSource(123)
	for range 50 {
		assert.Equal(t, a.IntN(1000), b.IntN(1000))
		assert.Equal(t, a.Float64(), b.Float64())
	}
}

func TestLockedSource_MatchesWrapped(t *testing.T) {
	plain := NewSource(9)
	locked := NewLockedSource(NewSource(9))
	for range 20 {
		assert.Equal(t, plain.IntN(50), locked.IntN(50))
		assert.Equal(t, plain.Float64(), locked.Float64())
	}
}

func TestLockedSource_Concurrent(t *testing.T) {
	locked := NewLockedSource(NewSource(3))

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 500 {
				v := locked.IntN(10)
				if v < 0 || v >= 10 {
					t.Errorf("IntN out of range: %d", v)
				}
				f := locked.Float64()
				if f < 0 || f >= 1 {
					t.Errorf("Float64 out of range: %v", f)
				}
			}
		}()
	}
	wg.Wait()
}
