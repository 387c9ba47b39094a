package securestore

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SetGetRemove(t *testing.T) {
	s := New()

	_, ok := s.Get("token")
	assert.False(t, ok)

	s.Set("token", "abc")
	v, ok := s.Get("token")
	require.True(t, ok)
	assert.Equal(t, "abc", v)

	s.Set("token", "def")
	v, _ = s.Get("token")
	assert.Equal(t, "def", v, "last write wins")

	s.Remove("token")
	_, ok = s.Get("token")
	assert.False(t, ok)

	s.Remove("token") // no-op
}

func TestStore_Clear(t *testing.T) {
	s := New()
	s.Set("token", "a")
	s.Set("refreshToken", "b")

	s.Clear()

	_, ok := s.Get("token")
	assert.False(t, ok)
	_, ok = s.Get("refreshToken")
	assert.False(t, ok)
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", n%4)
			for j := 0; j < 100; j++ {
				s.Set(key, "v")
				s.Get(key)
				if j%10 == 0 {
					s.Remove(key)
				}
			}
		}(i)
	}
	wg.Wait()
}
