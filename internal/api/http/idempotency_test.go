package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgeup/marketplace/internal/infrastructure/redisx"
)

type memoryIdempotency struct {
	mu      sync.Mutex
	pending map[string]bool
	saved   map[string]redisx.Response
}

func newMemoryIdempotency() *memoryIdempotency {
	return &memoryIdempotency{pending: map[string]bool{}, saved: map[string]redisx.Response{}}
}

func (m *memoryIdempotency) Reserve(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.saved[key]; ok || m.pending[key] {
		return false, nil
	}
	m.pending[key] = true
	return true, nil
}

func (m *memoryIdempotency) Lookup(_ context.Context, key string) (*redisx.Response, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if resp, ok := m.saved[key]; ok {
		return &resp, false, nil
	}
	return nil, m.pending[key], nil
}

func (m *memoryIdempotency) Save(_ context.Context, key string, resp redisx.Response) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pending, key)
	m.saved[key] = resp
	return nil
}

func (m *memoryIdempotency) Release(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pending, key)
	return nil
}

func countingHandler(status int, calls *int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		respondJSON(w, status, map[string]int{"call": *calls})
	})
}

func postWithKey(h http.Handler, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/orders", strings.NewReader(`{}`))
	if key != "" {
		req.Header.Set(idempotencyHeader, key)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIdempotent(t *testing.T) {
	t.Run("replays stored response", func(t *testing.T) {
		s := &Server{idem: newMemoryIdempotency(), logger: zerolog.Nop()}
		calls := 0
		h := s.idempotent(countingHandler(http.StatusCreated, &calls))

		first := postWithKey(h, "k-1")
		second := postWithKey(h, "k-1")

		assert.Equal(t, 1, calls)
		assert.Equal(t, http.StatusCreated, first.Code)
		assert.Equal(t, http.StatusCreated, second.Code)
		assert.Equal(t, first.Body.String(), second.Body.String())
		assert.Equal(t, "true", second.Header().Get(replayedHeader))
		assert.Equal(t, "application/json", second.Header().Get("Content-Type"))
	})

	t.Run("client errors are stored too", func(t *testing.T) {
		s := &Server{idem: newMemoryIdempotency(), logger: zerolog.Nop()}
		calls := 0
		h := s.idempotent(countingHandler(http.StatusConflict, &calls))

		postWithKey(h, "k-2")
		rec := postWithKey(h, "k-2")

		assert.Equal(t, 1, calls)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("server errors release the key", func(t *testing.T) {
		s := &Server{idem: newMemoryIdempotency(), logger: zerolog.Nop()}
		calls := 0
		h := s.idempotent(countingHandler(http.StatusInternalServerError, &calls))

		postWithKey(h, "k-3")
		postWithKey(h, "k-3")

		assert.Equal(t, 2, calls)
	})

	t.Run("in-flight key conflicts", func(t *testing.T) {
		store := newMemoryIdempotency()
		s := &Server{idem: store, logger: zerolog.Nop()}
		calls := 0
		h := s.idempotent(countingHandler(http.StatusCreated, &calls))

		ok, err := store.Reserve(context.Background(), redisx.Key(zeroScope(), "k-4"))
		require.NoError(t, err)
		require.True(t, ok)

		rec := postWithKey(h, "k-4")
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "IDEMPOTENCY_IN_PROGRESS")
		assert.Equal(t, 0, calls)
	})

	t.Run("different keys run separately", func(t *testing.T) {
		s := &Server{idem: newMemoryIdempotency(), logger: zerolog.Nop()}
		calls := 0
		h := s.idempotent(countingHandler(http.StatusCreated, &calls))

		postWithKey(h, "a")
		postWithKey(h, "b")
		postWithKey(h, "")
		postWithKey(h, "")

		assert.Equal(t, 4, calls)
	})

	t.Run("disabled without a store", func(t *testing.T) {
		s := &Server{logger: zerolog.Nop()}
		calls := 0
		h := s.idempotent(countingHandler(http.StatusCreated, &calls))

		postWithKey(h, "k-5")
		postWithKey(h, "k-5")

		assert.Equal(t, 2, calls)
	})
}

// zeroScope is the scope used for anonymous POST /v1/orders requests.
func zeroScope() string {
	return actorFromContext(context.Background()).UserID.String() + ":POST:/v1/orders"
}
