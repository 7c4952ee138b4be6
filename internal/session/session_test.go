package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogadmin/internal/hierarchy"
	"catalogadmin/internal/listview"
)

// testValkeyClient returns a client connected to the test Valkey.
// Skips the test if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr:     envOr("VALKEY_HOST", "localhost") + ":" + envOr("VALKEY_PORT", "6379"),
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       15, // Use DB 15 for tests to isolate from dev data.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, keyPrefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})
	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// requestWith builds a request carrying the cookies set on w.
func requestWith(w *httptest.ResponseRecorder) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		r.AddCookie(c)
	}
	return r
}

func exerciseStore(t *testing.T, store *Store) {
	ctx := context.Background()

	w := httptest.NewRecorder()
	data, err := store.Load(ctx, w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.Len(t, data.ID, idLength*2)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	data.SetView("categories", listview.State{Search: "dr", Page: 2, ItemsPerPage: 25})
	data.Selection = hierarchy.Selection{Category: "Tools", Subcategory: "Drills"}
	require.NoError(t, store.Save(ctx, data))

	// Same cookie → same session, no new cookie.
	w2 := httptest.NewRecorder()
	got, err := store.Load(ctx, w2, requestWith(w))
	require.NoError(t, err)
	assert.Equal(t, data.ID, got.ID)
	assert.Empty(t, w2.Result().Cookies())
	assert.Equal(t, listview.State{Search: "dr", Page: 2, ItemsPerPage: 25}, got.View("categories", 10))
	assert.Equal(t, "Drills", got.Selection.Subcategory)

	// Destroy → the next load starts over.
	w3 := httptest.NewRecorder()
	require.NoError(t, store.Destroy(ctx, w3, requestWith(w)))
	w4 := httptest.NewRecorder()
	fresh, err := store.Load(ctx, w4, requestWith(w))
	require.NoError(t, err)
	assert.NotEqual(t, data.ID, fresh.ID)
	assert.Len(t, w4.Result().Cookies(), 1)
}

func TestStore_Memory(t *testing.T) {
	exerciseStore(t, NewStore(NewMemoryBackend(), false))
}

func TestStore_Valkey(t *testing.T) {
	exerciseStore(t, NewStore(NewValkeyBackend(testValkeyClient(t)), false))
}

func TestMemoryBackend_Expiry(t *testing.T) {
	b := NewMemoryBackend()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	ctx := context.Background()
	require.NoError(t, b.Save(ctx, "k", []byte("v"), time.Minute))
	_, ok, _ := b.Load(ctx, "k")
	assert.True(t, ok)

	now = now.Add(time.Minute)
	_, ok, _ = b.Load(ctx, "k")
	assert.False(t, ok)
}

func TestData_ViewDefaults(t *testing.T) {
	var d Data
	assert.Equal(t, listview.State{Page: 1, ItemsPerPage: 10}, d.View("tags", 10))
}

func TestContextRoundTrip(t *testing.T) {
	assert.Nil(t, FromContext(context.Background()))
	d := &Data{ID: "x"}
	assert.Same(t, d, FromContext(NewContext(context.Background(), d)))
}
