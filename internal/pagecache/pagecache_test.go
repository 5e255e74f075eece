package pagecache

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestCache(ttl time.Duration) (*Cache, *clock) {
	clk := &clock{t: time.Date(2021, 3, 15, 0, 0, 0, 0, time.UTC)}
	c := New(ttl, log.New(io.Discard, "", 0))
	c.now = clk.Now
	return c, clk
}

func counting(calls *int32, body string) GenerateFunc {
	return func(ctx context.Context) (Entry, error) {
		atomic.AddInt32(calls, 1)
		return Entry{Body: []byte(body), Status: 200}, nil
	}
}

func TestGetGeneratesOnceWhileFresh(t *testing.T) {
	c, clk := newTestCache(time.Hour)
	var calls int32

	e, err := c.Get(context.Background(), "/", counting(&calls, "v1"))
	require.NoError(t, err)
	assert.Equal(t, "v1", string(e.Body))

	clk.Advance(59 * time.Minute)
	e, err = c.Get(context.Background(), "/", counting(&calls, "v2"))
	require.NoError(t, err)
	assert.Equal(t, "v1", string(e.Body))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGetRevalidatesStale(t *testing.T) {
	c, clk := newTestCache(time.Hour)
	var calls int32

	_, err := c.Get(context.Background(), "/", counting(&calls, "v1"))
	require.NoError(t, err)

	clk.Advance(time.Hour)
	e, err := c.Get(context.Background(), "/", counting(&calls, "v2"))
	require.NoError(t, err)
	assert.Equal(t, "v2", string(e.Body))
	assert.Equal(t, clk.Now(), e.GeneratedAt)
}

func TestGetServesStaleOnFailure(t *testing.T) {
	c, clk := newTestCache(time.Hour)
	var calls int32
	_, err := c.Get(context.Background(), "/post/a", counting(&calls, "v1"))
	require.NoError(t, err)

	clk.Advance(2 * time.Hour)
	e, err := c.Get(context.Background(), "/post/a", func(ctx context.Context) (Entry, error) {
		return Entry{}, errors.New("api down")
	})
	require.NoError(t, err)
	assert.Equal(t, "v1", string(e.Body))
}

func TestGetPropagatesFailureWithoutCopy(t *testing.T) {
	c, _ := newTestCache(time.Hour)
	boom := errors.New("api down")

	_, err := c.Get(context.Background(), "/post/a", func(ctx context.Context) (Entry, error) {
		return Entry{}, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, c.Keys())
}

func TestGetCollapsesConcurrentGeneration(t *testing.T) {
	c, _ := newTestCache(time.Hour)
	var calls int32
	release := make(chan struct{})
	gen := func(ctx context.Context) (Entry, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return Entry{Body: []byte("page")}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e, err := c.Get(context.Background(), "/", gen)
			assert.NoError(t, err)
			assert.Equal(t, "page", string(e.Body))
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestPurge(t *testing.T) {
	c, _ := newTestCache(time.Hour)
	c.Put("/", Entry{Body: []byte("a")})
	c.Put("/post/x", Entry{Body: []byte("b")})
	c.Put("/post/y", Entry{Body: []byte("c")})
	assert.Equal(t, []string{"/", "/post/x", "/post/y"}, c.Keys())

	c.Purge("/post/x")
	assert.Equal(t, []string{"/", "/post/y"}, c.Keys())

	assert.Equal(t, 2, c.PurgeAll())
	assert.Empty(t, c.Keys())
}

func TestDefaultTTL(t *testing.T) {
	c := New(0, log.New(io.Discard, "", 0))
	assert.Equal(t, DefaultTTL, c.ttl)
}

func TestGenerationSurvivesCallerCancel(t *testing.T) {
	c, _ := newTestCache(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e, err := c.Get(ctx, "/", func(ctx context.Context) (Entry, error) {
		if err := ctx.Err(); err != nil {
			return Entry{}, err
		}
		return Entry{Body: []byte("page")}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "page", string(e.Body))
}

func TestGenerationIsBounded(t *testing.T) {
	c, _ := newTestCache(time.Hour)
	c.SetGenerateTimeout(10 * time.Millisecond)

	_, err := c.Get(context.Background(), "/", func(ctx context.Context) (Entry, error) {
		<-ctx.Done()
		return Entry{}, ctx.Err()
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	c.SetGenerateTimeout(0)
	assert.Equal(t, 10*time.Millisecond, c.timeout)
}
