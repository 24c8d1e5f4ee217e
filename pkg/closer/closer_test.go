package closer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DRSN-tech/product-catalog/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClose_LIFOOrder(t *testing.T) {
	c := NewCloser(0, logger.Nop())

	var order []string
	for _, name := range []string{"postgres", "kafka", "http"} {
		c.AddSimple(name, func() { order = append(order, name) })
	}

	require.NoError(t, c.Close(context.Background()))
	assert.Equal(t, []string{"http", "kafka", "postgres"}, order)
}

func TestClose_CollectsErrorsAndContinues(t *testing.T) {
	c := NewCloser(0, logger.Nop())
	boom := errors.New("boom")

	closed := false
	c.AddSimple("first", func() { closed = true })
	c.Add("broken", func(context.Context) error { return boom })

	err := c.Close(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "broken")
	assert.True(t, closed)
}

func TestClose_Once(t *testing.T) {
	c := NewCloser(0, logger.Nop())

	calls := 0
	c.AddSimple("res", func() { calls++ })

	require.NoError(t, c.Close(context.Background()))
	require.NoError(t, c.Close(context.Background()))
	assert.Equal(t, 1, calls)
}

func TestClose_ForcesRemainingOnTimeout(t *testing.T) {
	c := NewCloser(100*time.Millisecond, logger.Nop())

	var (
		mu     sync.Mutex
		forced bool
	)
	c.Add("slow-first", func(ctx context.Context) error {
		mu.Lock()
		defer mu.Unlock()
		forced = true
		return nil
	})
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	var hangCalls int
	c.Add("hangs", func(ctx context.Context) error {
		mu.Lock()
		hangCalls++
		first := hangCalls == 1
		mu.Unlock()

		if first {
			<-release
			return nil
		}
		<-ctx.Done()
		return ctx.Err()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := c.Close(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shutdown interrupted after 0/2 resources")

	mu.Lock()
	defer mu.Unlock()
	assert.True(t, forced)
}
