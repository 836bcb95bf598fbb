package shutdown

import (
	"sync"
	"testing"
	"time"

	"easy-plotter/internal/logger"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	mu    sync.Mutex
	order []string
}

func (r *recorder) add(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = append(r.order, name)
}

type component struct {
	name string
	rec  *recorder
	wait time.Duration
}

func (c component) Shutdown() {
	time.Sleep(c.wait)
	c.rec.add(c.name)
}

func TestShutdownReverseOrderOnce(t *testing.T) {
	rec := &recorder{}
	m := NewManager(logger.Nop())
	m.Register("first", component{name: "first", rec: rec})
	m.Register("second", component{name: "second", rec: rec})

	m.Shutdown()
	m.Shutdown()

	assert.Equal(t, []string{"second", "first"}, rec.order)
	assert.Error(t, m.Context().Err())

	select {
	case <-m.Done():
	default:
		t.Fatal("done channel not closed")
	}
}

func TestShutdownSkipsSlowComponent(t *testing.T) {
	rec := &recorder{}
	m := NewManager(logger.Nop())
	m.timeout = 20 * time.Millisecond
	m.Register("slow", component{name: "slow", rec: rec, wait: time.Second})
	m.Register("fast", component{name: "fast", rec: rec})

	start := time.Now()
	m.Shutdown()

	assert.Less(t, time.Since(start), 500*time.Millisecond)
	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Equal(t, []string{"fast"}, rec.order)
}
