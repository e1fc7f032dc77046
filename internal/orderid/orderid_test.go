package orderid

import (
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var idPattern = regexp.MustCompile(`^[0-9A-Z]{8}$`)

func TestNew_UniqueInTightLoop(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id := New()
		require.Len(t, id, Length)
		require.Regexp(t, idPattern, id)
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s at iteration %d", id, i)
		seen[id] = struct{}{}
	}
}

func TestGenerator_SameMillisecond(t *testing.T) {
	frozen := time.UnixMilli(1_700_000_000_000)
	g := &Generator{now: func() time.Time { return frozen }}

	seen := make(map[string]struct{})
	for i := 0; i < 5000; i++ {
		id := g.New()
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}

func TestGenerator_Concurrent(t *testing.T) {
	g := NewGenerator()

	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		seen = make(map[string]struct{})
	)
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 250; i++ {
				id := g.New()
				mu.Lock()
				seen[id] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, 2000)
}

func TestFormat_PadsToLength(t *testing.T) {
	assert.Equal(t, "0000000Z", format(35))
	assert.Equal(t, "00000010", format(36))
}

func TestFromReference(t *testing.T) {
	assert.Equal(t, "ABCDEF12", FromReference("cs_test_a1b2abcdef12"))
	assert.Equal(t, FromReference("cs_live_xyz12345678"), FromReference("cs_live_xyz12345678"))

	short := FromReference("cs_1")
	assert.Regexp(t, idPattern, short)
}
