package watcher_test

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/pkgdeps/internal/adapters/watcher"
)

func TestDebouncer_Add_SinglePath(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int
		var receivedPaths []string

		d := watcher.NewDebouncer(100*time.Millisecond, func(paths []string) {
			callCount++
			receivedPaths = paths
		})

		d.Add("/ws/packages/ui/package.json")

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		require.Equal(t, 1, callCount)
		assert.Equal(t, []string{"/ws/packages/ui/package.json"}, receivedPaths)
	})
}

func TestDebouncer_Add_CoalescedAndSorted(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int
		var receivedPaths []string

		d := watcher.NewDebouncer(100*time.Millisecond, func(paths []string) {
			callCount++
			receivedPaths = paths
		})

		d.Add("/ws/packages/ui/package.json")
		d.Add("/ws/packages/app/package.json")
		d.Add("/ws/packages/ui/package.json")

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		require.Equal(t, 1, callCount)
		assert.Equal(t, []string{
			"/ws/packages/app/package.json",
			"/ws/packages/ui/package.json",
		}, receivedPaths)
	})
}

func TestDebouncer_Add_TimerReset(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int

		d := watcher.NewDebouncer(100*time.Millisecond, func([]string) {
			callCount++
		})

		d.Add("/a")
		time.Sleep(60 * time.Millisecond)
		d.Add("/b")
		time.Sleep(60 * time.Millisecond)
		synctest.Wait()
		assert.Equal(t, 0, callCount, "window restarts on every add")

		time.Sleep(60 * time.Millisecond)
		synctest.Wait()
		assert.Equal(t, 1, callCount)
	})
}

func TestDebouncer_Flush_Immediate(t *testing.T) {
	var receivedPaths []string
	d := watcher.NewDebouncer(time.Hour, func(paths []string) {
		receivedPaths = paths
	})

	d.Add("/a")
	d.Flush()

	assert.Equal(t, []string{"/a"}, receivedPaths)
}

func TestDebouncer_Flush_Empty(t *testing.T) {
	called := false
	d := watcher.NewDebouncer(time.Hour, func([]string) {
		called = true
	})

	d.Flush()
	assert.False(t, called)
}

func TestDebouncer_NilCallback(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		d := watcher.NewDebouncer(10*time.Millisecond, nil)
		assert.NotPanics(t, func() {
			d.Add("/a")
			time.Sleep(20 * time.Millisecond)
			synctest.Wait()
			d.Flush()
		})
	})
}

func TestDebouncer_ConcurrentAdd(t *testing.T) {
	var mu sync.Mutex
	var total int
	d := watcher.NewDebouncer(time.Hour, func(paths []string) {
		mu.Lock()
		defer mu.Unlock()
		total += len(paths)
	})

	var wg sync.WaitGroup
	for _, p := range []string{"/a", "/b", "/c", "/d"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.Add(p)
		}()
	}
	wg.Wait()
	d.Flush()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 4, total)
}
