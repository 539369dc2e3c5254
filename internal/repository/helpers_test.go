package repository

import (
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/afero"
)

// countingFs 记录 Open/Stat 调用次数，用来断言缓存命中时没有读盘。
type countingFs struct {
	afero.Fs
	opens atomic.Int32
	stats atomic.Int32
}

func newCountingFs() *countingFs {
	return &countingFs{Fs: afero.NewMemMapFs()}
}

func (c *countingFs) Open(name string) (afero.File, error) {
	c.opens.Add(1)
	return c.Fs.Open(name)
}

func (c *countingFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	c.opens.Add(1)
	return c.Fs.OpenFile(name, flag, perm)
}

func (c *countingFs) Stat(name string) (os.FileInfo, error) {
	c.stats.Add(1)
	return c.Fs.Stat(name)
}

func (c *countingFs) resetCounters() {
	c.opens.Store(0)
	c.stats.Store(0)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}
