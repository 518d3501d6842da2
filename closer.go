package leadform

import (
	"io"
	"sync"
)

// SyncCloser 可以在运行时替换的 Closer，Close 之后再 Set 的 closer 会被立即关闭
type SyncCloser struct {
	closer io.Closer
	closed bool
	mu     sync.Mutex
}

func (sc *SyncCloser) Set(closer io.Closer) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.closed {
		if closer != nil {
			return closer.Close()
		}
		return nil
	}
	sc.closer = closer
	return nil
}

func (sc *SyncCloser) Close() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.closed {
		return nil
	}
	sc.closed = true
	if sc.closer != nil {
		return sc.closer.Close()
	}
	return nil
}
