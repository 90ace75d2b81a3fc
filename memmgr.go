// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fbm

import "sync"

// MemoryManager is the external, swappable collaborator that owns the
// backing arrays for fixed buffers. A Pool allocates one buffer when it
// hands out a Request and frees it when the Request is returned.
type MemoryManager interface {
	// Alloc returns a buffer of exactly size bytes.
	Alloc(size int) []byte
	// Free returns a buffer previously obtained from Alloc. Implementations
	// must tolerate being called more than once for the same buffer.
	Free(buf []byte)
}

// PooledMemoryManager is the default MemoryManager, backed by a
// size-bucketed sync.Pool so repeated Alloc/Free cycles at a fixed
// message-buffer-size do not allocate in steady state.
type PooledMemoryManager struct {
	mu     sync.Mutex
	pools  map[int]*sync.Pool
	freed  map[*byte]bool // idempotency guard, keyed by backing array identity
	fmu    sync.Mutex
}

// NewPooledMemoryManager constructs an empty PooledMemoryManager. One
// instance may be shared across many Clients and Pools.
func NewPooledMemoryManager() *PooledMemoryManager {
	return &PooledMemoryManager{
		pools: make(map[int]*sync.Pool),
		freed: make(map[*byte]bool),
	}
}

func (m *PooledMemoryManager) poolFor(size int) *sync.Pool {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.pools[size]
	if !ok {
		p = &sync.Pool{New: func() any {
			return make([]byte, size)
		}}
		m.pools[size] = p
	}
	return p
}

// Alloc returns a zero-filled buffer of exactly size bytes,
// reused from the pool when available.
func (m *PooledMemoryManager) Alloc(size int) []byte {
	buf := m.poolFor(size).Get().([]byte)
	for i := range buf {
		buf[i] = 0
	}
	m.fmu.Lock()
	delete(m.freed, identity(buf))
	m.fmu.Unlock()
	return buf
}

// Free returns buf to its size pool. Calling Free twice on the same
// buffer is a no-op on the second call.
func (m *PooledMemoryManager) Free(buf []byte) {
	if len(buf) == 0 {
		return
	}
	key := identity(buf)
	m.fmu.Lock()
	if m.freed[key] {
		m.fmu.Unlock()
		return
	}
	m.freed[key] = true
	m.fmu.Unlock()
	m.poolFor(cap(buf)).Put(buf[:cap(buf)])
}

func identity(buf []byte) *byte {
	if cap(buf) == 0 {
		return nil
	}
	return &buf[:1][0]
}
