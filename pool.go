// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fbm

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
)

// Pool is a reusable-object rental store of Requests, each owning a
// message-buffer-size FixedBuffer acquired from a MemoryManager. It may
// be shared across multiple Clients; the caller that constructed it
// retains ownership when the Pool is supplied externally to a Client.
type Pool struct {
	mgr       MemoryManager
	enc       *HeaderEncoding
	bufSize   int
	softCap   int
	mu        sync.Mutex
	idle      []*Request
	live      int
}

// NewPool constructs a Pool renting message-buffer-size buffers from
// mgr. softCap bounds how many idle requests are retained for reuse;
// Rent beyond softCap still succeeds by allocating a fresh Request, it
// is simply not retained by Return once the idle list is full.
func NewPool(mgr MemoryManager, enc *HeaderEncoding, bufSize, softCap int) *Pool {
	return &Pool{mgr: mgr, enc: enc, bufSize: bufSize, softCap: softCap}
}

// Rent returns a Request in the Fresh state: buffer allocated and the
// message-id record already written with a random positive id. Callers
// that need a specific id (e.g. to force a collision in tests) should
// use RentWithID.
func (p *Pool) Rent() (*Request, error) {
	return p.RentWithID(randomPositiveInt32())
}

// RentWithID is Rent with a caller-supplied message-id.
func (p *Pool) RentWithID(id int32) (*Request, error) {
	req := p.take()
	if err := req.reset(id); err != nil {
		p.mgr.Free(req.buf.buf)
		return nil, err
	}
	return req, nil
}

func (p *Pool) take() *Request {
	p.mu.Lock()
	if n := len(p.idle); n > 0 {
		req := p.idle[n-1]
		p.idle = p.idle[:n-1]
		p.live++
		p.mu.Unlock()
		if req.buf.Capacity() == 0 {
			req.buf = NewFixedBuffer(p.mgr.Alloc(p.bufSize))
		}
		return req
	}
	p.live++
	p.mu.Unlock()
	buf := NewFixedBuffer(p.mgr.Alloc(p.bufSize))
	return newRequest(buf, p.enc)
}

// Return releases req's response and header state, frees its buffer
// back to the MemoryManager, and makes the object available for a
// future Rent — unless the idle list is already at softCap, in which
// case the Request is disposed outright.
func (p *Pool) Return(req *Request) {
	req.release(p.mgr)
	p.mu.Lock()
	p.live--
	if p.softCap <= 0 || len(p.idle) < p.softCap {
		// release freed the buffer; re-acquire one lazily on next Rent
		// by leaving buf set to a zero-length slice until reused.
		req.buf = NewFixedBuffer(nil)
		p.idle = append(p.idle, req)
	}
	p.mu.Unlock()
}

func randomPositiveInt32() int32 {
	for {
		var b [4]byte
		if _, err := rand.Read(b[:]); err != nil {
			panic(err) // crypto/rand failing is not recoverable
		}
		v := int32(binary.LittleEndian.Uint32(b[:]) &^ (1 << 31))
		if v != 0 {
			return v
		}
	}
}
