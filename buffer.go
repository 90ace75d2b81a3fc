// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fbm

// FixedBuffer is a single fixed-capacity byte region with a monotonic
// forward cursor. It is never grown; a write that would exceed its
// capacity fails with ErrBufferFull.
//
// Tri-use: (1) during request build, cursor tracks the header+body bytes
// written so far; (2) once sent, the region is left untouched while the
// caller awaits a response; (3) on response delivery, beginScratch rewinds
// a second, independent cursor so the same backing array can be reused as
// a sliding-window text scratch area for decoding response header values.
// Reuse is safe because the request is single-owner and response parsing
// only begins after the request's bytes have already left the wire.
type FixedBuffer struct {
	buf     []byte
	written int // build-phase cursor
	scratch int // response-phase decode cursor, independent of written
}

// NewFixedBuffer wraps buf (typically rented from a MemoryManager) as a
// FixedBuffer of capacity len(buf).
func NewFixedBuffer(buf []byte) *FixedBuffer {
	return &FixedBuffer{buf: buf}
}

// Capacity returns the buffer's fixed size.
func (b *FixedBuffer) Capacity() int { return len(b.buf) }

// Written returns the number of bytes appended since the last Reset.
func (b *FixedBuffer) Written() int { return b.written }

// Remaining returns the number of bytes that may still be appended
// before ErrBufferFull.
func (b *FixedBuffer) Remaining() int { return len(b.buf) - b.written }

// RemainingSpan returns the unwritten tail of the buffer, for callers
// that want to write directly (e.g. an io.Writer facade) before calling
// Advance.
func (b *FixedBuffer) RemainingSpan() []byte { return b.buf[b.written:] }

// AccumulatedSpan returns the bytes written so far.
func (b *FixedBuffer) AccumulatedSpan() []byte { return b.buf[:b.written] }

// Advance moves the build cursor forward by n, as if n bytes had been
// written directly into RemainingSpan. It fails with ErrBufferFull if n
// exceeds the remaining capacity.
func (b *FixedBuffer) Advance(n int) error {
	if n < 0 || n > b.Remaining() {
		return ErrBufferFull
	}
	b.written += n
	return nil
}

// Reset rewinds both cursors to the start of the buffer, discarding any
// accumulated bytes and scratch claims.
func (b *FixedBuffer) Reset() {
	b.written = 0
	b.scratch = 0
}

// appendRecord copies p into the buffer at the current build cursor and
// advances it. It never writes a partial record: on overflow it writes
// nothing and returns ErrBufferFull.
func (b *FixedBuffer) appendRecord(p []byte) error {
	if len(p) > b.Remaining() {
		return ErrBufferFull
	}
	copy(b.buf[b.written:], p)
	b.written += len(p)
	return nil
}

// beginScratch rewinds the response-phase decode cursor so header
// decoding starts from a clean window over the whole buffer. It leaves
// the build cursor (Written) untouched for diagnostic purposes until the
// next Reset.
func (b *FixedBuffer) beginScratch() { b.scratch = 0 }

// claimScratch bump-allocates n bytes from the response-phase window,
// returning ErrHeaderOutOfMem if the buffer cannot hold it.
func (b *FixedBuffer) claimScratch(n int) ([]byte, error) {
	if n > len(b.buf)-b.scratch {
		return nil, ErrHeaderOutOfMem
	}
	dst := b.buf[b.scratch : b.scratch+n]
	b.scratch += n
	return dst, nil
}
