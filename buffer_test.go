// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fbm

import "testing"

func TestFixedBufferAppendAndOverflow(t *testing.T) {
	b := NewFixedBuffer(make([]byte, 8))
	if b.Capacity() != 8 || b.Remaining() != 8 {
		t.Fatalf("Capacity/Remaining = %d/%d, want 8/8", b.Capacity(), b.Remaining())
	}
	if err := b.appendRecord([]byte("abcd")); err != nil {
		t.Fatalf("appendRecord: %v", err)
	}
	if b.Written() != 4 || b.Remaining() != 4 {
		t.Fatalf("Written/Remaining = %d/%d, want 4/4", b.Written(), b.Remaining())
	}
	if err := b.appendRecord([]byte("toolong12")); err != ErrBufferFull {
		t.Fatalf("appendRecord overflow = %v, want ErrBufferFull", err)
	}
	if b.Written() != 4 {
		t.Fatalf("Written() = %d after failed overflow write, want unchanged 4", b.Written())
	}
}

func TestFixedBufferReset(t *testing.T) {
	b := NewFixedBuffer(make([]byte, 8))
	_ = b.appendRecord([]byte("ab"))
	_, _ = b.claimScratch(1)
	b.Reset()
	if b.Written() != 0 {
		t.Fatalf("Written() after Reset = %d, want 0", b.Written())
	}
	if n, err := b.claimScratch(8); err != nil || len(n) != 8 {
		t.Fatalf("claimScratch after Reset failed: %v", err)
	}
}

func TestFixedBufferAdvance(t *testing.T) {
	b := NewFixedBuffer(make([]byte, 4))
	copy(b.RemainingSpan(), "ab")
	if err := b.Advance(2); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if b.Written() != 2 {
		t.Fatalf("Written() = %d, want 2", b.Written())
	}
	if err := b.Advance(3); err != ErrBufferFull {
		t.Fatalf("Advance overflow = %v, want ErrBufferFull", err)
	}
}

func TestFixedBufferScratchIndependentOfBuildCursor(t *testing.T) {
	b := NewFixedBuffer(make([]byte, 16))
	_ = b.appendRecord([]byte("0123456789"))
	b.beginScratch()
	first, err := b.claimScratch(4)
	if err != nil {
		t.Fatalf("claimScratch: %v", err)
	}
	if b.Written() != 10 {
		t.Fatalf("Written() changed by claimScratch: %d", b.Written())
	}
	second, err := b.claimScratch(4)
	if err != nil {
		t.Fatalf("claimScratch: %v", err)
	}
	if &first[0] == &second[0] {
		t.Fatalf("scratch windows overlap")
	}
	if _, err := b.claimScratch(16); err != ErrHeaderOutOfMem {
		t.Fatalf("claimScratch over-budget = %v, want ErrHeaderOutOfMem", err)
	}
}
