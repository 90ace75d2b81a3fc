// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fbm

import (
	"bytes"
	"testing"
)

func TestRequestWriteHeaderThenBody(t *testing.T) {
	req := newRequest(NewFixedBuffer(make([]byte, 128)), UTF8HeaderEncoding)
	if err := req.reset(3); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if err := req.WriteHeader(CommandLocation, "/widgets"); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}
	if err := req.WriteBody([]byte("hello"), "text/plain"); err != nil {
		t.Fatalf("WriteBody: %v", err)
	}
	if err := req.WriteHeader(CommandAction, "too-late"); err != ErrInvalidRequest {
		t.Fatalf("WriteHeader after body open = %v, want ErrInvalidRequest", err)
	}
	if err := req.validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestRequestValidateRejectsZeroID(t *testing.T) {
	req := newRequest(NewFixedBuffer(make([]byte, 128)), UTF8HeaderEncoding)
	if err := req.reset(0); err != nil { // id record present, so only the zero id can fail validate
		t.Fatalf("reset: %v", err)
	}
	if err := req.validate(); err != ErrInvalidRequest {
		t.Fatalf("validate() = %v, want ErrInvalidRequest", err)
	}
}

func TestRequestBodyWriterStreamsIncrementally(t *testing.T) {
	req := newRequest(NewFixedBuffer(make([]byte, 128)), UTF8HeaderEncoding)
	_ = req.reset(4)
	w := req.BodyWriter()
	if _, err := w.Write([]byte("part1")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := w.Write([]byte("part2")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !req.bodyOpen {
		t.Fatalf("bodyOpen should be true after first BodyWriter write")
	}
	if !bytes.HasSuffix(req.RequestData(), []byte("part1part2")) {
		t.Fatalf("RequestData = %q, want suffix part1part2", req.RequestData())
	}
}

func TestRequestGetResponseParsesDeliveredBytes(t *testing.T) {
	req := newRequest(NewFixedBuffer(make([]byte, 128)), UTF8HeaderEncoding)
	_ = req.reset(7)

	respBuf := NewFixedBuffer(make([]byte, 64))
	_ = writeMessageID(respBuf, 7)
	_ = writeHeader(respBuf, CommandStatus, []byte("200"))
	_ = writeBody(respBuf, []byte("ok"))

	req.wait.beginRequest()
	if !req.deliver(respBuf.AccumulatedSpan()) {
		t.Fatalf("deliver returned false")
	}

	resp, err := req.GetResponse()
	if err != nil {
		t.Fatalf("GetResponse: %v", err)
	}
	if status, ok := resp.Header(CommandStatus); !ok || string(status) != "200" {
		t.Fatalf("status header = (%q, %v), want (200, true)", status, ok)
	}
	if string(resp.Body()) != "ok" {
		t.Fatalf("Body() = %q, want ok", resp.Body())
	}

	// GetResponse is idempotent once a response has been parsed.
	second, err := req.GetResponse()
	if err != nil || second != resp {
		t.Fatalf("second GetResponse should return the cached Response")
	}
}

func TestRequestGetResponseFlagsInvalidHeaderRead(t *testing.T) {
	req := newRequest(NewFixedBuffer(make([]byte, 128)), UTF8HeaderEncoding)
	_ = req.reset(8)

	respBuf := NewFixedBuffer(make([]byte, 64))
	_ = writeMessageID(respBuf, 8)
	_ = writeHeader(respBuf, CommandAction, []byte{}) // zero bytes of value
	_ = writeBody(respBuf, []byte("ok"))

	req.wait.beginRequest()
	if !req.deliver(respBuf.AccumulatedSpan()) {
		t.Fatalf("deliver returned false")
	}

	resp, err := req.GetResponse()
	if err != nil {
		t.Fatalf("GetResponse: %v", err)
	}
	if resp.Status() != ParseInvalidHeaderRead {
		t.Fatalf("Status() = %v, want ParseInvalidHeaderRead", resp.Status())
	}
	if err := resp.ThrowIfNotSet(); err != ErrInvalidHeaderRead {
		t.Fatalf("ThrowIfNotSet() = %v, want ErrInvalidHeaderRead", err)
	}
}

func TestRequestGetResponseUnsetWithoutDelivery(t *testing.T) {
	req := newRequest(NewFixedBuffer(make([]byte, 64)), UTF8HeaderEncoding)
	_ = req.reset(1)
	req.wait.beginRequest()
	if _, err := req.GetResponse(); err != ErrUnsetResponse {
		t.Fatalf("GetResponse = %v, want ErrUnsetResponse", err)
	}
}

type releaseCountingManager struct {
	freed int
}

func (m *releaseCountingManager) Alloc(size int) []byte { return make([]byte, size) }
func (m *releaseCountingManager) Free(buf []byte)       { m.freed++ }

func TestRequestReleaseIsIdempotent(t *testing.T) {
	mgr := &releaseCountingManager{}
	req := newRequest(NewFixedBuffer(mgr.Alloc(32)), UTF8HeaderEncoding)
	_ = req.reset(1)
	req.release(mgr)
	req.release(mgr)
	if mgr.freed != 1 {
		t.Fatalf("Free called %d times, want 1", mgr.freed)
	}
}
