// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fbm_test

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"code.hybscloud.com/fbm"
)

func TestNewClientAppliesOptions(t *testing.T) {
	mgr := fbm.NewPooledMemoryManager()
	client := fbm.NewClient(&noopTransport{},
		fbm.WithMemoryManager(mgr),
		fbm.WithRequestTimeout(5*time.Second),
		fbm.WithMessageBufferSize(256),
		fbm.WithPoolSoftCap(2),
	)
	if client == nil {
		t.Fatalf("NewClient returned nil")
	}

	req, err := client.RentRequest()
	if err != nil {
		t.Fatalf("RentRequest: %v", err)
	}
	if req.MessageID() == 0 {
		t.Fatalf("RentRequest did not assign a message id")
	}
	// WithMessageBufferSize(256): a 256-byte body cannot fit after the
	// message-id record and end-of-headers terminator.
	if err := req.WriteBody(make([]byte, 256), ""); err != fbm.ErrBufferFull {
		t.Fatalf("WriteBody of 256 bytes = %v, want ErrBufferFull", err)
	}
	client.ReturnRequest(req)
}

func TestWithControlFrameHandlerDefaultsToDiscard(t *testing.T) {
	// A Client constructed without WithControlFrameHandler must not panic
	// when a control frame is dispatched; recv.go calls the configured
	// handler unconditionally. The control frame is queued ahead of the
	// echo reply, so a completed Send shows the receive loop dispatched it
	// and kept running.
	tr := newLoopbackTransport()
	client := fbm.NewClient(tr)
	if client == nil {
		t.Fatalf("NewClient returned nil")
	}
	if err := client.Connect(context.Background(), "ws://example.invalid/fbm", http.Header{}); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	tr.inbox <- frame{b: encodeMessageIDLine(-500), endOfMessage: true, kind: fbm.KindBinary}

	req, err := client.RentRequest()
	if err != nil {
		t.Fatalf("RentRequest: %v", err)
	}
	if err := req.WriteBody(nil, ""); err != nil {
		t.Fatalf("WriteBody: %v", err)
	}
	if _, err := client.Send(context.Background(), req); err != nil {
		t.Fatalf("Send after a control frame: %v", err)
	}
}

type noopTransport struct{}

func (noopTransport) Connect(_ context.Context, _ *url.URL, _ http.Header) error { return nil }
func (noopTransport) Send(context.Context, []byte, fbm.MessageKind, bool) error  { return nil }
func (noopTransport) Receive(context.Context, []byte) (int, bool, fbm.MessageKind, error) {
	return 0, true, fbm.KindClose, nil
}
func (noopTransport) SendPing(context.Context) error                 { return nil }
func (noopTransport) Disconnect(context.Context, int, string) error { return nil }
