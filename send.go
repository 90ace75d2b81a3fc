// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fbm

import (
	"context"
	"io"
	"time"
)

func (c *Client) acquireSendLock(ctx context.Context) error {
	select {
	case c.sendLock <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) releaseSendLock() { <-c.sendLock }

// beginSend runs the common prefix of Send and SendStream: validate the
// request, insert it into the pending map, and arm its waiter.
func (c *Client) beginSend(req *Request) error {
	if err := req.validate(); err != nil {
		return err
	}
	if !c.Connected() {
		return ErrNotConnected
	}
	if err := c.pending.insertUnique(req.id, req); err != nil {
		return err
	}
	req.wait.beginRequest()
	req.state = stateInFlight
	return nil
}

// Send performs a unary send/await cycle (§4.6). On success it returns
// the parsed Response; req.GetResponse also remains valid until req is
// Reset or returned to its Pool.
func (c *Client) Send(ctx context.Context, req *Request) (*Response, error) {
	return c.sendWithTimeout(ctx, req, c.cfg.RequestTimeout)
}

// SendWithTimeout is Send with a per-call timeout overriding
// Config.RequestTimeout. A zero timeout disables the deadline.
func (c *Client) SendWithTimeout(ctx context.Context, req *Request, timeout time.Duration) (*Response, error) {
	return c.sendWithTimeout(ctx, req, timeout)
}

func (c *Client) sendWithTimeout(ctx context.Context, req *Request, timeout time.Duration) (*Response, error) {
	if err := c.beginSend(req); err != nil {
		return nil, err
	}

	if err := c.acquireSendLock(ctx); err != nil {
		c.pending.remove(req.id)
		req.wait.endRequest()
		return nil, err
	}
	err := c.transport.Send(ctx, req.RequestData(), KindBinary, true)
	c.releaseSendLock()
	if err != nil {
		c.pending.remove(req.id)
		req.wait.endRequest()
		return nil, err
	}

	defer req.wait.endRequest()
	if _, err := req.wait.wait(ctx, timeout); err != nil {
		c.pending.remove(req.id)
		return nil, err
	}
	return req.GetResponse()
}

// SendStream performs a streaming send (§4.6): the request's built
// headers (and, once closed, any inline body) are sent as the first
// frame, followed by repeated reads from src chunked through the
// Client's shared stream buffer.
//
// end_of_message on the last outbound frame follows the source
// contract exactly, per spec.md §4.6/§9: a frame is marked
// end_of_message only when the read that filled it under-filled the
// buffer. A src whose total length is an exact multiple of the stream
// buffer size ends on a final zero-length read with no end-marked
// frame for the last full chunk — this is preserved intentionally, not
// a bug.
func (c *Client) SendStream(ctx context.Context, req *Request, src io.Reader, contentType string) (*Response, error) {
	if !req.bodyOpen {
		if contentType != "" {
			if err := req.WriteHeader(CommandContentType, contentType); err != nil {
				return nil, err
			}
		}
		if err := writeTermination(req.buf); err != nil {
			return nil, err
		}
		req.bodyOpen = true
	}

	if err := c.beginSend(req); err != nil {
		return nil, err
	}

	if err := c.acquireSendLock(ctx); err != nil {
		c.pending.remove(req.id)
		req.wait.endRequest()
		return nil, err
	}

	sendErr := func() error {
		if err := c.transport.Send(ctx, req.RequestData(), KindBinary, false); err != nil {
			return err
		}
		for {
			n, err := src.Read(c.streamBuf)
			if n > 0 {
				endOfMessage := n < len(c.streamBuf)
				if werr := c.transport.Send(ctx, c.streamBuf[:n], KindBinary, endOfMessage); werr != nil {
					return werr
				}
			}
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return err
			}
			if n == 0 {
				return nil
			}
		}
	}()
	c.releaseSendLock()

	if sendErr != nil {
		c.pending.remove(req.id)
		req.wait.endRequest()
		return nil, sendErr
	}

	defer req.wait.endRequest()
	if _, err := req.wait.wait(ctx, c.cfg.RequestTimeout); err != nil {
		c.pending.remove(req.id)
		return nil, err
	}
	return req.GetResponse()
}
