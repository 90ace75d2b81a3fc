// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fbm

import "context"

// recvLoop is the single reader goroutine spawned by Connect (§5 "receive
// loop"). It reassembles transport frames into logical messages, routes
// each to its pending Request by message-id, and on any exit path calls
// shutdown exactly once with the error that caused the exit (nil for a
// clean peer-initiated close).
func (c *Client) recvLoop() {
	recvBuf := make([]byte, c.cfg.RecvBufferSize)
	var cause error
	defer func() { c.shutdown(cause) }()

	for {
		n, eom, kind, err := c.transport.Receive(context.Background(), recvBuf)
		if err != nil {
			cause = err
			return
		}
		if kind == KindClose {
			return
		}
		if n <= 4 {
			c.log.Debugf("fbm: dropping frame with %d bytes, too short to carry a message id", n)
			continue
		}

		msg, oversized, err := c.reassemble(recvBuf[:n], eom)
		if err != nil {
			cause = err
			return
		}
		if oversized {
			c.log.Warnf("fbm: dropping oversized inbound message (limit %d)", c.cfg.MaxMessageSize)
			continue
		}
		c.dispatch(msg)
	}
}

// reassemble collects the remaining fragments of a logical message that
// began with first, whose end_of_message flag is eom. It reports
// oversized if the accumulated length would exceed MaxMessageSize, per
// spec.md's "dispose the buffer and resume the outer loop" rule: the
// partial message is simply dropped, not further drained.
func (c *Client) reassemble(first []byte, eom bool) (msg []byte, oversized bool, err error) {
	msg = append([]byte(nil), first...)
	for !eom {
		if c.cfg.MaxMessageSize > 0 && len(msg) > c.cfg.MaxMessageSize {
			return nil, true, nil
		}
		buf := make([]byte, c.cfg.RecvBufferSize)
		n, nextEOM, kind, rerr := c.transport.Receive(context.Background(), buf)
		if rerr != nil {
			return nil, false, rerr
		}
		if kind == KindClose {
			return nil, false, nil
		}
		msg = append(msg, buf[:n]...)
		eom = nextEOM
	}
	if c.cfg.MaxMessageSize > 0 && len(msg) > c.cfg.MaxMessageSize {
		return nil, true, nil
	}
	return msg, false, nil
}

// dispatch decodes msg's message-id line and routes the message: -500 to
// the control-frame handler, other negative or unrouted ids are dropped,
// and positive ids complete the matching pending Request's waiter.
func (c *Client) dispatch(msg []byte) {
	line, rest, found := readLine(msg)
	if !found {
		c.log.Warnf("fbm: dropping message with no message-id line")
		return
	}
	id, ok := getMessageID(line)
	if !ok {
		c.log.Warnf("fbm: dropping message with malformed message-id (%d)", id)
		return
	}
	if id == controlMsgID {
		c.cfg.ControlFrameHandler(rest)
		return
	}
	if id < 0 {
		c.log.Warnf("fbm: dropping message with reserved negative id %d", id)
		return
	}

	req, ok := c.pending.remove(id)
	if !ok {
		c.log.Warnf("fbm: dropping message for unknown or already-completed id %d", id)
		return
	}
	req.deliver(msg)
}
