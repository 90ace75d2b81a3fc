// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fbm

import "sync"

// pendingMap is the id -> in-flight request table used to route inbound
// responses. It is safe for concurrent use by many senders and the
// single receive loop. The map holds only a back-reference to the
// request for delivery purposes; ownership of the Request itself stays
// with its caller and is cleared from the map on completion or
// cancellation.
type pendingMap struct {
	m sync.Map // int32 -> *Request
}

// insertUnique inserts req under id, failing with ErrDuplicateMessageID
// if id is already present.
func (p *pendingMap) insertUnique(id int32, req *Request) error {
	_, loaded := p.m.LoadOrStore(id, req)
	if loaded {
		return ErrDuplicateMessageID
	}
	return nil
}

// remove deletes id from the map and returns the request that was
// stored there, if any.
func (p *pendingMap) remove(id int32) (*Request, bool) {
	v, ok := p.m.LoadAndDelete(id)
	if !ok {
		return nil, false
	}
	return v.(*Request), true
}

// valuesSnapshot returns the requests currently pending. It is built
// with sync.Map.Range, so it is not a consistent point-in-time snapshot:
// entries inserted or removed while it runs may or may not appear.
func (p *pendingMap) valuesSnapshot() []*Request {
	var out []*Request
	p.m.Range(func(_, v any) bool {
		out = append(out, v.(*Request))
		return true
	})
	return out
}

// clear removes every entry from the map.
func (p *pendingMap) clear() {
	p.m.Range(func(k, _ any) bool {
		p.m.Delete(k)
		return true
	})
}
