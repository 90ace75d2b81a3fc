// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fbm

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

// HeaderEncoding is the configurable text encoding (header-encoding,
// §6) used for header values. The default is UTF-8, which never fails
// to round-trip any value that does not contain the 2-byte terminator
// sequence.
type HeaderEncoding struct {
	enc encoding.Encoding
}

// UTF8HeaderEncoding is the default header-encoding.
var UTF8HeaderEncoding = &HeaderEncoding{enc: unicode.UTF8}

// NewHeaderEncoding wraps an arbitrary golang.org/x/text/encoding.Encoding
// for use as header-encoding, e.g. unicode.UTF16(unicode.LittleEndian,
// unicode.IgnoreBOM) for a UTF-16 peer.
func NewHeaderEncoding(enc encoding.Encoding) *HeaderEncoding {
	return &HeaderEncoding{enc: enc}
}

// Encode converts text to wire bytes, failing with ErrHeaderEncoding if
// text cannot be represented under the configured encoding.
func (h *HeaderEncoding) Encode(text string) ([]byte, error) {
	out, err := h.enc.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, ErrHeaderEncoding
	}
	return out, nil
}

// Decode converts wire bytes to text, failing with ErrHeaderEncoding if
// the bytes are not valid under the configured encoding.
func (h *HeaderEncoding) Decode(wire []byte) ([]byte, error) {
	out, err := h.enc.NewDecoder().Bytes(wire)
	if err != nil {
		return nil, ErrHeaderEncoding
	}
	return out, nil
}
