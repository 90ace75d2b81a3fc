// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fbm_test

import (
	"testing"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"code.hybscloud.com/fbm"
)

func TestUTF8HeaderEncodingRoundTrip(t *testing.T) {
	wire, err := fbm.UTF8HeaderEncoding.Encode("héllo")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	text, err := fbm.UTF8HeaderEncoding.Decode(wire)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if string(text) != "héllo" {
		t.Fatalf("round trip = %q, want héllo", text)
	}
}

func TestUTF16HeaderEncodingRoundTrip(t *testing.T) {
	enc := fbm.NewHeaderEncoding(unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM))
	wire, err := enc.Encode("widgets")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	text, err := enc.Decode(wire)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if string(text) != "widgets" {
		t.Fatalf("round trip = %q, want widgets", text)
	}
}

func TestHeaderEncodingRejectsUnrepresentableValue(t *testing.T) {
	enc := fbm.NewHeaderEncoding(charmap.ISO8859_1)
	if _, err := enc.Encode("日本語"); err != fbm.ErrHeaderEncoding {
		t.Fatalf("Encode of a non-Latin-1 value = %v, want ErrHeaderEncoding", err)
	}
}
