// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fbm

import "encoding/binary"

// HeaderCommand is the 8-bit tag identifying a header record.
type HeaderCommand uint8

const (
	CommandNotUsed     HeaderCommand = 0
	CommandMessageID   HeaderCommand = 1
	CommandLocation    HeaderCommand = 2
	CommandContentType HeaderCommand = 3
	CommandAction      HeaderCommand = 4
	CommandStatus      HeaderCommand = 5
)

// terminator is the 2-byte sequence separating header records; a lone
// terminator ends the header section.
var terminator = [2]byte{0xFF, 0xF1}

const (
	terminatorLen  = 2
	messageIDLen   = 4
	messageIDLine  = 1 + messageIDLen + terminatorLen // cmd + id + terminator
	controlMsgID   = -500
)

// Header is a decoded (command, value) pair. Value references memory
// owned by the scratch buffer it was decoded into and is valid only
// until that buffer is reset or reused.
type Header struct {
	Command HeaderCommand
	Value   []byte
}

// writeMessageID appends {MessageID, id little-endian, terminator} to
// sink. Must be the first write after a Reset.
func writeMessageID(sink *FixedBuffer, id int32) error {
	var rec [messageIDLine]byte
	rec[0] = byte(CommandMessageID)
	binary.LittleEndian.PutUint32(rec[1:1+messageIDLen], uint32(id))
	rec[1+messageIDLen] = terminator[0]
	rec[1+messageIDLen+1] = terminator[1]
	return sink.appendRecord(rec[:])
}

// writeHeader appends {cmd, value, terminator}. Fails with ErrBufferFull
// without writing a partial record if there is insufficient remaining
// capacity.
func writeHeader(sink *FixedBuffer, cmd HeaderCommand, value []byte) error {
	need := 1 + len(value) + terminatorLen
	if sink.Remaining() < need {
		return ErrBufferFull
	}
	rec := make([]byte, 0, need)
	rec = append(rec, byte(cmd))
	rec = append(rec, value...)
	rec = append(rec, terminator[0], terminator[1])
	return sink.appendRecord(rec)
}

// writeTermination appends the 2-byte terminator, closing the header
// section.
func writeTermination(sink *FixedBuffer) error {
	return sink.appendRecord(terminator[:])
}

// writeBody writes the end-of-headers terminator, closing the header
// section, and appends body bytes verbatim. It does not check whether
// the caller already closed the header section.
func writeBody(sink *FixedBuffer, body []byte) error {
	if err := writeTermination(sink); err != nil {
		return err
	}
	if sink.Remaining() < len(body) {
		return ErrBufferFull
	}
	return sink.appendRecord(body)
}

// readLine advances stream to the next terminator, returning the slice
// before it (excluding the terminator) and the remainder of stream past
// the terminator. When no terminator remains, line is empty and rest is
// the original stream — callers must treat that as "no more lines".
func readLine(stream []byte) (line, rest []byte, found bool) {
	for i := 0; i+terminatorLen <= len(stream); i++ {
		if stream[i] == terminator[0] && stream[i+1] == terminator[1] {
			return stream[:i], stream[i+terminatorLen:], true
		}
	}
	return nil, stream, false
}

// getMessageID requires len(line) >= 5 and line[0] == CommandMessageID;
// it returns the 4-byte little-endian id. It returns (-1, false) when
// the line is too short and (-2, false) when the tag is wrong, matching
// spec.md's sentinel values for malformed input.
func getMessageID(line []byte) (id int32, ok bool) {
	if len(line) < 1+messageIDLen {
		return -1, false
	}
	if HeaderCommand(line[0]) != CommandMessageID {
		return -2, false
	}
	return int32(binary.LittleEndian.Uint32(line[1 : 1+messageIDLen])), true
}

// ParseStatus flags the outcome of ParseHeaders.
type ParseStatus uint8

const (
	ParseNone ParseStatus = iota
	ParseInvalidHeaderRead
	ParseHeaderOutOfMem
)

// parseHeaders reads header lines from stream into headers, decoding
// each value's text into scratch as a sliding window (so Header.Value
// slices stay alive for the lifetime of scratch). It stops at the first
// empty line (end-of-headers) and returns the body slice that follows.
//
// parsing halts immediately on ParseHeaderOutOfMem; headers accumulated
// before the failure remain valid. A value that enc fails to decode is
// also reported as ParseHeaderOutOfMem.
func parseHeaders(stream []byte, scratch *FixedBuffer, enc *HeaderEncoding) (headers []Header, body []byte, status ParseStatus) {
	rest := stream
	for {
		line, next, found := readLine(rest)
		if !found {
			// No terminator left: treat remainder as body with headers
			// unterminated. This only happens on malformed input; the
			// wire invariant guarantees an empty line always precedes
			// the body.
			return headers, rest, status
		}
		rest = next
		if len(line) == 0 {
			// End-of-headers.
			return headers, rest, status
		}
		if len(line) < 2 {
			status = ParseInvalidHeaderRead
			return headers, rest, status
		}
		cmd := HeaderCommand(line[0])
		rawValue := line[1:]
		decoded, err := enc.Decode(rawValue)
		if err != nil {
			status = ParseHeaderOutOfMem
			return headers, rest, status
		}
		dst, err := scratch.claimScratch(len(decoded))
		if err != nil {
			status = ParseHeaderOutOfMem
			return headers, rest, status
		}
		copy(dst, decoded)
		headers = append(headers, Header{Command: cmd, Value: dst})
	}
}
