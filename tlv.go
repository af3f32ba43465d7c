package proxyproto

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// PP2Type identifies a v2 TLV's <type> byte.
type PP2Type byte

// The following types have already been registered for the <type> field:
const (
	PP2_TYPE_ALPN           PP2Type = 0x01
	PP2_TYPE_AUTHORITY      PP2Type = 0x02
	PP2_TYPE_CRC32C         PP2Type = 0x03
	PP2_TYPE_NOOP           PP2Type = 0x04
	PP2_TYPE_UNIQUE_ID      PP2Type = 0x05
	PP2_TYPE_SSL            PP2Type = 0x20
	PP2_SUBTYPE_SSL_VERSION PP2Type = 0x21
	PP2_SUBTYPE_SSL_CN      PP2Type = 0x22
	PP2_SUBTYPE_SSL_CIPHER  PP2Type = 0x23
	PP2_SUBTYPE_SSL_SIG_ALG PP2Type = 0x24
	PP2_SUBTYPE_SSL_KEY_ALG PP2Type = 0x25
	PP2_TYPE_NETNS          PP2Type = 0x30
	PP2_TYPE_AWS            PP2Type = 0xEA
	PP2_TYPE_AZURE          PP2Type = 0xEE
)

// Cloud TLV subtypes, carried in value[0] (spec.md §3).
const (
	PP2_SUBTYPE_AWS_VPCE_ID                  = 0x01
	PP2_SUBTYPE_AZURE_PRIVATEENDPOINT_LINKID = 0x01
)

// TLV is a single Type-Length-Value record: {type: u8, length: u16, value: bytes}.
type TLV struct {
	Type  PP2Type
	Value []byte
}

// Length returns len(Value); it is not clamped to what fits a u16.
func (tlv TLV) Length() int { return len(tlv.Value) }

// TLVs is an ordered, append-only sequence of TLV records.
type TLVs []TLV

// tlvHeaderLen is the fixed {type,length} prefix of every TLV record.
const tlvHeaderLen = 3

// readTLVHeader reads the type and length of the TLV starting at buf[0],
// returning them along with the offset of its value. It only validates
// framing (spec.md §3 invariant: "3 <= stored size <= remaining"); the
// caller applies type-specific semantics.
func readTLVHeader(buf []byte) (t PP2Type, length int, valueOff int, ok bool) {
	if len(buf) < tlvHeaderLen {
		return 0, 0, 0, false
	}
	t = PP2Type(buf[0])
	length = int(binary.BigEndian.Uint16(buf[1:3]))
	if tlvHeaderLen+length > len(buf) {
		return 0, 0, 0, false
	}
	return t, length, tlvHeaderLen, true
}

// splitTLVs decodes buf as a flat, uniformly-framed TLV sequence with no
// type-specific handling. The SSL composite's sub-TLV walk in ssl.go does
// not call it; it walks its payload inline.
func splitTLVs(buf []byte) (TLVs, *CodedError) {
	var out TLVs
	for cursor := 0; cursor < len(buf); {
		t, length, valueOff, ok := readTLVHeader(buf[cursor:])
		if !ok {
			return nil, newCodedError(CodePP2TLVLength, "sub-TLV length overruns remaining buffer")
		}
		value := make([]byte, length)
		copy(value, buf[cursor+valueOff:cursor+valueOff+length])
		out = append(out, TLV{Type: t, Value: value})
		cursor += valueOff + length
	}
	return out, nil
}

// encode appends the wire form of tlv (type, big-endian length, value) to dst.
func (tlv TLV) encode(dst []byte) ([]byte, *CodedError) {
	if len(tlv.Value) > math.MaxUint16 {
		return nil, newCodedError(CodeHeapAlloc, "TLV value exceeds 65535 bytes")
	}
	dst = append(dst, byte(tlv.Type))
	var lenBuf [2]byte
	binary.BigEndian.PutUint16(lenBuf[:], uint16(len(tlv.Value)))
	dst = append(dst, lenBuf[:]...)
	dst = append(dst, tlv.Value...)
	return dst, nil
}

// cloneBytes returns an independent copy of b, so a TLV's stored Value
// never aliases the caller's input buffer.
func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// nulTerminated clones b and appends a single NUL byte, the storage
// convention parse uses for US-ASCII sub-fields (SSL sub-TLVs, NETNS,
// AWS VPCE ID) so getters can hand back C-string-compatible buffers.
func nulTerminated(b []byte) []byte {
	out := make([]byte, len(b)+1)
	copy(out, b)
	return out
}

// isSSLSubtype reports whether t is one of the SSL composite's
// recognized sub-TLV types, which are flattened as siblings in PpInfo.TLVs
// immediately after the SSL envelope they came from.
func (t PP2Type) isSSLSubtype() bool {
	switch t {
	case PP2_SUBTYPE_SSL_VERSION, PP2_SUBTYPE_SSL_CN, PP2_SUBTYPE_SSL_CIPHER,
		PP2_SUBTYPE_SSL_SIG_ALG, PP2_SUBTYPE_SSL_KEY_ALG:
		return true
	}
	return false
}

func (tlv TLV) String() string {
	return fmt.Sprintf("[type:0x%02x,length:%d,value:%q]", byte(tlv.Type), len(tlv.Value), tlv.Value)
}

// String renders the TLV sequence for logging, skipping the SSL envelope
// and its flattened sub-TLVs (reported instead via PpInfo.SSLInfo) to
// avoid duplicating certificate material in logs.
func (s TLVs) String() string {
	if len(s) == 0 {
		return ""
	}

	var fields []string
	for _, tlv := range s {
		if tlv.Type == PP2_TYPE_SSL || tlv.Type.isSSLSubtype() {
			continue
		}
		fields = append(fields, tlv.String())
	}
	return strings.Join(fields, ",")
}
