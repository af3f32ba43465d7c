package proxyproto

import (
	"encoding/binary"
)

// Address block sizes for the v2 wire format (spec.md §4.2 step 5).
const (
	addressLengthIPv4 = 12
	addressLengthIPv6 = 36
	addressLengthUnix = 216
)

// ParseV2 parses a v2 (binary) PROXY protocol header from buf. buf must
// start at the 12-byte signature; ParseV2 does not check the signature
// itself (ParseHeader matches it before dispatching) and validates the
// header from byte 12 on. It returns the number of bytes consumed and the decoded
// PpInfo, or a *CodedError from the closed taxonomy.
func ParseV2(buf []byte) (int, *PpInfo, error) {
	if len(buf) < 16 {
		return 0, nil, newCodedError(CodePP2Length, "buffer shorter than the fixed v2 header")
	}

	verCmd := buf[12]
	if verCmd>>4 != byte(Version2) {
		return 0, nil, newCodedError(CodePP2Version, "ver nibble is not 2")
	}
	cmd := Command(verCmd & 0x0F)
	if cmd != CMD_LOCAL && cmd != CMD_PROXY {
		return 0, nil, newCodedError(CodePP2Cmd, "cmd nibble is not 0 (local) or 1 (proxy)")
	}

	famByte := buf[13]
	af := AddressFamily(famByte >> 4)
	if af > AF_UNIX {
		return 0, nil, newCodedError(CodePP2AddrFamily, "fam nibble is not 0..3")
	}
	proto := TransportProtocol(famByte & 0x0F)
	if proto > SOCK_DGRAM {
		return 0, nil, newCodedError(CodePP2TransportProtocol, "proto nibble is not 0..2")
	}

	length := int(binary.BigEndian.Uint16(buf[14:16]))
	if len(buf) < 16+length {
		return 0, nil, newCodedError(CodePP2Length, "buffer shorter than declared length")
	}
	header := buf[:16+length]
	payload := header[16:]

	var addrLen int
	switch af {
	case AF_INET:
		addrLen = addressLengthIPv4
	case AF_INET6:
		addrLen = addressLengthIPv6
	case AF_UNIX:
		addrLen = addressLengthUnix
	}
	if len(payload) < addrLen {
		return 0, nil, newCodedError(CodePP2Length, "declared length too small for address family")
	}

	info := &PpInfo{
		AddressFamily:     af,
		TransportProtocol: proto,
		Local:             cmd == CMD_LOCAL,
	}

	switch af {
	case AF_INET:
		info.SrcAddr = ipv4ToText(payload[0:4])
		info.DstAddr = ipv4ToText(payload[4:8])
		info.SrcPort = binary.BigEndian.Uint16(payload[8:10])
		info.DstPort = binary.BigEndian.Uint16(payload[10:12])
	case AF_INET6:
		info.SrcAddr = ipv6ToText(payload[0:16])
		info.DstAddr = ipv6ToText(payload[16:32])
		info.SrcPort = binary.BigEndian.Uint16(payload[32:34])
		info.DstPort = binary.BigEndian.Uint16(payload[34:36])
	case AF_UNIX:
		info.SrcAddr = parseUnixName(payload[0:108])
		info.DstAddr = parseUnixName(payload[108:216])
	}

	tlvs, cerr := parseV2TLVs(payload[addrLen:], header, 16+addrLen, info)
	if cerr != nil {
		return 0, nil, cerr
	}
	info.TLVs = tlvs

	return 16 + length, info, nil
}

// parseV2TLVs walks the TLV vectors following the address block.
// baseOffset is tlvBuf's absolute position within header, needed to
// locate the CRC32C field for masked verification.
func parseV2TLVs(tlvBuf []byte, header []byte, baseOffset int, info *PpInfo) (TLVs, *CodedError) {
	var tlvs TLVs
	n := len(tlvBuf)
	for cursor := 0; cursor < n; {
		t, length, valueOff, ok := readTLVHeader(tlvBuf[cursor:])
		if !ok {
			return nil, newCodedError(CodePP2TLVLength, "TLV length overruns remaining buffer")
		}
		valueStart := cursor + valueOff
		value := tlvBuf[valueStart : valueStart+length]

		switch t {
		case PP2_TYPE_ALPN, PP2_TYPE_AUTHORITY:
			tlvs = append(tlvs, TLV{Type: t, Value: cloneBytes(value)})

		case PP2_TYPE_UNIQUE_ID:
			if length > 128 {
				return nil, newCodedError(CodePP2TypeUniqueID, "UNIQUE_ID exceeds 128 bytes")
			}
			tlvs = append(tlvs, TLV{Type: t, Value: cloneBytes(value)})

		case PP2_TYPE_CRC32C:
			if length != 4 {
				return nil, newCodedError(CodePP2TypeCRC32C, "CRC32C TLV must carry exactly 4 bytes")
			}
			received := binary.BigEndian.Uint32(value)
			crcOffset := baseOffset + valueStart
			if !verifyCRC32c(header, crcOffset, received) {
				return nil, newCodedError(CodePP2TypeCRC32C, "CRC32C checksum mismatch")
			}
			tlvs = append(tlvs, TLV{Type: t, Value: cloneBytes(value)})
			info.CRC32C = true

		case PP2_TYPE_NOOP:
			// padding, ignored

		case PP2_TYPE_SSL:
			siblings, sslInfo, serr := parseSSLComposite(value)
			if serr != nil {
				return nil, serr
			}
			info.SSLInfo = sslInfo
			envelopeLen := sslEnvelopeMinLen
			if envelopeLen > len(value) {
				envelopeLen = len(value)
			}
			tlvs = append(tlvs, TLV{Type: t, Value: cloneBytes(value[:envelopeLen])})
			tlvs = append(tlvs, siblings...)

		case PP2_TYPE_NETNS:
			tlvs = append(tlvs, TLV{Type: t, Value: nulTerminated(value)})

		case PP2_TYPE_AWS:
			if length < 1 {
				return nil, newCodedError(CodePP2TypeAWS, "AWS TLV shorter than 1 byte")
			}
			if value[0] == PP2_SUBTYPE_AWS_VPCE_ID {
				tlvs = append(tlvs, TLV{Type: t, Value: nulTerminated(value)})
			}

		case PP2_TYPE_AZURE:
			if length < 5 {
				return nil, newCodedError(CodePP2TypeAzure, "AZURE TLV shorter than 5 bytes")
			}
			if value[0] == PP2_SUBTYPE_AZURE_PRIVATEENDPOINT_LINKID {
				tlvs = append(tlvs, TLV{Type: t, Value: cloneBytes(value)})
			}

		default:
			// unknown type: silently skip, per spec.md §7
		}

		cursor = valueStart + length
	}
	return tlvs, nil
}

// SerializeV2 encodes info as a v2 (binary) PROXY protocol header
// (spec.md §4.3): fixed header, address block, TLVs, optional NOOP
// alignment padding, optional CRC32C.
func SerializeV2(info *PpInfo) ([]byte, error) {
	var cmd Command
	if info.Local {
		cmd = CMD_LOCAL
	} else {
		cmd = CMD_PROXY
	}
	if info.AddressFamily == AF_UNSPEC && !info.Local {
		return nil, newCodedError(CodePP2Cmd, "non-local header requires a concrete address family")
	}
	if info.TransportProtocol > SOCK_DGRAM {
		return nil, newCodedError(CodePP2TransportProtocol, "transport protocol out of range")
	}

	var addrBlock []byte
	switch info.AddressFamily {
	case AF_UNSPEC:
		// no address block
	case AF_INET:
		src, ok := ipv4FromText(info.SrcAddr)
		if !ok {
			return nil, newCodedError(CodePP2IPv4SrcIP, "invalid IPv4 source address")
		}
		dst, ok := ipv4FromText(info.DstAddr)
		if !ok {
			return nil, newCodedError(CodePP2IPv4DstIP, "invalid IPv4 destination address")
		}
		addrBlock = make([]byte, addressLengthIPv4)
		copy(addrBlock[0:4], src[:])
		copy(addrBlock[4:8], dst[:])
		binary.BigEndian.PutUint16(addrBlock[8:10], info.SrcPort)
		binary.BigEndian.PutUint16(addrBlock[10:12], info.DstPort)
	case AF_INET6:
		src, ok := ipv6FromText(info.SrcAddr)
		if !ok {
			return nil, newCodedError(CodePP2IPv6SrcIP, "invalid IPv6 source address")
		}
		dst, ok := ipv6FromText(info.DstAddr)
		if !ok {
			return nil, newCodedError(CodePP2IPv6DstIP, "invalid IPv6 destination address")
		}
		addrBlock = make([]byte, addressLengthIPv6)
		copy(addrBlock[0:16], src[:])
		copy(addrBlock[16:32], dst[:])
		binary.BigEndian.PutUint16(addrBlock[32:34], info.SrcPort)
		binary.BigEndian.PutUint16(addrBlock[34:36], info.DstPort)
	case AF_UNIX:
		addrBlock = make([]byte, addressLengthUnix)
		copy(addrBlock[0:108], formatUnixName(info.SrcAddr))
		copy(addrBlock[108:216], formatUnixName(info.DstAddr))
	default:
		return nil, newCodedError(CodePP2AddrFamily, "unsupported address family")
	}

	var tlvBytes []byte
	for _, tlv := range info.TLVs {
		var cerr *CodedError
		tlvBytes, cerr = tlv.encode(tlvBytes)
		if cerr != nil {
			return nil, cerr
		}
	}

	payloadLen := len(addrBlock) + len(tlvBytes)
	if info.CRC32C {
		payloadLen += tlvHeaderLen + 4
	}

	var noopPad int
	hasPadding := false
	if info.AlignmentPower >= 2 {
		align := 1 << info.AlignmentPower
		base := 16 + payloadLen
		if rem := base % align; rem != 0 {
			padBytes := align - rem
			if padBytes < tlvHeaderLen {
				padBytes += align
			}
			noopPad = padBytes - tlvHeaderLen
			payloadLen += padBytes
			hasPadding = true
		}
	}

	if payloadLen > 0xFFFF {
		return nil, newCodedError(CodeHeapAlloc, "v2 payload exceeds 65535 bytes")
	}

	buf := make([]byte, 0, 16+payloadLen)
	buf = append(buf, v2Signature...)
	buf = append(buf, byte(Version2)<<4|byte(cmd))
	buf = append(buf, byte(info.AddressFamily)<<4|byte(info.TransportProtocol))
	var lenBuf [2]byte
	binary.BigEndian.PutUint16(lenBuf[:], uint16(payloadLen))
	buf = append(buf, lenBuf[:]...)
	buf = append(buf, addrBlock...)
	buf = append(buf, tlvBytes...)

	if hasPadding {
		noop := TLV{Type: PP2_TYPE_NOOP, Value: make([]byte, noopPad)}
		var cerr *CodedError
		buf, cerr = noop.encode(buf)
		if cerr != nil {
			return nil, cerr
		}
	}

	if info.CRC32C {
		crcOffset := len(buf) + tlvHeaderLen
		crcPlaceholder := TLV{Type: PP2_TYPE_CRC32C, Value: make([]byte, 4)}
		var cerr *CodedError
		buf, cerr = crcPlaceholder.encode(buf)
		if cerr != nil {
			return nil, cerr
		}
		sum := crc32cChecksum(buf)
		binary.BigEndian.PutUint32(buf[crcOffset:crcOffset+4], sum)
	}

	return buf, nil
}
