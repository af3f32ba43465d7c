package proxyproto

import (
	"bytes"
	"fmt"
	"strconv"
)

// ParseV1 parses a v1 (human-readable) PROXY protocol line from buf,
// returning the number of bytes consumed (through and including the
// terminating CRLF) and the decoded PpInfo, or a *CodedError (spec.md
// §4.4).
func ParseV1(buf []byte) (int, *PpInfo, error) {
	limit := len(buf)
	if limit > v1MaxLen {
		limit = v1MaxLen
	}
	crlf := bytes.Index(buf[:limit], []byte("\r\n"))
	if crlf < 0 {
		return 0, nil, newCodedError(CodePP1CRLF, "no CRLF found within the v1 header bound")
	}
	hdrLen := crlf + 2
	line := buf[:crlf]

	if len(line) < 5 || string(line[:5]) != "PROXY" {
		return 0, nil, newCodedError(CodePP1Proxy, "missing PROXY prefix")
	}
	if len(line) == 5 || line[5] != ' ' {
		return 0, nil, newCodedError(CodePP1Space, "expected a single space after PROXY")
	}
	rest := line[6:]

	famEnd := bytes.IndexByte(rest, ' ')
	famTok := rest
	if famEnd >= 0 {
		famTok = rest[:famEnd]
	}

	info := &PpInfo{}
	switch string(famTok) {
	case "UNKNOWN":
		info.AddressFamily = AF_UNSPEC
		info.TransportProtocol = SOCK_UNSPEC
		info.Local = true
		return hdrLen, info, nil
	case "TCP4":
		info.AddressFamily = AF_INET
	case "TCP6":
		info.AddressFamily = AF_INET6
	default:
		return 0, nil, newCodedError(CodePP1TransportFamily, "unrecognized transport/family token")
	}
	info.TransportProtocol = SOCK_STREAM

	if famEnd < 0 {
		return 0, nil, newCodedError(CodePP1Space, "missing address and port fields")
	}
	rest = rest[famEnd+1:]

	srcEnd := bytes.IndexByte(rest, ' ')
	if srcEnd < 0 {
		return 0, nil, newCodedError(CodePP1Space, "missing source address")
	}
	srcTok := string(rest[:srcEnd])
	rest = rest[srcEnd+1:]

	dstEnd := bytes.IndexByte(rest, ' ')
	if dstEnd < 0 {
		return 0, nil, newCodedError(CodePP1Space, "missing destination address")
	}
	dstTok := string(rest[:dstEnd])
	rest = rest[dstEnd+1:]

	sportEnd := bytes.IndexByte(rest, ' ')
	if sportEnd < 0 {
		return 0, nil, newCodedError(CodePP1SrcPort, "missing source port")
	}
	sportTok := string(rest[:sportEnd])
	dportTok := string(rest[sportEnd+1:])

	srcCode, dstCode := CodePP1IPv4SrcIP, CodePP1IPv4DstIP
	if info.AddressFamily == AF_INET6 {
		srcCode, dstCode = CodePP1IPv6SrcIP, CodePP1IPv6DstIP
	}
	if !validateAddrText(srcTok, info.AddressFamily) {
		return 0, nil, newCodedError(srcCode, "invalid source address")
	}
	if !validateAddrText(dstTok, info.AddressFamily) {
		return 0, nil, newCodedError(dstCode, "invalid destination address")
	}
	info.SrcAddr = srcTok
	info.DstAddr = dstTok

	srcPort, ok := parseDecimalPort(sportTok)
	if !ok {
		return 0, nil, newCodedError(CodePP1SrcPort, "source port out of range")
	}
	dstPort, ok := parseDecimalPort(dportTok)
	if !ok {
		return 0, nil, newCodedError(CodePP1DstPort, "destination port out of range")
	}
	info.SrcPort = uint16(srcPort)
	info.DstPort = uint16(dstPort)

	return hdrLen, info, nil
}

// validateAddrText reports whether s is valid textual form for af,
// mirroring the symmetry SerializeV1 relies on for its own validation.
func validateAddrText(s string, af AddressFamily) bool {
	switch af {
	case AF_INET:
		_, ok := ipv4FromText(s)
		return ok
	case AF_INET6:
		_, ok := ipv6FromText(s)
		return ok
	}
	return false
}

// parseDecimalPort parses a decimal port token in (0, 65535].
func parseDecimalPort(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	if !inRange1to65535(n) {
		return 0, false
	}
	return n, true
}

// SerializeV1 encodes info as a v1 (human-readable) PROXY protocol line
// (spec.md §4.5).
func SerializeV1(info *PpInfo) ([]byte, error) {
	if info.TransportProtocol != SOCK_UNSPEC && info.TransportProtocol != SOCK_STREAM {
		return nil, newCodedError(CodePP1TransportFamily, "v1 only supports TCP or UNKNOWN")
	}

	if info.AddressFamily == AF_UNSPEC {
		return []byte("PROXY UNKNOWN\r\n"), nil
	}

	var famTok string
	switch info.AddressFamily {
	case AF_INET:
		famTok = "TCP4"
		if !validateAddrText(info.SrcAddr, AF_INET) {
			return nil, newCodedError(CodePP1IPv4SrcIP, "invalid IPv4 source address")
		}
		if !validateAddrText(info.DstAddr, AF_INET) {
			return nil, newCodedError(CodePP1IPv4DstIP, "invalid IPv4 destination address")
		}
	case AF_INET6:
		famTok = "TCP6"
		if !validateAddrText(info.SrcAddr, AF_INET6) {
			return nil, newCodedError(CodePP1IPv6SrcIP, "invalid IPv6 source address")
		}
		if !validateAddrText(info.DstAddr, AF_INET6) {
			return nil, newCodedError(CodePP1IPv6DstIP, "invalid IPv6 destination address")
		}
	default:
		return nil, newCodedError(CodePP1TransportFamily, "v1 only supports IPv4 or IPv6")
	}

	if !inRange1to65535(int(info.SrcPort)) {
		return nil, newCodedError(CodePP1SrcPort, "source port out of range")
	}
	if !inRange1to65535(int(info.DstPort)) {
		return nil, newCodedError(CodePP1DstPort, "destination port out of range")
	}

	return []byte(fmt.Sprintf("PROXY %s %s %s %d %d\r\n",
		famTok, info.SrcAddr, info.DstAddr, info.SrcPort, info.DstPort)), nil
}
