package proxyproto

import (
	"bytes"
	"net"
	"strings"
)

// inRange1to65535 implements the v1/v2 port invariant: a port of 0 is
// always rejected, 65535 is always accepted.
func inRange1to65535(port int) bool {
	return port > 0 && port <= 0xFFFF
}

// ipv4ToText is the inet_ntop equivalent for IPv4: 4 raw bytes to dotted-quad text.
func ipv4ToText(b []byte) string {
	return net.IPv4(b[0], b[1], b[2], b[3]).String()
}

// ipv4FromText is the inet_pton equivalent for IPv4: dotted-quad text to 4 raw bytes.
func ipv4FromText(s string) ([4]byte, bool) {
	var out [4]byte
	ip := net.ParseIP(s)
	if ip == nil {
		return out, false
	}
	v4 := ip.To4()
	if v4 == nil {
		return out, false
	}
	copy(out[:], v4)
	return out, true
}

// ipv6ToText is the inet_ntop equivalent for IPv6. IPv4-mapped addresses
// are rendered as "::ffff:a.b.c.d" rather than as bare dotted-quad text.
func ipv6ToText(b []byte) string {
	ip := net.IP(b)
	if v4 := ip.To4(); v4 != nil {
		return "::ffff:" + v4.String()
	}
	return ip.String()
}

// ipv6FromText is the inet_pton equivalent for IPv6: bare dotted-quad
// IPv4 text (no ':') is rejected; IPv6 text, including IPv4-mapped forms
// such as "::ffff:1.2.3.4", is accepted.
func ipv6FromText(s string) ([16]byte, bool) {
	var out [16]byte
	if !strings.Contains(s, ":") {
		return out, false
	}
	ip := net.ParseIP(s)
	if ip == nil {
		return out, false
	}
	v6 := ip.To16()
	if v6 == nil {
		return out, false
	}
	copy(out[:], v6)
	return out, true
}

// parseUnixName extracts the NUL-terminated (or full-width) path text
// from a fixed unixPathLen field.
func parseUnixName(field []byte) string {
	if i := bytes.IndexByte(field, 0); i >= 0 {
		return string(field[:i])
	}
	return string(field)
}

// formatUnixName writes name into a fixed unixPathLen field, truncating
// or zero-padding as needed.
func formatUnixName(name string) []byte {
	out := make([]byte, unixPathLen)
	n := copy(out, name)
	_ = n
	return out
}
