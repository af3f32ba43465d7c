package proxyproto

import (
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
)

type (
	Version           byte // Version 1 or 2
	Command           byte // v2 only: Local or Proxy
	AddressFamily     byte // Unspec, IPv4, IPv6 or Unix
	TransportProtocol byte // Unspec, TCP (stream) or UDP (datagram)
)

const (
	Version1 Version = 0x1 // Version 1
	Version2 Version = 0x2 // Version 2

	CMD_LOCAL Command = 0x0 // sender's own address, e.g. a health check
	CMD_PROXY Command = 0x1 // conveys the original client's address

	AF_UNSPEC AddressFamily = 0x0 // Unspec
	AF_INET   AddressFamily = 0x1 // IPv4
	AF_INET6  AddressFamily = 0x2 // IPv6
	AF_UNIX   AddressFamily = 0x3 // Unix

	SOCK_UNSPEC TransportProtocol = 0x0 // Unspec
	SOCK_STREAM TransportProtocol = 0x1 // TCP
	SOCK_DGRAM  TransportProtocol = 0x2 // UDP

	Unknown string = "Unknown" // Unknown value
)

// unixPathLen is the fixed width of a v2 UNIX address field (src or dst).
const unixPathLen = 108

// v1MaxLen is the largest a v1 header line may be, CRLF included
// (worst case: "PROXY UNKNOWN " + two full 39-character IPv6 addresses +
// two 5-digit ports, space-separated, + CRLF).
const v1MaxLen = 107

var (
	v1Prefix = []byte("PROXY ")
	// v2 signature: \x0D\x0A\x0D\x0A\x00\x0D\x0A\x51\x55\x49\x54\x0A
	v2Signature = []byte("\r\n\r\n\x00\r\nQUIT\n")
)

// SslInfo is the flattened view of the SSL composite TLV's client
// bitfield and verify word (spec.md §3, SslInfo).
type SslInfo struct {
	SSL              bool // bit 0 of client: client connected over SSL/TLS
	CertInConnection bool // bit 1 of client: client sent a cert on this connection
	CertInSession    bool // bit 2 of client: client sent a cert at least once in the TLS session
	CertVerified     bool // true iff the sender's verify word was exactly zero
}

// PpInfo is the neutral, version-agnostic representation of a parsed or
// to-be-serialized PROXY protocol header.
type PpInfo struct {
	AddressFamily     AddressFamily
	TransportProtocol TransportProtocol
	Local             bool // v2 Local command, or v1 "UNKNOWN"

	SrcAddr string // textual form: dotted-quad, IPv6, or UNIX path
	DstAddr string
	SrcPort uint16
	DstPort uint16

	SSLInfo SslInfo

	CRC32C bool // present on parse, or requested on serialize

	// AlignmentPower, when >= 2, asks the v2 serializer to pad the
	// header with a single NOOP TLV so its total length is a multiple
	// of 1<<AlignmentPower. 0 or 1 disables padding.
	AlignmentPower uint8

	TLVs TLVs
}

// Clear releases every TLV owned by info, restoring it to its zero
// value. PpInfo holds exclusive ownership of its TLV sequence.
func (pi *PpInfo) Clear() {
	*pi = PpInfo{}
}

// FirstTLV returns the first TLV of the given type, and whether one was
// found. It backs the typed accessors in builder.go.
func (pi *PpInfo) FirstTLV(t PP2Type) (TLV, bool) {
	if pi == nil {
		return TLV{}, false
	}
	for _, tlv := range pi.TLVs {
		if tlv.Type == t {
			return tlv, true
		}
	}
	return TLV{}, false
}

func (v Version) String() string {
	switch v {
	case Version1:
		return "V1"
	case Version2:
		return "V2"
	}
	return Unknown
}

func (c Command) String() string {
	switch c {
	case CMD_LOCAL:
		return "LOCAL"
	case CMD_PROXY:
		return "PROXY"
	}
	return Unknown
}

func (af AddressFamily) String() string {
	switch af {
	case AF_UNSPEC:
		return "UNSPEC"
	case AF_INET:
		return "IPv4"
	case AF_INET6:
		return "IPv6"
	case AF_UNIX:
		return "Unix"
	}
	return Unknown
}

func (tp TransportProtocol) String() string {
	switch tp {
	case SOCK_UNSPEC:
		return "UNSPEC"
	case SOCK_STREAM:
		return "TCP"
	case SOCK_DGRAM:
		return "UDP"
	}
	return Unknown
}

// ZapFields renders info as structured zap fields, generalizing the
// teacher's Header.ZapFields to the version-agnostic PpInfo.
func (pi *PpInfo) ZapFields() []zap.Field {
	fields := make([]zap.Field, 0, 8)
	fields = append(fields,
		zap.String("address_family", pi.AddressFamily.String()),
		zap.String("transport_protocol", pi.TransportProtocol.String()),
		zap.Bool("local", pi.Local),
		zap.String("source_address", pi.SrcAddr),
		zap.Uint16("source_port", pi.SrcPort),
		zap.String("destination_address", pi.DstAddr),
		zap.Uint16("destination_port", pi.DstPort),
		zap.Bool("crc32c", pi.CRC32C),
	)
	if pi.SSLInfo.SSL {
		fields = append(fields, zap.Bool("ssl_verified", pi.SSLInfo.CertVerified))
	}
	if len(pi.TLVs) > 0 {
		fields = append(fields, zap.String("tlv_groups", pi.TLVs.String()))
	}
	return fields
}

// LogrusFields mirrors ZapFields for callers using logrus.
func (pi *PpInfo) LogrusFields() logrus.Fields {
	fields := logrus.Fields{
		"address_family":      pi.AddressFamily.String(),
		"transport_protocol":  pi.TransportProtocol.String(),
		"local":               pi.Local,
		"source_address":      pi.SrcAddr,
		"source_port":         pi.SrcPort,
		"destination_address": pi.DstAddr,
		"destination_port":    pi.DstPort,
		"crc32c":              pi.CRC32C,
	}
	if pi.SSLInfo.SSL {
		fields["ssl_verified"] = pi.SSLInfo.CertVerified
	}
	if len(pi.TLVs) > 0 {
		fields["tlv_groups"] = pi.TLVs.String()
	}
	return fields
}
