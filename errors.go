package proxyproto

import (
	"fmt"

	"github.com/pkg/errors"
)

// Code identifies a member of the closed PROXY protocol error taxonomy.
// Every failure the codec can produce maps to exactly one Code; unknown
// TLV types and unknown AWS/AZURE subtypes are not errors at all, they
// are silently skipped or ignored per spec.
type Code int

const (
	CodeNone Code = iota

	CodePPVersion // builder called with a version other than 1 or 2

	CodePP2Version
	CodePP2Cmd
	CodePP2AddrFamily
	CodePP2TransportProtocol
	CodePP2Length

	CodePP2IPv4SrcIP
	CodePP2IPv4DstIP
	CodePP2IPv6SrcIP
	CodePP2IPv6DstIP

	CodePP2TLVLength
	CodePP2TypeCRC32C
	CodePP2TypeSSL
	CodePP2TypeUniqueID
	CodePP2TypeAWS
	CodePP2TypeAzure

	CodePP1CRLF
	CodePP1Proxy
	CodePP1Space
	CodePP1TransportFamily
	CodePP1IPv4SrcIP
	CodePP1IPv6SrcIP
	CodePP1IPv4DstIP
	CodePP1IPv6DstIP
	CodePP1SrcPort
	CodePP1DstPort

	CodeHeapAlloc
)

var codeStrings = map[Code]string{
	CodeNone:                 "no error",
	CodePPVersion:            "unsupported PROXY protocol version",
	CodePP2Version:           "pp2: unsupported version nibble",
	CodePP2Cmd:               "pp2: unsupported command nibble",
	CodePP2AddrFamily:        "pp2: unsupported address family nibble",
	CodePP2TransportProtocol: "pp2: unsupported transport protocol nibble",
	CodePP2Length:            "pp2: declared length is invalid for the buffer or address family",
	CodePP2IPv4SrcIP:         "pp2: invalid IPv4 source address",
	CodePP2IPv4DstIP:         "pp2: invalid IPv4 destination address",
	CodePP2IPv6SrcIP:         "pp2: invalid IPv6 source address",
	CodePP2IPv6DstIP:         "pp2: invalid IPv6 destination address",
	CodePP2TLVLength:         "pp2: TLV length overruns the remaining buffer",
	CodePP2TypeCRC32C:        "pp2: CRC32C TLV has the wrong length or fails checksum",
	CodePP2TypeSSL:           "pp2: malformed SSL composite TLV",
	CodePP2TypeUniqueID:      "pp2: UNIQUE_ID TLV exceeds 128 bytes",
	CodePP2TypeAWS:           "pp2: AWS TLV shorter than 1 byte",
	CodePP2TypeAzure:         "pp2: AZURE TLV shorter than 5 bytes",
	CodePP1CRLF:              "pp1: header is not terminated by CRLF",
	CodePP1Proxy:             "pp1: missing PROXY prefix",
	CodePP1Space:             "pp1: expected single space separator",
	CodePP1TransportFamily:   "pp1: unrecognized transport family token",
	CodePP1IPv4SrcIP:         "pp1: invalid IPv4 source address",
	CodePP1IPv6SrcIP:         "pp1: invalid IPv6 source address",
	CodePP1IPv4DstIP:         "pp1: invalid IPv4 destination address",
	CodePP1IPv6DstIP:         "pp1: invalid IPv6 destination address",
	CodePP1SrcPort:           "pp1: source port out of range",
	CodePP1DstPort:           "pp1: destination port out of range",
	CodeHeapAlloc:            "allocation failed",
}

// String implements the language-neutral strerror(code) operation.
func (c Code) String() string {
	if s, ok := codeStrings[c]; ok {
		return s
	}
	return fmt.Sprintf("unknown error code %d", int(c))
}

// Strerror maps an error produced by this package to its taxonomy
// message. Other errors are rendered via their Error() text.
func Strerror(err error) string {
	if err == nil {
		return CodeNone.String()
	}
	var ce *CodedError
	if errors.As(err, &ce) {
		return ce.Code.String()
	}
	return err.Error()
}

// CodedError pairs a closed taxonomy Code with the underlying,
// context-wrapped error (via github.com/pkg/errors) that produced it.
type CodedError struct {
	Code Code
	err  error
}

func newCodedError(code Code, msg string) *CodedError {
	return &CodedError{Code: code, err: errors.New(msg)}
}

func wrapCodedError(code Code, err error, msg string) *CodedError {
	return &CodedError{Code: code, err: errors.Wrap(err, msg)}
}

func (e *CodedError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s", e.Code.String(), e.err.Error())
	}
	return e.Code.String()
}

func (e *CodedError) Unwrap() error { return e.err }

// ErrorCode extracts the taxonomy Code from any error returned by this
// package, or CodeNone if err is nil, or (CodeNone, false) if err does
// not originate here.
func ErrorCode(err error) (Code, bool) {
	if err == nil {
		return CodeNone, true
	}
	var ce *CodedError
	if errors.As(err, &ce) {
		return ce.Code, true
	}
	return CodeNone, false
}
