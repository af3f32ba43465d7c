package proxyproto

import "bytes"

// ParseHeader peeks buf's prefix and routes to the v1 or v2 parser
// (spec.md §4.1). It returns the number of bytes consumed, 0 if buf
// does not begin with a PROXY protocol header (the caller may proceed
// without one), or an error from the closed taxonomy.
func ParseHeader(buf []byte) (int, *PpInfo, error) {
	if len(buf) >= 16 && bytes.Equal(buf[:12], v2Signature) {
		return ParseV2(buf)
	}
	if len(buf) >= 8 && bytes.Equal(buf[:5], v1Prefix[:5]) {
		return ParseV1(buf)
	}
	return 0, nil, nil
}

// CreateHeader serializes info as a PROXY protocol header of the given
// wire version.
func CreateHeader(version Version, info *PpInfo) ([]byte, error) {
	switch version {
	case Version1:
		return SerializeV1(info)
	case Version2:
		return SerializeV2(info)
	default:
		return nil, newCodedError(CodePPVersion, "version must be 1 or 2")
	}
}

// CreateHealthcheckHeader builds the shortcut v2 Local/Unspec header a
// health-check sender emits to describe itself rather than a proxied
// client.
func CreateHealthcheckHeader() ([]byte, error) {
	info := &PpInfo{
		Local:             true,
		AddressFamily:     AF_UNSPEC,
		TransportProtocol: SOCK_UNSPEC,
	}
	return SerializeV2(info)
}
