package proxyproto

// AddALPN appends an ALPN TLV (opaque bytes; spec.md §3).
func (pi *PpInfo) AddALPN(value []byte) bool {
	if len(value) > 0xFFFF {
		return false
	}
	pi.TLVs = append(pi.TLVs, TLV{Type: PP2_TYPE_ALPN, Value: cloneBytes(value)})
	return true
}

// GetALPN returns the ALPN TLV's value, if present.
func (pi *PpInfo) GetALPN() ([]byte, bool) {
	tlv, ok := pi.FirstTLV(PP2_TYPE_ALPN)
	if !ok {
		return nil, false
	}
	return tlv.Value, true
}

// AddAuthority appends an AUTHORITY TLV (UTF-8 text).
func (pi *PpInfo) AddAuthority(value []byte) bool {
	if len(value) > 0xFFFF {
		return false
	}
	pi.TLVs = append(pi.TLVs, TLV{Type: PP2_TYPE_AUTHORITY, Value: cloneBytes(value)})
	return true
}

// GetAuthority returns the AUTHORITY TLV's value, if present.
func (pi *PpInfo) GetAuthority() ([]byte, bool) {
	tlv, ok := pi.FirstTLV(PP2_TYPE_AUTHORITY)
	if !ok {
		return nil, false
	}
	return tlv.Value, true
}

// AddUniqueID appends a UNIQUE_ID TLV, rejecting payloads over 128 bytes
// (spec.md §3 invariant).
func (pi *PpInfo) AddUniqueID(value []byte) bool {
	if len(value) > 128 {
		return false
	}
	pi.TLVs = append(pi.TLVs, TLV{Type: PP2_TYPE_UNIQUE_ID, Value: cloneBytes(value)})
	return true
}

// GetUniqueID returns the UNIQUE_ID TLV's value, if present.
func (pi *PpInfo) GetUniqueID() ([]byte, bool) {
	tlv, ok := pi.FirstTLV(PP2_TYPE_UNIQUE_ID)
	if !ok {
		return nil, false
	}
	return tlv.Value, true
}

// AddNetNS appends a NETNS TLV (US-ASCII namespace name).
func (pi *PpInfo) AddNetNS(name string) bool {
	if len(name) > 0xFFFF {
		return false
	}
	pi.TLVs = append(pi.TLVs, TLV{Type: PP2_TYPE_NETNS, Value: []byte(name)})
	return true
}

// GetNetNS returns the NETNS namespace name, if present.
func (pi *PpInfo) GetNetNS() (string, bool) {
	tlv, ok := pi.FirstTLV(PP2_TYPE_NETNS)
	if !ok {
		return "", false
	}
	return sslSubString(tlv.Value), true
}
