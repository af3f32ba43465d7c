package proxyproto

import (
	"encoding/binary"
)

// sslEnvelopeMinLen is len(client) + len(verify): the composite's
// fixed-size prefix before any sub-TLVs.
const sslEnvelopeMinLen = 1 + 4

const (
	sslBitSSL      = 0x01
	sslBitCertConn = 0x02
	sslBitCertSess = 0x04
)

// parseSSLComposite decodes the SSL TLV's value (spec.md §3, §4.2 step 6):
// client byte, verify word, then sub-TLVs. The sub-TLVs are returned
// flattened as siblings, to be appended immediately after the envelope
// TLV in PpInfo.TLVs.
func parseSSLComposite(value []byte) (TLVs, SslInfo, *CodedError) {
	if len(value) < sslEnvelopeMinLen {
		return nil, SslInfo{}, newCodedError(CodePP2TypeSSL, "SSL TLV shorter than client+verify")
	}
	client := value[0]
	verify := binary.BigEndian.Uint32(value[1:5])

	info := SslInfo{
		SSL:              client&sslBitSSL != 0,
		CertInConnection: client&sslBitCertConn != 0,
		CertInSession:    client&sslBitCertSess != 0,
		CertVerified:     verify == 0,
	}

	rest := value[5:]
	var sibling TLVs
	versionSeen := false
	for cursor := 0; cursor < len(rest); {
		t, length, valueOff, ok := readTLVHeader(rest[cursor:])
		if !ok {
			return nil, SslInfo{}, newCodedError(CodePP2TypeSSL, "SSL sub-TLV length overruns payload")
		}
		valueStart := cursor + valueOff
		sub := rest[valueStart : valueStart+length]

		switch t {
		case PP2_SUBTYPE_SSL_VERSION, PP2_SUBTYPE_SSL_CIPHER, PP2_SUBTYPE_SSL_SIG_ALG, PP2_SUBTYPE_SSL_KEY_ALG:
			sibling = append(sibling, TLV{Type: t, Value: nulTerminated(sub)})
			if t == PP2_SUBTYPE_SSL_VERSION {
				versionSeen = true
			}
		case PP2_SUBTYPE_SSL_CN:
			sibling = append(sibling, TLV{Type: t, Value: cloneBytes(sub)})
		default:
			return nil, SslInfo{}, newCodedError(CodePP2TypeSSL, "unrecognized SSL sub-TLV type")
		}
		cursor = valueStart + length
	}

	if info.SSL && !versionSeen {
		return nil, SslInfo{}, newCodedError(CodePP2TypeSSL, "SSL bit set without a VERSION sub-TLV")
	}
	return sibling, info, nil
}

// AddSSL composes the SSL composite TLV (client byte, verify word, then the
// encoded sub-TLVs) from the info's SslInfo flags and the given sub-field
// strings, and appends that TLV followed by its sub-TLVs as siblings to
// pi.TLVs (spec.md §4.6).
// Empty sub-fields are skipped, matching "skipping those whose length is 0".
func (pi *PpInfo) AddSSL(version, cipher, sigAlg, keyAlg, cn string) bool {
	var client byte
	if pi.SSLInfo.SSL {
		client |= sslBitSSL
	}
	if pi.SSLInfo.CertInConnection {
		client |= sslBitCertConn
	}
	if pi.SSLInfo.CertInSession {
		client |= sslBitCertSess
	}
	var verify uint32
	if !pi.SSLInfo.CertVerified {
		verify = 1
	}

	type subField struct {
		t PP2Type
		v string
	}
	subs := []subField{
		{PP2_SUBTYPE_SSL_VERSION, version},
		{PP2_SUBTYPE_SSL_CIPHER, cipher},
		{PP2_SUBTYPE_SSL_SIG_ALG, sigAlg},
		{PP2_SUBTYPE_SSL_KEY_ALG, keyAlg},
		{PP2_SUBTYPE_SSL_CN, cn},
	}

	envelope := make([]byte, sslEnvelopeMinLen)
	envelope[0] = client
	binary.BigEndian.PutUint32(envelope[1:5], verify)

	var siblings TLVs
	for _, sf := range subs {
		if len(sf.v) == 0 {
			continue
		}
		if len(sf.v) > 0xFFFF {
			return false
		}
		siblings = append(siblings, TLV{Type: sf.t, Value: []byte(sf.v)})
	}
	for _, sib := range siblings {
		var cerr *CodedError
		if envelope, cerr = sib.encode(envelope); cerr != nil {
			return false
		}
	}
	if len(envelope) > 0xFFFF {
		return false
	}

	pi.TLVs = append(pi.TLVs, TLV{Type: PP2_TYPE_SSL, Value: envelope})
	pi.TLVs = append(pi.TLVs, siblings...)
	return true
}

// sslSubString strips a trailing NUL terminator, if present, so getters
// return the same string whether the SSL sub-TLV came from a parsed
// header (terminator added at parse time for C-string compatibility) or
// from AddSSL (no terminator, matching the wire format exactly).
func sslSubString(v []byte) string {
	if n := len(v); n > 0 && v[n-1] == 0 {
		return string(v[:n-1])
	}
	return string(v)
}

// GetSSLVersion returns the SSL_VERSION sub-field, if present.
func (pi *PpInfo) GetSSLVersion() (string, bool) {
	tlv, ok := pi.FirstTLV(PP2_SUBTYPE_SSL_VERSION)
	if !ok {
		return "", false
	}
	return sslSubString(tlv.Value), true
}

// GetSSLCipher returns the SSL_CIPHER sub-field, if present.
func (pi *PpInfo) GetSSLCipher() (string, bool) {
	tlv, ok := pi.FirstTLV(PP2_SUBTYPE_SSL_CIPHER)
	if !ok {
		return "", false
	}
	return sslSubString(tlv.Value), true
}

// GetSSLSigAlg returns the SSL_SIG_ALG sub-field, if present.
func (pi *PpInfo) GetSSLSigAlg() (string, bool) {
	tlv, ok := pi.FirstTLV(PP2_SUBTYPE_SSL_SIG_ALG)
	if !ok {
		return "", false
	}
	return sslSubString(tlv.Value), true
}

// GetSSLKeyAlg returns the SSL_KEY_ALG sub-field, if present.
func (pi *PpInfo) GetSSLKeyAlg() (string, bool) {
	tlv, ok := pi.FirstTLV(PP2_SUBTYPE_SSL_KEY_ALG)
	if !ok {
		return "", false
	}
	return sslSubString(tlv.Value), true
}

// GetSSLCN returns the SSL_CN (Common Name) sub-field, if present. Unlike
// the other SSL sub-fields this is UTF-8 and carries no terminator.
func (pi *PpInfo) GetSSLCN() (string, bool) {
	tlv, ok := pi.FirstTLV(PP2_SUBTYPE_SSL_CN)
	if !ok {
		return "", false
	}
	return string(tlv.Value), true
}
