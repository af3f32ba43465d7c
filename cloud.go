package proxyproto

import "encoding/binary"

// AddAWSVPCEID appends the AWS VPC endpoint ID TLV (type 0xEA, subtype
// 0x01), grounded on pires-go-proxyproto's tlvparse/aws.go framing: the
// subtype byte is carried inside the value, ahead of the ASCII ID text.
func (pi *PpInfo) AddAWSVPCEID(vpceID string) bool {
	if len(vpceID)+1 > 0xFFFF {
		return false
	}
	value := make([]byte, 0, len(vpceID)+1)
	value = append(value, PP2_SUBTYPE_AWS_VPCE_ID)
	value = append(value, []byte(vpceID)...)
	pi.TLVs = append(pi.TLVs, TLV{Type: PP2_TYPE_AWS, Value: value})
	return true
}

// GetAWSVPCEID returns the AWS VPC endpoint ID, if present.
func (pi *PpInfo) GetAWSVPCEID() (string, bool) {
	tlv, ok := pi.FirstTLV(PP2_TYPE_AWS)
	if !ok || len(tlv.Value) < 1 || tlv.Value[0] != PP2_SUBTYPE_AWS_VPCE_ID {
		return "", false
	}
	return sslSubString(tlv.Value[1:]), true
}

// AddAzureLinkID appends the Azure Private Endpoint LinkID TLV (type
// 0xEE, subtype 0x01): subtype byte followed by the 4-byte little-endian
// LinkID, matching pires-go-proxyproto's tlvparse/azure.go on-wire layout.
func (pi *PpInfo) AddAzureLinkID(linkID uint32) bool {
	value := make([]byte, 5)
	value[0] = PP2_SUBTYPE_AZURE_PRIVATEENDPOINT_LINKID
	binary.LittleEndian.PutUint32(value[1:5], linkID)
	pi.TLVs = append(pi.TLVs, TLV{Type: PP2_TYPE_AZURE, Value: value})
	return true
}

// GetAzureLinkID returns the Azure Private Endpoint LinkID, if present.
func (pi *PpInfo) GetAzureLinkID() (uint32, bool) {
	tlv, ok := pi.FirstTLV(PP2_TYPE_AZURE)
	if !ok || len(tlv.Value) != 5 || tlv.Value[0] != PP2_SUBTYPE_AZURE_PRIVATEENDPOINT_LINKID {
		return 0, false
	}
	return binary.LittleEndian.Uint32(tlv.Value[1:5]), true
}
