package proxyproto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddALPN_RejectsOversizedValue(t *testing.T) {
	info := &PpInfo{}
	require.False(t, info.AddALPN(make([]byte, 0x10000)))
	require.True(t, info.AddALPN([]byte("h2")))
	got, ok := info.GetALPN()
	require.True(t, ok)
	require.Equal(t, []byte("h2"), got)
}

func TestAddAuthority_RoundTrip(t *testing.T) {
	info := &PpInfo{}
	require.True(t, info.AddAuthority([]byte("example.com")))
	got, ok := info.GetAuthority()
	require.True(t, ok)
	require.Equal(t, []byte("example.com"), got)
}

func TestAddUniqueID_BoundaryAt128(t *testing.T) {
	info := &PpInfo{}
	require.True(t, info.AddUniqueID(make([]byte, 128)))
	require.False(t, info.AddUniqueID(make([]byte, 129)))
}

func TestAddNetNS_RoundTrip(t *testing.T) {
	info := &PpInfo{}
	require.True(t, info.AddNetNS("ns-prod"))
	got, ok := info.GetNetNS()
	require.True(t, ok)
	require.Equal(t, "ns-prod", got)
}

func TestGetters_AbsentTLVReturnsFalse(t *testing.T) {
	info := &PpInfo{}
	_, ok := info.GetALPN()
	require.False(t, ok)
	_, ok = info.GetAuthority()
	require.False(t, ok)
	_, ok = info.GetUniqueID()
	require.False(t, ok)
	_, ok = info.GetNetNS()
	require.False(t, ok)
}

func TestFirstTLV_ReturnsEarliestMatch(t *testing.T) {
	info := &PpInfo{TLVs: TLVs{
		{Type: PP2_TYPE_ALPN, Value: []byte("first")},
		{Type: PP2_TYPE_ALPN, Value: []byte("second")},
	}}
	tlv, ok := info.FirstTLV(PP2_TYPE_ALPN)
	require.True(t, ok)
	require.Equal(t, []byte("first"), tlv.Value)
}

func TestPpInfo_Clear(t *testing.T) {
	info := &PpInfo{SrcAddr: "1.1.1.1", TLVs: TLVs{{Type: PP2_TYPE_ALPN}}}
	info.Clear()
	require.Equal(t, PpInfo{}, *info)
}
