package proxyproto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseHeader_DispatchesV1(t *testing.T) {
	raw := []byte("PROXY TCP4 1.1.1.1 2.2.2.2 1 2\r\nrest")
	n, info, err := ParseHeader(raw)
	require.NoError(t, err)
	require.Equal(t, 31, n)
	require.Equal(t, "1.1.1.1", info.SrcAddr)
}

func TestParseHeader_DispatchesV2(t *testing.T) {
	raw, err := CreateHealthcheckHeader()
	require.NoError(t, err)
	raw = append(raw, []byte("trailing")...)

	n, info, err := ParseHeader(raw)
	require.NoError(t, err)
	require.Equal(t, 16, n)
	require.True(t, info.Local)
}

func TestParseHeader_NoHeaderPresent(t *testing.T) {
	n, info, err := ParseHeader([]byte("GET / HTTP/1.1\r\n"))
	require.NoError(t, err)
	require.Equal(t, 0, n)
	require.Nil(t, info)
}

func TestParseHeader_ShortBufferNoHeader(t *testing.T) {
	n, info, err := ParseHeader([]byte("PR"))
	require.NoError(t, err)
	require.Equal(t, 0, n)
	require.Nil(t, info)
}

func TestCreateHeader_DispatchesByVersion(t *testing.T) {
	info := &PpInfo{
		AddressFamily:     AF_INET,
		TransportProtocol: SOCK_STREAM,
		SrcAddr:           "1.1.1.1",
		DstAddr:           "2.2.2.2",
		SrcPort:           1,
		DstPort:           2,
	}

	v1, err := CreateHeader(Version1, info)
	require.NoError(t, err)
	require.Equal(t, "PROXY TCP4 1.1.1.1 2.2.2.2 1 2\r\n", string(v1))

	v2, err := CreateHeader(Version2, info)
	require.NoError(t, err)
	require.Equal(t, v2Signature, v2[:12])
}

func TestCreateHeader_RejectsUnknownVersion(t *testing.T) {
	_, err := CreateHeader(Version(0x9), &PpInfo{})
	require.Error(t, err)
	code, _ := ErrorCode(err)
	require.Equal(t, CodePPVersion, code)
}

func TestCreateHealthcheckHeader_IsMinimalLocal(t *testing.T) {
	raw, err := CreateHealthcheckHeader()
	require.NoError(t, err)
	require.Equal(t, 16, len(raw))
	require.Equal(t, byte(Version2)<<4|byte(CMD_LOCAL), raw[12])
}

func TestPpInfo_ZapAndLogrusFields(t *testing.T) {
	info := &PpInfo{
		AddressFamily:     AF_INET,
		TransportProtocol: SOCK_STREAM,
		SrcAddr:           "1.1.1.1",
		DstAddr:           "2.2.2.2",
		SrcPort:           1,
		DstPort:           2,
	}
	zapFields := info.ZapFields()
	require.NotEmpty(t, zapFields)

	logrusFields := info.LogrusFields()
	require.Equal(t, "IPv4", logrusFields["address_family"])
	require.Equal(t, "TCP", logrusFields["transport_protocol"])
}

func TestAddressFamily_StringDistinguishesV4AndV6(t *testing.T) {
	require.Equal(t, "IPv4", AF_INET.String())
	require.Equal(t, "IPv6", AF_INET6.String())
}
