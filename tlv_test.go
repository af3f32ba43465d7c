package proxyproto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTLV_EncodeDecodeHeader(t *testing.T) {
	tlv := TLV{Type: PP2_TYPE_ALPN, Value: []byte("h2")}
	buf, err := tlv.encode(nil)
	require.Nil(t, err)
	require.Equal(t, []byte{0x01, 0x00, 0x02, 'h', '2'}, buf)

	typ, length, valueOff, ok := readTLVHeader(buf)
	require.True(t, ok)
	require.Equal(t, PP2_TYPE_ALPN, typ)
	require.Equal(t, 2, length)
	require.Equal(t, tlvHeaderLen, valueOff)
}

func TestReadTLVHeader_TooShortForHeader(t *testing.T) {
	_, _, _, ok := readTLVHeader([]byte{0x01, 0x00})
	require.False(t, ok)
}

func TestReadTLVHeader_LengthOverrunsBuffer(t *testing.T) {
	buf := []byte{0x01, 0x00, 0x05, 'a', 'b'} // declares 5 bytes, only 2 present
	_, _, _, ok := readTLVHeader(buf)
	require.False(t, ok)
}

func TestSplitTLVs_FlatSequence(t *testing.T) {
	var buf []byte
	a := TLV{Type: PP2_SUBTYPE_SSL_CIPHER, Value: []byte("ECDHE")}
	b := TLV{Type: PP2_SUBTYPE_SSL_VERSION, Value: []byte("TLSv1.3")}
	var err *CodedError
	buf, err = a.encode(buf)
	require.Nil(t, err)
	buf, err = b.encode(buf)
	require.Nil(t, err)

	out, serr := splitTLVs(buf)
	require.Nil(t, serr)
	require.Len(t, out, 2)
	require.Equal(t, a.Type, out[0].Type)
	require.Equal(t, a.Value, out[0].Value)
	require.Equal(t, b.Type, out[1].Type)
	require.Equal(t, b.Value, out[1].Value)
}

func TestSplitTLVs_OverrunIsError(t *testing.T) {
	_, err := splitTLVs([]byte{0x21, 0x00, 0x10, 'x'})
	require.NotNil(t, err)
	require.Equal(t, CodePP2TLVLength, err.Code)
}

func TestIsSSLSubtype(t *testing.T) {
	require.True(t, PP2_SUBTYPE_SSL_VERSION.isSSLSubtype())
	require.True(t, PP2_SUBTYPE_SSL_CN.isSSLSubtype())
	require.False(t, PP2_TYPE_ALPN.isSSLSubtype())
}

func TestTLVsString_SkipsSSLMaterial(t *testing.T) {
	tlvs := TLVs{
		{Type: PP2_TYPE_ALPN, Value: []byte("h2")},
		{Type: PP2_TYPE_SSL, Value: make([]byte, 5)},
		{Type: PP2_SUBTYPE_SSL_CN, Value: []byte("example.com")},
	}
	s := tlvs.String()
	require.Contains(t, s, "type:0x01")
	require.NotContains(t, s, "0x20")
	require.NotContains(t, s, "0x22")
}

func TestCloneBytes_DoesNotAlias(t *testing.T) {
	src := []byte("hello")
	out := cloneBytes(src)
	out[0] = 'X'
	require.Equal(t, byte('h'), src[0])
}

func TestNulTerminated_AppendsSingleNUL(t *testing.T) {
	out := nulTerminated([]byte("TLSv1.3"))
	require.Equal(t, append([]byte("TLSv1.3"), 0), out)
}
