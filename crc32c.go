package proxyproto

import (
	"encoding/binary"
	"hash/crc32"
)

// crc32cTab is the reflected Castagnoli CRC-32c table.
// CRC-32c uses polynomial 0x1EDC6F41 (reversed 0x82F63B78), init/xor
// 0xFFFFFFFF, and is also known as the Castagnoli CRC32.
var crc32cTab = crc32.MakeTable(crc32.Castagnoli)

// crc32cChecksum computes the CRC-32c checksum of buf.
func crc32cChecksum(buf []byte) uint32 {
	return crc32.Checksum(buf, crc32cTab)
}

// verifyCRC32c reports whether header, with the 4 bytes at crcOffset
// masked to zero, hashes to want. header is never mutated: the masking
// happens over a scratch copy, per the "observable input state is
// unchanged on return" option in the design notes.
func verifyCRC32c(header []byte, crcOffset int, want uint32) bool {
	if crcOffset < 0 || crcOffset+4 > len(header) {
		return false
	}
	masked := make([]byte, len(header))
	copy(masked, header)
	binary.BigEndian.PutUint32(masked[crcOffset:crcOffset+4], 0)
	return crc32cChecksum(masked) == want
}
