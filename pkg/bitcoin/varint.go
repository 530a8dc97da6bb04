package bitcoin

import (
	"encoding/binary"
	"fmt"
)

// EncodeVarInt encodes an integer as a Bitcoin-style variable-length
// integer. CanonicalSerialize uses it for the length prefix of every byte
// string and string it writes, so that short values (hex hashes, public
// keys) cost a single prefix byte. The element count of a []string is
// written as a fixed 8-byte integer instead.
func EncodeVarInt(value uint64) []byte {
	if value < 0xfd {
		return []byte{byte(value)}
	} else if value <= 0xffff {
		buf := make([]byte, 3)
		buf[0] = 0xfd
		binary.LittleEndian.PutUint16(buf[1:], uint16(value))
		return buf
	} else if value <= 0xffffffff {
		buf := make([]byte, 5)
		buf[0] = 0xfe
		binary.LittleEndian.PutUint32(buf[1:], uint32(value))
		return buf
	}
	buf := make([]byte, 9)
	buf[0] = 0xff
	binary.LittleEndian.PutUint64(buf[1:], value)
	return buf
}

// DecodeVarInt decodes a Bitcoin-style variable-length integer, returning
// the value and the number of bytes consumed.
func DecodeVarInt(data []byte) (value uint64, bytesRead int, err error) {
	if len(data) == 0 {
		return 0, 0, fmt.Errorf("decode_var_int: empty data")
	}

	first := data[0]
	switch {
	case first < 0xfd:
		return uint64(first), 1, nil
	case first == 0xfd:
		if len(data) < 3 {
			return 0, 0, fmt.Errorf("decode_var_int: insufficient data for fd varint")
		}
		return uint64(binary.LittleEndian.Uint16(data[1:3])), 3, nil
	case first == 0xfe:
		if len(data) < 5 {
			return 0, 0, fmt.Errorf("decode_var_int: insufficient data for fe varint")
		}
		return uint64(binary.LittleEndian.Uint32(data[1:5])), 5, nil
	default:
		if len(data) < 9 {
			return 0, 0, fmt.Errorf("decode_var_int: insufficient data for ff varint")
		}
		return binary.LittleEndian.Uint64(data[1:9]), 9, nil
	}
}
