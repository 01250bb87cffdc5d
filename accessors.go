package bufpool

import "math"

import "github.com/bnclabs/gostore/api"

// Typed accessors layered over Buffer.GetBytes/SetBytes and
// Buffer.ReadBytes/WriteBytes. All multi-byte values are big-endian,
// matching network-protocol convention.

// GetBool reads a single byte at index as a boolean (non-zero = true).
func GetBool(b api.Buffer, index int) (bool, error) {
	v, err := GetByte(b, index)
	return v != 0, err
}

// SetBool writes value as a single byte at index.
func SetBool(b api.Buffer, index int, value bool) error {
	var v byte
	if value {
		v = 1
	}
	return SetByte(b, index, v)
}

// GetByte reads a single byte at index.
func GetByte(b api.Buffer, index int) (byte, error) {
	var tmp [1]byte
	if err := b.GetBytes(index, tmp[:], 0, 1); err != nil {
		return 0, err
	}
	return tmp[0], nil
}

// SetByte writes value at index.
func SetByte(b api.Buffer, index int, value byte) error {
	tmp := [1]byte{value}
	return b.SetBytes(index, tmp[:], 0, 1)
}

// GetChar reads a big-endian uint16 at index.
func GetChar(b api.Buffer, index int) (uint16, error) {
	var tmp [2]byte
	if err := b.GetBytes(index, tmp[:], 0, 2); err != nil {
		return 0, err
	}
	return uint16(tmp[0])<<8 | uint16(tmp[1]), nil
}

// SetChar writes value as a big-endian uint16 at index.
func SetChar(b api.Buffer, index int, value uint16) error {
	tmp := [2]byte{byte(value >> 8), byte(value)}
	return b.SetBytes(index, tmp[:], 0, 2)
}

// GetShort reads a big-endian int16 at index. Decodes
// (b[0]<<8)|(b[1]&0xff) then sign-extends by conversion, the
// canonical two-byte decode.
func GetShort(b api.Buffer, index int) (int16, error) {
	v, err := GetChar(b, index)
	return int16(v), err
}

// SetShort writes value as a big-endian int16 at index.
func SetShort(b api.Buffer, index int, value int16) error {
	return SetChar(b, index, uint16(value))
}

// GetInt reads a big-endian int32 at index.
func GetInt(b api.Buffer, index int) (int32, error) {
	var tmp [4]byte
	if err := b.GetBytes(index, tmp[:], 0, 4); err != nil {
		return 0, err
	}
	v := uint32(tmp[0])<<24 | uint32(tmp[1])<<16 | uint32(tmp[2])<<8 | uint32(tmp[3])
	return int32(v), nil
}

// SetInt writes value as a big-endian int32 at index.
func SetInt(b api.Buffer, index int, value int32) error {
	v := uint32(value)
	tmp := [4]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
	return b.SetBytes(index, tmp[:], 0, 4)
}

// GetLong reads a big-endian int64 at index.
func GetLong(b api.Buffer, index int) (int64, error) {
	var tmp [8]byte
	if err := b.GetBytes(index, tmp[:], 0, 8); err != nil {
		return 0, err
	}
	v := uint64(0)
	for i := 0; i < 8; i++ {
		v = v<<8 | uint64(tmp[i])
	}
	return int64(v), nil
}

// SetLong writes value as a big-endian int64 at index.
func SetLong(b api.Buffer, index int, value int64) error {
	v := uint64(value)
	var tmp [8]byte
	for i := 7; i >= 0; i-- {
		tmp[i] = byte(v)
		v >>= 8
	}
	return b.SetBytes(index, tmp[:], 0, 8)
}

// GetFloat reads a big-endian IEEE-754 float32 at index.
func GetFloat(b api.Buffer, index int) (float32, error) {
	v, err := GetInt(b, index)
	return math.Float32frombits(uint32(v)), err
}

// SetFloat writes value as a big-endian IEEE-754 float32 at index.
func SetFloat(b api.Buffer, index int, value float32) error {
	return SetInt(b, index, int32(math.Float32bits(value)))
}

// GetDouble reads a big-endian IEEE-754 float64 at index.
func GetDouble(b api.Buffer, index int) (float64, error) {
	v, err := GetLong(b, index)
	return math.Float64frombits(uint64(v)), err
}

// SetDouble writes value as a big-endian IEEE-754 float64 at index.
func SetDouble(b api.Buffer, index int, value float64) error {
	return SetLong(b, index, int64(math.Float64bits(value)))
}

// ReadBool reads a bool at readerIndex and advances it by one.
func ReadBool(b api.Buffer) (bool, error) {
	v, err := ReadByte(b)
	return v != 0, err
}

// WriteBool writes a bool at writerIndex and advances it by one.
func WriteBool(b api.Buffer, value bool) error {
	var v byte
	if value {
		v = 1
	}
	return WriteByte(b, v)
}

// ReadByte reads a byte at readerIndex and advances it by one.
func ReadByte(b api.Buffer) (byte, error) {
	var tmp [1]byte
	if err := b.ReadBytes(tmp[:], 0, 1); err != nil {
		return 0, err
	}
	return tmp[0], nil
}

// WriteByte writes a byte at writerIndex and advances it by one.
func WriteByte(b api.Buffer, value byte) error {
	tmp := [1]byte{value}
	return b.WriteBytes(tmp[:], 0, 1)
}

// ReadChar reads a big-endian uint16 at readerIndex and advances it.
func ReadChar(b api.Buffer) (uint16, error) {
	var tmp [2]byte
	if err := b.ReadBytes(tmp[:], 0, 2); err != nil {
		return 0, err
	}
	return uint16(tmp[0])<<8 | uint16(tmp[1]), nil
}

// WriteChar writes a big-endian uint16 at writerIndex and advances it.
func WriteChar(b api.Buffer, value uint16) error {
	tmp := [2]byte{byte(value >> 8), byte(value)}
	return b.WriteBytes(tmp[:], 0, 2)
}

// ReadShort reads a big-endian int16 at readerIndex and advances it.
func ReadShort(b api.Buffer) (int16, error) {
	v, err := ReadChar(b)
	return int16(v), err
}

// WriteShort writes a big-endian int16 at writerIndex and advances it.
func WriteShort(b api.Buffer, value int16) error {
	return WriteChar(b, uint16(value))
}

// ReadInt reads a big-endian int32 at readerIndex and advances it.
func ReadInt(b api.Buffer) (int32, error) {
	var tmp [4]byte
	if err := b.ReadBytes(tmp[:], 0, 4); err != nil {
		return 0, err
	}
	v := uint32(tmp[0])<<24 | uint32(tmp[1])<<16 | uint32(tmp[2])<<8 | uint32(tmp[3])
	return int32(v), nil
}

// WriteInt writes a big-endian int32 at writerIndex and advances it.
func WriteInt(b api.Buffer, value int32) error {
	v := uint32(value)
	tmp := [4]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
	return b.WriteBytes(tmp[:], 0, 4)
}

// ReadLong reads a big-endian int64 at readerIndex and advances it.
func ReadLong(b api.Buffer) (int64, error) {
	var tmp [8]byte
	if err := b.ReadBytes(tmp[:], 0, 8); err != nil {
		return 0, err
	}
	v := uint64(0)
	for i := 0; i < 8; i++ {
		v = v<<8 | uint64(tmp[i])
	}
	return int64(v), nil
}

// WriteLong writes a big-endian int64 at writerIndex and advances it.
func WriteLong(b api.Buffer, value int64) error {
	v := uint64(value)
	var tmp [8]byte
	for i := 7; i >= 0; i-- {
		tmp[i] = byte(v)
		v >>= 8
	}
	return b.WriteBytes(tmp[:], 0, 8)
}

// ReadFloat reads a big-endian float32 at readerIndex and advances it.
func ReadFloat(b api.Buffer) (float32, error) {
	v, err := ReadInt(b)
	return math.Float32frombits(uint32(v)), err
}

// WriteFloat writes a big-endian float32 at writerIndex and advances it.
func WriteFloat(b api.Buffer, value float32) error {
	return WriteInt(b, int32(math.Float32bits(value)))
}

// ReadDouble reads a big-endian float64 at readerIndex and advances it.
func ReadDouble(b api.Buffer) (float64, error) {
	v, err := ReadLong(b)
	return math.Float64frombits(uint64(v)), err
}

// WriteDouble writes a big-endian float64 at writerIndex and advances it.
func WriteDouble(b api.Buffer, value float64) error {
	return WriteLong(b, int64(math.Float64bits(value)))
}
