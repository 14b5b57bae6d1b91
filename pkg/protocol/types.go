package protocol

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/google/uuid"
)

// MaxStringChars bounds string length the way the protocol documents it: the
// wire length is itself bounded to MaxStringChars*3 bytes (the worst-case
// UTF-8 expansion of a character count limit), independent of any particular
// string field's documented character limit.
const MaxStringChars = 32767

// ErrStringTooLong is returned by ReadString when the wire length exceeds the
// UTF-8-expanded character bound.
var ErrStringTooLong = fmt.Errorf("protocol: string exceeds maximum length")

// ReadString reads a VarInt-length-prefixed UTF-8 string.
func ReadString(r io.Reader) (string, error) {
	length, _, err := ReadVarInt(r)
	if err != nil {
		return "", err
	}
	if length < 0 || length > MaxStringChars*3 {
		return "", ErrStringTooLong
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// WriteString writes a VarInt-length-prefixed UTF-8 string.
func WriteString(w io.Writer, s string) error {
	if _, err := WriteVarInt(w, int32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

// ReadBool reads a single-byte boolean.
func ReadBool(r io.Reader) (bool, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return false, err
	}
	return buf[0] != 0, nil
}

// WriteBool writes a single-byte boolean.
func WriteBool(w io.Writer, v bool) error {
	var b byte
	if v {
		b = 1
	}
	_, err := w.Write([]byte{b})
	return err
}

// ReadUnsignedByte reads a single unsigned byte.
func ReadUnsignedByte(r io.Reader) (byte, error) {
	var buf [1]byte
	_, err := io.ReadFull(r, buf[:])
	return buf[0], err
}

// WriteUnsignedByte writes a single unsigned byte.
func WriteUnsignedByte(w io.Writer, v byte) error {
	_, err := w.Write([]byte{v})
	return err
}

// ReadSignedByte reads a single signed byte.
func ReadSignedByte(r io.Reader) (int8, error) {
	b, err := ReadUnsignedByte(r)
	return int8(b), err
}

// WriteSignedByte writes a single signed byte.
func WriteSignedByte(w io.Writer, v int8) error {
	return WriteUnsignedByte(w, byte(v))
}

// ReadUint16 reads a big-endian unsigned 16-bit integer.
func ReadUint16(r io.Reader) (uint16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf[:]), nil
}

// WriteUint16 writes a big-endian unsigned 16-bit integer.
func WriteUint16(w io.Writer, v uint16) error {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

// ReadInt16 reads a big-endian signed 16-bit integer.
func ReadInt16(r io.Reader) (int16, error) {
	v, err := ReadUint16(r)
	return int16(v), err
}

// WriteInt16 writes a big-endian signed 16-bit integer.
func WriteInt16(w io.Writer, v int16) error {
	return WriteUint16(w, uint16(v))
}

// ReadInt32 reads a big-endian signed 32-bit integer.
func ReadInt32(r io.Reader) (int32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(buf[:])), nil
}

// WriteInt32 writes a big-endian signed 32-bit integer.
func WriteInt32(w io.Writer, v int32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(v))
	_, err := w.Write(buf[:])
	return err
}

// ReadInt64 reads a big-endian signed 64-bit integer.
func ReadInt64(r io.Reader) (int64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(buf[:])), nil
}

// WriteInt64 writes a big-endian signed 64-bit integer.
func WriteInt64(w io.Writer, v int64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(v))
	_, err := w.Write(buf[:])
	return err
}

// ReadFloat32 reads a big-endian 32-bit float.
func ReadFloat32(r io.Reader) (float32, error) {
	v, err := ReadInt32(r)
	return math.Float32frombits(uint32(v)), err
}

// WriteFloat32 writes a big-endian 32-bit float.
func WriteFloat32(w io.Writer, v float32) error {
	return WriteInt32(w, int32(math.Float32bits(v)))
}

// ReadFloat64 reads a big-endian 64-bit float.
func ReadFloat64(r io.Reader) (float64, error) {
	v, err := ReadInt64(r)
	return math.Float64frombits(uint64(v)), err
}

// WriteFloat64 writes a big-endian 64-bit float.
func WriteFloat64(w io.Writer, v float64) error {
	return WriteInt64(w, int64(math.Float64bits(v)))
}

// ReadUUID reads a 16-byte big-endian UUID.
func ReadUUID(r io.Reader) (uuid.UUID, error) {
	var buf [16]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return uuid.Nil, err
	}
	return uuid.FromBytes(buf[:])
}

// WriteUUID writes a 16-byte big-endian UUID.
func WriteUUID(w io.Writer, id uuid.UUID) error {
	_, err := w.Write(id[:])
	return err
}

// ReadAngle reads a single-byte rotation angle (1/256th of a full turn).
func ReadAngle(r io.Reader) (float32, error) {
	b, err := ReadUnsignedByte(r)
	if err != nil {
		return 0, err
	}
	return float32(b) * (360.0 / 256.0), nil
}

// WriteAngle writes degrees as a single-byte angle: round((deg mod 360)/360*256) mod 256.
func WriteAngle(w io.Writer, degrees float64) error {
	d := math.Mod(degrees, 360)
	if d < 0 {
		d += 360
	}
	v := int(math.Round(d/360*256)) & 0xFF
	return WriteUnsignedByte(w, byte(v))
}

// ReadPosition decodes the packed block-position long: x:63..38 (26 bits),
// z:37..12 (26 bits), y:11..0 (12 bits), each sign-extended.
func ReadPosition(r io.Reader) (x, y, z int32, err error) {
	val, err := ReadInt64(r)
	if err != nil {
		return 0, 0, 0, err
	}
	x = int32(val >> 38)
	y = int32((val << 52) >> 52)
	z = int32((val << 26) >> 38)
	return x, y, z, nil
}

// WritePosition encodes (x, y, z) into the packed block-position long.
func WritePosition(w io.Writer, x, y, z int32) error {
	val := (int64(x&0x3FFFFFF) << 38) | (int64(z&0x3FFFFFF) << 12) | int64(y&0xFFF)
	return WriteInt64(w, val)
}
