// Package protocol implements the Minecraft Java Edition wire codec: variable
// length integers, packed positions and vectors, bit-packed arrays, paletted
// containers, and the length-prefixed packet framing used by protocol 773
// (Minecraft 1.21.10).
package protocol

import (
	"fmt"
	"io"
)

// ReadVarInt reads a variable-length integer from r. VarInts are at most 5
// bytes; each byte contributes 7 low bits, little-endian, with the high bit
// signalling continuation.
func ReadVarInt(r io.Reader) (int32, int, error) {
	var result uint32
	var numRead int
	buf := make([]byte, 1)
	for {
		if _, err := io.ReadFull(r, buf); err != nil {
			return 0, numRead, err
		}
		b := buf[0]
		result |= uint32(b&0x7F) << (7 * numRead)
		numRead++
		if numRead > 5 {
			return 0, numRead, fmt.Errorf("protocol: VarInt is too big")
		}
		if b&0x80 == 0 {
			break
		}
	}
	return int32(result), numRead, nil
}

// WriteVarInt writes a variable-length integer to w.
func WriteVarInt(w io.Writer, value int32) (int, error) {
	var buf [5]byte
	n := PutVarInt(buf[:], value)
	return w.Write(buf[:n])
}

// PutVarInt encodes value into buf and returns the number of bytes written.
func PutVarInt(buf []byte, value int32) int {
	uval := uint32(value)
	n := 0
	for {
		if uval&^uint32(0x7F) == 0 {
			buf[n] = byte(uval)
			n++
			return n
		}
		buf[n] = byte(uval&0x7F) | 0x80
		n++
		uval >>= 7
	}
}

// VarIntSize returns the number of bytes needed to encode value as a VarInt.
func VarIntSize(value int32) int {
	uval := uint32(value)
	size := 0
	for {
		size++
		if uval&^uint32(0x7F) == 0 {
			return size
		}
		uval >>= 7
	}
}

// ReadVarLong reads a variable-length long (1-10 bytes) from r.
func ReadVarLong(r io.Reader) (int64, int, error) {
	var result uint64
	var numRead int
	buf := make([]byte, 1)
	for {
		if _, err := io.ReadFull(r, buf); err != nil {
			return 0, numRead, err
		}
		b := buf[0]
		result |= uint64(b&0x7F) << (7 * numRead)
		numRead++
		if numRead > 10 {
			return 0, numRead, fmt.Errorf("protocol: VarLong is too big")
		}
		if b&0x80 == 0 {
			break
		}
	}
	return int64(result), numRead, nil
}

// WriteVarLong writes a variable-length long to w.
func WriteVarLong(w io.Writer, value int64) (int, error) {
	uval := uint64(value)
	var buf [10]byte
	n := 0
	for {
		if uval&^uint64(0x7F) == 0 {
			buf[n] = byte(uval)
			n++
			break
		}
		buf[n] = byte(uval&0x7F) | 0x80
		n++
		uval >>= 7
	}
	return w.Write(buf[:n])
}

// VarLongSize returns the number of bytes needed to encode value as a VarLong.
func VarLongSize(value int64) int {
	uval := uint64(value)
	size := 0
	for {
		size++
		if uval&^uint64(0x7F) == 0 {
			return size
		}
		uval >>= 7
	}
}
