package protocol

import "io"

// Slot is the wire representation of an item stack: VarInt count, then (when
// count > 0) VarInt item id and two required-but-always-empty VarInt
// component arrays. Real 1.21.10 slots carry optional data-component deltas;
// this core never adds or removes components, so both arrays are always
// length 0 (see spec.md's "Deliberate oddity #2": the zero-length arrays are
// written even though the protocol documentation marks them optional,
// because the client this was tested against requires them present).
type Slot struct {
	Count  int32
	ItemID int32
}

// Empty reports whether the slot holds no item.
func (s Slot) Empty() bool { return s.Count <= 0 }

// WriteSlot writes a Slot in wire form.
func WriteSlot(w io.Writer, s Slot) error {
	if s.Empty() {
		_, err := WriteVarInt(w, 0)
		return err
	}
	if _, err := WriteVarInt(w, s.Count); err != nil {
		return err
	}
	if _, err := WriteVarInt(w, s.ItemID); err != nil {
		return err
	}
	if _, err := WriteVarInt(w, 0); err != nil { // components to add
		return err
	}
	_, err := WriteVarInt(w, 0) // components to remove
	return err
}

// ReadSlot reads a Slot in wire form.
func ReadSlot(r io.Reader) (Slot, error) {
	count, _, err := ReadVarInt(r)
	if err != nil {
		return Slot{}, err
	}
	if count <= 0 {
		return Slot{Count: 0}, nil
	}
	itemID, _, err := ReadVarInt(r)
	if err != nil {
		return Slot{}, err
	}
	if _, _, err := ReadVarInt(r); err != nil { // components to add
		return Slot{}, err
	}
	if _, _, err := ReadVarInt(r); err != nil { // components to remove
		return Slot{}, err
	}
	return Slot{Count: count, ItemID: itemID}, nil
}

// Entity metadata type tags required by this core.
const (
	MetaTypeByte    = 0
	MetaTypeVarInt  = 1
	MetaTypeVarLong = 2
	MetaTypeFloat   = 3
	MetaTypeSlot    = 7
	MetaTypeBoolean = 8

	metaSentinel = 0xFF
)

// MetadataWriter accumulates (index, type, value) triples for the entity
// metadata packet and terminates the stream with the sentinel byte on Flush.
type MetadataWriter struct {
	w   io.Writer
	err error
}

// NewMetadataWriter wraps w for writing an entity metadata stream.
func NewMetadataWriter(w io.Writer) *MetadataWriter {
	return &MetadataWriter{w: w}
}

func (m *MetadataWriter) entry(index byte, typeTag int32) {
	if m.err != nil {
		return
	}
	if m.err = WriteUnsignedByte(m.w, index); m.err != nil {
		return
	}
	_, m.err = WriteVarInt(m.w, typeTag)
}

// Byte appends a signed-byte metadata entry.
func (m *MetadataWriter) Byte(index byte, v int8) *MetadataWriter {
	m.entry(index, MetaTypeByte)
	if m.err == nil {
		m.err = WriteSignedByte(m.w, v)
	}
	return m
}

// VarInt appends a VarInt metadata entry.
func (m *MetadataWriter) VarInt(index byte, v int32) *MetadataWriter {
	m.entry(index, MetaTypeVarInt)
	if m.err == nil {
		_, m.err = WriteVarInt(m.w, v)
	}
	return m
}

// VarLong appends a VarLong metadata entry.
func (m *MetadataWriter) VarLong(index byte, v int64) *MetadataWriter {
	m.entry(index, MetaTypeVarLong)
	if m.err == nil {
		_, m.err = WriteVarLong(m.w, v)
	}
	return m
}

// Float appends a float metadata entry.
func (m *MetadataWriter) Float(index byte, v float32) *MetadataWriter {
	m.entry(index, MetaTypeFloat)
	if m.err == nil {
		m.err = WriteFloat32(m.w, v)
	}
	return m
}

// SlotEntry appends a slot metadata entry.
func (m *MetadataWriter) SlotEntry(index byte, s Slot) *MetadataWriter {
	m.entry(index, MetaTypeSlot)
	if m.err == nil {
		m.err = WriteSlot(m.w, s)
	}
	return m
}

// Boolean appends a boolean metadata entry.
func (m *MetadataWriter) Boolean(index byte, v bool) *MetadataWriter {
	m.entry(index, MetaTypeBoolean)
	if m.err == nil {
		m.err = WriteBool(m.w, v)
	}
	return m
}

// Flush writes the terminating sentinel and returns any accumulated error.
func (m *MetadataWriter) Flush() error {
	if m.err != nil {
		return m.err
	}
	return WriteUnsignedByte(m.w, metaSentinel)
}
