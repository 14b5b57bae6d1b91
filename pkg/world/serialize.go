package world

import (
	"bytes"

	"github.com/StoreStation/vibecraft773/pkg/protocol"
)

const (
	heightMapEntries  = 256
	heightMapBits     = 9
	heightMapLongs    = 37 // ceil(256 / floor(64/9)) = ceil(256/7)
	lightSlotCount    = 26 // 24 sections + below-world + above-world
	biomeEntries      = 64
	plainsBiomeID     = 0
	motionBlockingTag = 4
)

// minBitsPerEntry is the floor the block paletted container's width never
// goes below, per spec.md §4.1.
const minBitsPerEntry = 4
const maxBitsPerEntry = 8

func blockBitsPerEntry(paletteSize int) byte {
	if paletteSize <= 1 {
		return 0
	}
	bits := protocol.CeilLog2(paletteSize)
	if bits < minBitsPerEntry {
		bits = minBitsPerEntry
	}
	if bits > maxBitsPerEntry {
		bits = maxBitsPerEntry
	}
	return byte(bits)
}

// SerializeChunk builds the body of a Chunk Data and Update Light packet
// (0x2C) for chunk (cx, cz), reading block contents from m (spec.md §4.6).
func SerializeChunk(m *BlockManager, cx, cz int32) []byte {
	var body bytes.Buffer

	protocol.WriteInt32(&body, cx)
	protocol.WriteInt32(&body, cz)

	writeHeightMaps(&body, m, cx, cz)
	writeSectionData(&body, m, cx, cz)

	protocol.WriteVarInt(&body, 0) // no block entities

	writeLightData(&body, m, cx, cz)

	return body.Bytes()
}

func writeHeightMaps(w *bytes.Buffer, m *BlockManager, cx, cz int32) {
	protocol.WriteVarInt(w, 1) // one heightmap
	protocol.WriteVarInt(w, motionBlockingTag)

	entries := make([]int32, heightMapEntries)
	baseX, baseZ := cx*SectionSize, cz*SectionSize
	for lz := int32(0); lz < 16; lz++ {
		for lx := int32(0); lx < 16; lx++ {
			h := m.ColumnHeight(cx, cz, baseX+lx, baseZ+lz)
			entries[heightIndex(lx, lz)] = h - MinY // store as non-negative 9-bit value
		}
	}

	words := protocol.PackIndices(entries, heightMapBits)
	protocol.WriteVarInt(w, int32(len(words)))
	for _, word := range words {
		protocol.WriteInt64(w, int64(word))
	}
}

func writeSectionData(w *bytes.Buffer, m *BlockManager, cx, cz int32) {
	var sections bytes.Buffer
	for sy := int32(0); sy < SectionsPerChunk; sy++ {
		nonAir, palette, indices := m.GetChunkSectionForProtocol(cx, cz, sy)

		protocol.WriteInt16(&sections, int16(nonAir))

		if len(palette) == 1 {
			protocol.WriteSingleValuedContainer(&sections, palette[0])
		} else {
			bits := blockBitsPerEntry(len(palette))
			protocol.WriteIndirectContainer(&sections, bits, palette, indices)
		}

		// Biomes: always the homogeneous plains biome, single-valued.
		protocol.WriteSingleValuedContainer(&sections, plainsBiomeID)
	}

	protocol.WriteVarInt(w, int32(sections.Len()))
	w.Write(sections.Bytes())
}

func writeLightData(w *bytes.Buffer, m *BlockManager, cx, cz int32) {
	skyMask := protocol.NewBitSet(lightSlotCount)
	emptySkyMask := protocol.NewBitSet(lightSlotCount)
	blockMask := protocol.NewBitSet(lightSlotCount)
	emptyBlockMask := protocol.NewBitSet(lightSlotCount)

	for i := 0; i < lightSlotCount; i++ {
		skyMask.Set(i)
		emptyBlockMask.Set(i)
	}

	protocol.WriteBitSet(w, skyMask)
	protocol.WriteBitSet(w, blockMask)
	protocol.WriteBitSet(w, emptySkyMask)
	protocol.WriteBitSet(w, emptyBlockMask)

	skyArrays := make([][]byte, 0, lightSlotCount)
	baseX, baseZ := cx*SectionSize, cz*SectionSize

	for slot := 0; slot < lightSlotCount; slot++ {
		switch slot {
		case 0: // below world: always dark
			skyArrays = append(skyArrays, make([]byte, 2048))
		case lightSlotCount - 1: // above world: always fully lit
			arr := make([]byte, 2048)
			for i := range arr {
				arr[i] = 0xFF
			}
			skyArrays = append(skyArrays, arr)
		default:
			sy := int32(slot - 1)
			secBaseY := sy*SectionSize + MinY
			arr := make([]byte, 2048)
			for lz := int32(0); lz < 16; lz++ {
				for lx := int32(0); lx < 16; lx++ {
					height := m.ColumnHeight(cx, cz, baseX+lx, baseZ+lz)
					for ly := int32(0); ly < 16; ly++ {
						y := secBaseY + ly
						var v byte
						if y >= height {
							v = 15
						} else {
							diff := int(height - y)
							if diff > 15 {
								v = 0
							} else {
								v = byte(15 - diff)
							}
						}
						idx := LocalIndex(lx, ly, lz)
						byteIdx := idx / 2
						if idx%2 == 0 {
							arr[byteIdx] = (arr[byteIdx] &^ 0x0F) | v
						} else {
							arr[byteIdx] = (arr[byteIdx] &^ 0xF0) | (v << 4)
						}
					}
				}
			}
			skyArrays = append(skyArrays, arr)
		}
	}

	protocol.WriteVarInt(w, int32(len(skyArrays)))
	for _, arr := range skyArrays {
		protocol.WriteVarInt(w, int32(len(arr)))
		w.Write(arr)
	}

	protocol.WriteVarInt(w, 0) // block-light arrays: always empty in this spec
}
