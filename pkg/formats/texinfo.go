package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
)

// TexInfo stream errors.
var (
	ErrInvalidTexInfoMagic       = errors.New("invalid texinfo magic: expected 'TXIF'")
	ErrUnsupportedTexInfoVersion = errors.New("unsupported texinfo version")
	ErrTruncatedTexInfo          = errors.New("truncated texinfo data")
)

// TexInfo stream constants.
const (
	TexInfoMagic   = "TXIF"
	TexInfoVersion = 1

	// TileTriangleFlag marks a record used by a triangle.
	TileTriangleFlag uint16 = 0x8000
	// TileIndexMask extracts the atlas index from the tile field.
	TileIndexMask uint16 = 0x7FFF

	FlagBlendMask  uint16 = 0x000F
	FlagBumpShift         = 11
	FlagBumpMask   uint16 = 0x0003

	AttrAnimated    uint16 = 1 << 0
	AttrRequireSort uint16 = 1 << 1
	AttrDoubleSided uint16 = 1 << 2

	texInfoRecordSize = 2 + 2 + 2 + 1 + 4*2*4
	animFrameSize     = 4 + 4*2*4
)

// TexInfoRecord is one object texture as stored in the stream.
type TexInfoRecord struct {
	Attributes  uint16
	Tile        uint16 // atlas index | TileTriangleFlag
	Flags       uint16 // blend mode | bump level << FlagBumpShift
	Destination uint8
	UV          [4][2]float32 // normalized atlas space; 4th pair zero for triangles
}

// IsTriangle reports whether the record is used by a triangle.
func (r TexInfoRecord) IsTriangle() bool {
	return r.Tile&TileTriangleFlag != 0
}

// Atlas returns the atlas index.
func (r TexInfoRecord) Atlas() int {
	return int(r.Tile & TileIndexMask)
}

// BlendMode returns the encoded blend mode.
func (r TexInfoRecord) BlendMode() uint8 {
	return uint8(r.Flags & FlagBlendMask)
}

// BumpLevel returns the encoded bump level.
func (r TexInfoRecord) BumpLevel() uint8 {
	return uint8((r.Flags >> FlagBumpShift) & FlagBumpMask)
}

// EncodeFlags packs blend mode and bump level into a flag word.
func EncodeFlags(blend, bump uint8) uint16 {
	return uint16(blend)&FlagBlendMask | (uint16(bump)&FlagBumpMask)<<FlagBumpShift
}

// Write appends the record to w.
func (r TexInfoRecord) Write(w *Writer) {
	w.WriteUint16(r.Attributes)
	w.WriteUint16(r.Tile)
	w.WriteUint16(r.Flags)
	w.WriteUint8(r.Destination)
	for _, uv := range r.UV {
		w.WriteFloat32(uv[0])
		w.WriteFloat32(uv[1])
	}
}

// AnimatedFrameRecord is one runtime frame of an animated sequence.
type AnimatedFrameRecord struct {
	TexInfo int32
	UV      [4][2]float32
}

// AnimatedSequenceRecord is one animated sequence as stored in the stream.
type AnimatedSequenceRecord struct {
	Type     uint8
	Fps      float32
	UVRotate int8
	Frames   []AnimatedFrameRecord
}

// Write appends the sequence to w.
func (s AnimatedSequenceRecord) Write(w *Writer) {
	w.WriteUint8(s.Type)
	w.WriteFloat32(s.Fps)
	w.WriteInt8(s.UVRotate)
	w.WriteInt32(int32(len(s.Frames)))
	for _, f := range s.Frames {
		w.WriteInt32(f.TexInfo)
		for _, uv := range f.UV {
			w.WriteFloat32(uv[0])
			w.WriteFloat32(uv[1])
		}
	}
}

// WriteTexInfoHeader writes the stream magic and version.
func WriteTexInfoHeader(w *Writer) {
	w.WriteBytes([]byte(TexInfoMagic))
	w.WriteUint16(TexInfoVersion)
}

// TexInfoFile is a parsed texture info stream.
type TexInfoFile struct {
	Version   uint16
	Records   []TexInfoRecord
	Sequences []AnimatedSequenceRecord
}

// ParseTexInfoFile reads and parses a texture info stream from disk.
func ParseTexInfoFile(path string) (*TexInfoFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading texinfo file: %w", err)
	}
	return ParseTexInfo(data)
}

// ParseTexInfo parses a texture info stream from raw bytes.
func ParseTexInfo(data []byte) (*TexInfoFile, error) {
	if len(data) < 6 {
		return nil, ErrTruncatedTexInfo
	}
	if string(data[0:4]) != TexInfoMagic {
		return nil, ErrInvalidTexInfoMagic
	}

	f := &TexInfoFile{Version: binary.LittleEndian.Uint16(data[4:6])}
	if f.Version != TexInfoVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedTexInfoVersion, f.Version)
	}

	r := bytes.NewReader(data[6:])

	var count int32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("%w: reading record count", ErrTruncatedTexInfo)
	}
	if count < 0 || int64(count)*texInfoRecordSize > int64(r.Len()) {
		return nil, fmt.Errorf("%w: %d records declared", ErrTruncatedTexInfo, count)
	}

	f.Records = make([]TexInfoRecord, count)
	for i := range f.Records {
		rec := &f.Records[i]
		if err := binary.Read(r, binary.LittleEndian, &rec.Attributes); err != nil {
			return nil, fmt.Errorf("%w: record %d", ErrTruncatedTexInfo, i)
		}
		if err := binary.Read(r, binary.LittleEndian, &rec.Tile); err != nil {
			return nil, fmt.Errorf("%w: record %d", ErrTruncatedTexInfo, i)
		}
		if err := binary.Read(r, binary.LittleEndian, &rec.Flags); err != nil {
			return nil, fmt.Errorf("%w: record %d", ErrTruncatedTexInfo, i)
		}
		if err := binary.Read(r, binary.LittleEndian, &rec.Destination); err != nil {
			return nil, fmt.Errorf("%w: record %d", ErrTruncatedTexInfo, i)
		}
		if err := binary.Read(r, binary.LittleEndian, &rec.UV); err != nil {
			return nil, fmt.Errorf("%w: record %d uv", ErrTruncatedTexInfo, i)
		}
	}

	var seqCount int32
	if err := binary.Read(r, binary.LittleEndian, &seqCount); err != nil {
		return nil, fmt.Errorf("%w: reading sequence count", ErrTruncatedTexInfo)
	}
	if seqCount < 0 {
		return nil, fmt.Errorf("%w: negative sequence count", ErrTruncatedTexInfo)
	}

	for i := int32(0); i < seqCount; i++ {
		var seq AnimatedSequenceRecord
		var frameCount int32
		if err := binary.Read(r, binary.LittleEndian, &seq.Type); err != nil {
			return nil, fmt.Errorf("%w: sequence %d", ErrTruncatedTexInfo, i)
		}
		if err := binary.Read(r, binary.LittleEndian, &seq.Fps); err != nil {
			return nil, fmt.Errorf("%w: sequence %d", ErrTruncatedTexInfo, i)
		}
		if err := binary.Read(r, binary.LittleEndian, &seq.UVRotate); err != nil {
			return nil, fmt.Errorf("%w: sequence %d", ErrTruncatedTexInfo, i)
		}
		if err := binary.Read(r, binary.LittleEndian, &frameCount); err != nil {
			return nil, fmt.Errorf("%w: sequence %d frame count", ErrTruncatedTexInfo, i)
		}
		if frameCount < 0 || int64(frameCount)*animFrameSize > int64(r.Len()) {
			return nil, fmt.Errorf("%w: sequence %d declares %d frames", ErrTruncatedTexInfo, i, frameCount)
		}
		seq.Frames = make([]AnimatedFrameRecord, frameCount)
		if err := binary.Read(r, binary.LittleEndian, seq.Frames); err != nil {
			return nil, fmt.Errorf("%w: sequence %d frames", ErrTruncatedTexInfo, i)
		}
		f.Sequences = append(f.Sequences, seq)
	}

	return f, nil
}
