package formats

import (
	"encoding/binary"
	"io"
	"math"
)

// Writer writes little-endian binary values. The first error is kept and all
// later writes become no-ops, so callers check Err once at the end.
type Writer struct {
	w   io.Writer
	n   int64
	err error
	buf [8]byte
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (w *Writer) write(p []byte) {
	if w.err != nil {
		return
	}
	n, err := w.w.Write(p)
	w.n += int64(n)
	w.err = err
}

// WriteBytes writes p unchanged.
func (w *Writer) WriteBytes(p []byte) {
	w.write(p)
}

// WriteUint8 writes a byte.
func (w *Writer) WriteUint8(v uint8) {
	w.buf[0] = v
	w.write(w.buf[:1])
}

// WriteInt8 writes a signed byte.
func (w *Writer) WriteInt8(v int8) {
	w.WriteUint8(uint8(v))
}

// WriteUint16 writes a little-endian uint16.
func (w *Writer) WriteUint16(v uint16) {
	binary.LittleEndian.PutUint16(w.buf[:2], v)
	w.write(w.buf[:2])
}

// WriteInt32 writes a little-endian int32.
func (w *Writer) WriteInt32(v int32) {
	binary.LittleEndian.PutUint32(w.buf[:4], uint32(v))
	w.write(w.buf[:4])
}

// WriteFloat32 writes a little-endian IEEE 754 float32.
func (w *Writer) WriteFloat32(v float32) {
	binary.LittleEndian.PutUint32(w.buf[:4], math.Float32bits(v))
	w.write(w.buf[:4])
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int64 {
	return w.n
}

// Err returns the first write error.
func (w *Writer) Err() error {
	return w.err
}
