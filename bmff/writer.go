package bmff

// writerFrame tracks the start offset of a box for size backpatching.
type writerFrame struct {
	offset int
}

// Writer encodes ISOBMFF boxes into a byte buffer that grows as needed.
type Writer struct {
	buf   []byte
	stack []writerFrame
}

// NewWriter creates a Writer that appends to buf[:0].
func NewWriter(buf []byte) Writer {
	return Writer{buf: buf[:0]}
}

// Bytes returns the written data.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the number of bytes written.
func (w *Writer) Len() int { return len(w.buf) }

// Write appends raw bytes. Implements io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	return len(p), nil
}

// PutUint8 appends a single byte.
func (w *Writer) PutUint8(v byte) {
	w.buf = append(w.buf, v)
}

// PutUint32 appends a big-endian uint32.
func (w *Writer) PutUint32(v uint32) {
	w.buf = be.AppendUint32(w.buf, v)
}

// PutZeros appends n zero bytes.
func (w *Writer) PutZeros(n int) {
	for range n {
		w.buf = append(w.buf, 0)
	}
}

// StartBox begins a new box. Write content, then call EndBox.
func (w *Writer) StartBox(t BoxType) {
	w.stack = append(w.stack, writerFrame{offset: len(w.buf)})
	w.PutUint32(0) // placeholder size
	w.buf = append(w.buf, t[:]...)
}

// StartUUIDBox begins a uuid extension box with the given identifier.
func (w *Writer) StartUUIDBox(id [16]byte) {
	w.StartBox(TypeUUID)
	w.buf = append(w.buf, id[:]...)
}

// EndBox finishes the current box by backpatching its size.
func (w *Writer) EndBox() {
	f := w.stack[len(w.stack)-1]
	w.stack = w.stack[:len(w.stack)-1]
	size := uint32(len(w.buf) - f.offset)
	be.PutUint32(w.buf[f.offset:], size)
}

// WriteBox writes a complete leaf box with the given payload.
func (w *Writer) WriteBox(t BoxType, payload []byte) {
	w.StartBox(t)
	w.buf = append(w.buf, payload...)
	w.EndBox()
}

// WriteFtyp writes a complete ftyp box.
func (w *Writer) WriteFtyp(brand BoxType, brandVersion uint32, compat []BoxType) {
	w.StartBox(TypeFtyp)
	w.buf = append(w.buf, brand[:]...)
	w.PutUint32(brandVersion)
	for _, c := range compat {
		w.buf = append(w.buf, c[:]...)
	}
	w.EndBox()
}
