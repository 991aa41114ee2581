package replay

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// maxBlockSize rejects absurd length prefixes before allocating for them.
// A frame is a few KB even in dense waves.
const maxBlockSize = 16 << 20

// Reader decodes a replay stream produced by Recorder.
type Reader struct {
	r      *bufio.Reader
	header Header
}

// NewReader reads and validates the header immediately.
func NewReader(r io.Reader) (*Reader, error) {
	rd := &Reader{r: bufio.NewReader(r)}
	if err := rd.readBlock(&rd.header); err != nil {
		return nil, fmt.Errorf("replay: read header: %w", err)
	}
	if rd.header.Version != FormatVersion {
		return nil, fmt.Errorf("replay: unsupported version %d", rd.header.Version)
	}
	return rd, nil
}

// Header returns the stream header.
func (r *Reader) Header() Header {
	return r.header
}

// Next returns the next frame, or io.EOF after the last one.
func (r *Reader) Next() (*Frame, error) {
	var f Frame
	if err := r.readBlock(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("replay: read frame: %w", err)
	}
	return &f, nil
}

func (r *Reader) readBlock(v any) error {
	var prefix [4]byte
	if _, err := io.ReadFull(r.r, prefix[:]); err != nil {
		// EOF on the prefix boundary is a clean end of stream.
		if errors.Is(err, io.EOF) {
			return io.EOF
		}
		return err
	}
	size := binary.BigEndian.Uint32(prefix[:])
	if size > maxBlockSize {
		return fmt.Errorf("block of %d bytes exceeds limit", size)
	}
	data := make([]byte, size)
	if _, err := io.ReadFull(r.r, data); err != nil {
		// A truncated block is corruption, not a clean end.
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("truncated block: want %d bytes", size)
		}
		return err
	}
	return msgpack.Unmarshal(data, v)
}
