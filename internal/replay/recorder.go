package replay

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/vmihailenco/msgpack/v5"
)

// Recorder writes a replay stream. Not safe for concurrent use; the game
// loop is its only caller.
type Recorder struct {
	w       *bufio.Writer
	started bool
}

// NewRecorder wraps w. The caller keeps ownership of the underlying writer
// and closes it after Close.
func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{w: bufio.NewWriter(w)}
}

// WriteHeader must be called once, before any frame.
func (r *Recorder) WriteHeader(h Header) error {
	if r.started {
		return fmt.Errorf("replay: header already written")
	}
	h.Version = FormatVersion
	if err := r.writeBlock(&h); err != nil {
		return fmt.Errorf("replay: write header: %w", err)
	}
	r.started = true
	return nil
}

// WriteFrame appends one frame.
func (r *Recorder) WriteFrame(f *Frame) error {
	if !r.started {
		return fmt.Errorf("replay: frame before header")
	}
	if err := r.writeBlock(f); err != nil {
		return fmt.Errorf("replay: write frame %d: %w", f.Tick, err)
	}
	return nil
}

func (r *Recorder) writeBlock(v any) error {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return err
	}
	if len(data) > math.MaxUint32 {
		return fmt.Errorf("block of %d bytes exceeds frame limit", len(data))
	}
	var prefix [4]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(len(data)))
	if _, err := r.w.Write(prefix[:]); err != nil {
		return err
	}
	_, err = r.w.Write(data)
	return err
}

// Close flushes buffered frames. It does not close the underlying writer.
func (r *Recorder) Close() error {
	if err := r.w.Flush(); err != nil {
		return fmt.Errorf("replay: flush: %w", err)
	}
	return nil
}
