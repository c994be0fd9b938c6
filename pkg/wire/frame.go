package wire

import (
	"encoding/binary"
	"fmt"
	"io"
)

// maxFrameBytes bounds a single message so a bad length prefix can't
// make the server try to allocate an unbounded buffer.
const maxFrameBytes = 64 << 20 // 64MiB

// readFrame reads one length-prefixed message: a 4-byte big-endian
// length followed by that many bytes of JSON.
func readFrame(r io.Reader) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	if n > maxFrameBytes {
		return nil, fmt.Errorf("wire: frame of %d bytes exceeds %d byte limit", n, maxFrameBytes)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// writeFrame writes payload prefixed with its 4-byte big-endian length.
func writeFrame(w io.Writer, payload []byte) error {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}
