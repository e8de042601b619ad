package cal

import (
	"encoding/binary"
	"fmt"
	"io"
	"time"
)

// Upper bound for any length prefix read back from a stream; anything
// bigger means we are not looking at one of our streams.
const maxStreamBlobLen = 1 << 26

// streamWriter writes the positional binary layout used by Person,
// Attendee and Incidence streams. Errors are sticky: after the first
// failed write every later call is a no-op and Err() reports the cause.
type streamWriter struct {
	w   io.Writer
	err error
}

func newStreamWriter(w io.Writer) *streamWriter {
	return &streamWriter{w: w}
}

func (sw *streamWriter) Err() error {
	return sw.err
}

func (sw *streamWriter) write(data []byte) {
	if sw.err != nil {
		return
	}
	if _, err := sw.w.Write(data); err != nil {
		sw.err = fmt.Errorf("streamWriter: %w", err)
	}
}

func (sw *streamWriter) writeUint32(v uint32) {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	sw.write(buf[:])
}

func (sw *streamWriter) writeInt32(v int32) {
	sw.writeUint32(uint32(v))
}

func (sw *streamWriter) writeInt64(v int64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(v))
	sw.write(buf[:])
}

func (sw *streamWriter) writeBool(v bool) {
	if v {
		sw.write([]byte{1})
		return
	}
	sw.write([]byte{0})
}

func (sw *streamWriter) writeString(s string) {
	sw.writeUint32(uint32(len(s)))
	sw.write([]byte(s))
}

// Zero times are written as an invalid marker so they survive the trip
// without being pinned to the unix epoch.
func (sw *streamWriter) writeTime(t time.Time) {
	sw.writeBool(!t.IsZero())
	if t.IsZero() {
		return
	}
	sw.writeInt64(t.Unix())
	sw.writeInt32(int32(t.Nanosecond()))
}

// streamReader is the mirror of streamWriter, same sticky error rule.
type streamReader struct {
	r   io.Reader
	err error
}

func newStreamReader(r io.Reader) *streamReader {
	return &streamReader{r: r}
}

func (sr *streamReader) Err() error {
	return sr.err
}

func (sr *streamReader) read(buf []byte) {
	if sr.err != nil {
		return
	}
	if _, err := io.ReadFull(sr.r, buf); err != nil {
		sr.err = fmt.Errorf("streamReader: %w", err)
	}
}

func (sr *streamReader) readUint32() uint32 {
	var buf [4]byte
	sr.read(buf[:])
	if sr.err != nil {
		return 0
	}
	return binary.BigEndian.Uint32(buf[:])
}

func (sr *streamReader) readInt32() int32 {
	return int32(sr.readUint32())
}

func (sr *streamReader) readInt64() int64 {
	var buf [8]byte
	sr.read(buf[:])
	if sr.err != nil {
		return 0
	}
	return int64(binary.BigEndian.Uint64(buf[:]))
}

func (sr *streamReader) readBool() bool {
	var buf [1]byte
	sr.read(buf[:])
	return sr.err == nil && buf[0] != 0
}

func (sr *streamReader) readString() string {
	n := sr.readUint32()
	if sr.err != nil {
		return ""
	}
	if n > maxStreamBlobLen {
		sr.err = fmt.Errorf("streamReader: string length %d out of range", n)
		return ""
	}
	buf := make([]byte, n)
	sr.read(buf)
	if sr.err != nil {
		return ""
	}
	return string(buf)
}

func (sr *streamReader) readTime() time.Time {
	if !sr.readBool() {
		return time.Time{}
	}
	sec := sr.readInt64()
	nsec := sr.readInt32()
	if sr.err != nil {
		return time.Time{}
	}
	return time.Unix(sec, int64(nsec)).UTC()
}
