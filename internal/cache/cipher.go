package cache

import (
	"context"
	"io"
	"os"
)

// Key is the single-byte XOR key used by the cache format.
const Key byte = 0xA3

// Decode returns a copy of src with the cache encoding reversed.
//
// Because the encoding is a plain XOR, Decode also encodes:
// Decode(Decode(b)) returns the original bytes. It never fails.
func Decode(src []byte) []byte {
	dst := make([]byte, len(src))
	for i, b := range src {
		dst[i] = b ^ Key
	}
	return dst
}

// DecodeInPlace reverses the cache encoding on b without allocating.
func DecodeInPlace(b []byte) {
	for i := range b {
		b[i] ^= Key
	}
}

// reader decodes bytes as they are read from the underlying reader.
type reader struct {
	r io.Reader
}

// NewReader returns a reader that decodes the cache encoding of r on the fly.
func NewReader(r io.Reader) io.Reader {
	return &reader{r: r}
}

// Read implements io.Reader.
func (d *reader) Read(p []byte) (int, error) {
	n, err := d.r.Read(p)
	DecodeInPlace(p[:n])
	return n, err
}

// ReadFile reads the cache file at path and returns the decoded audio bytes.
//
// The context is checked before the file is opened; the read itself is not
// interruptible.
func ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(NewReader(f))
}
