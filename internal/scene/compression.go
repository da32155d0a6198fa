// internal/scene/compression.go
package scene

import (
	"compress/gzip"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/andybalholm/brotli"
)

// Encoding is the compression applied to a scene file.
type Encoding string

const (
	EncodingIdentity Encoding = "identity"
	EncodingBrotli   Encoding = "br"
	EncodingGzip     Encoding = "gzip"
)

// Pools for decompression readers; scenes are often loaded in batches.
var (
	gzipReaderPool = sync.Pool{
		New: func() interface{} { return new(gzip.Reader) },
	}
	brotliReaderPool = sync.Pool{
		New: func() interface{} { return brotli.NewReader(nil) },
	}
)

var emptyReader = strings.NewReader("")

// pooledReader returns its decompressor to the pool on Close.
type pooledReader struct {
	io.Reader
	release func()
}

func (p *pooledReader) Close() error {
	if p.release != nil {
		p.release()
		p.release = nil
	}
	return nil
}

// Decompress wraps r with the decoder for enc. Closing the result releases
// the decoder but not r.
func Decompress(r io.Reader, enc Encoding) (io.ReadCloser, error) {
	switch enc {
	case EncodingIdentity, "":
		return io.NopCloser(r), nil
	case EncodingGzip:
		zr := gzipReaderPool.Get().(*gzip.Reader)
		if err := zr.Reset(r); err != nil {
			gzipReaderPool.Put(zr)
			return nil, fmt.Errorf("gzip initialization error: %w", err)
		}
		return &pooledReader{Reader: zr, release: func() {
			_ = zr.Reset(emptyReader)
			gzipReaderPool.Put(zr)
		}}, nil
	case EncodingBrotli:
		br := brotliReaderPool.Get().(*brotli.Reader)
		if err := br.Reset(r); err != nil {
			brotliReaderPool.Put(br)
			return nil, fmt.Errorf("brotli initialization error: %w", err)
		}
		return &pooledReader{Reader: br, release: func() {
			_ = br.Reset(emptyReader)
			brotliReaderPool.Put(br)
		}}, nil
	}
	return nil, fmt.Errorf("%w: encoding %q", ErrUnsupportedFormat, string(enc))
}
