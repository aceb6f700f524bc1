package artifact

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the byte-level compression applied to artifacts after
// encoding. The manifest records the name so readers pick the matching
// decompressor.
type Compression int

const (
	// None stores encoded bytes as-is.
	None Compression = iota

	// Gzip is the most interoperable option.
	Gzip

	// Zstd gives the best ratio/speed trade-off for large assignment tables.
	Zstd

	// LZ4 favors throughput over ratio.
	LZ4
)

func (c Compression) String() string {
	switch c {
	case None:
		return "none"
	case Gzip:
		return "gzip"
	case Zstd:
		return "zstd"
	case LZ4:
		return "lz4"
	default:
		return fmt.Sprintf("Unknown(%d)", int(c))
	}
}

// Ext returns the file extension appended to artifact names, "" for None.
func (c Compression) Ext() string {
	switch c {
	case Gzip:
		return ".gz"
	case Zstd:
		return ".zst"
	case LZ4:
		return ".lz4"
	default:
		return ""
	}
}

// CompressionByName resolves a compression by its stable manifest name.
func CompressionByName(name string) (Compression, bool) {
	switch name {
	case "none", "":
		return None, true
	case "gzip":
		return Gzip, true
	case "zstd":
		return Zstd, true
	case "lz4":
		return LZ4, true
	default:
		return None, false
	}
}

func (c Compression) compress(data []byte) ([]byte, error) {
	switch c {
	case None:
		return data, nil
	case Gzip:
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		if _, err := zw.Write(data); err != nil {
			return nil, fmt.Errorf("artifact: gzip: %w", err)
		}
		if err := zw.Close(); err != nil {
			return nil, fmt.Errorf("artifact: gzip: %w", err)
		}
		return buf.Bytes(), nil
	case Zstd:
		var buf bytes.Buffer
		zw, err := zstd.NewWriter(&buf)
		if err != nil {
			return nil, fmt.Errorf("artifact: zstd: %w", err)
		}
		if _, err := zw.Write(data); err != nil {
			zw.Close()
			return nil, fmt.Errorf("artifact: zstd: %w", err)
		}
		if err := zw.Close(); err != nil {
			return nil, fmt.Errorf("artifact: zstd: %w", err)
		}
		return buf.Bytes(), nil
	case LZ4:
		var buf bytes.Buffer
		zw := lz4.NewWriter(&buf)
		if _, err := zw.Write(data); err != nil {
			return nil, fmt.Errorf("artifact: lz4: %w", err)
		}
		if err := zw.Close(); err != nil {
			return nil, fmt.Errorf("artifact: lz4: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("artifact: unsupported compression %v", c)
	}
}

func (c Compression) decompress(data []byte) ([]byte, error) {
	switch c {
	case None:
		return data, nil
	case Gzip:
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("artifact: gunzip: %w", err)
		}
		defer zr.Close()
		out, err := io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("artifact: gunzip: %w", err)
		}
		return out, nil
	case Zstd:
		zr, err := zstd.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("artifact: zstd: %w", err)
		}
		defer zr.Close()
		out, err := io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("artifact: zstd: %w", err)
		}
		return out, nil
	case LZ4:
		out, err := io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
		if err != nil {
			return nil, fmt.Errorf("artifact: lz4: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("artifact: unsupported compression %v", c)
	}
}
