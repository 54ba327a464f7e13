package tmx

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

// decodeData returns exactly n cells from a layer's <data> element.
func decodeData(d *xmlData, n int) ([]GID, error) {
	var (
		cells []GID
		err   error
	)
	switch d.Encoding {
	case "":
		cells = make([]GID, 0, len(d.Tiles))
		for _, t := range d.Tiles {
			cells = append(cells, GID(t.GID))
		}
	case "csv":
		cells, err = decodeCSV(d.Content)
	case "base64":
		cells, err = decodeBase64(d.Content, d.Compression)
	default:
		return nil, fmt.Errorf("%w: encoding %q", ErrUnsupported, d.Encoding)
	}
	if err != nil {
		return nil, err
	}
	if len(cells) != n {
		return nil, fmt.Errorf("%w: got %d cells, want %d", ErrMalformed, len(cells), n)
	}
	return cells, nil
}

func decodeCSV(content string) ([]GID, error) {
	fields := strings.FieldsFunc(content, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r' || r == ' ' || r == '\t'
	})
	cells := make([]GID, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseUint(f, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: csv cell %q", ErrMalformed, f)
		}
		cells = append(cells, GID(v))
	}
	return cells, nil
}

func decodeBase64(content, compression string) ([]GID, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(content))
	if err != nil {
		return nil, fmt.Errorf("%w: base64: %w", ErrMalformed, err)
	}

	raw, err = decompress(raw, compression)
	if err != nil {
		return nil, err
	}

	if len(raw)%4 != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a whole number of cells", ErrMalformed, len(raw))
	}
	cells := make([]GID, len(raw)/4)
	for i := range cells {
		cells[i] = GID(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	return cells, nil
}

func decompress(data []byte, compression string) ([]byte, error) {
	var r io.Reader
	switch compression {
	case "":
		return data, nil
	case "zlib":
		zr, err := zlib.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: zlib: %w", ErrMalformed, err)
		}
		defer zr.Close()
		r = zr
	case "gzip":
		gr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: gzip: %w", ErrMalformed, err)
		}
		defer gr.Close()
		r = gr
	case "zstd":
		zr, err := zstd.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %w", ErrMalformed, err)
		}
		defer zr.Close()
		r = zr
	default:
		return nil, fmt.Errorf("%w: compression %q", ErrUnsupported, compression)
	}

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformed, compression, err)
	}
	return out, nil
}
