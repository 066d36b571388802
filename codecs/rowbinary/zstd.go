package rowbinary

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// CompressBlock zstd-compresses a RowBinary list/map body in one shot.
// Generated converters call this at the DataPtrPush/DataPtrPop boundary
// the IR lowering inserts around a Compressed Codec's list and map
// bodies; the IR itself never expresses the compression arithmetic, only
// where the boundary sits.
//
// Adapted from NimbleMarkets-dbn-go's compressed_io.go writer helper,
// simplified to operate on an in-memory block instead of a streaming
// io.Writer since a RowBinary list/map body is always fully materialized
// before it is framed.
func CompressBlock(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zstd.NewWriter(&buf)
	if err != nil {
		return nil, fmt.Errorf("rowbinary: opening zstd writer: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		w.Close()
		return nil, fmt.Errorf("rowbinary: zstd-compressing block: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("rowbinary: closing zstd writer: %w", err)
	}
	return buf.Bytes(), nil
}

// DecompressBlock reverses CompressBlock.
func DecompressBlock(compressed []byte) ([]byte, error) {
	r, err := zstd.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("rowbinary: opening zstd reader: %w", err)
	}
	defer r.Close()
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("rowbinary: zstd-decompressing block: %w", err)
	}
	return raw, nil
}
