package ingest

import (
	"bytes"
	"compress/gzip"
	"io"

	"github.com/jfexwana/lego-manager/pkg/types"
)

// Decompress inflates a gzip payload. Any failure, including a truncated
// stream, aborts the ingestion of the resource with a FormatError.
func Decompress(resource string, compressed []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, &types.FormatError{Resource: resource, Err: err}
	}
	defer zr.Close()

	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, &types.FormatError{Resource: resource, Err: err}
	}
	return out, nil
}
