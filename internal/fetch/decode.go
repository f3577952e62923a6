package fetch

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/pkg/errors"
)

// Pages larger than this are truncated.
const maxBodyBytes = 16 << 20

// readBody reads and decompresses the response body. Setting Accept-Encoding
// ourselves turns off the transport's transparent gzip handling.
func readBody(resp *http.Response) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response body")
	}
	if len(raw) == 0 {
		return raw, nil
	}

	encoding := strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding")))
	switch encoding {
	case "", "identity":
		return raw, nil
	case "gzip", "x-gzip":
		zr, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, errors.Wrap(err, "invalid gzip body")
		}
		defer zr.Close()
		return readAllLimited(zr, "gzip")
	case "br":
		return readAllLimited(brotli.NewReader(bytes.NewReader(raw)), "brotli")
	case "deflate":
		// Servers disagree on whether deflate means zlib-wrapped or raw
		if zr, err := zlib.NewReader(bytes.NewReader(raw)); err == nil {
			defer zr.Close()
			return readAllLimited(zr, "deflate")
		}
		fr := flate.NewReader(bytes.NewReader(raw))
		defer fr.Close()
		return readAllLimited(fr, "deflate")
	default:
		return nil, errors.Errorf("unsupported content encoding %q", encoding)
	}
}

func readAllLimited(r io.Reader, name string) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, maxBodyBytes))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s body", name)
	}
	return body, nil
}
