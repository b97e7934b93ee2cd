package xmltv

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ulikunitz/xz"
)

// DefaultTimeout bounds a single feed download.
const DefaultTimeout = 20 * time.Second

var (
	gzipMagic = []byte{0x1f, 0x8b}
	xzMagic   = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
)

type Client struct {
	http *http.Client
}

func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{http: httpClient}
}

// Fetch downloads rawURL and returns the uncompressed XML payload.
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrTransport, err)
	}
	req.Header.Set("Accept", "application/xml, application/gzip, */*")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: status %d: %s", ErrTransport, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrTransport, err)
	}
	return Decompress(raw, compressionHint(rawURL, resp.Header.Get("Content-Type")))
}

// Compression names the encoding a payload is expected to carry.
type Compression int

const (
	CompressionNone Compression = iota
	CompressionGzip
	CompressionXZ
)

func compressionHint(rawURL, contentType string) Compression {
	path := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		path = u.Path
	}
	path = strings.ToLower(path)
	switch {
	case strings.HasSuffix(path, ".gz"):
		return CompressionGzip
	case strings.HasSuffix(path, ".xz"):
		return CompressionXZ
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return CompressionNone
	}
	switch mediaType {
	case "application/gzip", "application/x-gzip":
		return CompressionGzip
	case "application/x-xz":
		return CompressionXZ
	}
	return CompressionNone
}

// Decompress inflates raw according to hint. Without a hint the magic bytes decide,
// and unknown payloads are returned verbatim.
func Decompress(raw []byte, hint Compression) ([]byte, error) {
	if hint == CompressionNone {
		switch {
		case bytes.HasPrefix(raw, gzipMagic):
			hint = CompressionGzip
		case bytes.HasPrefix(raw, xzMagic):
			hint = CompressionXZ
		default:
			return raw, nil
		}
	}

	var r io.Reader
	switch hint {
	case CompressionGzip:
		gzr, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: gzip: %v", ErrDecompression, err)
		}
		defer gzr.Close()
		r = gzr
	case CompressionXZ:
		xzr, err := xz.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: xz: %v", ErrDecompression, err)
		}
		r = xzr
	default:
		return raw, nil
	}

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecompression, err)
	}
	return out, nil
}
