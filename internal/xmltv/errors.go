package xmltv

import "errors"

var (
	// ErrTransport covers network failures and non-2xx responses.
	ErrTransport = errors.New("transport error")
	// ErrDecompression is returned when a compressed payload cannot be inflated.
	ErrDecompression = errors.New("decompression error")
	// ErrMalformedDocument is returned when the payload is not parseable XML.
	ErrMalformedDocument = errors.New("malformed document")
	// ErrMalformedEntry marks a single unusable channel or programme element.
	ErrMalformedEntry = errors.New("malformed entry")
)
