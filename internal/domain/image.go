package domain

import (
	"context"
	"io"
)

// ImageStore uploads event artwork to an external asset host and returns the
// public URL it will be served from.
type ImageStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (url string, err error)
}
