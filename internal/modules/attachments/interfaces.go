package attachments

import (
	"context"
	"io"
)

// Uploader posts a multipart file to the booking API.
type Uploader interface {
	PostFile(ctx context.Context, path, field, filename string, r io.Reader, out any) error
}
