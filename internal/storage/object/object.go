// Package object stores uploaded files (avatars, group and event images)
// in an S3-compatible bucket.
package object

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrUnsupportedType is returned when an upload's content type is not in
// the allow list.
var ErrUnsupportedType = fmt.Errorf("unsupported content type")

// allowedTypes maps accepted content types to their canonical extension.
var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Uploader saves files and returns a URL clients can fetch them from.
type Uploader interface {
	Upload(ctx context.Context, reader io.Reader, size int64, contentType, originalName string) (string, error)
}

// ObjectName builds a collision-free object key preserving the original
// extension when the content type allows it.
func ObjectName(contentType, originalName string) (string, error) {
	ext, ok := allowedTypes[strings.ToLower(contentType)]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}
	if e := strings.ToLower(filepath.Ext(originalName)); e != "" {
		ext = e
	}
	return fmt.Sprintf("%d-%s%s", time.Now().Unix(), uuid.NewString(), ext), nil
}
