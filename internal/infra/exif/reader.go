package exif

import (
	"context"
	"strings"
	"time"

	goexif "github.com/rwcarlsen/goexif/exif"
	"github.com/spf13/afero"

	"mediasort/internal/app"
	apperrors "mediasort/internal/errors"
)

// Reader extracts the capture date and device identity from a file's
// embedded EXIF block. Failure to decode is reported as a metadata error
// so the caller can degrade the file instead of aborting.
type Reader struct {
	backend afero.Fs
}

func New() *Reader {
	return &Reader{backend: afero.NewOsFs()}
}

func NewWith(backend afero.Fs) *Reader {
	return &Reader{backend: backend}
}

func (r *Reader) ReadMetadata(ctx context.Context, path string) (app.Metadata, error) {
	select {
	case <-ctx.Done():
		return app.Metadata{}, ctx.Err()
	default:
	}

	file, err := r.backend.Open(path)
	if err != nil {
		return app.Metadata{}, err
	}
	defer file.Close()

	x, err := goexif.Decode(file)
	if err != nil {
		return app.Metadata{}, apperrors.Wrap(apperrors.MetadataFailure, "decode exif", path, err)
	}

	meta := app.Metadata{
		Make:  tagString(x, goexif.Make),
		Model: tagString(x, goexif.Model),
	}
	if taken, ok := takenAt(x); ok {
		meta.TakenAt = &taken
	}
	return meta, nil
}

// takenAt prefers the original capture date and falls back to the
// embedded modification date.
func takenAt(x *goexif.Exif) (time.Time, bool) {
	if tag, err := x.Get(goexif.DateTimeOriginal); err == nil {
		if str, err := tag.StringVal(); err == nil {
			if parsed, err := time.Parse("2006:01:02 15:04:05", str); err == nil {
				return parsed, true
			}
		}
	}
	if parsed, err := x.DateTime(); err == nil {
		return parsed, true
	}
	return time.Time{}, false
}

// tagString reads one string tag and strips the quoting and stray commas
// some cameras embed.
func tagString(x *goexif.Exif, name goexif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	str, err := tag.StringVal()
	if err != nil {
		return ""
	}
	str = strings.Trim(str, "\" ,\x00")
	return strings.TrimSpace(str)
}
