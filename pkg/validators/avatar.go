package validators

import (
	"errors"
	"io"
	"mime/multipart"
	"regexp"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrNoFile          = errors.New("no file provided")
	ErrAvatarNotImage  = errors.New("please upload an image file")
	ErrAvatarTooLarge  = errors.New("file too large")
	avatarNamePattern  = regexp.MustCompile(`(?i)\.(jpg|jpeg|png)$`)
	allowedAvatarMimes = []string{"image/jpeg", "image/png"}
)

// AvatarValidator checks an uploaded avatar and returns its contents ready
// to be read from the start. Callers must close the returned file
func AvatarValidator(fh *multipart.FileHeader, maxSize int64) (multipart.File, error) {
	if fh == nil {
		return nil, ErrNoFile
	}

	// Names and sizes from the header are easy to spoof, but cheap to check for legit clients
	if !avatarNamePattern.MatchString(fh.Filename) {
		return nil, ErrAvatarNotImage
	}

	if fh.Size > maxSize {
		return nil, ErrAvatarTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}

	mime, err := mimetype.DetectReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	if !mime.Is(allowedAvatarMimes[0]) && !mime.Is(allowedAvatarMimes[1]) {
		f.Close()
		return nil, ErrAvatarNotImage
	}

	// And now check the real size of the body
	if _, err := f.Seek(maxSize, io.SeekStart); err != nil {
		f.Close()
		return nil, err
	}

	buf := make([]byte, 1)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		f.Close()
		return nil, err
	}

	if n > 0 {
		f.Close()
		return nil, ErrAvatarTooLarge
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, err
	}

	return f, nil
}
