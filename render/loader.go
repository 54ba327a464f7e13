package render

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Loader decodes the image stored at path.
type Loader interface {
	Load(path string) (image.Image, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(path string) (image.Image, error)

func (f LoaderFunc) Load(path string) (image.Image, error) { return f(path) }

// FileLoader reads images from FS, or from the operating system when FS is nil.
type FileLoader struct {
	FS fs.FS
}

// Load reads and decodes the image at path.
func (l FileLoader) Load(path string) (image.Image, error) {
	if path == "" {
		return nil, &ResourceError{Path: path, Err: fmt.Errorf("empty image path")}
	}

	var (
		b   []byte
		err error
	)
	if l.FS != nil {
		b, err = fs.ReadFile(l.FS, filepath.ToSlash(path))
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, &ResourceError{Path: path, Err: err}
	}

	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, &ResourceError{Path: path, Err: err}
	}
	return img, nil
}

// ResourceError reports an image that could not be read or decoded.
type ResourceError struct {
	Path string
	Err  error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("render: load image %s: %v", e.Path, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }
