package markers

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/agentstation/mapnotes/pkg/errors"
)

// Image is an image upload. The backend decides what it accepts; the client
// only carries bytes and a filename.
type Image struct {
	Filename string
	Content  []byte
}

// LoadImage reads an image from disk. An empty path yields a nil image so
// callers can pass optional flag values straight through.
func LoadImage(path string) (*Image, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapResource("read", "image", path, err)
	}
	return &Image{Filename: filepath.Base(path), Content: content}, nil
}
