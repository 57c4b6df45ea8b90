package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MediaStore saves uploaded post images under a local media root and
// hands back the stable web path stored on the post. Absence of an image
// is always valid; callers skip the store entirely in that case.
type MediaStore struct {
	root string
}

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

func NewMediaStore(root string) (*MediaStore, error) {
	if err := os.MkdirAll(filepath.Join(root, "posts"), 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &MediaStore{root: root}, nil
}

// SavePostImage writes the upload to disk under a fresh name and returns
// the /media/... path to store on the post.
func (m *MediaStore) SavePostImage(file multipart.File, header *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExts[ext] {
		return "", fmt.Errorf("unsupported image type %q", ext)
	}

	name := uuid.New().String() + ext
	dst, err := os.Create(filepath.Join(m.root, "posts", name))
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", fmt.Errorf("write image file: %w", err)
	}

	return "/media/posts/" + name, nil
}

// Root returns the directory served under /media.
func (m *MediaStore) Root() string {
	return m.root
}
