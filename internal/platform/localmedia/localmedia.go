package localmedia

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/mrkecom/mrkecom-backend/internal/platform/logger"
)

// MaxFileSize caps a single uploaded image at 5 MB.
const MaxFileSize = 5 << 20

// Store writes uploaded media to a local directory and serves it back under
// a stable public URL prefix. Product and avatar images only ever travel
// through the rest of the system as these URLs.
type Store interface {
	Save(name string, data []byte) (string, error)
	Delete(url string) error
	ValidateImageName(name string) error
}

type store struct {
	log     *logger.Logger
	dir     string
	baseURL string
}

func New(log *logger.Logger, dir, baseURL string) (Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("missing media dir")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	baseURL = strings.TrimRight(baseURL, "/")
	return &store{log: log.With("platform", "LocalMedia"), dir: dir, baseURL: baseURL}, nil
}

func (s *store) Save(name string, data []byte) (string, error) {
	if err := s.ValidateImageName(name); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", fmt.Errorf("empty file")
	}
	if len(data) > MaxFileSize {
		return "", fmt.Errorf("file exceeds %d bytes", MaxFileSize)
	}

	ext := strings.ToLower(filepath.Ext(name))
	objectName := uuid.New().String() + ext
	fullPath := filepath.Join(s.dir, objectName)
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", fmt.Errorf("write media file: %w", err)
	}

	url := s.baseURL + "/" + objectName
	s.log.Debug("Stored media file", "object", objectName, "bytes", len(data))
	return url, nil
}

func (s *store) Delete(url string) error {
	objectName := path.Base(url)
	if objectName == "" || objectName == "." || objectName == "/" {
		return fmt.Errorf("invalid media url %q", url)
	}
	fullPath := filepath.Join(s.dir, objectName)
	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return nil
}

// ValidateImageName accepts jpg, jpeg and png, matching the upload filter
// the frontend already depends on.
func (s *store) ValidateImageName(name string) error {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".jpg", ".jpeg", ".png":
		return nil
	default:
		return fmt.Errorf("only images are allowed")
	}
}
