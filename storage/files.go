package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"food-delivery/api/config"
	"food-delivery/api/errs"
)

// FileStorage keeps uploaded files (delivery proof images) on local disk and
// hands back an opaque URL. Swappable for an object store behind the same
// interface.
type FileStorage struct {
	dir     string
	baseURL string
}

func NewFileStorage(cfg config.UploadsConfig) *FileStorage {
	return &FileStorage{dir: cfg.Dir, baseURL: strings.TrimSuffix(cfg.BaseURL, "/")}
}

func (s *FileStorage) Upload(folder, filename string, r io.Reader) (string, error) {
	name := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), filepath.Base(filename))
	dir := filepath.Join(s.dir, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errs.New(errs.FileUploadFailed)
	}

	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", errs.New(errs.FileUploadFailed)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", errs.New(errs.FileUploadFailed)
	}
	return s.baseURL + "/" + folder + "/" + name, nil
}

func (s *FileStorage) Delete(url string) error {
	rel := strings.TrimPrefix(url, s.baseURL+"/")
	if rel == url || strings.Contains(rel, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, filepath.FromSlash(rel)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
