package services

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"marketnest/internal/storage"
)

const (
	maxImageWidth = 1280
	jpegQuality   = 82
)

type UploadService struct {
	Store   storage.Store
	BaseURL string
}

func NewUploadService(store storage.Store, baseURL string) *UploadService {
	return &UploadService{Store: store, BaseURL: strings.TrimRight(baseURL, "/")}
}

// SaveFile stores one multipart file. Images wider than maxImageWidth are
// downscaled and re-encoded as JPEG; anything that does not decode as an
// image is stored byte-for-byte.
func (s *UploadService) SaveFile(fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		// Not an image; keep the original bytes and extension.
		ext := strings.ToLower(filepath.Ext(fh.Filename))
		key := fmt.Sprintf("uploads/%s%s", uuid.NewString(), ext)
		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}
		return s.publicURL(s.Store.Save(key, data, ct))
	}

	if img.Bounds().Dx() > maxImageWidth {
		img = imaging.Resize(img, maxImageWidth, 0, imaging.Lanczos)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return "", err
	}
	key := fmt.Sprintf("uploads/%s.jpg", uuid.NewString())
	return s.publicURL(s.Store.Save(key, buf.Bytes(), "image/jpeg"))
}

func (s *UploadService) SaveAll(fhs []*multipart.FileHeader) ([]string, error) {
	urls := make([]string, 0, len(fhs))
	for _, fh := range fhs {
		u, err := s.SaveFile(fh)
		if err != nil {
			return nil, err
		}
		urls = append(urls, u)
	}
	return urls, nil
}

// publicURL makes relative storage paths absolute against the configured
// base URL. Bucket drivers already return absolute URLs.
func (s *UploadService) publicURL(path string, err error) (string, error) {
	if err != nil {
		return "", err
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path, nil
	}
	return s.BaseURL + path, nil
}
