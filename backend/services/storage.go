package services

import (
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"academix/backend/config"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/google/uuid"
)

// Storage is the object-store surface the controllers depend on. Upload
// returns the public URL of the stored object; Delete takes that URL back.
type Storage interface {
	Upload(folder, filename string, r io.Reader) (string, error)
	Delete(fileURL string) error
}

// OSSStorage stores assets in an Aliyun OSS bucket.
type OSSStorage struct {
	bucket    *oss.Bucket
	bucketURL string
}

func NewOSSStorage(cfg *config.Config) (*OSSStorage, error) {
	client, err := oss.New(cfg.OSSEndpoint, cfg.OSSKeyID, cfg.OSSKeySecret)
	if err != nil {
		return nil, fmt.Errorf("oss client: %w", err)
	}

	bucket, err := client.Bucket(cfg.OSSBucket)
	if err != nil {
		return nil, fmt.Errorf("oss bucket %q: %w", cfg.OSSBucket, err)
	}

	return &OSSStorage{
		bucket:    bucket,
		bucketURL: fmt.Sprintf("https://%s.%s", cfg.OSSBucket, cfg.OSSEndpoint),
	}, nil
}

// Upload stores the payload under folder/<uuid><ext> and returns its URL.
// The uuid keeps concurrent uploads of same-named files from colliding.
func (s *OSSStorage) Upload(folder, filename string, r io.Reader) (string, error) {
	ext := path.Ext(filename)
	key := fmt.Sprintf("%s/%s%s", strings.Trim(folder, "/"), uuid.NewString(), ext)

	if err := s.bucket.PutObject(key, r); err != nil {
		return "", fmt.Errorf("oss upload %q: %w", key, err)
	}

	return s.bucketURL + "/" + key, nil
}

// Delete removes the object a previous Upload returned. Unknown or foreign
// URLs are rejected rather than guessed at.
func (s *OSSStorage) Delete(fileURL string) error {
	key, err := s.objectKey(fileURL)
	if err != nil {
		return err
	}
	if err := s.bucket.DeleteObject(key); err != nil {
		return fmt.Errorf("oss delete %q: %w", key, err)
	}
	return nil
}

func (s *OSSStorage) objectKey(fileURL string) (string, error) {
	u, err := url.Parse(fileURL)
	if err != nil {
		return "", fmt.Errorf("bad object url %q: %w", fileURL, err)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", fmt.Errorf("no object key in url %q", fileURL)
	}
	return key, nil
}
