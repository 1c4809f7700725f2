package storage

import (
	"bytes"
	"fmt"
	"net/http"
	"time"
)

// Bucket uploads objects to an S3-compatible object storage service over its
// REST API and returns the public object URL.
type Bucket struct {
	BaseURL string // e.g. "https://project.supabase.co/storage/v1"
	Name    string
	Key     string // service key sent as bearer token
	Client  *http.Client
}

func NewBucket(baseURL, name, key string) *Bucket {
	return &Bucket{
		BaseURL: baseURL,
		Name:    name,
		Key:     key,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (b *Bucket) Save(key string, data []byte, contentType string) (string, error) {
	url := fmt.Sprintf("%s/object/%s/%s", b.BaseURL, b.Name, key)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+b.Key)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "true")

	resp, err := b.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("bucket upload failed: %s", resp.Status)
	}
	return fmt.Sprintf("%s/object/public/%s/%s", b.BaseURL, b.Name, key), nil
}
