package storage

// Store persists uploaded files and yields a public URL path for each.
type Store interface {
	// Save writes data under the given object key (e.g. "uploads/abc.jpg")
	// and returns the URL path clients should use to fetch it.
	Save(key string, data []byte, contentType string) (string, error)
}
