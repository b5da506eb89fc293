package preview

import "time"

// CacheControl is the cache directive sent with every preview
const CacheControl = "public, max-age=31536000"

// Blob is a transcoded clip held by a Store
type Blob struct {
	Handle      string
	Data        []byte
	ContentType string
	StoredAt    time.Time
}

// Size returns the payload length in bytes
func (b Blob) Size() int {
	return len(b.Data)
}
