package models

import "time"

// Document describes corrected text exported to object storage. The content
// itself lives under StorageKey; the row only carries metadata.
type Document struct {
	ID         string
	ClientID   string
	StorageKey string
	CreatedAt  time.Time
}

// DocumentDownload is a temporary presigned URL for fetching an exported
// document.
type DocumentDownload struct {
	DocumentID string
	URL        string
	ExpiresAt  time.Time
}
