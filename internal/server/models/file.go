package models

import "time"

// FileAttachment describes a file gated behind a link. The bytes live in the
// blob store under BlobID.
type FileAttachment struct {
	ID        int64     `json:"id"`
	LinkID    int64     `json:"linkId"`
	FileName  string    `json:"fileName"`
	FileSize  int64     `json:"fileSize"`
	MimeType  string    `json:"mimeType"`
	BlobID    string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// FileMeta is what the uploader knows about a file once its blob is stored.
type FileMeta struct {
	FileName string
	FileSize int64
	MimeType string
	BlobID   string
}
