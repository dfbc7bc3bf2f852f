package models

import "time"

// FileRecord is the metadata row for one uploaded file. A live record always
// corresponds to exactly one physical object in the owner's upload directory.
type FileRecord struct {
	ID          int64     `json:"id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type,omitempty"`
	Size        int64     `json:"size"`
	UploadDate  time.Time `json:"upload_date"`
	UserID      int64     `json:"-"`
}

// UploadResponse is returned by a successful upload.
type UploadResponse struct {
	Message  string `json:"message"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	URL      string `json:"url"`
}

// FileListResponse is a page of file records for one user.
type FileListResponse struct {
	Files []FileRecord `json:"files"`
	Skip  int          `json:"skip"`
	Limit int          `json:"limit"`
}
