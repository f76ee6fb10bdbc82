package document

import "time"

// Document is a loaded document handed to the viewer layer. Data crosses
// the runtime boundary base64-encoded, which the viewer decodes before
// rendering.
type Document struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Size int64  `json:"size"`
	Data []byte `json:"data"`
}

// DocumentInfo describes a document on disk without its contents
type DocumentInfo struct {
	Name    string    `json:"name"`
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"modTime"`
}
