package entity

import "time"

// DocumentInfo is the stored metadata of a knowledge file. The content
// itself stays on disk and is decoded on load.
type DocumentInfo struct {
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modified_at"`
}
