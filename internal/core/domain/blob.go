package domain

// Blob is a downloaded file held in memory.
type Blob struct {
	Filename    string
	ContentType string
	Data        []byte
}
