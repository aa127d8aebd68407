package model

import "strings"

// Message kinds as stored on the wire. A record without a recognized
// kind is treated as unknown by readers.
const (
	KindText  = "text"
	KindImage = "image"
	KindVideo = "video"
	KindFile  = "file"
)

// Message is the record shape persisted in the stream. Readers must
// tolerate missing optional fields; unknown extra fields are ignored
// by the JSON decoder.
type Message struct {
	User      string `json:"user"`
	Timestamp int64  `json:"timestamp"` // epoch millis, assigned at send time
	Type      string `json:"type,omitempty"`
	Text      string `json:"text"`
	FileURL   string `json:"fileUrl,omitempty"`
	FileName  string `json:"fileName,omitempty"`
	FileType  string `json:"fileType,omitempty"`
}

func (m Message) HasAttachment() bool {
	return m.FileURL != ""
}

// KindForContentType classifies an attachment by its declared content
// type prefix.
func KindForContentType(contentType string) string {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return KindImage
	case strings.HasPrefix(contentType, "video/"):
		return KindVideo
	default:
		return KindFile
	}
}
