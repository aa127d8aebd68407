package render

import (
	"strings"

	"github.com/CoderAdityaNayak/Vibe-Coded-VibeChatz/internal/model"
)

// KindUploading marks the optimistic placeholder shown while an
// attachment upload is in flight. It never appears on the wire.
const KindUploading = "uploading"

const unknownAuthor = "Unknown User"

// Unit is the flat render model for one feed entry. It carries
// everything a rendering surface needs, with no business logic left.
type Unit struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Author    string `json:"author"`
	Caption   string `json:"caption,omitempty"`
	FileURL   string `json:"fileUrl,omitempty"`
	FileName  string `json:"fileName,omitempty"`
	FileType  string `json:"fileType,omitempty"`
	FileIcon  string `json:"fileIcon,omitempty"`
	Mine      bool   `json:"mine"`
	Deletable bool   `json:"deletable"`
}

// Sink is the thin rendering adapter the composer and feed write into.
type Sink interface {
	Append(u Unit)
	RemovePlaceholder(id string)
	Clear()
}

// Model maps a committed record to its render unit. self is the local
// identity; only units authored by it grow a delete affordance. An
// unrecognized or missing kind degrades to plain text, never an error.
func Model(id string, msg model.Message, self string) Unit {
	mine := self != "" && msg.User == self

	u := Unit{
		ID:        id,
		Author:    msg.User,
		Mine:      mine,
		Deletable: mine,
	}
	if u.Author == "" {
		u.Author = unknownAuthor
	}

	switch msg.Type {
	case model.KindText:
		u.Kind = model.KindText
		u.Caption = msg.Text
	case model.KindImage, model.KindVideo:
		u.Kind = msg.Type
		u.Caption = msg.Text
		u.FileURL = msg.FileURL
		u.FileName = msg.FileName
		u.FileType = msg.FileType
	case model.KindFile:
		u.Kind = model.KindFile
		u.Caption = msg.Text
		u.FileURL = msg.FileURL
		u.FileName = msg.FileName
		u.FileType = msg.FileType
		icon := msg.FileType
		if icon == "" {
			icon = msg.FileName
		}
		u.FileIcon = Icon(icon)
	default:
		u.Kind = model.KindText
		u.Caption = msg.Text
		if u.Caption == "" {
			u.Caption = "(Unknown message type)"
		}
	}

	return u
}

// Icon picks a glyph for a generic attachment from its content type or
// file name.
func Icon(fileNameOrType string) string {
	s := strings.ToLower(fileNameOrType)
	switch {
	case strings.Contains(s, "image"):
		return "🖼️"
	case strings.Contains(s, "video"):
		return "🎥"
	case strings.Contains(s, "audio"):
		return "🎵"
	case strings.Contains(s, "pdf"):
		return "📄"
	case strings.Contains(s, "doc"):
		return "📝"
	case strings.Contains(s, "xls"), strings.Contains(s, "sheet"):
		return "📊"
	case strings.Contains(s, "zip"), strings.Contains(s, "rar"):
		return "📦"
	default:
		return "📁"
	}
}
