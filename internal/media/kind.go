// Package media classifies uploaded attachments and defines the speech-to-text
// collaborator used for audio uploads.
package media

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/Tyrowin/relaychat/internal/storage"
)

var (
	imageExts = map[string]struct{}{".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".bmp": {}, ".webp": {}}
	videoExts = map[string]struct{}{".mp4": {}, ".mov": {}, ".mkv": {}, ".webm": {}, ".avi": {}}
)

// Detect returns the mime type and kind of an upload. Content sniffing wins;
// the file extension is the fallback when the content is not recognised.
func Detect(filename string, data []byte) (mimeType, kind string) {
	ext := strings.ToLower(filepath.Ext(filename))

	mimeType = "application/octet-stream"
	if detected := mimetype.Detect(data); detected.String() != "application/octet-stream" {
		mimeType = detected.String()
	} else if byExt := mime.TypeByExtension(ext); byExt != "" {
		mimeType = byExt
	}

	return mimeType, kindOf(mimeType, ext)
}

func kindOf(mimeType, ext string) string {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return storage.KindImage
	case strings.HasPrefix(mimeType, "video/"):
		return storage.KindVideo
	case strings.HasPrefix(mimeType, "audio/"):
		return storage.KindAudio
	}
	if _, ok := imageExts[ext]; ok {
		return storage.KindImage
	}
	if _, ok := videoExts[ext]; ok {
		return storage.KindVideo
	}
	return storage.KindFile
}
