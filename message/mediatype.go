package message

import (
	"mime"
	"path/filepath"
	"strings"
)

const (
	// AUTO is a media type placeholder that picks the type by looking up the
	// filename extension when the entity is finalized.
	AUTO = "AUTO"

	// TEXT is a media type placeholder for text/plain.
	TEXT = "TEXT"

	// DefaultMultipartContentType is the media type given to a leaf when it
	// is promoted to a container and no other type was requested.
	DefaultMultipartContentType = "multipart/mixed"

	// DefaultContentType is the media type used when AUTO finds no match.
	DefaultContentType = "application/octet-stream"

	// TextContentType is the media type TEXT resolves to.
	TextContentType = "text/plain"
)

// builtinTypes is the lookup table used by LookupType when the mime package
// table is not wanted.
var builtinTypes = map[string]string{
	".avif": "image/avif",
	".css":  "text/css",
	".csv":  "text/csv",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".eml":  "message/rfc822",
	".gif":  "image/gif",
	".gz":   "application/gzip",
	".htm":  "text/html",
	".html": "text/html",
	".ics":  "text/calendar",
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".js":   "text/javascript",
	".json": "application/json",
	".md":   "text/markdown",
	".mp3":  "audio/mpeg",
	".mp4":  "video/mp4",
	".ogg":  "audio/ogg",
	".pdf":  "application/pdf",
	".png":  "image/png",
	".ps":   "application/postscript",
	".rtf":  "application/rtf",
	".svg":  "image/svg+xml",
	".tar":  "application/x-tar",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".txt":  "text/plain",
	".wav":  "audio/wav",
	".webp": "image/webp",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".xml":  "text/xml",
	".zip":  "application/zip",
}

// LookupType returns the media type for the extension of filename, or the
// empty string if there's no match. When builtin is false, the table in the
// mime package (which includes the system mime.types files) is consulted
// first.
func LookupType(filename string, builtin bool) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return ""
	}

	if !builtin {
		if mt := mime.TypeByExtension(ext); mt != "" {
			if base, _, err := mime.ParseMediaType(mt); err == nil {
				return base
			}
		}
	}

	return builtinTypes[ext]
}

// IsMultipartType returns true if the media type is multipart/*.
func IsMultipartType(mt string) bool {
	return strings.HasPrefix(strings.ToLower(mt), "multipart/")
}

// isPlaceholder returns true for AUTO and TEXT.
func isPlaceholder(mt string) bool {
	return strings.EqualFold(mt, AUTO) || strings.EqualFold(mt, TEXT)
}

// normalizeType upper-cases the placeholders and lower-cases real media types.
func normalizeType(mt string) string {
	if isPlaceholder(mt) {
		return strings.ToUpper(mt)
	}
	return strings.ToLower(strings.TrimSpace(mt))
}
