package extract

import (
	"net/url"
	"path"
	"strings"
)

const (
	MimeMP4  = "video/mp4"
	MimeWebM = "video/webm"
	MimeOgg  = "video/ogg"
	MimeHLS  = "application/x-mpegURL"
	MimeDASH = "application/dash+xml"
)

var mimeByExt = map[string]string{
	"mp4":  MimeMP4,
	"webm": MimeWebM,
	"ogg":  MimeOgg,
	"ogv":  MimeOgg,
	"m3u8": MimeHLS,
	"mpd":  MimeDASH,
}

// InferMIME guesses a media type from the URL path. Unknown extensions are video/mp4.
func InferMIME(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}
	p = strings.ToLower(p)

	if mime, ok := mimeByExt[strings.TrimPrefix(path.Ext(p), ".")]; ok {
		return mime
	}
	if strings.Contains(p, ".m3u8") {
		return MimeHLS
	}
	return MimeMP4
}
