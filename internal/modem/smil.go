package modem

import (
	"fmt"
	"strings"
)

// OutPart names one part of an outbound MMS for the presentation
// descriptor: file name, MIME type, and the path handed to the transport.
type OutPart struct {
	Name     string
	MimeType string
	Path     string
}

func mimeFit(mime string) string {
	if strings.HasPrefix(mime, "text/") {
		return "scroll"
	}
	return "meet"
}

func mimeTag(mime string) string {
	switch {
	case strings.HasPrefix(mime, "text/"):
		return "text"
	case strings.HasPrefix(mime, "image/"):
		return "img"
	case strings.HasPrefix(mime, "audio/"):
		return "audio"
	case strings.HasPrefix(mime, "video/"):
		return "video"
	default:
		return "ref"
	}
}

// GenerateSMIL synthesizes the SMIL presentation descriptor for an outbound
// MMS, one region per part laid out full-size for five seconds.
func GenerateSMIL(parts []OutPart) string {
	var regions, body strings.Builder
	for i, p := range parts {
		fmt.Fprintf(&regions, "<region id=\"cid-%d\" height=\"100%%\" width=\"100%%\" fit=\"%s\"/>\n",
			i, mimeFit(p.MimeType))
		fmt.Fprintf(&body, "<%s src=\"%s\" region=\"cid-%d\"/>\n",
			mimeTag(p.MimeType), p.Name, i)
	}

	var out strings.Builder
	out.WriteString("<smil>\n<head>\n<layout>\n")
	out.WriteString(regions.String())
	out.WriteString("</layout>\n</head>\n<body>\n<par dur=\"5s\">\n")
	out.WriteString(body.String())
	out.WriteString("</par>\n</body>\n</smil>")
	return out.String()
}
