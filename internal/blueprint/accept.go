// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package blueprint

import (
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/cast"
	"go.yaml.in/yaml/v3"
)

// Accept restricts the files a file template takes. Each list may be
// written as a YAML list or a comma-separated string.
type Accept struct {
	Mime      []string
	Extension []string
	Type      []string
}

// UnmarshalYAML accepts either a mapping or a scalar shorthand naming the
// MIME types (`accept: image/*`).
func (a *Accept) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		a.Mime = splitList(node.Value)
		return nil
	}
	var raw struct {
		Mime      any `yaml:"mime"`
		Extension any `yaml:"extension"`
		Type      any `yaml:"type"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	a.Mime = listOf(raw.Mime)
	a.Extension = listOf(raw.Extension)
	a.Type = listOf(raw.Type)
	return nil
}

// typeExtensions maps the file type categories to their extensions.
var typeExtensions = map[string][]string{
	"image":    {"jpg", "jpeg", "gif", "png", "svg", "webp", "avif", "ico", "tiff", "bmp"},
	"document": {"pdf", "doc", "docx", "xls", "xlsx", "ppt", "pptx", "odt", "ods", "csv", "txt", "md", "rtf"},
	"audio":    {"mp3", "wav", "ogg", "m4a", "flac", "aac"},
	"video":    {"mp4", "webm", "mov", "avi", "ogv", "m4v"},
	"archive":  {"zip", "tar", "gz", "rar", "7z"},
	"code":     {"css", "js", "json", "html", "xml", "yaml", "go"},
}

// extensionMimes covers extensions the runtime MIME table may not know.
var extensionMimes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"png":  "image/png",
	"svg":  "image/svg+xml",
	"webp": "image/webp",
	"avif": "image/avif",
	"ico":  "image/x-icon",
	"tiff": "image/tiff",
	"bmp":  "image/bmp",
	"pdf":  "application/pdf",
	"doc":  "application/msword",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"xls":  "application/vnd.ms-excel",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"ppt":  "application/vnd.ms-powerpoint",
	"pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	"odt":  "application/vnd.oasis.opendocument.text",
	"ods":  "application/vnd.oasis.opendocument.spreadsheet",
	"csv":  "text/csv",
	"txt":  "text/plain",
	"md":   "text/markdown",
	"rtf":  "text/rtf",
	"mp3":  "audio/mpeg",
	"wav":  "audio/wav",
	"ogg":  "audio/ogg",
	"m4a":  "audio/mp4",
	"flac": "audio/flac",
	"aac":  "audio/aac",
	"mp4":  "video/mp4",
	"webm": "video/webm",
	"mov":  "video/quicktime",
	"avi":  "video/x-msvideo",
	"ogv":  "video/ogg",
	"m4v":  "video/x-m4v",
	"zip":  "application/zip",
	"tar":  "application/x-tar",
	"gz":   "application/gzip",
	"rar":  "application/x-rar-compressed",
	"7z":   "application/x-7z-compressed",
	"css":  "text/css",
	"js":   "text/javascript",
	"json": "application/json",
	"html": "text/html",
	"xml":  "text/xml",
	"yaml": "application/x-yaml",
	"go":   "text/x-go",
}

// AcceptMime returns the comma-separated MIME list for the upload dialog,
// or "" when the blueprint accepts anything. An explicit mime list wins.
// Otherwise the extension and type restrictions are converted to MIME
// types and intersected when both are set.
func (b *Blueprint) AcceptMime() string {
	if len(b.Accept.Mime) > 0 {
		out := make([]string, 0, len(b.Accept.Mime))
		for _, m := range b.Accept.Mime {
			out = append(out, canonicalMime(m))
		}
		return strings.Join(unique(out), ", ")
	}

	var restrictions [][]string
	if len(b.Accept.Extension) > 0 {
		restrictions = append(restrictions, extensionsToMimes(b.Accept.Extension))
	}
	if len(b.Accept.Type) > 0 {
		var exts []string
		for _, t := range b.Accept.Type {
			exts = append(exts, typeExtensions[strings.ToLower(t)]...)
		}
		restrictions = append(restrictions, extensionsToMimes(exts))
	}
	if len(restrictions) == 0 {
		return ""
	}

	mimes := restrictions[0]
	for _, r := range restrictions[1:] {
		mimes = intersect(mimes, r)
	}
	return strings.Join(unique(mimes), ", ")
}

// canonicalMime maps aliases known to the detector registry to their
// canonical name. Wildcards and unknown types pass through.
func canonicalMime(m string) string {
	m = strings.ToLower(strings.TrimSpace(m))
	if strings.HasSuffix(m, "/*") {
		return m
	}
	if known := mimetype.Lookup(m); known != nil {
		base, _, _ := strings.Cut(known.String(), ";")
		return strings.TrimSpace(base)
	}
	return m
}

func extensionsToMimes(exts []string) []string {
	var out []string
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if m, ok := extensionMimes[ext]; ok {
			out = append(out, m)
			continue
		}
		if m := mime.TypeByExtension("." + ext); m != "" {
			base, _, _ := strings.Cut(m, ";")
			out = append(out, strings.TrimSpace(base))
		}
	}
	return out
}

func intersect(a, b []string) []string {
	in := make(map[string]bool, len(b))
	for _, v := range b {
		in[v] = true
	}
	var out []string
	for _, v := range a {
		if in[v] {
			out = append(out, v)
		}
	}
	return out
}

func unique(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := values[:0:0]
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func listOf(v any) []string {
	switch x := v.(type) {
	case nil:
		return nil
	case string:
		return splitList(x)
	case []any:
		var out []string
		for _, item := range x {
			out = append(out, splitList(cast.ToString(item))...)
		}
		return out
	}
	return splitList(cast.ToString(v))
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
