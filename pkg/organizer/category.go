package organizer

import (
	"io"
	"strings"

	"github.com/h2non/filetype"
	"github.com/spf13/afero"

	"github.com/moyu-x/file-organizer/internal"
)

const CategoryOther = "other"

// categories maps lowercase file extensions to folder names.
var categories = map[string][]string{
	"documents":     {".pdf", ".doc", ".docx", ".txt", ".odt", ".rtf", ".tex"},
	"spreadsheets":  {".xls", ".xlsx", ".csv", ".ods"},
	"presentations": {".ppt", ".pptx", ".key", ".odp"},
	"images":        {".jpg", ".jpeg", ".png", ".gif", ".bmp", ".svg", ".webp", ".ico"},
	"videos":        {".mp4", ".avi", ".mkv", ".mov", ".wmv", ".flv", ".webm"},
	"audio":         {".mp3", ".wav", ".flac", ".aac", ".ogg", ".wma", ".m4a"},
	"archives":      {".zip", ".rar", ".7z", ".tar", ".gz", ".bz2"},
	"code":          {".py", ".js", ".java", ".cpp", ".c", ".h", ".cs", ".php", ".rb", ".go", ".rs"},
	"web":           {".html", ".css", ".scss", ".sass", ".less"},
	"data":          {".json", ".xml", ".yaml", ".yml", ".toml", ".ini", ".cfg"},
	"executables":   {".exe", ".msi", ".app", ".dmg", ".deb", ".rpm"},
	"fonts":         {".ttf", ".otf", ".woff", ".woff2"},
}

var extToCategory map[string]string

func init() {
	extToCategory = make(map[string]string)
	for category, exts := range categories {
		for _, ext := range exts {
			extToCategory[ext] = category
		}
	}
}

// CategoryForExt returns the category folder for an extension, or "" when the
// extension is not in the table.
func CategoryForExt(ext string) string {
	return extToCategory[strings.ToLower(ext)]
}

// sniffCategory inspects the file's magic bytes when the extension table has
// no answer. Returns CategoryOther when the content is unrecognized too.
func sniffCategory(fs afero.Fs, path string) string {
	file, err := fs.Open(path)
	if err != nil {
		return CategoryOther
	}
	defer file.Close()

	head := make([]byte, internal.HashChunkSize)
	n, err := file.Read(head)
	if err != nil && err != io.EOF {
		return CategoryOther
	}

	kind, err := filetype.Match(head[:n])
	if err != nil || kind == filetype.Unknown {
		return CategoryOther
	}

	switch kind.MIME.Type {
	case "image":
		return "images"
	case "video":
		return "videos"
	case "audio":
		return "audio"
	case "application":
		switch kind.Extension {
		case "zip", "tar", "gz", "bz2", "rar", "7z", "xz":
			return "archives"
		case "pdf", "doc", "docx", "xls", "xlsx", "ppt", "pptx":
			return "documents"
		case "ttf", "otf", "woff", "woff2":
			return "fonts"
		case "exe", "deb", "rpm":
			return "executables"
		}
	}

	return CategoryOther
}
