// Package language defines the shared language list used across the
// store. Collaborators supplying a language for a scratchpad draw from
// this list; the virtual file bridge uses it to pick file extensions.
package language

import "strings"

// DefaultLanguage is used when no language is configured or supplied.
const DefaultLanguage = "plaintext"

// Supported is the enumerated language list. Order matters only for
// presentation.
var Supported = []string{
	"plaintext", "javascript", "typescript", "python", "html", "css", "scss", "sass",
	"json", "markdown", "xml", "yaml", "sql", "shell", "powershell", "bat",
	"java", "csharp", "cpp", "c", "php", "ruby", "go", "rust", "swift",
	"kotlin", "dart", "perl", "lua", "r", "matlab", "julia", "scala",
}

// extensions maps languages to file extensions for virtual paths.
// Languages without an entry fall back to txt.
var extensions = map[string]string{
	"javascript": "js",
	"typescript": "ts",
	"python":     "py",
	"html":       "html",
	"css":        "css",
	"scss":       "scss",
	"sass":       "sass",
	"json":       "json",
	"markdown":   "md",
	"xml":        "xml",
	"yaml":       "yaml",
	"sql":        "sql",
	"shell":      "sh",
	"powershell": "ps1",
	"bat":        "bat",
	"java":       "java",
	"csharp":     "cs",
	"cpp":        "cpp",
	"c":          "c",
	"php":        "php",
	"ruby":       "rb",
	"go":         "go",
	"rust":       "rs",
	"swift":      "swift",
	"kotlin":     "kt",
	"dart":       "dart",
	"perl":       "pl",
	"lua":        "lua",
	"r":          "r",
	"matlab":     "m",
	"julia":      "jl",
	"scala":      "scala",
}

// Valid reports whether l is a supported language.
func Valid(l string) bool {
	for _, s := range Supported {
		if s == l {
			return true
		}
	}
	return false
}

// Ext returns the file extension (without dot) for a language.
func Ext(l string) string {
	if ext, ok := extensions[strings.ToLower(l)]; ok {
		return ext
	}
	return "txt"
}

// Colors is the predefined color palette for scratchpads.
var Colors = []string{
	"#FF6B6B", "#4ECDC4", "#45B7D1", "#96CEB4", "#FFEAA7",
	"#DDA0DD", "#98D8C8", "#F7DC6F", "#BB8FCE", "#85C1E9",
}

// ValidColor reports whether c is acceptable as a scratchpad color.
// Empty string clears the color; otherwise a #-prefixed hex triple is
// required (any hex color is allowed, not just the palette).
func ValidColor(c string) bool {
	if c == "" {
		return true
	}
	if len(c) != 7 || c[0] != '#' {
		return false
	}
	for _, r := range strings.ToLower(c[1:]) {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}
