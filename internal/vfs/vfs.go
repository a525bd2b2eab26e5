// Package vfs exposes scratchpad documents as files under a
// scratchpad:/// URI scheme. Each document maps to a single virtual
// file named after its sanitized title with a language-derived
// extension; the directory tree is flat and read-only.
package vfs

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/LeonardoCerv/scratch-space/internal/language"
	"github.com/LeonardoCerv/scratch-space/internal/scratchpad"
)

// Scheme is the URI scheme the bridge serves.
const Scheme = "scratchpad"

var (
	ErrNotFound      = errors.New("file not found")
	ErrInvalidURI    = errors.New("invalid scratchpad uri")
	ErrNoPermissions = errors.New("operation not permitted")
	ErrNotADirectory = errors.New("not a directory")
)

// unsafeChars matches everything stripped from a document name when
// building its file name.
var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9-_ ]`)

// FileInfo describes a virtual file.
type FileInfo struct {
	DocumentID string
	Name       string // file name, e.g. "My Notes.md"
	Size       int64
	CreatedAt  time.Time
	ModifiedAt time.Time
}

// Store is the document access the bridge needs.
type Store interface {
	Get(id string) (*scratchpad.Document, error)
	All() []*scratchpad.Document
	Update(id string, p scratchpad.Patch) (*scratchpad.Document, error)
	Delete(id string) error
}

// Bridge resolves scratchpad URIs against a document store.
type Bridge struct {
	store Store
}

func NewBridge(store Store) *Bridge {
	return &Bridge{store: store}
}

// FileName builds the virtual file name for a document: the sanitized
// document name plus an extension derived from its language.
func FileName(doc *scratchpad.Document) string {
	name := strings.TrimSpace(unsafeChars.ReplaceAllString(doc.Name, ""))
	if name == "" {
		name = "scratchpad"
	}
	return name + "." + language.Ext(doc.Language)
}

// URIFor returns the scratchpad:/// URI for a document.
func URIFor(doc *scratchpad.Document) string {
	u := url.URL{
		Scheme: Scheme,
		Path:   "/" + doc.ID + "/" + FileName(doc),
	}
	return u.String()
}

// DocumentID returns the document id a URI addresses.
func DocumentID(uri string) (string, error) {
	return parse(uri)
}

// parse extracts the document id from a scratchpad URI. The file name
// segment is accepted but ignored; identity lives in the id.
func parse(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidURI, uri)
	}
	if u.Scheme != Scheme {
		return "", fmt.Errorf("%w: scheme %q", ErrInvalidURI, u.Scheme)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		return "", fmt.Errorf("%w: missing document id", ErrInvalidURI)
	}
	return parts[0], nil
}

// Stat returns file metadata for a URI.
func (b *Bridge) Stat(uri string) (FileInfo, error) {
	id, err := parse(uri)
	if err != nil {
		return FileInfo{}, err
	}
	doc, err := b.store.Get(id)
	if err != nil {
		if errors.Is(err, scratchpad.ErrNotFound) {
			return FileInfo{}, fmt.Errorf("%w: %s", ErrNotFound, uri)
		}
		return FileInfo{}, err
	}
	return infoFor(doc), nil
}

func infoFor(doc *scratchpad.Document) FileInfo {
	return FileInfo{
		DocumentID: doc.ID,
		Name:       FileName(doc),
		Size:       int64(len(doc.Content)),
		CreatedAt:  doc.CreatedAt,
		ModifiedAt: doc.UpdatedAt,
	}
}

// Read returns the document content behind a URI.
func (b *Bridge) Read(uri string) ([]byte, error) {
	id, err := parse(uri)
	if err != nil {
		return nil, err
	}
	doc, err := b.store.Get(id)
	if err != nil {
		if errors.Is(err, scratchpad.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, uri)
		}
		return nil, err
	}
	return []byte(doc.Content), nil
}

// Write replaces the document content behind a URI. Writes route
// through the store, so they pick up history and auto-save behavior.
func (b *Bridge) Write(uri string, data []byte) error {
	id, err := parse(uri)
	if err != nil {
		return err
	}
	content := string(data)
	if _, err := b.store.Update(id, scratchpad.Patch{Content: &content}); err != nil {
		if errors.Is(err, scratchpad.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrNotFound, uri)
		}
		return err
	}
	return nil
}

// Delete removes the document behind a URI.
func (b *Bridge) Delete(uri string) error {
	id, err := parse(uri)
	if err != nil {
		return err
	}
	if err := b.store.Delete(id); err != nil {
		if errors.Is(err, scratchpad.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrNotFound, uri)
		}
		return err
	}
	return nil
}

// List enumerates every document as a virtual file.
func (b *Bridge) List() []FileInfo {
	docs := b.store.All()
	out := make([]FileInfo, len(docs))
	for i, d := range docs {
		out[i] = infoFor(d)
	}
	return out
}

// Rename is not supported; names derive from document titles.
func (b *Bridge) Rename(oldURI, newURI string) error {
	return fmt.Errorf("%w: rename via the document store instead", ErrNoPermissions)
}

// Mkdir is not supported; the tree is flat.
func (b *Bridge) Mkdir(uri string) error {
	return fmt.Errorf("%w: directories cannot be created", ErrNoPermissions)
}

// ReadDir lists the root. Any deeper path is not a directory.
func (b *Bridge) ReadDir(uri string) ([]FileInfo, error) {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != Scheme {
		return nil, fmt.Errorf("%w: %s", ErrInvalidURI, uri)
	}
	if strings.Trim(u.Path, "/") != "" {
		return nil, fmt.Errorf("%w: %s", ErrNotADirectory, uri)
	}
	return b.List(), nil
}
