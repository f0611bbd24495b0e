// Package assets holds the images a session has loaded: subject screenshots,
// custom backgrounds and watermark logos. Each is decoded once into an
// immutable composition.Image and kept with its original bytes for serving.
package assets

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp"

	"github.com/xob0t/SnapPolish/pkg/composition"
)

var (
	ErrNotFound = errors.New("asset not found")
	ErrDecode   = errors.New("image decode failure")
	ErrRemote   = errors.New("remote images other than the placeholder are not supported")
)

// Entry is one stored asset.
type Entry struct {
	Image *composition.Image
	Data  []byte
	Mime  string
}

// Info is the listing form of an Entry.
type Info struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Mime   string `json:"mime"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	URL    string `json:"url"`
}

// Store is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

func NewStore() *Store {
	return &Store{entries: make(map[string]*Entry)}
}

// Load decodes data and stores it under a fresh ID. EXIF orientation is
// applied so the stored pixels are upright. Nothing is stored on failure.
func (s *Store) Load(name string, data []byte) (*composition.Image, error) {
	px, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, name, err)
	}

	img := composition.NewImage(uuid.NewString(), filepath.Base(name), px)
	s.mu.Lock()
	s.entries[img.ID] = &Entry{Image: img, Data: data, Mime: http.DetectContentType(data)}
	s.mu.Unlock()
	return img, nil
}

// LoadFile reads and stores a local image file.
func (s *Store) LoadFile(path string) (*composition.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	return s.Load(path, data)
}

func (s *Store) Get(id string) (*Entry, error) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return e, nil
}

func (s *Store) Remove(id string) {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
}

// List returns every asset, sorted by name then ID.
func (s *Store) List() []Info {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Info, 0, len(s.entries))
	for id, e := range s.entries {
		out = append(out, Info{
			ID:     id,
			Name:   e.Image.Name,
			Mime:   e.Mime,
			Width:  e.Image.Width,
			Height: e.Image.Height,
			URL:    "/api/assets/" + id,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Lookup resolves a settings-document image reference: a stored asset ID or
// the placeholder (by URL or the word "placeholder"). It never touches the
// filesystem. It satisfies composition.ImageLookup.
func (s *Store) Lookup(ref string) (*composition.Image, error) {
	if ref == "placeholder" || ref == composition.PlaceholderURL {
		return composition.Placeholder(), nil
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return nil, fmt.Errorf("%w: %s", ErrRemote, ref)
	}

	s.mu.RLock()
	e, ok := s.entries[ref]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
	}
	return e.Image, nil
}

// LookupFile is Lookup that also loads unknown references as local file
// paths. Only documents from a trusted source may resolve through it.
func (s *Store) LookupFile(ref string) (*composition.Image, error) {
	img, err := s.Lookup(ref)
	if errors.Is(err, ErrNotFound) {
		return s.LoadFile(ref)
	}
	return img, err
}
