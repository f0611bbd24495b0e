// Package editor is one interactive editing session: the composition model,
// the images loaded into it, the exporter and the editor's UI state.
// Updates are applied one at a time in arrival order.
package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/xob0t/SnapPolish/pkg/assets"
	"github.com/xob0t/SnapPolish/pkg/composition"
	"github.com/xob0t/SnapPolish/pkg/export"
	"github.com/xob0t/SnapPolish/pkg/layout"
)

var ErrUnknownSlot = errors.New("unknown image slot")

// Slot names where a loaded image goes.
type Slot string

const (
	SlotSubject    Slot = "subject"
	SlotBackground Slot = "background"
	SlotLogo       Slot = "logo"
)

// ProSwatches are shown but not applied; choosing one opens the pro modal.
var ProSwatches = map[string]bool{"mesh": true}

// Session is safe for concurrent use.
type Session struct {
	mu       sync.Mutex
	model    *composition.Model
	ui       UIState
	assets   *assets.Store
	exporter *export.Orchestrator
}

// NewSession starts from the default composition. A nil store gets a fresh
// one.
func NewSession(store *assets.Store, exporter *export.Orchestrator) *Session {
	if store == nil {
		store = assets.NewStore()
	}
	return &Session{
		model:    composition.NewModel(),
		ui:       DefaultUIState(),
		assets:   store,
		exporter: exporter,
	}
}

func (s *Session) Assets() *assets.Store { return s.assets }
func (s *Session) Exporter() *export.Orchestrator { return s.exporter }

// Composition returns the current snapshot.
func (s *Session) Composition() composition.Composition {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model.Get()
}

// Update merges p.
func (s *Session) Update(p composition.Partial) composition.Composition {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model.Update(p)
}

// ApplyPreset replaces the preset-owned fields; false for an unknown name.
func (s *Session) ApplyPreset(name composition.PresetName) (composition.Composition, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model.ApplyPreset(name)
}

// Apply merges a settings document. Image references resolve to stored
// assets or the placeholder only. Problems are returned as warnings; valid
// fields still apply.
func (s *Session) Apply(doc *composition.Document) (composition.Composition, []string) {
	return s.apply(doc, s.assets.Lookup)
}

// ApplyLocal is Apply for documents read from the local machine: image
// references may also name files on disk.
func (s *Session) ApplyLocal(doc *composition.Document) (composition.Composition, []string) {
	return s.apply(doc, s.assets.LookupFile)
}

func (s *Session) apply(doc *composition.Document, lookup composition.ImageLookup) (composition.Composition, []string) {
	p, warnings := doc.Partial(lookup)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model.Update(p), warnings
}

// SelectSwatch applies a named background swatch. Pro swatches leave the
// composition alone and open the pro modal instead.
func (s *Session) SelectSwatch(name string) (composition.Composition, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bg, ok := composition.Swatches[name]
	if !ok {
		return s.model.Get(), false
	}
	if ProSwatches[name] {
		s.ui.ProModal = true
		return s.model.Get(), false
	}
	return s.model.Update(composition.Partial{Background: bg}), true
}

// LoadImage decodes data into slot. On a decode failure the slot keeps its
// previous image and the error wraps assets.ErrDecode.
func (s *Session) LoadImage(slot Slot, name string, data []byte) (*composition.Image, error) {
	switch slot {
	case SlotSubject, SlotBackground, SlotLogo:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSlot, slot)
	}

	img, err := s.assets.Load(name, data)
	if err != nil {
		return nil, err
	}

	var p composition.Partial
	switch slot {
	case SlotSubject:
		p.Subject = img
	case SlotBackground:
		p.Background = composition.ImageFill{Ref: img}
	case SlotLogo:
		p.Watermark.Logo = img
	}
	s.Update(p)
	return img, nil
}

// ClearLogo drops the watermark logo.
func (s *Session) ClearLogo() composition.Composition {
	return s.Update(composition.Partial{Watermark: composition.WatermarkPartial{ClearLogo: true}})
}

// Stack resolves the current composition.
func (s *Session) Stack() *layout.Stack {
	return layout.Resolve(s.Composition())
}

// Export captures the current stack. The composition is snapshotted first;
// edits made during the capture do not affect it.
func (s *Session) Export(ctx context.Context) (*export.Artifact, error) {
	if s.exporter == nil {
		return nil, export.ErrRasterizerUnavailable
	}
	return s.exporter.Export(ctx, s.Stack())
}

// Preview renders the current stack at 1× for display.
func (s *Session) Preview(ctx context.Context) ([]byte, error) {
	if s.exporter == nil {
		return nil, export.ErrRasterizerUnavailable
	}
	return s.exporter.Preview(ctx, s.Stack())
}
