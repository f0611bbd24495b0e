// handlers.go — Editor API handlers.
package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/xob0t/SnapPolish/pkg/assets"
	"github.com/xob0t/SnapPolish/pkg/composition"
	"github.com/xob0t/SnapPolish/pkg/editor"
	"github.com/xob0t/SnapPolish/pkg/export"
)

const maxUpload = 32 << 20

// ── Composition ──

func (s *Server) handleHealth(c *gin.Context) {
	resp := gin.H{"status": "ok", "rasterizer": false}
	if exp := s.session.Exporter(); exp != nil {
		resp["rasterizer"] = exp.Ready()
		resp["export"] = exp.State().String()
		resp["lastOutcome"] = exp.LastOutcome().String()
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleGetComposition(c *gin.Context) {
	c.JSON(http.StatusOK, composition.Snapshot(s.session.Composition()))
}

func (s *Server) handlePatchComposition(c *gin.Context) {
	var doc composition.Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	comp, warnings := s.session.Apply(&doc)
	for _, w := range warnings {
		s.log.Warnf("%s", w)
	}
	c.JSON(http.StatusOK, gin.H{
		"composition": composition.Snapshot(comp),
		"warnings":    nonNil(warnings),
	})
}

func (s *Server) handleStack(c *gin.Context) {
	c.JSON(http.StatusOK, s.session.Stack())
}

// ── Presets and swatches ──

func (s *Server) handleListPresets(c *gin.Context) {
	out := make([]gin.H, 0, len(composition.Presets))
	for _, name := range composition.PresetNames() {
		out = append(out, gin.H{"name": name, "description": composition.Presets[name].Description})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleApplyPreset(c *gin.Context) {
	name := c.Param("name")
	comp, ok := s.session.ApplyPreset(composition.PresetName(name))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("unknown preset %q", name)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"composition": composition.Snapshot(comp)})
}

func (s *Server) handleListSwatches(c *gin.Context) {
	names := make([]string, 0, len(composition.Swatches))
	for name := range composition.Swatches {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]gin.H, 0, len(names))
	for _, name := range names {
		out = append(out, gin.H{"name": name, "pro": editor.ProSwatches[name]})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleSelectSwatch(c *gin.Context) {
	name := c.Param("name")
	if _, ok := composition.Swatches[name]; !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("unknown swatch %q", name)})
		return
	}
	comp, applied := s.session.SelectSwatch(name)
	c.JSON(http.StatusOK, gin.H{
		"applied":     applied,
		"composition": composition.Snapshot(comp),
		"ui":          s.session.UI(),
	})
}

// ── Upload ──

func (s *Server) handleUpload(c *gin.Context) {
	slot := editor.Slot(c.Param("slot"))
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file"})
		return
	}
	if header.Size > maxUpload {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}
	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxUpload))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	img, err := s.session.LoadImage(slot, header.Filename, data)
	switch {
	case errors.Is(err, editor.ErrUnknownSlot):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case errors.Is(err, assets.ErrDecode):
		s.log.Warnf("upload %s: %v", header.Filename, err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":     img.ID,
		"name":   img.Name,
		"width":  img.Width,
		"height": img.Height,
		"url":    "/api/assets/" + img.ID,
	})
}

func (s *Server) handleClearLogo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"composition": composition.Snapshot(s.session.ClearLogo())})
}

// ── Assets ──

func (s *Server) handleListAssets(c *gin.Context) {
	c.JSON(http.StatusOK, s.session.Assets().List())
}

func (s *Server) handleGetAsset(c *gin.Context) {
	e, err := s.session.Assets().Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, e.Mime, e.Data)
}

func (s *Server) handleDeleteAsset(c *gin.Context) {
	id := c.Param("id")
	if _, err := s.session.Assets().Get(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	s.session.Assets().Remove(id)
	c.JSON(http.StatusOK, gin.H{"status": "deleted", "id": id})
}

// ── Export ──

func (s *Server) handleExport(c *gin.Context) {
	a, err := s.session.Export(c.Request.Context())
	switch {
	case errors.Is(err, export.ErrRasterizerUnavailable):
		c.Header("Retry-After", "2")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": export.Notice(err)})
		return
	case errors.Is(err, export.ErrExportInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": export.Notice(err)})
		return
	case err != nil:
		s.log.Errorf("export: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": export.Notice(err), "detail": err.Error()})
		return
	}
	s.log.Infof("Exported %s (%dx%d)", a.Filename, a.Width, a.Height)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, a.Filename))
	c.Header("Content-Type", a.MIME)
	c.Status(http.StatusOK)
	if _, err := a.WriteTo(c.Writer); err != nil {
		s.log.Warnf("write %s: %v", a.Filename, err)
	}
}

func (s *Server) handlePreview(c *gin.Context) {
	data, err := s.session.Preview(c.Request.Context())
	switch {
	case errors.Is(err, export.ErrRasterizerUnavailable):
		c.Header("Retry-After", "2")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": export.Notice(err)})
		return
	case err != nil:
		s.log.Warnf("preview: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": export.Notice(err), "detail": err.Error()})
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", data)
}

// ── UI state ──

func (s *Server) handleGetUI(c *gin.Context) {
	c.JSON(http.StatusOK, s.session.UI())
}

func (s *Server) handleToggleSidebar(c *gin.Context) {
	c.JSON(http.StatusOK, s.session.ToggleSidebar())
}

func (s *Server) handleSetTab(c *gin.Context) {
	var req struct {
		Tab string `json:"tab" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ui, ok := s.session.SetTab(editor.Tab(req.Tab))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown tab %q", req.Tab)})
		return
	}
	c.JSON(http.StatusOK, ui)
}

type toggleRequest struct {
	On bool `json:"on"`
}

func (s *Server) handleSetFullscreen(c *gin.Context) {
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.session.SetFullscreen(req.On))
}

func (s *Server) handleSetProModal(c *gin.Context) {
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.session.SetProModal(req.On))
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
