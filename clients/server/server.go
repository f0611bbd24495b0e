// Package server provides the SnapPolish local editor: an embedded web UI and
// the HTTP API it drives. One server holds one editing session.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os/exec"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xob0t/SnapPolish/pkg/config"
	"github.com/xob0t/SnapPolish/pkg/editor"
	"github.com/xob0t/SnapPolish/pkg/export"
	"github.com/xob0t/SnapPolish/pkg/render"
)

//go:embed web/*
var webContent embed.FS

// Logger receives request and lifecycle messages. A nil Logger is silent.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}

// Server routes the editor API onto a session.
type Server struct {
	session *editor.Session
	log     Logger
	engine  *gin.Engine
}

// New builds the router for session.
func New(session *editor.Session, log Logger) (*Server, error) {
	if log == nil {
		log = nopLogger{}
	}
	webFS, err := fs.Sub(webContent, "web")
	if err != nil {
		return nil, fmt.Errorf("embed web: %w", err)
	}

	s := &Server{session: session, log: log, engine: gin.New()}
	s.engine.Use(gin.Recovery(), s.requestLog())
	s.routes()
	s.engine.NoRoute(gin.WrapH(http.FileServer(http.FS(webFS))))
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) routes() {
	api := s.engine.Group("/api")
	{
		api.GET("/health", s.handleHealth)

		api.GET("/composition", s.handleGetComposition)
		api.PATCH("/composition", s.handlePatchComposition)
		api.GET("/stack", s.handleStack)

		api.GET("/presets", s.handleListPresets)
		api.POST("/presets/:name", s.handleApplyPreset)
		api.GET("/swatches", s.handleListSwatches)
		api.POST("/swatches/:name", s.handleSelectSwatch)

		api.POST("/upload/:slot", s.handleUpload)
		api.DELETE("/logo", s.handleClearLogo)

		api.GET("/assets", s.handleListAssets)
		api.GET("/assets/:id", s.handleGetAsset)
		api.DELETE("/assets/:id", s.handleDeleteAsset)

		api.GET("/preview", s.handlePreview)
		api.POST("/export", s.handleExport)

		api.GET("/ui", s.handleGetUI)
		api.POST("/ui/sidebar", s.handleToggleSidebar)
		api.PUT("/ui/tab", s.handleSetTab)
		api.PUT("/ui/fullscreen", s.handleSetFullscreen)
		api.PUT("/ui/pro-modal", s.handleSetProModal)
	}
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Infof("%s %s → %d (%s)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start).Round(time.Millisecond))
	}
}

// Run serves the editor on cfg.Server.Addr until ctx is done. The rasterizer
// loads in the background; exports requested before it is ready are answered
// with 503 and a retry hint.
func Run(ctx context.Context, cfg config.Config, log Logger) error {
	if log == nil {
		log = nopLogger{}
	}
	gin.SetMode(gin.ReleaseMode)

	orch := export.New(cfg.ExportPolicy())
	session := editor.NewSession(nil, orch)
	s, err := New(session, log)
	if err != nil {
		return err
	}

	go func() {
		r, err := render.New(cfg.RenderOptions(log))
		if err != nil {
			log.Errorf("load rasterizer: %v", err)
			return
		}
		orch.SetRasterizer(r)
		log.Infof("Rasterizer ready")
	}()

	srv := &http.Server{Addr: cfg.Server.Addr, Handler: s.Handler()}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	url := "http://" + browserHost(cfg.Server.Addr)
	log.Infof("SnapPolish editor → %s", url)
	if cfg.Server.OpenBrowser {
		go openBrowser(url)
	}

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// browserHost turns a listen address into something a browser can open.
func browserHost(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	cmd.Start()
}
