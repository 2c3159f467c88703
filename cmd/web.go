package cmd

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/klauspost/compress/gzhttp"
	"github.com/urfave/cli/v3"

	"github.com/rubiojr/xmlsearch/cmd/web/components"
	"github.com/rubiojr/xmlsearch/cmd/web/components/types"
	"github.com/rubiojr/xmlsearch/pkg/api"
	"github.com/rubiojr/xmlsearch/pkg/config"
	"github.com/rubiojr/xmlsearch/pkg/diag"
	"github.com/rubiojr/xmlsearch/pkg/log"
	"github.com/rubiojr/xmlsearch/pkg/realtime"
	"github.com/rubiojr/xmlsearch/pkg/render"
	"github.com/rubiojr/xmlsearch/pkg/search"
	"github.com/rubiojr/xmlsearch/pkg/session"
	"github.com/rubiojr/xmlsearch/pkg/version"
)

//go:embed web/static/*
var staticFS embed.FS

// WebCommand creates the web command with both API and UI
func WebCommand() *cli.Command {
	return &cli.Command{
		Name:  "web",
		Usage: "Start web server with both API endpoints and HTML interface",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "port",
				Usage: "Port to listen on",
				Value: "8080",
			},
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to bind to",
				Value: "localhost",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return startWebServer(ctx, c.String("config"), c.String("host"), c.String("port"))
		},
	}
}

// WebServer holds one configuration's service, API server and templates.
// A config change builds a new WebServer and swaps it in.
type WebServer struct {
	config    *config.Config
	service   *search.Service
	apiServer *api.Server
	templates *render.Templates
	handler   http.Handler
}

func newWebServer(cfg *config.Config) (*WebServer, error) {
	tmpls, err := render.Parse(cfg.Templates)
	if err != nil {
		return nil, err
	}
	svc, err := search.FromConfig(cfg, diag.NewLogSink("source"), realtime.NewHub(32))
	if err != nil {
		return nil, err
	}
	ws := &WebServer{
		config:    cfg,
		service:   svc,
		apiServer: api.NewServer(svc),
		templates: tmpls,
	}

	mux := http.NewServeMux()
	ws.apiServer.RegisterRoutes(mux)
	mux.HandleFunc("GET /{$}", ws.handleSearch)
	mux.HandleFunc("GET /static/", ws.handleStatic)
	ws.handler = mux
	return ws, nil
}

// swapHandler serves whichever WebServer is current.
type swapHandler struct {
	current atomic.Pointer[WebServer]
}

func (h *swapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.current.Load().handler.ServeHTTP(w, r)
}

// startWebServer starts the web server with both API and UI
func startWebServer(ctx context.Context, configPath, host, port string) error {
	logger := log.ForService("web")

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	ws, err := newWebServer(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	ws.service.LoadAsync(ctx)

	sh := &swapHandler{}
	sh.current.Store(ws)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", host, port),
		Handler:           gzhttp.GzipHandler(api.CorsMiddleware(sh)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("Starting web server on http://%s:%s", host, port)
		logger.Infof("Available endpoints:")
		logger.Infof("  GET / - Search page")
		logger.Infof("  GET /api/search - Search results as JSON")
		logger.Infof("  GET /api/status - Dataset load status")
		logger.Infof("  GET /api/live - Live search session (WebSocket)")
		logger.Infof("  GET /health - Health check")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("Server failed: %v", err)
			cancel()
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	watcher, watched := newSourceWatcher(configPath, cfg)
	if watcher != nil {
		defer func() {
			if err := watcher.Close(); err != nil {
				logger.Warnf("failed to close file watcher: %v", err)
			}
		}()
	}
	var events <-chan fsnotify.Event
	var watchErrs <-chan error
	if watcher != nil {
		events, watchErrs = watcher.Events, watcher.Errors
	}

	// reload runs on the main loop only.
	reload := func(configChanged bool) {
		cur := sh.current.Load()
		if !configChanged {
			cur.service.LoadAsync(ctx)
			return
		}
		newCfg, err := config.LoadConfig(configPath)
		if err != nil {
			logger.Errorf("Failed to reload configuration: %v", err)
			return
		}
		next, err := newWebServer(newCfg)
		if err != nil {
			logger.Errorf("Failed to apply configuration: %v", err)
			return
		}
		next.service.LoadAsync(ctx)
		sh.current.Store(next)
		logger.Infof("Configuration reloaded")
		if watcher != nil {
			watchSourceFile(watcher, watched, newCfg)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return shutdown(server)
		case sig := <-sigCh:
			switch sig {
			case syscall.SIGHUP:
				logger.Infof("Received SIGHUP, reloading configuration and records...")
				reload(true)
			case syscall.SIGINT, syscall.SIGTERM:
				logger.Infof("Shutting down web server...")
				return shutdown(server)
			}
		case event, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			logger.Infof("File changed: %s (event: %s), reloading...", event.Name, event.Op.String())

			// Editors often replace files atomically; re-add the path so
			// the watch survives.
			if event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				time.Sleep(200 * time.Millisecond)
				if _, err := os.Stat(event.Name); os.IsNotExist(err) {
					logger.Warnf("%s was removed and not replaced, skipping reload", event.Name)
					continue
				}
				if err := watcher.Add(event.Name); err != nil {
					logger.Warnf("failed to re-add %s to watcher: %v", event.Name, err)
				}
			} else {
				time.Sleep(100 * time.Millisecond)
			}
			reload(watched[filepath.Clean(event.Name)] == watchConfig)
		case err, ok := <-watchErrs:
			if !ok {
				watchErrs = nil
				continue
			}
			logger.Warnf("File watcher error: %v", err)
		}
	}
}

func shutdown(server *http.Server) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

type watchKind int

const (
	watchConfig watchKind = iota + 1
	watchSource
)

// newSourceWatcher watches the config file and, for local sources, the
// source file. A nil watcher means file watching is unavailable.
func newSourceWatcher(configPath string, cfg *config.Config) (*fsnotify.Watcher, map[string]watchKind) {
	logger := log.ForService("web")
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Warnf("failed to create file watcher: %v", err)
		return nil, nil
	}
	watched := map[string]watchKind{}
	add := func(path string, kind watchKind) {
		if err := watcher.Add(path); err != nil {
			logger.Warnf("failed to watch %s: %v", path, err)
			return
		}
		watched[filepath.Clean(path)] = kind
		logger.Infof("Watching %s for changes", path)
	}
	add(configPath, watchConfig)
	watchSourceFile(watcher, watched, cfg)
	return watcher, watched
}

// watchSourceFile adds a local source file to the watcher unless it is
// already watched.
func watchSourceFile(watcher *fsnotify.Watcher, watched map[string]watchKind, cfg *config.Config) {
	if cfg.Source == "" || cfg.IsRemote() {
		return
	}
	path := filepath.Clean(cfg.Source)
	if _, ok := watched[path]; ok {
		return
	}
	if err := watcher.Add(path); err != nil {
		log.ForService("web").Warnf("failed to watch %s: %v", path, err)
		return
	}
	watched[path] = watchSource
	log.ForService("web").Infof("Watching %s for changes", path)
}

// handleSearch renders the search page for the query parameters.
func (s *WebServer) handleSearch(w http.ResponseWriter, r *http.Request) {
	sopts := s.service.SessionOptions()
	state := session.Decode(r.URL.Query(), sopts)

	data := types.PageData{
		Title:          "Search - xmlsearch",
		State:          state,
		SessionOptions: sopts,
		SortFields:     s.config.DisplayFieldNames(),
		Version:        version.APIVersion(),
	}

	results, err := s.service.Search(state)
	if err != nil {
		data.Error = formatLoadError(err)
	}
	data.Results = results.Page
	data.Status = s.service.Status()
	if state.Term != "" {
		data.Title = fmt.Sprintf("%s - xmlsearch", components.InputValue(state.Term))
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := components.SearchPage(data, s.templates).Render(r.Context(), w); err != nil {
		http.Error(w, fmt.Sprintf("Template error: %v", err), http.StatusInternalServerError)
	}
}

// formatLoadError turns a load failure into the single message shown to
// users.
func formatLoadError(err error) string {
	var de *diag.Error
	if errors.As(err, &de) && de.Cause != nil {
		return fmt.Sprintf("The records could not be loaded: %v", de.Cause)
	}
	return fmt.Sprintf("The records could not be loaded: %v", err)
}

// handleStatic serves static assets from embedded files
func (s *WebServer) handleStatic(w http.ResponseWriter, r *http.Request) {
	filePath := "web/static/" + strings.TrimPrefix(r.URL.Path, "/static/")

	content, err := staticFS.ReadFile(filePath)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if ct := mime.TypeByExtension(filepath.Ext(filePath)); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if _, err := w.Write(content); err != nil {
		log.ForService("web").Debugf("writing %s: %v", filePath, err)
	}
}
