package main

import (
	"context"
	"log"
	"net/http"
	"path/filepath"

	"github.com/diewo77/go-shop/httpx"
	"github.com/diewo77/go-shop/internal/config"
	"github.com/diewo77/go-shop/internal/db"
	"github.com/diewo77/go-shop/internal/gist"
	"github.com/diewo77/go-shop/internal/handlers"
	"github.com/diewo77/go-shop/internal/middleware"
	"github.com/diewo77/go-shop/internal/netstatus"
	"github.com/diewo77/go-shop/internal/services"
	"github.com/diewo77/go-shop/internal/state"
	"github.com/diewo77/go-shop/internal/storage"
	"gorm.io/gorm"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux       *http.ServeMux
	db        *gorm.DB
	staticDir string

	Inventory *services.InventoryService
	Sync      *services.SyncService
	Net       *netstatus.Monitor
}

// NewApp loads the persisted state and wires services and routes.
func NewApp(ctx context.Context, dbConn *gorm.DB, cfg *config.Config) *App {
	local := storage.NewLocalStore(dbConn, storage.WithSealer(storage.NewSealer(cfg.Sync.TokenSecret)))
	store := state.New(local.Load(ctx), local)

	client := gist.NewClient(cfg.Sync.APIURL, cfg.Sync.Timeout)
	var prober netstatus.Prober = client
	if cfg.Sync.ProbeURL != "" && cfg.Sync.ProbeURL != cfg.Sync.APIURL {
		prober = gist.NewClient(cfg.Sync.ProbeURL, cfg.Sync.Timeout)
	}

	app := &App{
		mux:       http.NewServeMux(),
		db:        dbConn,
		staticDir: findStatic(),
		Inventory: services.NewInventoryService(store),
		Sync: services.NewSyncService(store, client, local, services.SyncOptions{
			Filename:    cfg.Sync.Filename,
			Description: cfg.Sync.Description,
			Public:      cfg.Sync.Public,
			Timeout:     cfg.Sync.Timeout,
		}),
		Net: netstatus.NewMonitor(prober, cfg.Sync.ProbeTTL),
	}
	app.setupRoutes()
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	middleware.Prefs(withRecover(a.mux)).ServeHTTP(w, r)
}

// setupRoutes configures all application routes.
func (a *App) setupRoutes() {
	shell := handlers.NewShell(a.Inventory, a.Sync, a.Net)
	ph := handlers.NewProductHandler(shell)
	shh := handlers.NewShopHandler(shell)
	ih := handlers.NewInvoiceHandler(shell)
	sh := handlers.NewSyncHandler(shell)
	st := handlers.NewSettingsHandler(shell)
	api := handlers.NewAPIHandler(shell)

	// ─────────────────────────────────────────────────────────────────────────
	// Views: GET /<route>, unknown paths fall back to products
	// ─────────────────────────────────────────────────────────────────────────
	a.mux.Handle("GET /", &handlers.Pages{
		Products: ph,
		Shops:    shh,
		Invoices: ih,
		Sync:     sh,
		Settings: st,
	})

	a.mux.HandleFunc("POST /products", ph.Create)
	a.mux.HandleFunc("POST /products/{id}", ph.Update)
	a.mux.HandleFunc("POST /products/{id}/delete", ph.Delete)

	a.mux.HandleFunc("POST /shops", shh.Create)
	a.mux.HandleFunc("POST /shops/{id}", shh.Update)
	a.mux.HandleFunc("POST /shops/{id}/delete", shh.Delete)

	a.mux.HandleFunc("POST /invoices/form", ih.Form)
	a.mux.HandleFunc("POST /invoices/{id}/delete", ih.Delete)

	a.mux.HandleFunc("POST /sync/create", sh.Create)
	a.mux.HandleFunc("POST /sync/update", sh.Update)
	a.mux.HandleFunc("POST /sync/pull", sh.Pull)
	a.mux.HandleFunc("POST /sync/forget", sh.Forget)

	a.mux.HandleFunc("POST /settings/clear", st.Clear)
	a.mux.HandleFunc("POST /settings/prefs", st.Prefs)

	// ─────────────────────────────────────────────────────────────────────────
	// JSON
	// ─────────────────────────────────────────────────────────────────────────
	a.mux.HandleFunc("GET /api/state", api.State)
	a.mux.HandleFunc("POST /api/invoices/total", api.Total)

	a.mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	a.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(a.db); err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// ─────────────────────────────────────────────────────────────────────────
	// Static files; the service worker is served from the root so its scope covers every view
	// ─────────────────────────────────────────────────────────────────────────
	a.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(a.staticDir))))
	a.mux.HandleFunc("GET /service-worker.js", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		http.ServeFile(w, r, filepath.Join(a.staticDir, "service-worker.js"))
	})
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic serving %s %s: %v", r.Method, r.URL.Path, rec)
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
