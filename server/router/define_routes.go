// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"fmt"
	"io/fs"
	"net/http"
	"net/http/pprof"
	"runtime/trace"
	"time"

	"codeberg.org/folio/folio/config"
	"codeberg.org/folio/folio/server/assets"
	"codeberg.org/folio/folio/server/middleware"
	"codeberg.org/folio/folio/server/routes"
)

// DefineRoutes sets up all the routes for the application using our custom Router.
func (router *Router) DefineRoutes(app *routes.App) {
	fileServerHandler := fileServer()

	// Serve specific files from the root of the 'assets' subdirectory.
	router.Handle("GET /robots.txt", fileServerHandler)

	// Serve files from subdirectories within 'assets'.
	// Patterns ending in "/" are prefix matches.
	router.Handle("GET /img/", fileServerHandler)
	router.Handle("GET /css/", fileServerHandler)
	router.Handle("GET /js/", fileServerHandler)

	// Preference routes
	router.HandleFunc("POST /preferences/language", middleware.CatchError(app.LanguagePreference))
	router.HandleFunc("POST /preferences/theme", middleware.CatchError(app.ThemePreference))
	router.HandleFunc("POST /preferences/system-theme", middleware.CatchError(app.SystemThemePreference))

	// Page event routes, used while the live channel is down
	for _, typ := range []string{routes.EventScroll, routes.EventVisible, routes.EventMenu, routes.EventKey} {
		router.HandleFunc("POST /api/"+typ, middleware.CatchError(app.EventHandler(typ)))
	}

	// Live channel (not wrapped, the websocket needs the raw connection)
	router.HandleFunc("GET /live", app.Live)

	// Contact routes
	router.HandleFunc("POST /contact/validate", middleware.CatchError(app.ValidateContactField))
	router.HandleFunc("POST /contact", middleware.CatchError(app.SubmitContact))

	// Section links
	registerSectionRedirects(router)

	router.HandleFunc("GET /healthz", middleware.CatchError(app.Healthz))

	// Index page routes
	// /{$} matches only the root path
	router.HandleFunc("GET /{$}", middleware.CatchError(app.IndexPage))
	router.HandleFunc("/", middleware.CatchError(routes.NotFound))

	if config.Global.Development.InDevelopment {
		registerDebugRoutes(router)
	}
}

// Serve static files from embedded assets.
func fileServer() http.HandlerFunc {
	staticContentFS, err := fs.Sub(assets.FS, "assets")
	if err != nil {
		panic(fmt.Errorf("failed to create sub-filesystem for embedded 'assets' directory: %w", err))
	}

	fileServer := http.FileServer(http.FS(staticContentFS))
	fileServerHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Using a strong ETag for static files embedded via go:embed
		// ref: https://www.rfc-editor.org/rfc/rfc9110#weak.and.strong.validators
		//
		// Since go:embed requires rebuilding when files change, we use a per-instance
		// cache ID to ensure browsers fetch fresh content after any deployment.
		w.Header().Set("ETag", config.Global.Instance.FileServerCacheID)
		fileServer.ServeHTTP(w, r)
	})

	return fileServerHandler
}

var flightRecorder = trace.NewFlightRecorder(trace.FlightRecorderConfig{MinAge: time.Minute})

func registerDebugRoutes(router *Router) {
	err := flightRecorder.Start()
	if err != nil {
		panic(err)
	}

	router.HandleFunc("GET /debug/pprof/", pprof.Index)
	router.HandleFunc("GET /debug/pprof/cmdline", pprof.Cmdline)
	router.HandleFunc("GET /debug/pprof/profile", pprof.Profile)
	router.HandleFunc("GET /debug/pprof/symbol", pprof.Symbol)
	router.HandleFunc("GET /debug/pprof/trace", pprof.Trace)
	router.HandleFunc("GET /debug/flight", func(w http.ResponseWriter, r *http.Request) {
		_, _ = flightRecorder.WriteTo(w)
	})
}
