// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"net/http"
	"net/http/pprof"
	"runtime/trace"
	"time"

	"codeberg.org/phraseforge/phraseforge/config"
	"codeberg.org/phraseforge/phraseforge/core/share"
	"codeberg.org/phraseforge/phraseforge/server/assets"
	"codeberg.org/phraseforge/phraseforge/server/middleware"
	"codeberg.org/phraseforge/phraseforge/server/routes"
)

// DefineRoutes registers the pages, the JSON API and the static files
// served by rt.
func (router *Router) DefineRoutes(rt *routes.Routes) {
	fileServerHandler := fileServer()

	// Serve specific files from the root of the static directory.
	router.Handle("GET /robots.txt", fileServerHandler)

	// Patterns ending in "/" are prefix matches.
	router.Handle("GET /css/", fileServerHandler)
	router.Handle("GET /js/", fileServerHandler)

	// About routes
	router.HandleFunc("GET /about", middleware.CatchError(rt.AboutPage))

	// JSON API
	router.HandleFunc("POST /api/translate", middleware.CatchError(rt.APITranslate))
	router.HandleFunc("GET /api/share", middleware.CatchError(rt.APIShared))
	router.HandleFunc("POST /api/share", middleware.CatchError(rt.APIShare))
	router.HandleFunc("GET /api/random", middleware.CatchError(rt.APIRandom))
	router.HandleFunc("GET /api/rulesets", middleware.CatchError(rt.APIRuleSetNames))
	router.HandleFunc("POST /api/rulesets/import", middleware.CatchError(rt.APIImportRuleSet))
	router.HandleFunc("GET /api/rulesets/{name}", middleware.CatchError(rt.APIGetRuleSet))
	router.HandleFunc("PUT /api/rulesets/{name}", middleware.CatchError(rt.APIPutRuleSet))
	router.HandleFunc("DELETE /api/rulesets/{name}", middleware.CatchError(rt.APIDeleteRuleSet))
	router.HandleFunc("GET /api/rulesets/{name}/export", middleware.CatchError(rt.APIExportRuleSet))

	// Short share links
	router.HandleFunc("GET /s/{code}", redirectWithPathVar("/", "code", share.QueryParam))

	if config.Global.Development.InDevelopment {
		registerDebugRoutes(router)
	}

	// Index page routes
	// /{$} matches only the root path
	router.HandleFunc("GET /{$}", middleware.CatchError(rt.IndexPage))
	router.HandleFunc("POST /{$}", middleware.CatchError(rt.IndexPOST))

	// Everything else is a 404 rendered as an error page.
	router.HandleFunc("/", middleware.CatchError(notFound))
}

func notFound(w http.ResponseWriter, _ *http.Request) error {
	w.WriteHeader(http.StatusNotFound)

	return nil
}

// Serve static files from embedded assets.
func fileServer() http.HandlerFunc {
	fileServer := http.FileServer(http.FS(assets.Static()))

	return func(w http.ResponseWriter, r *http.Request) {
		// Using a strong ETag for static files embedded via go:embed
		// ref: https://www.rfc-editor.org/rfc/rfc9110#weak.and.strong.validators
		//
		// Since go:embed requires rebuilding when files change, we use a per-instance
		// cache ID to ensure browsers fetch fresh content after any deployment.
		w.Header().Set("ETag", `"`+config.Global.Instance.FileServerCacheID+`"`)
		fileServer.ServeHTTP(w, r)
	}
}

var flightRecorder = trace.NewFlightRecorder(trace.FlightRecorderConfig{MinAge: time.Minute})

func registerDebugRoutes(router *Router) {
	// Starting twice fails; a second router in the same process shares the recorder.
	if !flightRecorder.Enabled() {
		if err := flightRecorder.Start(); err != nil {
			panic(err)
		}
	}

	router.HandleFunc("GET /debug/pprof/", pprof.Index)
	router.HandleFunc("GET /debug/pprof/cmdline", pprof.Cmdline)
	router.HandleFunc("GET /debug/pprof/profile", pprof.Profile)
	router.HandleFunc("GET /debug/pprof/symbol", pprof.Symbol)
	router.HandleFunc("GET /debug/pprof/trace", pprof.Trace)
	router.HandleFunc("GET /debug/flight", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = flightRecorder.WriteTo(w)
	})
}
