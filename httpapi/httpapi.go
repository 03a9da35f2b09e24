/*
   Copyright 2026 The zls-releases Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package httpapi implements the service's HTTP surface: version
// selection, the index redirect, and the authenticated publish endpoint.
package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/zigtools/zls-releases/buildinfo"
	"github.com/zigtools/zls-releases/index"
	"github.com/zigtools/zls-releases/selector"
	"github.com/zigtools/zls-releases/validate"
)

// Deferrer schedules fn to run after the current handler has returned its
// response, the way the host runtime's background-work primitive does.
// When Handler.Deferrer is nil (as serve leaves it), fn runs on a new
// goroutine; tests can supply a synchronous Deferrer to observe the effect
// immediately.
type Deferrer interface {
	Defer(fn func())
}

// Handler holds every dependency the HTTP surface needs to answer a
// request.
type Handler struct {
	Selector      *selector.Selector
	Validator     *validate.Validator
	Materializer  *index.Materializer
	Deferrer      Deferrer
	APIToken      string
	PublicURLBase string
	Logger        *zap.Logger
}

// NewRouter builds the full chi router: permissive CORS on every route,
// the three /v1/zls/* endpoints, and a supplemented health check.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger(h.Logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "HEAD", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		MaxAge:         86400,
		// The wire contract distinguishes a full preflight (Origin +
		// Access-Control-Request-Method + Access-Control-Request-Headers
		// all present) from a bare OPTIONS probe, which gets only an
		// Allow header. cors.Handler can't tell those apart on its own,
		// so it passes every OPTIONS request through and handlePlainOptions
		// makes the call.
		OptionsPassthrough: true,
	}))

	r.Get("/healthz", h.handleHealthz)

	r.Route("/v1/zls", func(r chi.Router) {
		r.Get("/select-version", h.handleSelectVersion)
		r.Options("/select-version", handlePlainOptions)

		r.Get("/index.json", h.handleIndexRedirect)
		r.Options("/index.json", handlePlainOptions)

		r.Post("/publish", h.handlePublish)
		r.Options("/publish", handlePlainOptions)
	})

	return r
}

// handlePlainOptions answers every OPTIONS request reaching a route (chi
// registers this explicitly because the cors middleware above runs in
// passthrough mode). A full preflight — Origin, Access-Control-Request-Method,
// and Access-Control-Request-Headers all present — gets the complete set of
// preflight headers and a day-long max-age; anything less just gets an
// Allow header listing GET, HEAD, POST and OPTIONS, the same for every
// route.
func handlePlainOptions(w http.ResponseWriter, r *http.Request) {
	h := r.Header
	if h.Get("Origin") != "" && h.Get("Access-Control-Request-Method") != "" && h.Get("Access-Control-Request-Headers") != "" {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, HEAD, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", h.Get("Access-Control-Request-Headers"))
		w.Header().Set("Access-Control-Max-Age", "86400")
		w.WriteHeader(http.StatusOK)
		return
	}
	w.Header().Set("Allow", "GET, HEAD, POST, OPTIONS")
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.String(),
	})
}

func (h *Handler) defer_(fn func()) {
	if h.Deferrer != nil {
		h.Deferrer.Defer(fn)
		return
	}
	go fn()
}

// backgroundContext detaches from the request's own context, which is
// canceled the instant the response is written; deferred work must outlive
// it.
func backgroundContext() context.Context {
	return context.Background()
}
