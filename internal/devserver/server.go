// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package devserver is a stand-in for the prediction service, backed by a
// fixture file. It answers team searches in JSON or as the legacy HTML
// fragment and returns canned predictions, so the picker can be driven
// offline.
package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gorilla/mux"

	"github.com/pdiddy/goalcast/pkg/types"
)

// MinQueryLength matches the service: shorter queries return nothing.
const MinQueryLength = 3

var resultsTemplate = template.Must(template.New("results").Parse(
	`{{range .}}<a href="#" class="list-group-item team-result" data-team-id="{{.ID}}" data-team-name="{{.Name}}"{{with .Country}} data-team-country="{{.}}"{{end}}>{{.Name}}</a>
{{else}}<p class="text-muted">No teams found</p>
{{end}}`))

// Server serves fixtures over HTTP.
type Server struct {
	fx     Fixtures
	log    *slog.Logger
	router *mux.Router
}

// New returns a Server for fx. A nil logger discards output.
func New(fx Fixtures, log *slog.Logger) *Server {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	s := &Server{fx: fx, log: log, router: mux.NewRouter()}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(s.logRequests, s.delay)
	s.router.HandleFunc("/search_team", s.handleSearch).Methods(http.MethodGet)
	s.router.HandleFunc("/predict", s.handlePredict).Methods(http.MethodPost)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled. The bound address
// is passed to ready, which may be nil.
func (s *Server) ListenAndServe(ctx context.Context, addr string, ready func(net.Addr)) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	srv := &http.Server{Handler: s, ReadHeaderTimeout: 10 * time.Second}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	if ready != nil {
		ready(ln.Addr())
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

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("request", "method", r.Method, "path", r.URL.Path, "query", r.URL.RawQuery, "elapsed", time.Since(start))
	})
}

func (s *Server) delay(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.fx.Latency > 0 && r.URL.Path != "/healthz" {
			t := time.NewTimer(s.fx.Latency)
			select {
			case <-r.Context().Done():
				t.Stop()
				return
			case <-t.C:
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	teams := []types.Team{}
	if utf8.RuneCountInString(query) >= MinQueryLength {
		teams = s.fx.Search(query)
	}

	if wantsHTML(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := resultsTemplate.Execute(w, teams); err != nil {
			s.log.Error("rendering results", "error", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, teams)
}

// wantsHTML reports whether the caller asked for the markup fragment, by
// format=html or by accepting HTML but not JSON.
func wantsHTML(r *http.Request) bool {
	if f := r.URL.Query().Get("format"); f != "" {
		return strings.EqualFold(f, "html")
	}
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") && !strings.Contains(accept, "application/json")
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeDetail(w, http.StatusBadRequest, "malformed form body")
		return
	}
	a := strings.TrimSpace(r.PostForm.Get("team_a_id"))
	b := strings.TrimSpace(r.PostForm.Get("team_b_id"))
	if a == "" || b == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "team_a_id and team_b_id are required")
		return
	}
	teamA, okA := s.fx.Team(a)
	teamB, okB := s.fx.Team(b)
	if !okA || !okB {
		writeDetail(w, http.StatusNotFound, "Could not make prediction. Please check team IDs.")
		return
	}

	threshold := r.PostForm.Get("goal_threshold")
	neutral := r.PostForm.Get("is_neutral_venue") != ""

	result, ok := s.fx.Prediction(a, b)
	if !ok {
		result = types.PredictionResult{
			Summary: fmt.Sprintf("No fixture prediction for %s vs %s", teamA.Name, teamB.Name),
		}
	}
	result.TeamAName = teamA.Name
	result.TeamBName = teamB.Name
	s.log.Info("prediction", "team_a", a, "team_b", b, "goal_threshold", threshold, "neutral", neutral, "canned", ok)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "teams": len(s.fx.Teams)})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, code int, detail string) {
	writeJSON(w, code, map[string]string{"detail": detail})
}
