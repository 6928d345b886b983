// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package searchclient talks to the prediction service: it searches teams
// by name and submits the prediction form.
//
// The search endpoint may answer with structured JSON (a list of teams, or
// an object with a "teams" list) or with a presentation-ready HTML fragment
// whose "team-result" elements carry data-team-id and data-team-name
// attributes. Both decode to the same []types.Team, in response order.
package searchclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/goalcast/internal/httputil"
	"github.com/pdiddy/goalcast/pkg/types"
)

const (
	// DefaultSearchPath is the team search endpoint.
	DefaultSearchPath = "/search_team"

	// DefaultPredictPath is the form submission endpoint.
	DefaultPredictPath = "/predict"

	defaultUserAgent = "goalcast/0.1"
	maxBodyBytes     = 1 << 20
	acceptHeader     = "application/json, text/html;q=0.9"
)

// ErrNoBaseURL is returned by New when the service URL is missing.
var ErrNoBaseURL = errors.New("search base URL is not configured")

// StatusError reports a non-success HTTP status from the service.
type StatusError struct {
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("service returned HTTP %d: %s", e.Code, e.Detail)
	}
	return fmt.Sprintf("service returned HTTP %d", e.Code)
}

// Client calls the search and prediction endpoints. It is safe for
// concurrent use.
type Client struct {
	http        *http.Client
	base        *url.URL
	searchPath  string
	predictPath string
	userAgent   string
	token       string
	maxRetries  int
}

// New validates cfg and returns a Client. When hc is nil a client with
// cfg.Timeout is created.
func New(cfg types.SearchConfig, hc *http.Client) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, ErrNoBaseURL
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing search base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("search base URL %q must be http or https", cfg.BaseURL)
	}
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}

	c := &Client{
		http:        hc,
		base:        base,
		searchPath:  cfg.SearchPath,
		predictPath: cfg.PredictPath,
		userAgent:   cfg.UserAgent,
		token:       cfg.Token,
		maxRetries:  cfg.MaxRetries,
	}
	if c.searchPath == "" {
		c.searchPath = DefaultSearchPath
	}
	if c.predictPath == "" {
		c.predictPath = DefaultPredictPath
	}
	if c.userAgent == "" {
		c.userAgent = defaultUserAgent
	}
	return c, nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(path, "/")
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// noRetry makes DoWithRetry send a request exactly once.
const noRetry = -1

func (c *Client) do(ctx context.Context, req *http.Request, maxRetries int) (*http.Response, []byte, error) {
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", acceptHeader)
	if c.token != "" {
		req.Header.Set("X-Auth-Token", c.token)
	}

	resp, err := httputil.DoWithRetry(ctx, c.http, req, maxRetries)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil, &StatusError{Code: resp.StatusCode, Detail: errorDetail(body)}
	}
	return resp, body, nil
}

// SearchTeams sends query to the search endpoint. The caller decides when a
// query is long enough; the client sends whatever it is given. A failed
// search is reported at once and never retried; the next keystroke issues a
// fresh one.
func (c *Client) SearchTeams(ctx context.Context, query string) ([]types.Team, error) {
	reqURL := c.endpoint(c.searchPath, url.Values{"query": {query}})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, body, err := c.do(ctx, req, noRetry)
	if err != nil {
		return nil, fmt.Errorf("team search: %w", err)
	}

	if isJSON(resp.Header.Get("Content-Type"), body) {
		teams, err := decodeTeamsJSON(body)
		if err != nil {
			return nil, fmt.Errorf("parsing team search response: %w", err)
		}
		return teams, nil
	}
	teams, err := TeamsFromMarkup(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing team search markup: %w", err)
	}
	return teams, nil
}

// Submit posts the prediction form. Rate limiting and temporary outages
// (429, 503) are retried up to the configured MaxRetries.
func (c *Client) Submit(ctx context.Context, p types.PredictionRequest) (types.PredictionResult, error) {
	form := url.Values{
		"team_a_id": {p.TeamAID},
		"team_b_id": {p.TeamBID},
	}
	if p.NeutralVenue {
		form.Set("is_neutral_venue", "true")
	}
	if p.GoalThreshold != "" {
		form.Set("goal_threshold", p.GoalThreshold)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(c.predictPath, nil), strings.NewReader(form.Encode()))
	if err != nil {
		return types.PredictionResult{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, body, err := c.do(ctx, req, c.maxRetries)
	if err != nil {
		return types.PredictionResult{}, fmt.Errorf("prediction: %w", err)
	}

	var result types.PredictionResult
	if isJSON(resp.Header.Get("Content-Type"), body) {
		if err := json.Unmarshal(body, &result); err != nil {
			return types.PredictionResult{}, fmt.Errorf("parsing prediction response: %w", err)
		}
	} else {
		text, err := VisibleText(bytes.NewReader(body))
		if err != nil {
			return types.PredictionResult{}, fmt.Errorf("parsing prediction page: %w", err)
		}
		result.Summary = text
	}
	if result.TeamAName == "" {
		result.TeamAName = p.TeamAName
	}
	if result.TeamBName == "" {
		result.TeamBName = p.TeamBName
	}
	return result, nil
}

func isJSON(contentType string, body []byte) bool {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		if mt == "application/json" || strings.HasSuffix(mt, "+json") {
			return true
		}
		if mt == "text/html" {
			return false
		}
	}
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{')
}

// wireTeam accepts numeric or string identifiers, and "logo" as an alias
// for "crest".
type wireTeam struct {
	ID      json.RawMessage `json:"id"`
	Name    string          `json:"name"`
	Country string          `json:"country"`
	Crest   string          `json:"crest"`
	Logo    string          `json:"logo"`
}

func decodeTeamsJSON(body []byte) ([]types.Team, error) {
	var wire []wireTeam
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var envelope struct {
			Teams   []wireTeam `json:"teams"`
			Results []wireTeam `json:"results"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, err
		}
		wire = envelope.Teams
		if wire == nil {
			wire = envelope.Results
		}
	} else if err := json.Unmarshal(trimmed, &wire); err != nil {
		return nil, err
	}

	teams := make([]types.Team, 0, len(wire))
	for _, w := range wire {
		id, err := rawID(w.ID)
		if err != nil {
			return nil, err
		}
		crest := w.Crest
		if crest == "" {
			crest = w.Logo
		}
		teams = append(teams, types.Team{ID: id, Name: w.Name, Country: w.Country, Crest: crest})
	}
	return teams, nil
}

func rawID(raw json.RawMessage) (string, error) {
	s := strings.TrimSpace(string(raw))
	switch {
	case s == "" || s == "null":
		return "", nil
	case strings.HasPrefix(s, `"`):
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return "", fmt.Errorf("team id: %w", err)
		}
		return v, nil
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return "", fmt.Errorf("team id: %w", err)
		}
		return n.String(), nil
	}
}

// errorDetail extracts a short message from an error body: FastAPI-style
// {"detail": "..."} or the first line of text.
func errorDetail(body []byte) string {
	var v struct {
		Detail any `json:"detail"`
	}
	if json.Unmarshal(body, &v) == nil && v.Detail != nil {
		if s, ok := v.Detail.(string); ok {
			return s
		}
		b, _ := json.Marshal(v.Detail)
		return string(b)
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(body)), "\n")
	if len(line) > 200 {
		line = line[:197] + "..."
	}
	return line
}
