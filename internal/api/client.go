// Package api is the JSON client for the course server. Every remote
// operation is a POST of an args object to /api/<method>/; replies carry
// the payload under "value" or a server-side error under "error". A 403
// is surfaced as ErrPermissionDenied so the session engine can redirect
// to login.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/abhisek/stepcoder/internal/state"
)

// ErrPermissionDenied indicates the server rejected a call with 403.
var ErrPermissionDenied = errors.New("api: permission denied")

// Config holds client settings.
type Config struct {
	// BaseURL is the server root, e.g. "https://course.example.com".
	BaseURL string

	// AuthToken, when set, is sent as a bearer token on every call.
	AuthToken string

	// Timeout bounds a single call. Default: 30s. Code runs use
	// RunTimeout instead, since executions can be slow. Default: 60s.
	Timeout    time.Duration
	RunTimeout time.Duration
}

// Client talks to the course server.
type Client struct {
	cfg  Config
	http *http.Client

	// onDenied, when set, runs for a 403 on a fire-and-forget call,
	// which otherwise has no caller to return the error to.
	onDenied func()
}

// NewClient creates a Client for the given server.
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RunTimeout == 0 {
		cfg.RunTimeout = 60 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// OnPermissionDenied registers the single permission-denied handler for
// fire-and-forget calls.
func (c *Client) OnPermissionDenied(fn func()) {
	c.onDenied = fn
}

// envelope is the server reply shape.
type envelope struct {
	Value json.RawMessage `json:"value"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// call performs one request/response round trip and returns the raw
// value payload.
func (c *Client) call(ctx context.Context, method string, args any) (json.RawMessage, error) {
	body, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("marshal %s args: %w", method, err)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/api/" + method + "/"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.AuthToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("%s: %w", method, ErrPermissionDenied)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status %d", method, resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode %s reply: %w", method, err)
	}
	if env.Error != nil {
		return nil, fmt.Errorf("%s: server error: %s", method, env.Error.Message)
	}
	return env.Value, nil
}

// send is the fire-and-forget shape: the call runs on its own goroutine
// and the reply is dropped. A 403 still reaches the registered
// permission-denied handler. No retries; the remote store is free to
// reconcile on the next full load.
func (c *Client) send(method string, args any) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.cfg.Timeout)
		defer cancel()
		_, err := c.call(ctx, method, args)
		if errors.Is(err, ErrPermissionDenied) && c.onDenied != nil {
			c.onDenied()
		}
	}()
}

// GetUser loads the learner record.
func (c *Client) GetUser(ctx context.Context) (state.User, error) {
	raw, err := c.call(ctx, "get_user", struct{}{})
	if err != nil {
		return state.User{}, err
	}
	if err := validatePayload(userSchema, raw); err != nil {
		return state.User{}, fmt.Errorf("get_user: %w", err)
	}
	var u state.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return state.User{}, fmt.Errorf("decode user: %w", err)
	}
	return u, nil
}

// GetPages loads the page catalog and traversal order.
func (c *Client) GetPages(ctx context.Context) (state.PagesPayload, error) {
	raw, err := c.call(ctx, "get_pages", struct{}{})
	if err != nil {
		return state.PagesPayload{}, err
	}
	if err := validatePayload(pagesSchema, raw); err != nil {
		return state.PagesPayload{}, fmt.Errorf("get_pages: %w", err)
	}
	var p state.PagesPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return state.PagesPayload{}, fmt.Errorf("decode pages: %w", err)
	}
	return p, nil
}

// SetPage informs the remote store of the new active page.
func (c *Client) SetPage(slug string) {
	c.send("set_page", map[string]any{"page_slug": slug})
}

// SetPagesProgress pushes the entire progress map; the remote store is
// the authority for resuming progress.
func (c *Client) SetPagesProgress(progress map[string]state.PageProgress) {
	c.send("set_pages_progress", map[string]any{"pages_progress": progress})
}

// SetDeveloperMode persists the developer-mode toggle.
func (c *Client) SetDeveloperMode(on bool) {
	c.send("set_developer_mode", map[string]any{"value": on})
}

// RunRequest identifies the code to execute and where it came from.
type RunRequest struct {
	Code      string `json:"code"`
	Source    string `json:"source"`
	PageIndex int    `json:"page_index"`
	StepIndex int    `json:"step_index"`
}

// RunCode executes code remotely and returns the outcome.
func (c *Client) RunCode(ctx context.Context, req RunRequest) (state.RunResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.RunTimeout)
	defer cancel()

	raw, err := c.call(ctx, "run_code", req)
	if err != nil {
		return state.RunResult{}, err
	}
	var res state.RunResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return state.RunResult{}, fmt.Errorf("decode run result: %w", err)
	}
	return res, nil
}

// solutionPayload is the wire shape of a masked solution: the server
// speaks in tokens, the tree stores them as lines.
type solutionPayload struct {
	Tokens        []string `json:"tokens"`
	Mask          []bool   `json:"mask"`
	MaskedIndices []int    `json:"maskedIndices"`
}

// GetSolution fetches the masked solution for one step.
func (c *Client) GetSolution(ctx context.Context, pageIndex, stepIndex int) (state.Solution, error) {
	args := map[string]any{"page_index": pageIndex, "step_index": stepIndex}
	raw, err := c.call(ctx, "get_solution", args)
	if err != nil {
		return state.Solution{}, err
	}
	var p solutionPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return state.Solution{}, fmt.Errorf("decode solution: %w", err)
	}
	return state.Solution{
		Lines:         p.Tokens,
		Mask:          p.Mask,
		MaskedIndices: p.MaskedIndices,
	}, nil
}

// SubmitFeedback files a user issue together with a dump of the session
// tree, so reports arrive with the state that produced them.
func (c *Client) SubmitFeedback(ctx context.Context, title, description string, tree *state.State) error {
	args := map[string]any{
		"title":       title,
		"description": description,
		"state":       tree,
	}
	_, err := c.call(ctx, "submit_feedback", args)
	return err
}
