package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"library-manager/core/reconcile"

	"github.com/gofiber/fiber/v2"
)

// HTTPSource lists episodes from a JSON source API:
//
//	GET {base}/api/entries/{url}/episodes
//	[{"url":"...","name":"...","number":12,"date_upload":1700000000000,"scanlator":"..."}]
type HTTPSource struct {
	id      int64
	name    string
	baseURL string
	timeout time.Duration
}

// remoteEpisode is the wire format. A missing number is unrecognized.
type remoteEpisode struct {
	URL        string   `json:"url"`
	Name       string   `json:"name"`
	Number     *float64 `json:"number"`
	DateUpload int64    `json:"date_upload"`
	Scanlator  string   `json:"scanlator"`
}

// NewHTTPSource creates an HTTP source. A non-positive timeout means 30s.
func NewHTTPSource(id int64, name, baseURL string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPSource{
		id:      id,
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
	}
}

func (s *HTTPSource) ID() int64    { return s.id }
func (s *HTTPSource) Name() string { return s.name }

// EpisodesURL returns the endpoint listing the entry's episodes.
func (s *HTTPSource) EpisodesURL(entry reconcile.Entry) string {
	segments := strings.Split(strings.Trim(entry.URL, "/"), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return fmt.Sprintf("%s/api/entries/%s/episodes", s.baseURL, strings.Join(segments, "/"))
}

// FetchEpisodeList retrieves the complete remote episode list for the entry.
// The request is bounded by the source timeout and the ctx deadline. When ctx
// is cancelled first the call returns ctx.Err() at once and the in-flight
// request is left to finish on its own timeout.
func (s *HTTPSource) FetchEpisodeList(ctx context.Context, entry reconcile.Entry) ([]reconcile.RemoteEpisode, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	timeout := s.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}

	agent := fiber.Get(s.EpisodesURL(entry)).Timeout(timeout)
	agent.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)

	type response struct {
		code int
		body []byte
		errs []error
	}
	done := make(chan response, 1)
	go func() {
		code, body, errs := agent.Bytes()
		done <- response{code: code, body: body, errs: errs}
	}()

	var resp response
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("request to %s abandoned: %w", s.name, ctx.Err())
	case resp = <-done:
	}

	if len(resp.errs) > 0 {
		return nil, fmt.Errorf("request to %s failed: %w", s.name, errors.Join(resp.errs...))
	}
	if resp.code < 200 || resp.code >= 300 {
		return nil, fmt.Errorf("source %s returned status %d", s.name, resp.code)
	}

	var wire []remoteEpisode
	if err := json.Unmarshal(resp.body, &wire); err != nil {
		return nil, fmt.Errorf("invalid episode list from %s: %w", s.name, err)
	}

	out := make([]reconcile.RemoteEpisode, 0, len(wire))
	for _, w := range wire {
		number := -1.0
		if w.Number != nil {
			number = *w.Number
		}
		out = append(out, reconcile.RemoteEpisode{
			URL:        w.URL,
			Name:       w.Name,
			Number:     number,
			DateUpload: w.DateUpload,
			Scanlator:  w.Scanlator,
		})
	}
	return out, nil
}
