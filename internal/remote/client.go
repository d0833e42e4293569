// Package remote is the client side of the Remote Store: an HTTP client for
// the TalentFlow API and the interface the rest of the core depends on.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Vikas-Kain/TalentFlow/internal/hiring"
)

var (
	ErrNotFound = errors.New("not found")
	ErrInvalid  = errors.New("invalid request")
)

// StatusError is any other non-2xx answer, including simulated server errors.
type StatusError struct {
	Code    int
	Type    string
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Code)
	}
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Message)
}

// Store is the Remote Store contract.
type Store interface {
	ListJobs(ctx context.Context, q hiring.JobQuery) (hiring.Page[hiring.Job], error)
	CreateJob(ctx context.Context, in hiring.NewJob) (hiring.Job, error)
	UpdateJob(ctx context.Context, id string, patch hiring.JobPatch) (hiring.Job, error)
	ReorderJob(ctx context.Context, id string, fromOrder, toOrder int) error
	GetJob(ctx context.Context, id string) (hiring.Job, error)

	ListCandidates(ctx context.Context, q hiring.CandidateQuery) (hiring.Page[hiring.Candidate], error)
	CreateCandidate(ctx context.Context, in hiring.NewCandidate) (hiring.Candidate, error)
	GetCandidate(ctx context.Context, id string) (hiring.Candidate, error)
	UpdateCandidate(ctx context.Context, id string, patch hiring.CandidatePatch) (hiring.Candidate, error)
	Timeline(ctx context.Context, candidateID string) ([]hiring.TimelineEvent, error)
	AddNote(ctx context.Context, candidateID, content string) (hiring.TimelineEvent, error)

	GetAssessment(ctx context.Context, jobID string) (hiring.Assessment, error)
	SaveAssessment(ctx context.Context, jobID string, a hiring.Assessment) (hiring.Assessment, error)
	SubmitResponse(ctx context.Context, jobID, candidateID string, answers hiring.Answers) (hiring.Response, error)
}

// Client talks to a running TalentFlow API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ Store = (*Client)(nil)

// New creates a Client. A nil httpClient gets a 30 second timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshalling request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("server not reachable at %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var body struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
		} `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(data, &body); err != nil {
		body.Error.Message = strings.TrimSpace(string(data))
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, body.Error.Message)
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrInvalid, body.Error.Message)
	}
	return &StatusError{Code: resp.StatusCode, Type: body.Error.Type, Message: body.Error.Message}
}

func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

func (c *Client) ListJobs(ctx context.Context, q hiring.JobQuery) (hiring.Page[hiring.Job], error) {
	var page hiring.Page[hiring.Job]
	err := c.do(ctx, http.MethodGet, "/jobs?"+q.Values().Encode(), nil, &page)
	return page, err
}

func (c *Client) CreateJob(ctx context.Context, in hiring.NewJob) (hiring.Job, error) {
	var job hiring.Job
	err := c.do(ctx, http.MethodPost, "/jobs", in, &job)
	return job, err
}

func (c *Client) UpdateJob(ctx context.Context, id string, patch hiring.JobPatch) (hiring.Job, error) {
	var job hiring.Job
	err := c.do(ctx, http.MethodPatch, "/jobs/"+url.PathEscape(id), patch, &job)
	return job, err
}

func (c *Client) ReorderJob(ctx context.Context, id string, fromOrder, toOrder int) error {
	body := map[string]int{"fromOrder": fromOrder, "toOrder": toOrder}
	return c.do(ctx, http.MethodPatch, "/jobs/"+url.PathEscape(id)+"/reorder", body, nil)
}

func (c *Client) GetJob(ctx context.Context, id string) (hiring.Job, error) {
	var job hiring.Job
	err := c.do(ctx, http.MethodGet, "/jobs/"+url.PathEscape(id), nil, &job)
	return job, err
}

func (c *Client) ListCandidates(ctx context.Context, q hiring.CandidateQuery) (hiring.Page[hiring.Candidate], error) {
	var page hiring.Page[hiring.Candidate]
	err := c.do(ctx, http.MethodGet, "/candidates?"+q.Values().Encode(), nil, &page)
	return page, err
}

func (c *Client) CreateCandidate(ctx context.Context, in hiring.NewCandidate) (hiring.Candidate, error) {
	var cand hiring.Candidate
	err := c.do(ctx, http.MethodPost, "/candidates", in, &cand)
	return cand, err
}

func (c *Client) GetCandidate(ctx context.Context, id string) (hiring.Candidate, error) {
	var cand hiring.Candidate
	err := c.do(ctx, http.MethodGet, "/candidates/"+url.PathEscape(id), nil, &cand)
	return cand, err
}

func (c *Client) UpdateCandidate(ctx context.Context, id string, patch hiring.CandidatePatch) (hiring.Candidate, error) {
	var cand hiring.Candidate
	err := c.do(ctx, http.MethodPatch, "/candidates/"+url.PathEscape(id), patch, &cand)
	return cand, err
}

func (c *Client) Timeline(ctx context.Context, candidateID string) ([]hiring.TimelineEvent, error) {
	var events []hiring.TimelineEvent
	err := c.do(ctx, http.MethodGet, "/candidates/"+url.PathEscape(candidateID)+"/timeline", nil, &events)
	return events, err
}

func (c *Client) AddNote(ctx context.Context, candidateID, content string) (hiring.TimelineEvent, error) {
	var ev hiring.TimelineEvent
	err := c.do(ctx, http.MethodPost, "/candidates/"+url.PathEscape(candidateID)+"/notes", map[string]string{"content": content}, &ev)
	return ev, err
}

func (c *Client) Responses(ctx context.Context, candidateID string) ([]hiring.Response, error) {
	var out []hiring.Response
	err := c.do(ctx, http.MethodGet, "/candidates/"+url.PathEscape(candidateID)+"/responses", nil, &out)
	return out, err
}

func (c *Client) GetAssessment(ctx context.Context, jobID string) (hiring.Assessment, error) {
	var a hiring.Assessment
	err := c.do(ctx, http.MethodGet, "/assessments/"+url.PathEscape(jobID), nil, &a)
	return a, err
}

func (c *Client) SaveAssessment(ctx context.Context, jobID string, a hiring.Assessment) (hiring.Assessment, error) {
	var saved hiring.Assessment
	err := c.do(ctx, http.MethodPut, "/assessments/"+url.PathEscape(jobID), a, &saved)
	return saved, err
}

func (c *Client) SubmitResponse(ctx context.Context, jobID, candidateID string, answers hiring.Answers) (hiring.Response, error) {
	body := map[string]any{"candidateId": candidateID, "responses": answers}
	var resp hiring.Response
	err := c.do(ctx, http.MethodPost, "/assessments/"+url.PathEscape(jobID)+"/submit", body, &resp)
	return resp, err
}
