// Package jira implements a minimal Jira REST v2 client for the issue
// tracker side of the workflow: fetching issues and driving status
// transitions.
package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Issue is the parsed tracker issue driving a unit of work.
type Issue struct {
	Key                string
	Summary            string
	Description        string
	AcceptanceCriteria []string
	Status             string
	Type               string
	Priority           string
	Labels             []string
	Assignee           string
	Reporter           string
	URL                string
}

// Transition is one workflow transition available for an issue.
type Transition struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	To   struct {
		Name string `json:"name"`
	} `json:"to"`
}

// Client talks to a Jira server using basic auth (email + API token).
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	baseURL    string
	email      string
	token      string
}

// NewClient validates the connection settings and constructs a Client.
func NewClient(logger *slog.Logger, server, email, token string) (*Client, error) {
	server = strings.TrimRight(strings.TrimSpace(server), "/")
	if server == "" || strings.TrimSpace(email) == "" || strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("missing Jira configuration: set JIRA_SERVER, JIRA_EMAIL and JIRA_API_TOKEN")
	}
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
		baseURL:    server,
		email:      email,
		token:      token,
	}, nil
}

// FetchIssue retrieves an issue by key and parses acceptance criteria out of
// its description.
func (c *Client) FetchIssue(ctx context.Context, key string) (*Issue, error) {
	var payload struct {
		Key    string `json:"key"`
		Fields struct {
			Summary     string `json:"summary"`
			Description string `json:"description"`
			Status      struct {
				Name string `json:"name"`
			} `json:"status"`
			IssueType struct {
				Name string `json:"name"`
			} `json:"issuetype"`
			Priority *struct {
				Name string `json:"name"`
			} `json:"priority"`
			Labels   []string `json:"labels"`
			Assignee *struct {
				DisplayName string `json:"displayName"`
			} `json:"assignee"`
			Reporter *struct {
				DisplayName string `json:"displayName"`
			} `json:"reporter"`
		} `json:"fields"`
	}

	if err := c.get(ctx, "/rest/api/2/issue/"+key, &payload); err != nil {
		return nil, fmt.Errorf("fetch issue %s: %w", key, err)
	}

	issue := &Issue{
		Key:                payload.Key,
		Summary:            payload.Fields.Summary,
		Description:        payload.Fields.Description,
		AcceptanceCriteria: ParseAcceptanceCriteria(payload.Fields.Description),
		Status:             payload.Fields.Status.Name,
		Type:               payload.Fields.IssueType.Name,
		Priority:           "None",
		Labels:             payload.Fields.Labels,
		Reporter:           "Unknown",
		URL:                c.baseURL + "/browse/" + payload.Key,
	}
	if payload.Fields.Priority != nil {
		issue.Priority = payload.Fields.Priority.Name
	}
	if payload.Fields.Assignee != nil {
		issue.Assignee = payload.Fields.Assignee.DisplayName
	}
	if payload.Fields.Reporter != nil {
		issue.Reporter = payload.Fields.Reporter.DisplayName
	}
	return issue, nil
}

// Transitions lists the workflow transitions currently available for an issue.
func (c *Client) Transitions(ctx context.Context, key string) ([]Transition, error) {
	var payload struct {
		Transitions []Transition `json:"transitions"`
	}
	if err := c.get(ctx, "/rest/api/2/issue/"+key+"/transitions", &payload); err != nil {
		return nil, fmt.Errorf("list transitions for %s: %w", key, err)
	}
	return payload.Transitions, nil
}

// TransitionTo moves the issue to the named status. The target is matched
// case-insensitively against the transition name and its destination status.
func (c *Client) TransitionTo(ctx context.Context, key, status string) error {
	transitions, err := c.Transitions(ctx, key)
	if err != nil {
		return err
	}

	var transitionID string
	for _, t := range transitions {
		if strings.EqualFold(t.Name, status) || strings.EqualFold(t.To.Name, status) {
			transitionID = t.ID
			break
		}
	}
	if transitionID == "" {
		names := make([]string, 0, len(transitions))
		for _, t := range transitions {
			names = append(names, t.Name)
		}
		return fmt.Errorf("cannot transition %s to %q, available: %s", key, status, strings.Join(names, ", "))
	}

	body := fmt.Sprintf(`{"transition":{"id":%q}}`, transitionID)
	if err := c.post(ctx, "/rest/api/2/issue/"+key+"/transitions", body); err != nil {
		return fmt.Errorf("transition %s to %q: %w", key, status, err)
	}
	if c.logger != nil {
		c.logger.Info("updated issue status", "key", key, "status", status)
	}
	return nil
}

// get performs an authenticated GET and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.email, c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("jira responded with %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode jira response: %w", err)
	}
	return nil
}

// post performs an authenticated POST with a JSON body.
func (c *Client) post(ctx context.Context, path, body string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(body))
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.email, c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("jira responded with %s", resp.Status)
	}
	return nil
}
