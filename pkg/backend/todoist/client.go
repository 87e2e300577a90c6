// Package todoist reads and writes tasks of one Todoist project over the
// REST v2 API.
package todoist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const DefaultBaseURL = "https://api.todoist.com/rest/v2/"

type Project struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Due struct {
	String   string `json:"string,omitempty"`
	Date     string `json:"date"`
	Datetime string `json:"datetime,omitempty"`
	Timezone string `json:"timezone,omitempty"`
}

type Task struct {
	ID          string `json:"id"`
	ProjectID   string `json:"project_id"`
	Content     string `json:"content"`
	IsCompleted bool   `json:"is_completed"`
	Due         *Due   `json:"due,omitempty"`
}

// TaskRequest is the body of a create or update call.
type TaskRequest struct {
	Content     string `json:"content,omitempty"`
	ProjectID   string `json:"project_id,omitempty"`
	DueDate     string `json:"due_date,omitempty"`
	DueDatetime string `json:"due_datetime,omitempty"`
}

// APIError is a non-2xx answer from Todoist.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("todoist: %d %s: %s", e.Status, http.StatusText(e.Status), e.Body)
}

type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func NewClient(token string) *Client {
	return &Client{
		BaseURL: DefaultBaseURL,
		Token:   token,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

// LoadToken reads a token file shaped like {"token": "..."}.
func LoadToken(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("todoist: read token file: %w", err)
	}
	var tok struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(data, &tok); err != nil {
		return "", fmt.Errorf("todoist: badly formatted token file %s: %w", path, err)
	}
	if strings.TrimSpace(tok.Token) == "" {
		return "", fmt.Errorf("todoist: token file %s has no token", path)
	}
	return tok.Token, nil
}

func (c *Client) Projects(ctx context.Context) ([]Project, error) {
	var out []Project
	if err := c.do(ctx, http.MethodGet, "projects", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Tasks lists active tasks, limited to projectID when set.
func (c *Client) Tasks(ctx context.Context, projectID string) ([]Task, error) {
	q := url.Values{}
	if projectID != "" {
		q.Set("project_id", projectID)
	}
	var out []Task
	if err := c.do(ctx, http.MethodGet, "tasks", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateTask(ctx context.Context, req TaskRequest) (*Task, error) {
	out := &Task{}
	if err := c.do(ctx, http.MethodPost, "tasks", nil, req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateTask(ctx context.Context, id string, req TaskRequest) error {
	return c.do(ctx, http.MethodPost, "tasks/"+url.PathEscape(id), nil, req, nil)
}

func (c *Client) CloseTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "tasks/"+url.PathEscape(id)+"/close", nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, body, out interface{}) error {
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("todoist: base url: %w", err)
	}
	u, err := base.Parse(path)
	if err != nil {
		return fmt.Errorf("todoist: path %s: %w", path, err)
	}
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("todoist: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("todoist: decode %s: %w", path, err)
	}
	return nil
}
