package todoist

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"tableflip.dev/todor/pkg/dateparse"
	"tableflip.dev/todor/pkg/schedule"
)

// Backend shows the dated tasks of one project. Tasks without a due date
// are not shown.
type Backend struct {
	id      string
	project string
	client  *Client

	mu        sync.RWMutex
	projectID string
	items     []schedule.Item
}

var _ schedule.Backend = (*Backend)(nil)

// New makes a backend with id "todoist:<name>". An empty project means every
// project and new tasks go to the inbox.
func New(name, project string, client *Client) *Backend {
	if name == "" {
		name = project
	}
	if name == "" {
		name = "Inbox"
	}
	return &Backend{id: "todoist:" + name, project: project, client: client}
}

func (b *Backend) ID() string { return b.id }

func (b *Backend) Refresh(ctx context.Context) error {
	items, err := b.fetch(ctx)
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.items = items
	b.mu.Unlock()
	return nil
}

func (b *Backend) Items() []schedule.Item {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]schedule.Item(nil), b.items...)
}

func (b *Backend) Add(ctx context.Context, description string, due time.Time) (bool, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return false, nil
	}
	projectID, err := b.resolveProject(ctx)
	if err != nil {
		return false, err
	}
	req := TaskRequest{Content: description, ProjectID: projectID}
	setDue(&req, due)
	if _, err := b.client.CreateTask(ctx, req); err != nil {
		return false, err
	}
	return true, nil
}

func (b *Backend) Update(ctx context.Context, id, description string, due time.Time) (bool, error) {
	taskID := strings.TrimPrefix(id, b.id+":")
	if taskID == id || taskID == "" {
		return false, nil
	}
	req := TaskRequest{Content: strings.TrimSpace(description)}
	setDue(&req, due)
	if err := b.client.UpdateTask(ctx, taskID, req); err != nil {
		return false, err
	}
	return true, nil
}

// Remove closes the first task m selects from a fresh listing.
func (b *Backend) Remove(ctx context.Context, m schedule.Matcher) (bool, error) {
	items, err := b.fetch(ctx)
	if err != nil {
		return false, err
	}
	it, ok := m.Select(items)
	if !ok {
		return false, nil
	}
	if err := b.client.CloseTask(ctx, strings.TrimPrefix(it.ID, b.id+":")); err != nil {
		return false, err
	}
	return true, nil
}

func (b *Backend) fetch(ctx context.Context) ([]schedule.Item, error) {
	projectID, err := b.resolveProject(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := b.client.Tasks(ctx, projectID)
	if err != nil {
		return nil, err
	}
	items := make([]schedule.Item, 0, len(tasks))
	for _, t := range tasks {
		if t.IsCompleted || t.Due == nil {
			continue
		}
		start, err := t.Due.Time()
		if err != nil {
			continue
		}
		items = append(items, schedule.Item{
			ID:          b.id + ":" + t.ID,
			Scheduler:   b.id,
			Type:        schedule.Todo,
			Description: t.Content,
			StartTime:   start,
		})
	}
	schedule.SortByStart(items)
	return items, nil
}

// resolveProject maps the configured project name to its id once.
func (b *Backend) resolveProject(ctx context.Context) (string, error) {
	if b.project == "" {
		return "", nil
	}
	b.mu.RLock()
	id := b.projectID
	b.mu.RUnlock()
	if id != "" {
		return id, nil
	}

	projects, err := b.client.Projects(ctx)
	if err != nil {
		return "", err
	}
	for _, p := range projects {
		if p.Name == b.project {
			b.mu.Lock()
			b.projectID = p.ID
			b.mu.Unlock()
			return p.ID, nil
		}
	}
	return "", fmt.Errorf("todoist: no project named %s", b.project)
}

// Time is the due datetime when one is set, else the end of the due day.
func (d *Due) Time() (time.Time, error) {
	if d.Datetime != "" {
		if t, err := time.Parse(time.RFC3339, d.Datetime); err == nil {
			return t.Local(), nil
		}
		// Floating datetimes carry no zone.
		t, err := time.ParseInLocation("2006-01-02T15:04:05", d.Datetime, time.Local)
		if err != nil {
			return time.Time{}, err
		}
		return t, nil
	}
	day, err := time.ParseInLocation("2006-01-02", d.Date, time.Local)
	if err != nil {
		return time.Time{}, err
	}
	return dateparse.EndOfDay(day), nil
}

func setDue(req *TaskRequest, due time.Time) {
	if due.IsZero() {
		return
	}
	if due.Equal(dateparse.EndOfDay(due)) {
		req.DueDate = due.Format("2006-01-02")
		return
	}
	req.DueDatetime = due.UTC().Format(time.RFC3339)
}
