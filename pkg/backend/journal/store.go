// Package journal is a schedule backend kept on local disk, one JSON file per
// entry under a directory per due day.
package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/peterbourgon/diskv/v3"
)

const layoutDay = "2006-01-02"

// Entry is what one journal file holds.
type Entry struct {
	ID          string    `json:"-"`
	Description string    `json:"description"`
	Due         time.Time `json:"due"`
	Created     time.Time `json:"created"`
}

// Store persists entries with diskv. Keys look like `2020-04-02-<id>` and
// land at `<base>/2020/04/02/<id>`.
type Store struct {
	d        *diskv.Diskv
	basePath string
}

func OpenStore(basePath string) (*Store, error) {
	if basePath == "" {
		return nil, errors.New("journal: path required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("journal: ensure base path: %w", err)
	}
	return &Store{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
	}), basePath: basePath}, nil
}

func (s *Store) BasePath() string { return s.basePath }

func (s *Store) read(key string) (*Entry, error) {
	val, err := s.d.Read(key)
	if err != nil {
		return nil, err
	}
	e := &Entry{}
	if err := json.Unmarshal(val, e); err != nil {
		return nil, err
	}
	e.ID = keyToPathTransform(key).FileName
	return e, nil
}

// List reads every entry, sorted by due time. Unreadable files are skipped
// and reported through skipped.
func (s *Store) List(ctx context.Context, skipped func(key string, err error)) []*Entry {
	all := make([]*Entry, 0)
	for key := range s.d.Keys(ctx.Done()) {
		e, err := s.read(key)
		if err != nil {
			if skipped != nil {
				skipped(key, err)
			}
			continue
		}
		all = append(all, e)
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Due.Equal(all[j].Due) {
			return all[i].ID < all[j].ID
		}
		return all[i].Due.Before(all[j].Due)
	})
	return all
}

// Put writes e, assigning an id when it has none.
func (s *Store) Put(e *Entry) error {
	if e.ID == "" {
		e.ID = newID()
	}
	if e.Created.IsZero() {
		e.Created = time.Now()
	}
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.d.Write(toKey(e), data)
}

func (s *Store) Delete(e *Entry) error {
	return s.d.Erase(toKey(e))
}

// Move rewrites e under a new due date, removing the old file.
func (s *Store) Move(e *Entry, due time.Time) error {
	old := *e
	e.Due = due
	if err := s.Put(e); err != nil {
		return err
	}
	if toKey(&old) == toKey(e) {
		return nil
	}
	return s.Delete(&old)
}

func newID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "-")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}

// toKey makes `yyyy-mm-dd-id`
func toKey(e *Entry) string {
	return fmt.Sprintf("%s-%s", e.Due.Format(layoutDay), e.ID)
}
