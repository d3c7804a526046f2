package memory

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"janbu/internal/core"
)

// Store is the in-memory backend, used for local development and as the fake
// in handler tests. New records are prepended so ListAll is newest first.
type Store struct {
	mu      sync.Mutex
	nextID  int
	records []core.Record
	clients []string
}

func New(clients []string) *Store {
	return &Store{clients: dedupe(clients)}
}

// NewFromFiles seeds the client registry from base/seed_clients.txt if present.
func NewFromFiles(base string) *Store {
	return New(readLines(filepath.Join(base, "seed_clients.txt")))
}

// Append stores the record and returns a synthetic document id.
func (s *Store) Append(_ context.Context, r core.Record) (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	r.ID = fmt.Sprintf("mem:%d", s.nextID)
	s.records = append([]core.Record{r}, s.records...)
	return r.ID, nil
}

// ListAll returns a copy of all records, newest first.
func (s *Store) ListAll(_ context.Context) ([]core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Record, len(s.records))
	copy(out, s.records)
	return out, nil
}

// DeleteRecord removes the record with the given id. Deleting an unknown id
// is an error so callers surface stale-view deletes instead of hiding them.
func (s *Store) DeleteRecord(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.records {
		if r.ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("record %q not found", id)
}

// ListClients returns the registered client names in registration order.
func (s *Store) ListClients(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.clients))
	copy(out, s.clients)
	return out, nil
}

// RegisterClient adds a previously unseen name to the registry.
func (s *Store) RegisterClient(_ context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.ErrEmptyClient
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.clients {
		if c == name {
			return nil
		}
	}
	s.clients = append(s.clients, name)
	return nil
}

func readLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return dedupe(out)
}

func dedupe(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	// Preserve input order; the form datalist shows names as first used.
	return out
}
