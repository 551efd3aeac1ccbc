// Package decisionstore persists the last applied decision per branding
// context. Records live under the boot-ephemeral runtime directory, so they
// survive a daemon restart within the same boot and vanish on reboot,
// forcing re-evaluation.
package decisionstore

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"pkt.systems/netskin/schema"
	"pkt.systems/pslog"
)

// Store keeps one JSON decision record per context id. Callers are already
// serialized by the trigger gate, so the store needs no internal locking;
// writes are last-writer-wins per context.
type Store struct {
	dir string
	log pslog.Logger
}

// NewStore constructs a store rooted at dir.
func NewStore(dir string) (*Store, error) {
	return NewStoreWithLogger(dir, nil)
}

// NewStoreWithLogger constructs a store with logging.
func NewStoreWithLogger(dir string, logger pslog.Logger) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("state directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	if logger != nil {
		logger = logger.With("state_dir", dir)
	}
	return &Store{dir: dir, log: logger}, nil
}

// Get reads the stored decision for a context. A missing record is not an
// error: it returns ok=false and the caller applies unconditionally.
func (s *Store) Get(id schema.ContextID) (schema.Decision, bool, error) {
	path := s.pathFor(id)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if s.log != nil {
				s.log.Debug("decision load miss", "context", id)
			}
			return schema.Decision{}, false, nil
		}
		if s.log != nil {
			s.log.Warn("decision load failed", "context", id, "err", err)
		}
		return schema.Decision{}, false, err
	}
	var decision schema.Decision
	if err := json.Unmarshal(data, &decision); err != nil {
		if s.log != nil {
			s.log.Warn("decision load failed", "context", id, "err", err)
		}
		return schema.Decision{}, false, err
	}
	return decision, true, nil
}

// Put overwrites the stored decision for the decision's context. The write
// is atomic (temp file, fsync, rename) so a crash never leaves a torn
// record.
func (s *Store) Put(decision schema.Decision) error {
	if decision.Context == "" {
		return schema.ErrInvalidDecision
	}
	path := s.pathFor(decision.Context)
	data, err := json.MarshalIndent(decision, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "decision-*.json")
	if err != nil {
		return s.failPut(decision.Context, err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return s.failPut(decision.Context, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return s.failPut(decision.Context, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return s.failPut(decision.Context, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		_ = os.Remove(tmp.Name())
		return s.failPut(decision.Context, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return s.failPut(decision.Context, err)
	}
	if s.log != nil {
		s.log.Debug("decision saved", "context", decision.Context, "connection", decision.Connection)
	}
	return nil
}

// List returns every stored decision, ordered by file name. Used by the
// status command; the engine itself only reads per-context records.
func (s *Store) List() ([]schema.Decision, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	decisions := make([]schema.Decision, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			continue
		}
		var decision schema.Decision
		if err := json.Unmarshal(data, &decision); err != nil {
			continue
		}
		decisions = append(decisions, decision)
	}
	return decisions, nil
}

func (s *Store) failPut(id schema.ContextID, err error) error {
	if s.log != nil {
		s.log.Warn("decision save failed", "context", id, "err", err)
	}
	return err
}

func (s *Store) pathFor(id schema.ContextID) string {
	name := sanitize(string(id))
	if name == "" {
		name = "unknown"
	}
	return filepath.Join(s.dir, name+".json")
}

func sanitize(value string) string {
	var b strings.Builder
	for _, r := range value {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '.' {
			b.WriteRune(r)
			continue
		}
		b.WriteRune('_')
	}
	return b.String()
}
