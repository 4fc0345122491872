// Package activity keeps a JSONL journal of wire edits across sessions.
package activity

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/msalah0e/flowdesigner/internal/config"
	"github.com/msalah0e/flowdesigner/internal/connector"
	"github.com/msalah0e/flowdesigner/internal/wire"
)

// Journal actions.
const (
	ActionWireAdded        = "wire-added"
	ActionWireRemoved      = "wire-removed"
	ActionConnectorRemoved = "connector-removed"
)

// Entry represents a single journal entry.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Session   string    `json:"session"`
	Action    string    `json:"action"`
	Subject   string    `json:"subject"`
	Document  string    `json:"document,omitempty"`
	Scopes    []string  `json:"scopes,omitempty"`
	Color     string    `json:"color,omitempty"`
}

// Path returns the journal file location.
func Path() string {
	return filepath.Join(config.ConfigDir(), "activity.jsonl")
}

// Journal appends an entry for every wire change of a diagram it observes.
// Connector registration is not journaled.
type Journal struct {
	wire.NopObserver

	session  string
	document string
	logger   *zap.Logger
	now      func() time.Time
	err      error
}

// NewJournal starts a session for the named document.
func NewJournal(document string, logger *zap.Logger) *Journal {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Journal{
		session:  uuid.NewString(),
		document: document,
		logger:   logger,
		now:      time.Now,
	}
}

// Session returns the session id stamped on every entry.
func (j *Journal) Session() string { return j.session }

// Err returns the first write error, if any.
func (j *Journal) Err() error { return j.err }

func (j *Journal) WireAdded(e *wire.Edge) {
	j.write(Entry{Action: ActionWireAdded, Subject: e.Key, Scopes: e.Scopes, Color: e.Color})
}

func (j *Journal) WireRemoved(e *wire.Edge) {
	j.write(Entry{Action: ActionWireRemoved, Subject: e.Key, Scopes: e.Scopes})
}

func (j *Journal) ConnectorUnregistered(c *connector.Connector) {
	j.write(Entry{Action: ActionConnectorRemoved, Subject: c.ID()})
}

func (j *Journal) write(entry Entry) {
	entry.Timestamp = j.now()
	entry.Session = j.session
	entry.Document = j.document
	if err := appendEntry(entry); err != nil {
		j.logger.Warn("journal write failed", zap.String("action", entry.Action), zap.Error(err))
		if j.err == nil {
			j.err = err
		}
	}
}

func appendEntry(entry Entry) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(f, "%s\n", data)
	return err
}

// Read returns the last N entries from the journal, newest first.
func Read(count int) ([]Entry, error) {
	f, err := os.Open(Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var entries []Entry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var e Entry
		if json.Unmarshal(line, &e) == nil {
			entries = append(entries, e)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	// reverse file order first so equal timestamps keep newest-first order
	for i, k := 0, len(entries)-1; i < k; i, k = i+1, k-1 {
		entries[i], entries[k] = entries[k], entries[i]
	}
	sort.SliceStable(entries, func(i, k int) bool {
		return entries[i].Timestamp.After(entries[k].Timestamp)
	})

	if count > 0 && len(entries) > count {
		entries = entries[:count]
	}
	return entries, nil
}

// Search finds entries whose action, subject, document or session contains
// the query, case-insensitively.
func Search(query string, count int) ([]Entry, error) {
	all, err := Read(0)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(query)
	var results []Entry
	for _, e := range all {
		if contains(e.Action, q) || contains(e.Subject, q) || contains(e.Document, q) || contains(e.Session, q) {
			results = append(results, e)
			if count > 0 && len(results) >= count {
				break
			}
		}
	}
	return results, nil
}

// Clear removes all journal entries.
func Clear() error {
	err := os.Remove(Path())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func contains(s, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(s), lowerQuery)
}
