package dashboard

import (
	"fmt"
	"strings"
	"sync"
)

// Workspace holds each user's unsaved dashboards for the lifetime of the process.
type Workspace struct {
	mu     sync.RWMutex
	drafts map[string][]Dashboard
}

func NewWorkspace() *Workspace {
	return &Workspace{drafts: make(map[string][]Dashboard)}
}

func (w *Workspace) Drafts(userID string) []Dashboard {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]Dashboard(nil), w.drafts[userID]...)
}

func (w *Workspace) Get(userID, name string) (Dashboard, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, d := range w.drafts[userID] {
		if d.Name == name {
			return d, true
		}
	}
	return Dashboard{}, false
}

// Create stores a new draft under the lowest unused "draft dashboard N" name.
func (w *Workspace) Create(userID string, d Dashboard) Dashboard {
	w.mu.Lock()
	defer w.mu.Unlock()

	used := make(map[string]bool, len(w.drafts[userID]))
	for _, existing := range w.drafts[userID] {
		used[existing.Name] = true
	}
	n := 1
	for used[draftName(n)] {
		n++
	}

	d.Name = draftName(n)
	d.Draft = true
	w.drafts[userID] = append(w.drafts[userID], d)
	return d
}

// Put replaces the draft with the same name. It reports whether the draft existed.
func (w *Workspace) Put(userID string, d Dashboard) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, existing := range w.drafts[userID] {
		if existing.Name == d.Name {
			d.Draft = true
			w.drafts[userID][i] = d
			return true
		}
	}
	return false
}

func (w *Workspace) Remove(userID, name string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	drafts := w.drafts[userID]
	for i, d := range drafts {
		if d.Name == name {
			w.drafts[userID] = append(drafts[:i:i], drafts[i+1:]...)
			return true
		}
	}
	return false
}

func draftName(n int) string {
	return fmt.Sprintf("%s %d", DraftPrefix, n)
}

// IsDraftName reports whether name uses the reserved draft prefix, ignoring case and
// surrounding spaces.
func IsDraftName(name string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(name)), DraftPrefix)
}
