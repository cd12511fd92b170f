package dashboard

import (
	"sync"
	"testing"
)

func TestWorkspaceDraftNames(t *testing.T) {
	w := NewWorkspace()

	a := w.Create("u1", Dashboard{})
	b := w.Create("u1", Dashboard{})
	other := w.Create("u2", Dashboard{})
	if a.Name != "draft dashboard 1" || b.Name != "draft dashboard 2" || other.Name != "draft dashboard 1" {
		t.Fatalf("unexpected names %q %q %q", a.Name, b.Name, other.Name)
	}
	if !a.Draft {
		t.Errorf("created dashboard not marked as draft")
	}

	if !w.Remove("u1", a.Name) {
		t.Fatalf("Remove() = false")
	}
	if w.Remove("u1", a.Name) {
		t.Errorf("second Remove() = true")
	}
	if c := w.Create("u1", Dashboard{}); c.Name != a.Name {
		t.Errorf("Create() after remove = %q, want %q", c.Name, a.Name)
	}
}

func TestWorkspacePut(t *testing.T) {
	w := NewWorkspace()
	d := w.Create("u1", Dashboard{})

	d.Items = append(d.Items, statItem("s1", "AuditQueries"))
	d.Draft = false
	if !w.Put("u1", d) {
		t.Fatalf("Put() = false for existing draft")
	}
	got, ok := w.Get("u1", d.Name)
	if !ok || len(got.Items) != 1 || !got.Draft {
		t.Errorf("Get() = %+v, %v", got, ok)
	}
	if w.Put("u1", Dashboard{Name: "unknown"}) {
		t.Errorf("Put() = true for unknown draft")
	}
}

func TestWorkspaceDraftsIsACopy(t *testing.T) {
	w := NewWorkspace()
	w.Create("u1", Dashboard{})

	drafts := w.Drafts("u1")
	drafts[0].Name = "changed"
	if _, ok := w.Get("u1", "draft dashboard 1"); !ok {
		t.Errorf("modifying Drafts() result changed the workspace")
	}
}

func TestWorkspaceConcurrentCreate(t *testing.T) {
	w := NewWorkspace()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.Create("u1", Dashboard{})
		}()
	}
	wg.Wait()

	seen := map[string]bool{}
	for _, d := range w.Drafts("u1") {
		if seen[d.Name] {
			t.Errorf("duplicate draft name %q", d.Name)
		}
		seen[d.Name] = true
	}
	if len(seen) != 20 {
		t.Errorf("got %d drafts, want 20", len(seen))
	}
}

func TestIsDraftName(t *testing.T) {
	tests := map[string]bool{
		"draft dashboard 1":   true,
		"  Draft Dashboard x": true,
		"DRAFT DASHBOARD":     true,
		"my draft dashboard":  false,
		"Drafts":              false,
	}
	for name, want := range tests {
		if got := IsDraftName(name); got != want {
			t.Errorf("IsDraftName(%q) = %v, want %v", name, got, want)
		}
	}
}
