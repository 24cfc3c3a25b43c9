package store

import (
	"os"
	"path/filepath"
	"testing"

	"leadfunnel/pkg/types"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	st, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return st
}

func TestSetGetDelete(t *testing.T) {
	st := openTemp(t)
	if err := st.Set("k", map[string]string{"a": "b"}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	var got map[string]string
	ok, err := st.Get("k", &got)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if got["a"] != "b" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if err := st.Delete("k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	ok, err = st.Get("k", &got)
	if err != nil || ok {
		t.Fatalf("deleted key still present: ok=%v err=%v", ok, err)
	}
	// deleting again is a no-op
	if err := st.Delete("k"); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
}

func TestGetAbsentKey(t *testing.T) {
	st := openTemp(t)
	var v string
	ok, err := st.Get("missing", &v)
	if err != nil {
		t.Fatalf("Get absent: %v", err)
	}
	if ok {
		t.Fatalf("absent key reported present")
	}
}

func TestOverwriteLastWriterWins(t *testing.T) {
	st := openTemp(t)
	if err := st.Set("k", "one"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := st.Set("k", "two"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	var got string
	if ok, _ := st.Get("k", &got); !ok || got != "two" {
		t.Fatalf("expected last write, got %q", got)
	}
}

func TestKeyCannotEscapeDir(t *testing.T) {
	dir := t.TempDir()
	st, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := st.Set("../escape", "x"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, ".._escape.json")); err != nil {
		t.Fatalf("sanitized file missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(dir), "escape.json")); err == nil {
		t.Fatalf("key escaped the store directory")
	}
}

func TestLeadsEmptyByDefault(t *testing.T) {
	st := openTemp(t)
	leads, err := st.Leads()
	if err != nil {
		t.Fatalf("Leads: %v", err)
	}
	if len(leads) != 0 {
		t.Fatalf("expected empty list, got %d", len(leads))
	}
}

func TestAppendLeadDoesNotWrite(t *testing.T) {
	st := openTemp(t)
	updated, err := st.AppendLead(types.Lead{ID: "l1", Status: "New Lead"})
	if err != nil {
		t.Fatalf("AppendLead: %v", err)
	}
	if len(updated) != 1 || updated[0].ID != "l1" {
		t.Fatalf("unexpected updated list: %+v", updated)
	}
	// nothing persisted until the caller writes the list back
	leads, _ := st.Leads()
	if len(leads) != 0 {
		t.Fatalf("AppendLead persisted on its own")
	}
	if err := st.Set(KeyLeads, updated); err != nil {
		t.Fatalf("Set leads: %v", err)
	}
	leads, _ = st.Leads()
	if len(leads) != 1 {
		t.Fatalf("persisted list wrong: %+v", leads)
	}
}

func TestAdminFlag(t *testing.T) {
	st := openTemp(t)
	if st.AdminAuthenticated() {
		t.Fatalf("flag set on fresh store")
	}
	if err := st.SetAdminAuthenticated(true); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	if !st.AdminAuthenticated() {
		t.Fatalf("flag not readable after set")
	}
	if err := st.SetAdminAuthenticated(false); err != nil {
		t.Fatalf("clear flag: %v", err)
	}
	if st.AdminAuthenticated() {
		t.Fatalf("flag survived clear")
	}
}

func TestOpenIsReusable(t *testing.T) {
	dir := t.TempDir()
	st1, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := st1.Set("k", 42); err != nil {
		t.Fatalf("Set: %v", err)
	}
	st2, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	var got int
	if ok, _ := st2.Get("k", &got); !ok || got != 42 {
		t.Fatalf("value lost across opens: %d", got)
	}
}
