package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

func TestLoadMsgpackRoundTrips(t *testing.T) {
	want := map[string][]int{"a": {1, 2}, "b": {3}}
	encoded, err := msgpack.Marshal(want)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	path := filepath.Join(t.TempDir(), "blob.msgpack")
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	var got map[string][]int
	if err := LoadMsgpack(path, &got); err != nil {
		t.Fatalf("LoadMsgpack: %v", err)
	}
	if len(got) != len(want) || len(got["a"]) != 2 || len(got["b"]) != 1 {
		t.Fatalf("expected round-tripped map %v, got %v", want, got)
	}
}

func TestLoadMsgpackMissingFile(t *testing.T) {
	var got map[string]int
	if err := LoadMsgpack("/nonexistent/path/does-not-exist.msgpack", &got); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}
