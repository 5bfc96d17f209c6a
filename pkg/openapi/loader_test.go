package openapi

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
)

func TestLoadFromFilesystem(t *testing.T) {
	files := fstest.MapFS{
		"specs/api.json": &fstest.MapFile{Data: []byte(`{"openapi":"3.0.3"}`)},
	}
	loader := NewLoader(WithFileSystem(files))

	doc, err := loader.Load(context.Background(), SourceFromFS("specs/api.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !bytes.Contains(doc.Raw(), []byte("3.0.3")) {
		t.Fatalf("raw = %s", doc.Raw())
	}
	if doc.Location() != "specs/api.json" {
		t.Fatalf("location = %q", doc.Location())
	}
}

func TestLoadFSSourceRequiresFilesystem(t *testing.T) {
	loader := NewLoader()
	if _, err := loader.Load(context.Background(), SourceFromFS("api.json")); err == nil {
		t.Fatal("fs source accepted without a filesystem")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.json")
	if err := os.WriteFile(path, []byte(`{"openapi":"3.0.3"}`), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	doc, err := NewLoader().Load(context.Background(), SourceFromFile(path))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(doc.Raw()) == 0 {
		t.Fatal("empty payload")
	}
}

func TestLoadFromURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.json" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"openapi":"3.0.3"}`))
	}))
	defer server.Close()

	loader := NewLoader(WithHTTPClient(server.Client()))

	doc, err := loader.Load(context.Background(), SourceFromURL(server.URL+"/api.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(doc.Raw()) == 0 {
		t.Fatal("empty payload")
	}

	if _, err := loader.Load(context.Background(), SourceFromURL(server.URL+"/missing.json")); err == nil {
		t.Fatal("non-200 response accepted")
	}
}

func TestLoadURLSourceDisabledByDefault(t *testing.T) {
	loader := NewLoader()
	if _, err := loader.Load(context.Background(), SourceFromURL("http://localhost:1/api.json")); err == nil {
		t.Fatal("url source accepted without a client")
	}
}

func TestNewDocumentRejectsEmptyInput(t *testing.T) {
	if _, err := NewDocument(nil, []byte("x")); err == nil {
		t.Fatal("nil source accepted")
	}
	if _, err := NewDocument(SourceFromFile("a.json"), nil); err == nil {
		t.Fatal("empty payload accepted")
	}
}

func TestDocumentRawIsACopy(t *testing.T) {
	doc, err := NewDocument(SourceFromFile("a.json"), []byte("abc"))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	raw := doc.Raw()
	raw[0] = 'x'
	if string(doc.Raw()) != "abc" {
		t.Fatal("Raw exposes internal storage")
	}
}
