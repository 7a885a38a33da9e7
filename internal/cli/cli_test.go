package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	writeJSON := func(w http.ResponseWriter, v interface{}) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}
	mux.HandleFunc("/batches", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []map[string]interface{}{
			{"id": 1, "batchName": "CS-2024-A", "year": 1, "section": "A", "studentCount": 30},
			{"id": 2, "batchName": "EE-2023-B", "year": 2, "section": "B", "studentCount": 25},
		})
	})
	for _, path := range []string{"/faculty", "/rooms", "/courses"} {
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, []interface{}{})
		})
	}
	mux.HandleFunc("/batches/validate", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{"valid": false, "errors": []string{"Missing column: section"}, "warnings": []string{}})
	})
	mux.HandleFunc("/batches/download", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("id,batchName\n1,CS-2024-A\n"))
	})
	mux.HandleFunc("/batch-year-mapping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{"yearIdentifierToLevel": map[string]int{"2024": 1}})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs(append([]string{"--upstream", srv.URL, "--timeout", "5s", "--no-color"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestListFiltersRecords(t *testing.T) {
	srv := newUpstream(t)

	out, err := run(t, srv, "list", "batches", "--search", "ee-")

	require.NoError(t, err)
	assert.Contains(t, out, "EE-2023-B")
	assert.NotContains(t, out, "CS-2024-A")
	assert.Contains(t, out, "1 of 2 batches")
}

func TestListRejectsUnknownDataset(t *testing.T) {
	srv := newUpstream(t)

	_, err := run(t, srv, "list", "students")

	assert.Error(t, err)
}

func TestCountsCoversEveryDataset(t *testing.T) {
	srv := newUpstream(t)

	out, err := run(t, srv, "counts")

	require.NoError(t, err)
	assert.Regexp(t, `batches\s+2`, out)
	assert.Regexp(t, `courses\s+0`, out)
}

func TestValidateReportsErrors(t *testing.T) {
	srv := newUpstream(t)
	file := filepath.Join(t.TempDir(), "batches.csv")
	require.NoError(t, os.WriteFile(file, []byte("id,batchName\n1,CS\n"), 0o600))

	out, err := run(t, srv, "validate", "batches", file)

	require.Error(t, err)
	assert.Contains(t, out, "File is invalid")
	assert.Contains(t, out, "Missing column: section")
}

func TestDownloadWritesFile(t *testing.T) {
	srv := newUpstream(t)
	dest := filepath.Join(t.TempDir(), "out.csv")

	_, err := run(t, srv, "download", "batches", "-o", dest)

	require.NoError(t, err)
	content, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "id,batchName\n1,CS-2024-A\n", string(content))
}

func TestMappingCommands(t *testing.T) {
	srv := newUpstream(t)

	out, err := run(t, srv, "mapping", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "2024")
	assert.Contains(t, out, "CS-2024-A")

	_, err = run(t, srv, "mapping", "add", "2025", "9")
	assert.Error(t, err)
}
