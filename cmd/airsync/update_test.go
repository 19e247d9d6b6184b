package main

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/airsync/airsync/config"
	"github.com/airsync/airsync/internal/fetch"
)

const updateTestURN = "urn:air:sd1:checkpoint:civitai:1234@5678"

// startRegistry serves model 1234 version 5678 with a single file and counts
// download hits.
func startRegistry(t *testing.T, name string, content []byte) (*httptest.Server, *int64) {
	t.Helper()

	var hits int64
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/models/1234":
			sum := sha256.Sum256(content)
			body := map[string]any{
				"id": 1234,
				"modelVersions": []map[string]any{{
					"id": 5678,
					"files": []map[string]any{{
						"name":        name,
						"downloadUrl": server.URL + "/files/" + name,
						"hashes":      map[string]string{"SHA256": strings.ToUpper(hex.EncodeToString(sum[:]))},
					}},
				}},
			}
			json.NewEncoder(w).Encode(body)

		case r.URL.Path == "/files/"+name:
			atomic.AddInt64(&hits, 1)
			w.Write(content)

		default:
			t.Errorf("unexpected request path: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server, &hits
}

func setGlobals(t *testing.T, registryURL, baseDir string) {
	t.Helper()
	old := config.Global
	config.Global = config.GlobalFlags{
		RegistryURL: registryURL,
		AuthToken:   "test-token",
		BaseDir:     baseDir,
	}
	t.Cleanup(func() { config.Global = old })
}

func runCommand(t *testing.T, cmd *cobra.Command, args ...string) {
	t.Helper()
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("command %v error = %v", args, err)
	}
}

func TestUpdateRoundTripsPulledSidecar(t *testing.T) {
	content := []byte("model weights")
	server, hits := startRegistry(t, "model.safetensors", content)

	base := t.TempDir()
	setGlobals(t, server.URL, base)

	runCommand(t, pullCmd(), updateTestURN)

	asset := filepath.Join(base, "model.safetensors")
	sidecar := fetch.SidecarPath(asset)
	sc, err := fetch.ReadSidecar(sidecar)
	if err != nil {
		t.Fatalf("pull left no sidecar: %v", err)
	}
	if sc.URN != updateTestURN {
		t.Fatalf("sidecar urn = %q, want %q", sc.URN, updateTestURN)
	}
	if n := atomic.LoadInt64(hits); n != 1 {
		t.Fatalf("downloads after pull = %d, want 1", n)
	}

	// The intact asset must not be fetched again.
	runCommand(t, updateCmd(), sidecar)
	if n := atomic.LoadInt64(hits); n != 1 {
		t.Errorf("downloads after update = %d, want still 1", n)
	}

	data, err := os.ReadFile(asset)
	if err != nil {
		t.Fatalf("asset missing after update: %v", err)
	}
	if string(data) != string(content) {
		t.Error("asset content changed by update")
	}
}

func TestUpdateRestoresAssetNextToSidecar(t *testing.T) {
	content := []byte("relocated weights")
	server, hits := startRegistry(t, "model.safetensors", content)

	// The sidecar lives in a nested directory unrelated to the configured
	// base; the restored file must land beside it.
	base := t.TempDir()
	nested := filepath.Join(base, "archive", "sd1")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	asset := filepath.Join(nested, "model.safetensors")
	if err := fetch.WriteSidecar(asset, updateTestURN, time.Now()); err != nil {
		t.Fatal(err)
	}

	setGlobals(t, server.URL, t.TempDir())

	runCommand(t, updateCmd(), base)

	if n := atomic.LoadInt64(hits); n != 1 {
		t.Errorf("downloads = %d, want 1", n)
	}
	data, err := os.ReadFile(asset)
	if err != nil {
		t.Fatalf("asset not restored next to its sidecar: %v", err)
	}
	if got := fmt.Sprintf("%x", sha256.Sum256(data)); got != fmt.Sprintf("%x", sha256.Sum256(content)) {
		t.Error("restored asset digest differs from registry content")
	}
}
