package blackbox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// findFreePort picks an available TCP port on localhost.
func findFreePort(t *testing.T) (int, func()) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil { t.Fatalf("listen: %v", err) }
	addr := ln.Addr().String()
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil { t.Fatalf("split: %v", err) }
	cleanup := func(){ _ = ln.Close() }
	var port int
	fmt.Sscanf(portStr, "%d", &port)
	return port, cleanup
}

func projectRootFromThisFile(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok { t.Fatal("runtime.Caller failed") }
	// this file: <root>/tests/blackbox/blackbox_test.go
	bbDir := filepath.Dir(thisFile)
	root := filepath.Dir(filepath.Dir(bbDir))
	return root
}

func buildBinary(t *testing.T) string {
	t.Helper()
	root := projectRootFromThisFile(t)
	outDir := t.TempDir()
	binPath := filepath.Join(outDir, "inferd")
	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/inferd")
	cmd.Dir = root
	cmd.Env = append(os.Environ(), "CGO_ENABLED=0")
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("go build failed: %v\n%s", err, string(out))
	}
	return binPath
}

// createTempModelsDir lays out one subdirectory per model, each holding a
// model-settings.json, the way a real model repository directory looks.
func createTempModelsDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, n := range names {
		sub := filepath.Join(dir, n)
		if err := os.MkdirAll(sub, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", sub, err)
		}
		settings := fmt.Sprintf(`{"name":%q,"implementation":"echo"}`, n)
		p := filepath.Join(sub, "model-settings.json")
		if err := os.WriteFile(p, []byte(settings), 0o644); err != nil {
			t.Fatalf("write settings %s: %v", p, err)
		}
	}
	return dir
}

type serverProc struct {
	cmd  *exec.Cmd
	base string // http base URL, e.g. http://127.0.0.1:18080
}

func startServer(t *testing.T, bin string, modelsDir string, port int) *serverProc {
	t.Helper()
	addr := fmt.Sprintf(":%d", port)
	base := fmt.Sprintf("http://127.0.0.1:%d", port)
	cmd := exec.Command(bin, "--addr", addr, "--models-dir", modelsDir)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		t.Fatalf("start server: %v", err)
	}
	// Wait for healthz
	deadline := time.Now().Add(5 * time.Second)
	for {
		resp, err := http.Get(base + "/healthz")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK { break }
		}
		if time.Now().After(deadline) {
			_ = cmd.Process.Kill()
			t.Fatalf("server did not become healthy in time")
		}
		time.Sleep(50 * time.Millisecond)
	}
	sp := &serverProc{cmd: cmd, base: base}
	t.Cleanup(func(){ _ = cmd.Process.Kill() })
	return sp
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil { t.Fatalf("new req: %v", err) }
	resp, err := http.DefaultClient.Do(req)
	if err != nil { t.Fatalf("do: %v", err) }
	b, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, b
}

func postJSON(t *testing.T, url string, payload []byte) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, bytes.NewReader(payload))
	if err != nil { t.Fatalf("new req: %v", err) }
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil { t.Fatalf("do: %v", err) }
	b, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, b
}

func TestBlackbox_Flow(t *testing.T) {
	bin := buildBinary(t)
	modelsDir := createTempModelsDir(t, "alpha", "beta")
	// Reserve a free port, then release listener before starting the server
	port, release := findFreePort(t)
	release()
	sp := startServer(t, bin, modelsDir, port)

	// /healthz
	resp, body := get(t, sp.base+"/healthz")
	if resp.StatusCode != http.StatusOK { t.Fatalf("/healthz %d %s", resp.StatusCode, string(body)) }

	// /v2/models
	resp, body = get(t, sp.base+"/v2/models")
	if resp.StatusCode != http.StatusOK { t.Fatalf("/v2/models %d %s", resp.StatusCode, string(body)) }
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "application/json") { t.Fatalf("/v2/models content-type=%s", ct) }
	var modelsResp struct{ Models []struct{ Name string `json:"name"` } `json:"models"` }
	if err := json.Unmarshal(body, &modelsResp); err != nil { t.Fatalf("/v2/models json: %v body=%s", err, string(body)) }
	if len(modelsResp.Models) != 2 { t.Fatalf("expected 2 models, got %d", len(modelsResp.Models)) }

	// /readyz is 200 once models are loaded
	resp, body = get(t, sp.base+"/readyz")
	if resp.StatusCode != http.StatusOK { t.Fatalf("/readyz %d %s", resp.StatusCode, string(body)) }

	// infer against the echo implementation round-trips the input tensor
	inferBody := []byte(`{"id":"bb-1","inputs":[{"name":"x","datatype":"INT32","shape":[2,2],"data":[1,2,3,4]}]}`)
	resp, body = postJSON(t, sp.base+"/v2/models/alpha/infer", inferBody)
	if resp.StatusCode != http.StatusOK { t.Fatalf("/infer %d %s", resp.StatusCode, string(body)) }
	var inferResp struct {
		ID      string `json:"id"`
		Outputs []struct {
			Name  string    `json:"name"`
			Shape []int64   `json:"shape"`
			Data  []float64 `json:"data"`
		} `json:"outputs"`
	}
	if err := json.Unmarshal(body, &inferResp); err != nil { t.Fatalf("/infer json: %v body=%s", err, string(body)) }
	if inferResp.ID != "bb-1" { t.Fatalf("expected request id echoed back, got %q", inferResp.ID) }
	if len(inferResp.Outputs) != 1 || len(inferResp.Outputs[0].Data) != 4 {
		t.Fatalf("unexpected outputs: %s", string(body))
	}

	// /v2/models/{model} metadata
	resp, body = get(t, sp.base+"/v2/models/beta")
	if resp.StatusCode != http.StatusOK { t.Fatalf("/v2/models/beta %d %s", resp.StatusCode, string(body)) }
	if !bytes.Contains(body, []byte(`"beta"`)) { t.Fatalf("metadata missing name: %s", string(body)) }

	// /metrics exposes dispatch counters after the infer above
	resp, body = get(t, sp.base+"/metrics")
	if resp.StatusCode != http.StatusOK { t.Fatalf("/metrics %d", resp.StatusCode) }
	if !bytes.Contains(body, []byte("inferd_http_requests_total")) {
		t.Fatalf("/metrics missing http counters")
	}
}

func TestBlackbox_Infer_ModelNotFound_404(t *testing.T) {
	bin := buildBinary(t)
	modelsDir := createTempModelsDir(t, "alpha")
	port, release := findFreePort(t)
	release()
	sp := startServer(t, bin, modelsDir, port)

	resp, body := postJSON(t, sp.base+"/v2/models/missing/infer", []byte(`{"inputs":[{"name":"x","datatype":"INT32","shape":[1],"data":[1]}]}`))
	if resp.StatusCode != http.StatusNotFound { t.Fatalf("expected 404, got %d, body=%s", resp.StatusCode, string(body)) }
}

func TestBlackbox_Infer_UnknownContentType_400(t *testing.T) {
	bin := buildBinary(t)
	modelsDir := createTempModelsDir(t, "alpha")
	port, release := findFreePort(t)
	release()
	sp := startServer(t, bin, modelsDir, port)

	payload := []byte(`{"inputs":[{"name":"x","datatype":"INT32","shape":[1],"data":[1],"parameters":{"content_type":"bogus"}}]}`)
	resp, body := postJSON(t, sp.base+"/v2/models/alpha/infer", payload)
	if resp.StatusCode != http.StatusBadRequest { t.Fatalf("expected 400, got %d, body=%s", resp.StatusCode, string(body)) }
	if !bytes.Contains(body, []byte("bogus")) { t.Fatalf("error should name the content type: %s", string(body)) }
}
