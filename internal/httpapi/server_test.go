package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"inferd/internal/codec"
	"inferd/internal/dispatch"
	"inferd/internal/gateway"
	"inferd/internal/registry"
	"inferd/pkg/types"
)

func testMux(t *testing.T, models ...string) http.Handler {
	t.Helper()
	reg := registry.New()
	for _, name := range models {
		reg.Register(&dispatch.Model{
			Meta:      &types.ModelMetadata{Name: name, Version: "1"},
			Predictor: dispatch.Echo{},
		})
	}
	return NewMux(gateway.New(reg, nil))
}

func doJSON(t *testing.T, mux http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

const int32Body = `{"id":"r1","inputs":[{"name":"x","datatype":"INT32","shape":[2,2],"data":[1,2,3,4]}]}`

func TestInferSuccess(t *testing.T) {
	mux := testMux(t, "echo")
	rec := doJSON(t, mux, http.MethodPost, "/v2/models/echo/infer", int32Body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d body %s", rec.Code, rec.Body.String())
	}
	var resp types.InferenceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ModelName != "echo" || resp.ID != "r1" || len(resp.Outputs) != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Outputs[0].Name != "x" || resp.Outputs[0].Datatype != types.Int32 {
		t.Fatalf("unexpected output: %+v", resp.Outputs[0])
	}
}

func TestInferModelNotFound(t *testing.T) {
	mux := testMux(t, "echo")
	rec := doJSON(t, mux, http.MethodPost, "/v2/models/ghost/infer", int32Body)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestInferUnknownContentTypeNamesInput(t *testing.T) {
	mux := testMux(t, "echo")
	body := `{"inputs":[{"name":"x","datatype":"INT32","shape":[1],"data":[1],"parameters":{"content_type":"unknown"}}]}`
	rec := doJSON(t, mux, http.MethodPost, "/v2/models/echo/infer", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d body %s", rec.Code, rec.Body.String())
	}
	var er types.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &er); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(er.Error, `"unknown"`) || !strings.Contains(er.Error, `"x"`) {
		t.Fatalf("error should name content type and input: %q", er.Error)
	}
}

func TestInferShapeMismatch(t *testing.T) {
	mux := testMux(t, "echo")
	body := `{"inputs":[{"name":"x","datatype":"INT32","shape":[5],"data":[1,2]}]}`
	rec := doJSON(t, mux, http.MethodPost, "/v2/models/echo/infer", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestInferRejectsWrongContentType(t *testing.T) {
	mux := testMux(t, "echo")
	req := httptest.NewRequest(http.MethodPost, "/v2/models/echo/infer", strings.NewReader(int32Body))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415 got %d", rec.Code)
	}
}

func TestInferRejectsInvalidJSON(t *testing.T) {
	mux := testMux(t, "echo")
	rec := doJSON(t, mux, http.MethodPost, "/v2/models/echo/infer", "{not json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestInferRequiresInputs(t *testing.T) {
	mux := testMux(t, "echo")
	rec := doJSON(t, mux, http.MethodPost, "/v2/models/echo/infer", `{"inputs":[]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestListModels(t *testing.T) {
	mux := testMux(t, "a", "b")
	rec := doJSON(t, mux, http.MethodGet, "/v2/models", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var resp types.ModelsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Models) != 2 {
		t.Fatalf("expected 2 models got %d", len(resp.Models))
	}
}

func TestModelMetadata(t *testing.T) {
	mux := testMux(t, "echo")
	rec := doJSON(t, mux, http.MethodGet, "/v2/models/echo", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	rec = doJSON(t, mux, http.MethodGet, "/v2/models/ghost", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestHealthAndReadiness(t *testing.T) {
	mux := testMux(t, "echo")
	for _, path := range []string{"/healthz", "/v2/health/live"} {
		if rec := doJSON(t, mux, http.MethodGet, path, ""); rec.Code != http.StatusOK {
			t.Fatalf("%s: status %d", path, rec.Code)
		}
	}
	for _, path := range []string{"/readyz", "/v2/health/ready"} {
		if rec := doJSON(t, mux, http.MethodGet, path, ""); rec.Code != http.StatusOK {
			t.Fatalf("%s: status %d", path, rec.Code)
		}
	}

	empty := testMux(t)
	if rec := doJSON(t, empty, http.MethodGet, "/readyz", ""); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", rec.Code)
	}
}

// stubService fails every inference with a fixed error.
type stubService struct{ err error }

func (s stubService) ListModels() []*types.ModelMetadata           { return nil }
func (s stubService) Metadata(string) (*types.ModelMetadata, bool) { return nil, false }
func (s stubService) Ready() bool                                  { return true }
func (s stubService) Infer(context.Context, string, *types.InferenceRequest) (*types.InferenceResponse, error) {
	return nil, s.err
}

func TestInferClientDisconnectRecordsStatus(t *testing.T) {
	mux := NewMux(stubService{err: context.Canceled})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/v2/models/echo/infer", strings.NewReader(int32Body)).WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != statusClientClosedRequest {
		t.Fatalf("expected %d for abandoned request, got %d", statusClientClosedRequest, rec.Code)
	}
}

func TestStatusForErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{registry.ErrModelNotFound("m"), http.StatusNotFound},
		{codec.ErrCodecNotFound("unknown", "x"), http.StatusBadRequest},
		{codec.ErrUnsupportedDatatype("str", types.Int32, "x"), http.StatusBadRequest},
		{codec.ErrShapeMismatch("x", 4, 2), http.StatusBadRequest},
		{codec.ErrMalformedPayload("x", "boom"), http.StatusBadRequest},
		{codec.ErrModelExecution("m", errors.New("boom")), http.StatusInternalServerError},
		{errors.New("opaque"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := statusForError(tc.err); got != tc.want {
			t.Fatalf("got %d want %d for %v", got, tc.want, tc.err)
		}
	}
}
