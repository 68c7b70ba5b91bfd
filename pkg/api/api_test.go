package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/hetenyib/qiskit-qec/pkg/pipeline"
	"github.com/hetenyib/qiskit-qec/pkg/store"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(nil, nil, logger)
	return NewServer(runner, store.NewMemoryStore(), logger)
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := doJSON(t, testServer(t).Router(), http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" || body["version"] == "" {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestLattice(t *testing.T) {
	rec := doJSON(t, testServer(t).Router(), http.MethodGet, "/v1/lattice/3", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var body latticeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Distance != 3 || body.NumQubits != 9 {
		t.Errorf("lattice = %+v", body)
	}
	if len(body.Stabilizers["z"]) != 4 || len(body.Stabilizers["x"]) != 4 {
		t.Errorf("stabilizers = %+v", body.Stabilizers)
	}
	if len(body.Logicals["z"]) != 2 {
		t.Errorf("logicals = %+v", body.Logicals)
	}
}

func TestLatticeBadDistance(t *testing.T) {
	h := testServer(t).Router()
	for _, path := range []string{"/v1/lattice/abc", "/v1/lattice/0"} {
		rec := doJSON(t, h, http.MethodGet, path, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", path, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "INVALID_DISTANCE") {
			t.Errorf("%s: body missing error code: %s", path, rec.Body)
		}
	}
}

func TestLatticeRenderDOT(t *testing.T) {
	rec := doJSON(t, testServer(t).Router(), http.MethodGet, "/v1/lattice/3/render?format=dot", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/vnd.graphviz" {
		t.Errorf("content type = %q", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "graph lattice {") {
		t.Errorf("unexpected body: %s", rec.Body)
	}
}

func TestLatticeRenderBadFormat(t *testing.T) {
	rec := doJSON(t, testServer(t).Router(), http.MethodGet, "/v1/lattice/3/render?format=gif", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestDecode(t *testing.T) {
	req := decodeRequest{
		Distance: 3,
		Rounds:   3,
		Basis:    "z",
		Resets:   true,
		Logical:  "0",
		Shot:     "000010000 0000 0000 0000 0000 0000 0000",
	}
	rec := doJSON(t, testServer(t).Router(), http.MethodPost, "/v1/decode", req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var body struct {
		Logical string `json:"logical"`
		Nodes   []struct {
			Time    int `json:"time"`
			Element int `json:"element"`
		} `json:"nodes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Logical != "0" || len(body.Nodes) != 2 {
		t.Errorf("unexpected decode result: %s", rec.Body)
	}
	for _, n := range body.Nodes {
		if n.Time != 3 {
			t.Errorf("node time = %d, want 3", n.Time)
		}
	}
}

func TestDecodeMalformedShot(t *testing.T) {
	req := decodeRequest{Distance: 3, Rounds: 1, Basis: "z", Shot: "nope"}
	rec := doJSON(t, testServer(t).Router(), http.MethodPost, "/v1/decode", req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400: %s", rec.Code, rec.Body)
	}
}

func TestBatchLifecycle(t *testing.T) {
	h := testServer(t).Router()

	opts := pipeline.Options{Distance: 3, Rounds: 1, Basis: "z", Resets: true, Shots: 2, Seed: 5}
	rec := doJSON(t, h, http.MethodPost, "/v1/batches/", opts)
	if rec.Code != http.StatusCreated {
		t.Fatalf("batch create status = %d: %s", rec.Code, rec.Body)
	}
	var run batchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &run); err != nil {
		t.Fatal(err)
	}
	if run.BatchID == "" || len(run.Shots) != 2 || len(run.Graphs) != 2 {
		t.Fatalf("unexpected run response: %+v", run)
	}

	rec = doJSON(t, h, http.MethodGet, "/v1/batches/"+run.BatchID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("batch get status = %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodGet, "/v1/batches/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("batch list status = %d", rec.Code)
	}
	var batches []store.Batch
	if err := json.Unmarshal(rec.Body.Bytes(), &batches); err != nil {
		t.Fatal(err)
	}
	if len(batches) != 1 || batches[0].ID != run.BatchID {
		t.Errorf("unexpected batch list: %+v", batches)
	}

	rec = doJSON(t, h, http.MethodDelete, "/v1/batches/"+run.BatchID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("batch delete status = %d", rec.Code)
	}
	rec = doJSON(t, h, http.MethodGet, "/v1/batches/"+run.BatchID, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("deleted batch status = %d, want 404", rec.Code)
	}
}

func TestBatchCreateValidation(t *testing.T) {
	rec := doJSON(t, testServer(t).Router(), http.MethodPost, "/v1/batches/", pipeline.Options{Basis: "y"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400: %s", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), "INVALID_BASIS") {
		t.Errorf("body missing code: %s", rec.Body)
	}
}

func TestUnknownBatch(t *testing.T) {
	rec := doJSON(t, testServer(t).Router(), http.MethodGet, fmt.Sprintf("/v1/batches/%s", "no-such-id"), nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
