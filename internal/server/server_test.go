package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
)

func TestReconcileEndpoint(t *testing.T) {
	s := New()
	body := []byte(`{
		"old": {"kind":"element","tag":"div","path":"","children":[{"kind":"text","content":"Hello","path":"00000001"}]},
		"new": {"kind":"element","tag":"div","path":"","children":[{"kind":"text","content":"World","path":"00000001"}]}
	}`)
	req := httptest.NewRequest(http.MethodPost, "/reconcile", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Patches []map[string]any `json:"patches"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Patches) != 1 {
		t.Fatalf("got %d patches, want 1", len(resp.Patches))
	}
}

func TestPredictorLifecycle(t *testing.T) {
	s := New()

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/predictors", nil))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var created struct {
		Handle uint64 `json:"handle"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Handle == 0 {
		t.Fatal("expected a non-zero handle")
	}

	statsRec := httptest.NewRecorder()
	s.ServeHTTP(statsRec, httptest.NewRequest(http.MethodGet, fmtPath(created.Handle, "stats"), nil))
	if statsRec.Code != http.StatusOK {
		t.Fatalf("stats status = %d, body = %s", statsRec.Code, statsRec.Body.String())
	}

	destroyRec := httptest.NewRecorder()
	s.ServeHTTP(destroyRec, httptest.NewRequest(http.MethodDelete, fmtPath(created.Handle, ""), nil))
	if destroyRec.Code != http.StatusNoContent {
		t.Fatalf("destroy status = %d", destroyRec.Code)
	}

	afterRec := httptest.NewRecorder()
	s.ServeHTTP(afterRec, httptest.NewRequest(http.MethodGet, fmtPath(created.Handle, "stats"), nil))
	if afterRec.Code != http.StatusNotFound {
		t.Fatalf("stats after destroy status = %d, want 404", afterRec.Code)
	}
}

func fmtPath(handle uint64, suffix string) string {
	path := "/predictors/" + strconv.FormatUint(handle, 10)
	if suffix != "" {
		path += "/" + suffix
	}
	return path
}

func TestMetricsEndpoint(t *testing.T) {
	s := New()
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestLoggingEndpoints(t *testing.T) {
	s := New()

	for _, path := range []string{"/logging/enable", "/logging/disable"} {
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, nil))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("%s status = %d", path, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/logs", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("/logs status = %d", rec.Code)
	}
}
