package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"premiumd/internal/encode"
	"premiumd/internal/service"
	"premiumd/pkg/types"
)

type mockService struct {
	models     []types.Model
	status     types.StatusResponse
	ready      bool
	predictErr error
	predicted  types.PredictResponse
	lastReq    types.PredictRequest
}

func (m *mockService) ListModels() []types.Model    { return append([]types.Model(nil), m.models...) }
func (m *mockService) Status() types.StatusResponse { return m.status }
func (m *mockService) Ready() bool                  { return m.ready }
func (m *mockService) Predict(ctx context.Context, req types.PredictRequest) (types.PredictResponse, error) {
	m.lastReq = req
	if m.predictErr != nil {
		return types.PredictResponse{}, m.predictErr
	}
	return m.predicted, nil
}

func validBody() []byte {
	b, _ := json.Marshal(types.PredictRequest{
		Age: 35, BMI: 27.5, Children: 2,
		Smoker: "yes", Sex: "female", Region: "southeast",
	})
	return b
}

func postPredict(t *testing.T, h http.Handler, body []byte, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/predict", bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestModelsHandler(t *testing.T) {
	svc := &mockService{models: []types.Model{{ID: "m1"}, {ID: "m2"}}}
	r := NewMux(svc)
	req := httptest.NewRequest(http.MethodGet, "/v1/models", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var body types.ModelsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(body.Models) != 2 {
		t.Fatalf("models len=%d", len(body.Models))
	}
}

func TestStatusHandler(t *testing.T) {
	svc := &mockService{status: types.StatusResponse{RegistrySize: 3, State: "ready"}}
	r := NewMux(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/status", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var body types.StatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.RegistrySize != 3 || body.State != "ready" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestPredictJSON(t *testing.T) {
	svc := &mockService{predicted: types.PredictResponse{Model: "m1", Charge: 14218.37, Display: "$14218.37"}}
	r := NewMux(svc)
	w := postPredict(t, r, validBody(), "application/json")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var body types.PredictResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.Charge != 14218.37 || body.Display != "$14218.37" {
		t.Fatalf("unexpected body: %+v", body)
	}
	if svc.lastReq.Region != "southeast" {
		t.Fatalf("request not forwarded: %+v", svc.lastReq)
	}
}

func TestPredictRequiresJSONContentType(t *testing.T) {
	r := NewMux(&mockService{})
	w := postPredict(t, r, validBody(), "text/plain")
	if w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestPredictInvalidBody(t *testing.T) {
	r := NewMux(&mockService{})
	w := postPredict(t, r, []byte("{oops"), "application/json")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestPredictValidation(t *testing.T) {
	r := NewMux(&mockService{})
	cases := map[string]types.PredictRequest{
		"age too high": {Age: 101, BMI: 20, Smoker: "no", Sex: "male", Region: "southwest"},
		"bmi too high": {Age: 40, BMI: 99, Smoker: "no", Sex: "male", Region: "southwest"},
		"bad smoker":   {Age: 40, BMI: 20, Smoker: "maybe", Sex: "male", Region: "southwest"},
		"bad region":   {Age: 40, BMI: 20, Smoker: "no", Sex: "male", Region: "atlantis"},
	}
	for name, req := range cases {
		b, _ := json.Marshal(req)
		w := postPredict(t, r, b, "application/json")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: status=%d body=%s", name, w.Code, w.Body.String())
		}
		var e types.ErrorResponse
		if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil || e.Code != http.StatusBadRequest {
			t.Fatalf("%s: error payload %s", name, w.Body.String())
		}
	}
}

func TestPredictErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{service.ErrModelNotFound("m9"), http.StatusNotFound},
		{service.ErrArtifactUnavailable("broken artifact"), http.StatusServiceUnavailable},
		{encode.ParseError{Field: "region", Value: "atlantis"}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		r := NewMux(&mockService{predictErr: tc.err})
		w := postPredict(t, r, validBody(), "application/json")
		if w.Code != tc.want {
			t.Fatalf("err=%v status=%d want %d", tc.err, w.Code, tc.want)
		}
	}
}

func TestHealthz(t *testing.T) {
	r := NewMux(&mockService{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestReadyz(t *testing.T) {
	r := NewMux(&mockService{ready: true})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}

	r = NewMux(&mockService{ready: false})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "loading") {
		t.Fatalf("body=%q", w.Body.String())
	}
}

const analyticsCSV = `age,sex,bmi,children,smoker,region,charges
19,female,27.9,0,yes,southwest,16884.92
18,male,33.77,1,no,southeast,1725.55
31,female,25.74,0,yes,southeast,3756.62
`

func withDataset(t *testing.T, content string) {
	t.Helper()
	p := filepath.Join(t.TempDir(), "insurance.csv")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	SetAssets(p, "")
	t.Cleanup(func() { SetAssets("", "") })
}

func TestAnalyticsEndpoints(t *testing.T) {
	withDataset(t, analyticsCSV)
	r := NewMux(&mockService{})
	for _, path := range []string{
		"/v1/analytics/summary",
		"/v1/analytics/age-charges",
		"/v1/analytics/bmi-charges",
		"/v1/analytics/smoker-impact",
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("%s: status=%d body=%s", path, w.Code, w.Body.String())
		}
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/analytics/age-charges", nil))
	var series types.ScatterSeries
	if err := json.Unmarshal(w.Body.Bytes(), &series); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(series.Points) != 3 || series.XLabel != "age" {
		t.Fatalf("series: %+v", series)
	}
}

// A missing dataset must answer with a handled fallback, not a crash.
func TestAnalyticsMissingDataset(t *testing.T) {
	SetAssets(filepath.Join(t.TempDir(), "nope.csv"), "")
	t.Cleanup(func() { SetAssets("", "") })
	r := NewMux(&mockService{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/analytics/summary", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d", w.Code)
	}
	var e types.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil || e.Error == "" {
		t.Fatalf("error payload: %s", w.Body.String())
	}
}

func TestAnalyticsMalformedDataset(t *testing.T) {
	withDataset(t, "age,sex\nbroken\n")
	r := NewMux(&mockService{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/analytics/summary", nil))
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status=%d", w.Code)
	}
}

func multipartCSV(t *testing.T, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "upload.csv")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatalf("write: %v", err)
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestUploadJSON(t *testing.T) {
	r := NewMux(&mockService{})
	body, ct := multipartCSV(t, "a,b\n1,2\n3,4\n")
	req := httptest.NewRequest(http.MethodPost, "/v1/upload", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var resp types.PreviewResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if resp.TotalRows != 2 || len(resp.Columns) != 2 {
		t.Fatalf("preview: %+v", resp)
	}
}

func TestUploadMissingFile(t *testing.T) {
	r := NewMux(&mockService{})
	req := httptest.NewRequest(http.MethodPost, "/v1/upload", strings.NewReader("plain"))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestAnimation(t *testing.T) {
	d := t.TempDir()
	p := filepath.Join(d, "animation.json")
	if err := os.WriteFile(p, []byte(`{"v":"5.0"}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	SetAssets("", p)
	t.Cleanup(func() { SetAssets("", "") })

	r := NewMux(&mockService{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/animation", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}

	// Corrupt file degrades to 404 rather than an error page.
	if err := os.WriteFile(p, []byte("{nope"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/animation", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d", w.Code)
	}
}
