package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"listingsheet/internal/metrics"
	"listingsheet/internal/pipeline"
)

const listing = "Prax's Restaurant\nAddress: Tecom, Dubai\nModern dining.\nVerified\n+971 800 77297E-mail4 Photos\n"

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	reg := prometheus.NewRegistry()
	metrics.MustRegister(reg)
	return NewServer(pipeline.NewProcessingService(nil, nil), reg, nil).Handler()
}

func postForm(t *testing.T, h http.Handler, path, text string) *httptest.ResponseRecorder {
	t.Helper()
	body := url.Values{"text": {text}}.Encode()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestProcessPreview(t *testing.T) {
	h := newTestServer(t)

	rec := postForm(t, h, "/process", listing)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp previewResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"Name", "Address", "Description of Business", "Phone Number", "WhatsApp Link"}, resp.Columns)
	require.Len(t, resp.Rows, 1)
	assert.Equal(t, "+97180077297", resp.Rows[0][3])
	assert.Equal(t, "https://wa.me/97180077297", resp.Rows[0][4])
	assert.Len(t, resp.TraceID, 26)
}

func TestProcessJSONBody(t *testing.T) {
	h := newTestServer(t)

	payload, err := json.Marshal(processReq{Text: listing})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/process", bytes.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Prax's Restaurant")
}

func TestProcessErrors(t *testing.T) {
	h := newTestServer(t)

	rec := postForm(t, h, "/process", "  \n\t")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), emptyInputMessage)

	rec = postForm(t, h, "/process", "4.5 Reviews\n(120 Reviews)")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "no data")
}

func TestExportDownload(t *testing.T) {
	h := newTestServer(t)

	rec := postForm(t, h, "/export", listing)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, pipeline.XLSXContentType, rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), pipeline.DefaultFileName)

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	ok, target, err := f.GetCellHyperLink(f.GetSheetName(0), "E2")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "https://wa.me/97180077297", target)

	rec = postForm(t, h, "/export", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFormHealthAndMetrics(t *testing.T) {
	h := newTestServer(t)

	for path, want := range map[string]string{
		"/":        "Restaurant Data Processor",
		"/healthz": "ok",
	} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, rec.Body.String(), want, path)
	}

	postForm(t, h, "/process", listing)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "listingsheet_runs_total")
}
