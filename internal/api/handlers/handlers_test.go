package handlers_test

import (
	"AgroTech-Vision/domain"
	"AgroTech-Vision/entities"
	"AgroTech-Vision/internal/api/handlers"
	"AgroTech-Vision/internal/api/routes"
	"AgroTech-Vision/internal/middleware"
	"AgroTech-Vision/internal/utils"
	"AgroTech-Vision/pkg/analysis"
	"AgroTech-Vision/pkg/history"
	"AgroTech-Vision/pkg/prediction"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jpegData = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46, 0x49, 0x46, 0x00, 0x01, 0xFF, 0xD9}

type stubClient struct {
	raw domain.RawPrediction
	err error
}

func (s *stubClient) PredictFile(_ context.Context, _ prediction.FileUpload, onProgress prediction.ProgressFunc) (domain.RawPrediction, error) {
	if onProgress != nil {
		onProgress(1, 1)
	}
	return s.raw, s.err
}

type envelope[T any] struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    T               `json:"data"`
	Error   json.RawMessage `json:"error"`
}

func newTestApp(t *testing.T, client prediction.PredictionClient) *fiber.App {
	t.Helper()
	utils.InitValidator()

	storage, err := history.NewFileLocalStorage(t.TempDir())
	require.NoError(t, err)
	historyService := history.NewHistoryService(history.NewHistoryStore(context.Background(), storage), nil, nil)
	controller := analysis.NewUploadController(client, analysis.NewPreviewStore(routes.PreviewPathPrefix), historyService)

	app := fiber.New(fiber.Config{BodyLimit: domain.MaxFileSize + 1<<20})
	cfg := routes.Config{
		App:             app,
		AnalysisHandler: handlers.NewAnalysisHandler(controller, utils.Validate),
		HistoryHandler:  handlers.NewHistoryHandler(historyService, utils.Validate),
		Middleware:      middleware.NewMiddleware(""),
	}
	cfg.Setup()
	return app
}

func fileRequest(t *testing.T, name, mimeType string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+name+`"`)
	header.Set("Content-Type", mimeType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis/file", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func do(t *testing.T, app *fiber.App, req *http.Request) *http.Response {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) envelope[T] {
	t.Helper()
	defer resp.Body.Close()
	var env envelope[T]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env
}

func TestPing(t *testing.T) {
	app := newTestApp(t, &stubClient{})

	resp := do(t, app, httptest.NewRequest(http.MethodGet, "/api/ping", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSelectFile_RejectsType(t *testing.T) {
	app := newTestApp(t, &stubClient{})

	resp := do(t, app, fileRequest(t, "cow.gif", "image/gif", []byte("GIF89a")))

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	env := decode[json.RawMessage](t, resp)
	assert.Equal(t, domain.MessageInvalidFileType, env.Message)
}

func TestSelectFile_MissingField(t *testing.T) {
	app := newTestApp(t, &stubClient{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis/file", strings.NewReader("{}"))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	resp := do(t, app, req)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSubmit_WithoutFile(t *testing.T) {
	app := newTestApp(t, &stubClient{})

	resp := do(t, app, httptest.NewRequest(http.MethodPost, "/api/v1/analysis/submit", nil))

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSubmit_BackendError(t *testing.T) {
	app := newTestApp(t, &stubClient{err: &domain.ApiError{Message: "server error: 500", Status: 500}})
	do(t, app, fileRequest(t, "cow.jpg", "image/jpeg", jpegData))

	resp := do(t, app, httptest.NewRequest(http.MethodPost, "/api/v1/analysis/submit", nil))

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	env := decode[domain.AnalysisResponse](t, resp)
	assert.Equal(t, "failed", env.Data.Phase)
	assert.False(t, env.Data.Upload.IsLoading)
	require.NotNil(t, env.Data.Upload.Error)
	assert.Equal(t, 500, env.Data.Upload.Error.Status)
	assert.Equal(t, "server error: 500", env.Data.Upload.Error.Message)
}

func TestAnalysisAndHistoryFlow(t *testing.T) {
	weight := 450.0
	app := newTestApp(t, &stubClient{raw: domain.RawPrediction{Weight: &weight}})

	resp := do(t, app, fileRequest(t, "cow.jpg", "image/jpeg", jpegData))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	selected := decode[domain.AnalysisResponse](t, resp)
	assert.Equal(t, "file_selected", selected.Data.Phase)
	require.NotNil(t, selected.Data.File)
	previewURL := selected.Data.File.PreviewURL
	assert.True(t, strings.HasPrefix(previewURL, routes.PreviewPathPrefix))

	resp = do(t, app, httptest.NewRequest(http.MethodGet, previewURL, nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/jpeg", resp.Header.Get("Content-Type"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, jpegData, body)

	resp = do(t, app, httptest.NewRequest(http.MethodPost, "/api/v1/analysis/submit", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	analyzed := decode[domain.AnalysisResponse](t, resp)
	assert.Equal(t, "success", analyzed.Data.Phase)
	assert.Equal(t, 100, analyzed.Data.Upload.Progress)
	assert.Equal(t, "₲6.884.550", analyzed.Data.DisplayPrice)
	assert.Equal(t, "450 kg × ₲15.299 = ₲6.884.550", analyzed.Data.CalculationLine)

	keepReq := httptest.NewRequest(http.MethodPost, "/api/v1/analysis/keep", strings.NewReader(`{"condition":"media","device_type":"mobile"}`))
	keepReq.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	resp = do(t, app, keepReq)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	kept := decode[entities.WeightEntry](t, resp)
	assert.Equal(t, 450.0, kept.Data.Weight)
	assert.Equal(t, "media", kept.Data.Condition)

	resp = do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/history?condition=MEDIA&device=mobile", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	listed := decode[[]entities.WeightEntry](t, resp)
	require.Len(t, listed.Data, 1)
	assert.Equal(t, kept.Data.ID, listed.Data[0].ID)

	resp = do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/history/stats", nil))
	stats := decode[domain.HistoryStats](t, resp)
	assert.Equal(t, domain.HistoryStats{Total: 1, Average: 450, Min: 450, Max: 450, Range: 0}, stats.Data)

	resp = do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/history/export", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "weight_history_")
	exported, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(exported), "\n  {\n    \"id\": \""+kept.Data.ID+"\"")

	resp = do(t, app, httptest.NewRequest(http.MethodDelete, "/api/v1/analysis", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = do(t, app, httptest.NewRequest(http.MethodGet, previewURL, nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, app, httptest.NewRequest(http.MethodDelete, "/api/v1/history/"+kept.Data.ID, nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = do(t, app, httptest.NewRequest(http.MethodDelete, "/api/v1/history/"+kept.Data.ID, nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestKeep_WithoutResult(t *testing.T) {
	app := newTestApp(t, &stubClient{})

	resp := do(t, app, httptest.NewRequest(http.MethodPost, "/api/v1/analysis/keep", nil))

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetHistory_InvalidLimit(t *testing.T) {
	app := newTestApp(t, &stubClient{})

	resp := do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/history?limit=-1", nil))

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMailExport(t *testing.T) {
	app := newTestApp(t, &stubClient{})

	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "invalid email", body: `{"email":"not-an-email"}`, want: http.StatusBadRequest},
		{name: "smtp not configured", body: `{"email":"owner@example.com"}`, want: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/history/export/mail", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
			assert.Equal(t, tt.want, do(t, app, req).StatusCode)
		})
	}
}

func TestClearHistory(t *testing.T) {
	app := newTestApp(t, &stubClient{})

	for i := 0; i < 2; i++ {
		resp := do(t, app, httptest.NewRequest(http.MethodDelete, "/api/v1/history", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
}
