package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ocragent/internal/config"
	"ocragent/internal/extract"
	"ocragent/internal/model"
	"ocragent/internal/service"
	serviceMocks "ocragent/internal/service/mocks"
)

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		ZeroRetentionDefault: true,
		MaxDocsPerBatch:      3,
		MaxFileSizeMB:        1,
	}
}

func newTestApp(svc service.OCRService) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	RegisterRoutes(app, svc, testConfig())
	return app
}

// multipartBody builds a multipart form with the given files under fieldName
// plus optional extra form fields.
func multipartBody(t *testing.T, fieldName string, files map[string][]byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := new(bytes.Buffer)
	mw := multipart.NewWriter(body)
	for name, data := range files {
		fw, err := mw.CreateFormFile(fieldName, name)
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func decodeError(t *testing.T, resp *http.Response) errorPayload {
	t.Helper()
	var payload errorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return payload
}

func TestHealthEndpoints(t *testing.T) {
	app := newTestApp(new(serviceMocks.MockOCRService))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestParseRetentionFlag(t *testing.T) {
	for _, tok := range []string{"1", "true", "TRUE", "yes", "Y", "on", " On "} {
		assert.True(t, parseRetentionFlag(tok, false), tok)
	}
	for _, tok := range []string{"0", "false", "no", "off", "maybe", "2"} {
		assert.False(t, parseRetentionFlag(tok, true), tok)
	}
	assert.True(t, parseRetentionFlag("", true), "absent token falls back to default")
	assert.False(t, parseRetentionFlag("", false))
}

func TestExtractSuccess(t *testing.T) {
	mSvc := new(serviceMocks.MockOCRService)
	result := &model.ExtractionResult{
		JobID:  "job-1",
		Status: "success",
		Pages:  []model.Page{{PageNumber: 1, Text: "hello"}},
	}
	mSvc.On("ProcessFile", mock.Anything, []byte("content"), "scan.png", "invoice", false).
		Return(result, nil)
	app := newTestApp(mSvc)

	body, ct := multipartBody(t, "file", map[string][]byte{"scan.png": []byte("content")},
		map[string]string{"document_type": "invoice", "zero_retention": "no"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ocr/extract", body)
	req.Header.Set("Content-Type", ct)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got model.ExtractionResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "job-1", got.JobID)
	mSvc.AssertExpectations(t)
}

func TestExtractDefaultsApplied(t *testing.T) {
	mSvc := new(serviceMocks.MockOCRService)
	// document_type defaults to "generic" and zero_retention to the
	// configured default (true).
	mSvc.On("ProcessFile", mock.Anything, mock.Anything, "scan.png", "generic", true).
		Return(&model.ExtractionResult{Status: "success"}, nil)
	app := newTestApp(mSvc)

	body, ct := multipartBody(t, "file", map[string][]byte{"scan.png": []byte("content")}, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ocr/extract", body)
	req.Header.Set("Content-Type", ct)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	mSvc.AssertExpectations(t)
}

func TestExtractMissingFile(t *testing.T) {
	app := newTestApp(new(serviceMocks.MockOCRService))

	body, ct := multipartBody(t, "file", nil, map[string]string{"document_type": "generic"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ocr/extract", body)
	req.Header.Set("Content-Type", ct)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "FILE_REQUIRED", decodeError(t, resp).Error.Code)
}

func TestExtractEmptyFile(t *testing.T) {
	mSvc := new(serviceMocks.MockOCRService)
	app := newTestApp(mSvc)

	body, ct := multipartBody(t, "file", map[string][]byte{"empty.pdf": {}}, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ocr/extract", body)
	req.Header.Set("Content-Type", ct)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "EMPTY_FILE", decodeError(t, resp).Error.Code)
	mSvc.AssertNotCalled(t, "ProcessFile",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestExtractOversizedFile(t *testing.T) {
	mSvc := new(serviceMocks.MockOCRService)
	app := newTestApp(mSvc)

	big := bytes.Repeat([]byte{1}, 1<<20+1) // ceiling is 1 MB
	body, ct := multipartBody(t, "file", map[string][]byte{"big.pdf": big}, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ocr/extract", body)
	req.Header.Set("Content-Type", ct)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	payload := decodeError(t, resp)
	assert.Equal(t, "PAYLOAD_TOO_LARGE", payload.Error.Code)
	assert.Contains(t, payload.Error.Message, "1 MB")
}

func TestExtractErrorTranslation(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "unsupported format",
			err:        &extract.UnsupportedFormatError{Ext: "xyz"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "UNSUPPORTED_FORMAT",
		},
		{
			name:       "extraction failed",
			err:        &extract.ExtractionError{Stage: "pdf", Cause: errors.New("corrupt xref")},
			wantStatus: http.StatusBadRequest,
			wantCode:   "EXTRACTION_FAILED",
		},
		{
			name:       "unexpected error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mSvc := new(serviceMocks.MockOCRService)
			mSvc.On("ProcessFile", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
				Return(nil, tt.err)
			app := newTestApp(mSvc)

			body, ct := multipartBody(t, "file", map[string][]byte{"doc.pdf": []byte("x")}, nil)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/ocr/extract", body)
			req.Header.Set("Content-Type", ct)

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantCode, decodeError(t, resp).Error.Code)
		})
	}
}

func TestExtractBatchSuccess(t *testing.T) {
	mSvc := new(serviceMocks.MockOCRService)
	batch := &model.BatchResult{
		Status:         "success",
		DocumentType:   "generic",
		ZeroRetention:  true,
		MaxDocsAllowed: 3,
		Results: []model.BatchItem{
			{Filename: "a.pdf", FileHash: "h1", Response: &model.ExtractionResult{Status: "success"}},
			{Filename: "b.pdf", Error: "Empty file"},
		},
	}
	mSvc.On("ProcessBatch", mock.Anything, mock.MatchedBy(func(files []service.BatchFile) bool {
		return len(files) == 2
	}), "generic", true).Return(batch, nil)
	app := newTestApp(mSvc)

	body, ct := multipartBody(t, "files", map[string][]byte{
		"a.pdf": []byte("aaa"),
		"b.pdf": []byte("bbb"),
	}, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ocr/extract-batch", body)
	req.Header.Set("Content-Type", ct)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got model.BatchResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "success", got.Status)
	assert.Len(t, got.Results, 2)
	mSvc.AssertExpectations(t)
}

func TestExtractBatchNoFiles(t *testing.T) {
	app := newTestApp(new(serviceMocks.MockOCRService))

	body, ct := multipartBody(t, "files", nil, map[string]string{"document_type": "generic"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ocr/extract-batch", body)
	req.Header.Set("Content-Type", ct)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "FILES_REQUIRED", decodeError(t, resp).Error.Code)
}

func TestExtractBatchTooLarge(t *testing.T) {
	mSvc := new(serviceMocks.MockOCRService)
	mSvc.On("ProcessBatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &extract.BatchTooLargeError{Received: 4, Limit: 3})
	app := newTestApp(mSvc)

	body, ct := multipartBody(t, "files", map[string][]byte{
		"a.pdf": []byte("a"), "b.pdf": []byte("b"),
		"c.pdf": []byte("c"), "d.pdf": []byte("d"),
	}, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ocr/extract-batch", body)
	req.Header.Set("Content-Type", ct)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	payload := decodeError(t, resp)
	assert.Equal(t, "BATCH_TOO_LARGE", payload.Error.Code)
	assert.Contains(t, payload.Error.Message, "max allowed is 3")
}

func TestErrorHandlerUnknownRoute(t *testing.T) {
	app := newTestApp(new(serviceMocks.MockOCRService))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)
}
