package ui

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"clasificador/adapters/excel"
	"clasificador/adapters/llm"
	"clasificador/app"
	"clasificador/domain/vocabulary"
	"clasificador/internal/config"
	"clasificador/internal/usage"
	"clasificador/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() config.ServerConfig {
	return config.ServerConfig{
		Port:                 "0",
		GinMode:              gin.TestMode,
		MaxUploadMB:          4,
		MaxConcurrentBatches: 1,
		CORSOrigins:          []string{"http://front.test"},
	}
}

func newTestServer(t *testing.T, classifier ports.Classifier, opts ...app.PipelineOption) *Server {
	t.Helper()
	opts = append([]app.PipelineOption{app.WithPacer(app.PacerFunc(func(context.Context, time.Duration) error { return nil }))}, opts...)
	pipeline := app.NewPipeline(classifier, vocabulary.Default(), app.PipelineConfig{}, opts...)
	s := NewServer(testConfig(), pipeline, nil)
	s.now = func() time.Time { return time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC) }
	return s
}

func dataWorkbook(t *testing.T, rows ...[]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	header := []interface{}{"id_hecho", "relato", "calle"}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &header))
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func templateWorkbook(t *testing.T) []byte {
	t.Helper()
	tpl, err := excel.NewBlankTemplate("CLASIFICACIÓN")
	require.NoError(t, err)
	defer tpl.Close()
	out, err := tpl.Bytes()
	require.NoError(t, err)
	return out
}

func uploadRequest(t *testing.T, path string, files map[string][]byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for field, content := range files {
		name := field + ".xlsx"
		part, err := w.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func column(header string) int {
	return slices.Index(vocabulary.OutputHeaders, header)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, &llm.MockLLMClient{})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestProcessExcel_Success(t *testing.T) {
	for _, path := range []string{"/process-excel", "/api/process-excel"} {
		t.Run(path, func(t *testing.T) {
			s := newTestServer(t, &llm.MockLLMClient{})
			data := dataWorkbook(t,
				[]interface{}{"H-1", "Le robaron la billetera con un arma de fuego", "Mitre"},
				[]interface{}{"H-2", "", "Belgrano"},
			)
			req := uploadRequest(t, path, map[string][]byte{
				dataFileField:     data,
				templateFileField: templateWorkbook(t),
			})
			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, req)

			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, excel.ContentType, rec.Header().Get("Content-Type"))
			assert.Equal(t, `attachment; filename="Clasificado_Final_IA.xlsx"`, rec.Header().Get("Content-Disposition"))
			assert.Equal(t, "1", rec.Header().Get("X-Rows-Classified"))

			out, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
			require.NoError(t, err)
			defer out.Close()
			rows, err := out.GetRows(out.GetSheetName(out.GetActiveSheetIndex()))
			require.NoError(t, err)
			require.Len(t, rows, 4)

			classified := rows[2]
			assert.Equal(t, "H-1", classified[column("id_hecho")])
			assert.Equal(t, "Le robaron la billetera con un arma de fuego", classified[column("relato")])
			assert.Equal(t, "Mitre", classified[column("calle")])
			assert.Equal(t, vocabulary.NingunoDeInteres, classified[column("CALIFICACIÓN")])
			assert.Equal(t, vocabulary.NoEspecificado, classified[column("JURISDICCIÓN")])

			empty := rows[3]
			assert.Equal(t, "", empty[column("id_hecho")], "empty rows take defaults, not input values")
			assert.Equal(t, vocabulary.NoEspecificado, empty[column("ARMAS")])
			assert.Equal(t, vocabulary.No, empty[column("TENTATIVA")])
		})
	}
}

func TestProcessExcel_ClassifierFailuresDoNotFailRequest(t *testing.T) {
	s := newTestServer(t, &llm.MockLLMClient{Error: stderrors.New("googleapi: Error 429: RESOURCE_EXHAUSTED")})
	req := uploadRequest(t, "/process-excel", map[string][]byte{
		dataFileField:     dataWorkbook(t, []interface{}{"H-1", "robo de celular", "Mitre"}),
		templateFileField: templateWorkbook(t),
	})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-Rows-Classified"))
	assert.Equal(t, "1", rec.Header().Get("X-Rows-Failed"))
}

func TestProcessExcel_MissingFile(t *testing.T) {
	s := newTestServer(t, &llm.MockLLMClient{})
	req := uploadRequest(t, "/process-excel", map[string][]byte{
		dataFileField: dataWorkbook(t, []interface{}{"H-1", "x", "y"}),
	})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, missingFilesMessage, resp.Error)
	assert.Empty(t, resp.LogDetails)
}

func TestProcessExcel_EmptyData(t *testing.T) {
	classifier := &llm.MockLLMClient{}
	s := newTestServer(t, classifier)
	req := uploadRequest(t, "/process-excel", map[string][]byte{
		dataFileField:     dataWorkbook(t),
		templateFileField: templateWorkbook(t),
	})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "El archivo de datos está vacío o no tiene filas válidas.", decodeError(t, rec).Error)
}

func TestProcessExcel_UnreadableTemplate(t *testing.T) {
	s := newTestServer(t, &llm.MockLLMClient{})
	req := uploadRequest(t, "/process-excel", map[string][]byte{
		dataFileField:     dataWorkbook(t, []interface{}{"H-1", "x", "y"}),
		templateFileField: []byte("not a workbook"),
	})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeError(t, rec)
	assert.Contains(t, resp.Error, "Error en el procesamiento del servidor: el archivo de plantilla no es un libro xlsx legible")
	assert.Contains(t, resp.LogDetails, "= ERROR CRÍTICO EN EL BACKEND =")
	assert.Contains(t, resp.LogDetails, "Fecha y Hora: 2024-03-01 10:30:00")
}

func TestProcessExcel_UnreadableDataFile(t *testing.T) {
	s := newTestServer(t, &llm.MockLLMClient{})
	req := uploadRequest(t, "/process-excel", map[string][]byte{
		dataFileField:     []byte("not a workbook"),
		templateFileField: templateWorkbook(t),
	})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeError(t, rec)
	assert.Contains(t, resp.Error, "el archivo de datos no es un libro xlsx legible")
	assert.Contains(t, resp.LogDetails, "Mensaje: Error en el procesamiento del servidor: ")
}

func TestProcessExcel_FatalErrorReturnsLog(t *testing.T) {
	failingPacer := app.WithPacer(app.PacerFunc(func(context.Context, time.Duration) error {
		return stderrors.New("timer broken")
	}))
	pipeline := app.NewPipeline(&llm.MockLLMClient{}, vocabulary.Default(), app.PipelineConfig{BatchSize: 1}, failingPacer)
	s := NewServer(testConfig(), pipeline, nil)
	s.now = func() time.Time { return time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC) }

	req := uploadRequest(t, "/process-excel", map[string][]byte{
		dataFileField: dataWorkbook(t,
			[]interface{}{"H-1", "robo", "a"},
			[]interface{}{"H-2", "hurto", "b"},
		),
		templateFileField: templateWorkbook(t),
	})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeError(t, rec)
	assert.Contains(t, resp.Error, "Error en el procesamiento del servidor: ")
	assert.Contains(t, resp.Error, "timer broken")
	assert.Contains(t, resp.LogDetails, "PROCESANDO FILA 2 (ID Original: H-1)")
	assert.Contains(t, resp.LogDetails, "= ERROR CRÍTICO EN EL BACKEND =")
	assert.Contains(t, resp.LogDetails, "Fecha y Hora: 2024-03-01 10:30:00")
	assert.NotContains(t, resp.LogDetails, "H-2")
}

func TestProcessExcel_Busy(t *testing.T) {
	s := newTestServer(t, &llm.MockLLMClient{})
	require.True(t, s.slots.TryAcquire(1))
	defer s.slots.Release(1)

	req := uploadRequest(t, "/process-excel", map[string][]byte{
		dataFileField:     dataWorkbook(t, []interface{}{"H-1", "x", "y"}),
		templateFileField: templateWorkbook(t),
	})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, busyMessage, decodeError(t, rec).Error)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, &llm.MockLLMClient{})

	req := httptest.NewRequest(http.MethodOptions, "/process-excel", nil)
	req.Header.Set("Origin", "http://front.test")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://front.test", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/process-excel", nil)
	req.Header.Set("Origin", "http://evil.test")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDPropagated(t *testing.T) {
	s := newTestServer(t, &llm.MockLLMClient{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}

func TestUsageEndpoint(t *testing.T) {
	svc := usage.NewService()
	pipeline := app.NewPipeline(usage.Track(&llm.MockLLMClient{}, svc), vocabulary.Default(), app.PipelineConfig{})
	s := NewServer(testConfig(), pipeline, nil, WithUsage(svc))

	req := uploadRequest(t, "/process-excel", map[string][]byte{
		dataFileField:     dataWorkbook(t, []interface{}{"H-1", "robo", "a"}),
		templateFileField: templateWorkbook(t),
	})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/usage", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var sum usage.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sum))
	assert.Equal(t, 1, sum.RequestCount)
}
