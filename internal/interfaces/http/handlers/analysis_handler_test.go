package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/pauling/internal/application/analysis"
	"github.com/turtacn/pauling/internal/domain/molecule"
	"github.com/turtacn/pauling/internal/infrastructure/molfile"
	"github.com/turtacn/pauling/internal/interfaces/http/middleware"
	"github.com/turtacn/pauling/internal/testutil"
	"github.com/turtacn/pauling/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockAnalysisService is a mock implementation of analysis.Service.
type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) Analyze(ctx context.Context, mol *molecule.Molecule) (*analysis.Result, error) {
	args := m.Called(ctx, mol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analysis.Result), args.Error(1)
}

func (m *MockAnalysisService) AnalyzeDocument(ctx context.Context, format molfile.Format, payload []byte) (*analysis.Result, error) {
	args := m.Called(ctx, format, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analysis.Result), args.Error(1)
}

func (m *MockAnalysisService) AnalyzeBatch(ctx context.Context, ms []*molecule.Molecule) ([]analysis.BatchItem, error) {
	args := m.Called(ctx, ms)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]analysis.BatchItem), args.Error(1)
}

func (m *MockAnalysisService) AnalyzeDocuments(ctx context.Context, format molfile.Format, payload []byte) ([]analysis.BatchItem, error) {
	args := m.Called(ctx, format, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]analysis.BatchItem), args.Error(1)
}

func (m *MockAnalysisService) Ready(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func setupAnalysisRouter(svc analysis.Service, log *testutil.MockLogger) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID())
	NewAnalysisHandler(svc, log).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func post(router *gin.Engine, path, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestAnalysisHandler_Analyze(t *testing.T) {
	svc := new(MockAnalysisService)
	body := `{"atoms":[{"element":"O"}],"bonds":[]}`
	svc.On("AnalyzeDocument", mock.Anything, molfile.FormatJSON, []byte(body)).
		Return(&analysis.Result{ID: "r-1", Fingerprint: "fp"}, nil).Once()

	w := post(setupAnalysisRouter(svc, testutil.NewMockLogger()), "/api/v1/analyses", "application/json", body)
	require.Equal(t, http.StatusOK, w.Code)

	var got analysis.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "r-1", got.ID)
	svc.AssertExpectations(t)
}

func TestAnalysisHandler_FormatSelection(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		contentType string
		want        molfile.Format
	}{
		{"query wins", "?format=mol", "application/json", molfile.FormatMol},
		{"molfile media type", "", MediaTypeMolfile, molfile.FormatMol},
		{"sdfile media type", "", MediaTypeSDFile + "; charset=utf-8", molfile.FormatSDF},
		{"no content type", "", "", molfile.FormatJSON},
		{"plain text", "", "text/plain", molfile.FormatJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockAnalysisService)
			svc.On("AnalyzeDocument", mock.Anything, tt.want, mock.Anything).Return(&analysis.Result{}, nil).Once()
			w := post(setupAnalysisRouter(svc, testutil.NewMockLogger()), "/api/v1/analyses"+tt.query, tt.contentType, "x")
			assert.Equal(t, http.StatusOK, w.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestAnalysisHandler_BadRequests(t *testing.T) {
	svc := new(MockAnalysisService)
	router := setupAnalysisRouter(svc, testutil.NewMockLogger())

	w := post(router, "/api/v1/analyses?format=smiles", "", "CCO")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, string(errors.ErrCodeMoleculeInvalidFormat), resp.Code)
	assert.NotEmpty(t, resp.RequestID)

	w = post(router, "/api/v1/analyses", "application/json", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, string(errors.ErrCodeBadRequest), decodeError(t, w).Code)

	svc.AssertNotCalled(t, "AnalyzeDocument", mock.Anything, mock.Anything, mock.Anything)
}

func TestAnalysisHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"parse", errors.New(errors.ErrCodeMoleculeParsingFailed, "line 4: bad counts"), http.StatusBadRequest, "line 4"},
		{"too large", errors.New(errors.ErrCodeMoleculeTooLarge, "molecule has 20 atoms"), http.StatusUnprocessableEntity, "20 atoms"},
		{"canceled", errors.New(errors.ErrCodeAnalysisCanceled, "context canceled"), http.StatusServiceUnavailable, "analysis canceled"},
		{"untyped", assert.AnError, http.StatusInternalServerError, "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockAnalysisService)
			svc.On("AnalyzeDocument", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err).Once()
			log := testutil.NewMockLogger()

			w := post(setupAnalysisRouter(svc, log), "/api/v1/analyses", "", "{}")
			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, decodeError(t, w).Message, tt.message)
			assert.Equal(t, tt.status >= 500, log.HasMessage("error", "analysis request failed"))
		})
	}
}

func TestAnalysisHandler_Batch(t *testing.T) {
	svc := new(MockAnalysisService)
	items := []analysis.BatchItem{
		{Index: 0, Result: &analysis.Result{ID: "a"}},
		{Index: 1, Error: &analysis.ItemError{Code: errors.ErrCodeMoleculeTooLarge, Message: "too big"}},
		{Index: 2, Result: &analysis.Result{ID: "c"}},
	}
	svc.On("AnalyzeDocuments", mock.Anything, molfile.FormatSDF, mock.Anything).Return(items, nil).Once()

	w := post(setupAnalysisRouter(svc, testutil.NewMockLogger()), "/api/v1/analyses/batch?format=sdf", "", "$$$$\n")
	require.Equal(t, http.StatusOK, w.Code)

	var resp BatchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, 2, resp.Succeeded)
	assert.Equal(t, 1, resp.Failed)
	require.Len(t, resp.Items, 3)
	assert.Equal(t, errors.ErrCodeMoleculeTooLarge, resp.Items[1].Error.Code)
	assert.Equal(t, "c", resp.Items[2].Result.ID)
}

func TestAnalysisHandler_BatchTooLarge(t *testing.T) {
	svc := new(MockAnalysisService)
	svc.On("AnalyzeDocuments", mock.Anything, molfile.FormatJSON, mock.Anything).
		Return(nil, errors.Validation("batch has 300 molecules, limit is 256")).Once()

	w := post(setupAnalysisRouter(svc, testutil.NewMockLogger()), "/api/v1/analyses/batch", "", "[]")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, string(errors.ErrCodeValidation), decodeError(t, w).Code)
}

func TestAnalysisHandler_BodyLimit(t *testing.T) {
	svc := new(MockAnalysisService)
	router := gin.New()
	router.Use(middleware.BodyLimit(4))
	NewAnalysisHandler(svc, testutil.NewMockLogger()).RegisterRoutes(router)

	w := post(router, "/analyses", "", `{"atoms":[],"bonds":[]}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	svc.AssertNotCalled(t, "AnalyzeDocument", mock.Anything, mock.Anything, mock.Anything)
}

//Personal.AI order the ending
