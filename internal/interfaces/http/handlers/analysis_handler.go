package handlers

import (
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/pauling/internal/application/analysis"
	"github.com/turtacn/pauling/internal/infrastructure/molfile"
	"github.com/turtacn/pauling/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/pauling/pkg/errors"
)

// Media types accepted in place of an explicit ?format=.
const (
	MediaTypeMolfile = "chemical/x-mdl-molfile"
	MediaTypeSDFile  = "chemical/x-mdl-sdfile"
)

// AnalysisHandler serves the molecule analysis endpoints.
type AnalysisHandler struct {
	svc    analysis.Service
	logger logging.Logger
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(svc analysis.Service, logger logging.Logger) *AnalysisHandler {
	return &AnalysisHandler{svc: svc, logger: logger}
}

// RegisterRoutes mounts the analysis endpoints under r.
func (h *AnalysisHandler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/analyses", h.Analyze)
	r.POST("/analyses/batch", h.AnalyzeBatch)
}

// BatchResponse is the body of a batch analysis.
type BatchResponse struct {
	Total     int                  `json:"total"`
	Succeeded int                  `json:"succeeded"`
	Failed    int                  `json:"failed"`
	Items     []analysis.BatchItem `json:"items"`
}

// Analyze handles POST /api/v1/analyses.  The body is one molecule in the
// format named by ?format= or the Content-Type.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	format, payload, ok := h.readDocument(c)
	if !ok {
		return
	}
	result, err := h.svc.AnalyzeDocument(c.Request.Context(), format, payload)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// AnalyzeBatch handles POST /api/v1/analyses/batch.  The body is a JSON
// array of molecule documents or a multi-record SD file.
func (h *AnalysisHandler) AnalyzeBatch(c *gin.Context) {
	format, payload, ok := h.readDocument(c)
	if !ok {
		return
	}
	items, err := h.svc.AnalyzeDocuments(c.Request.Context(), format, payload)
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := BatchResponse{Total: len(items), Items: items}
	for _, it := range items {
		if it.OK() {
			resp.Succeeded++
		} else {
			resp.Failed++
		}
	}
	c.JSON(http.StatusOK, resp)
}

// fail writes err and logs it when the server is at fault.
func (h *AnalysisHandler) fail(c *gin.Context, err error) {
	if !errors.IsClient(err) {
		h.logger.WithContext(c.Request.Context()).Error("analysis request failed",
			logging.Err(err),
			logging.String("route", c.FullPath()),
		)
	}
	writeAppError(c, err)
}

func (h *AnalysisHandler) readDocument(c *gin.Context) (molfile.Format, []byte, bool) {
	format, err := requestFormat(c)
	if err != nil {
		writeAppError(c, err)
		return "", nil, false
	}
	payload, err := c.GetRawData()
	if err != nil {
		writeAppError(c, err)
		return "", nil, false
	}
	if len(payload) == 0 {
		writeAppError(c, errors.InvalidParam("request body is empty"))
		return "", nil, false
	}
	return format, payload, true
}

func requestFormat(c *gin.Context) (molfile.Format, error) {
	if q := c.Query("format"); q != "" {
		return molfile.ParseFormat(q)
	}
	mt, _, err := mime.ParseMediaType(c.GetHeader("Content-Type"))
	if err != nil {
		return molfile.FormatJSON, nil
	}
	switch mt {
	case MediaTypeMolfile:
		return molfile.FormatMol, nil
	case MediaTypeSDFile:
		return molfile.FormatSDF, nil
	default:
		return molfile.FormatJSON, nil
	}
}

//Personal.AI order the ending
