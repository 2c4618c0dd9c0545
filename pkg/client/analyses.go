package client

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/turtacn/pauling/pkg/errors"
	"github.com/turtacn/pauling/pkg/types/chem"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

// Format names the encoding of a molecule document.
type Format string

const (
	FormatJSON Format = "json"
	FormatMol  Format = "mol"
	FormatSDF  Format = "sdf"
)

// Atom is the per-atom perception returned by the service.
type Atom struct {
	ID                   chem.AtomID        `json:"id"`
	Element              chem.Element       `json:"element"`
	FormalCharge         int8               `json:"formal_charge"`
	Degree               uint8              `json:"degree"`
	Valence              uint8              `json:"valence"`
	LonePairs            uint8              `json:"lone_pairs"`
	Hybridization        chem.Hybridization `json:"hybridization"`
	Aromatic             bool               `json:"aromatic"`
	ConjugationCandidate bool               `json:"conjugation_candidate"`
}

// System is one resonance system: sorted atom and bond ids.
type System struct {
	Atoms []chem.AtomID `json:"atoms"`
	Bonds []chem.BondID `json:"bonds"`
}

// Result is the analysis of one molecule.
type Result struct {
	ID             string        `json:"id"`
	Fingerprint    string        `json:"fingerprint"`
	AtomCount      int           `json:"atom_count"`
	BondCount      int           `json:"bond_count"`
	Atoms          []Atom        `json:"atoms"`
	Systems        []System      `json:"systems"`
	KekuleComplete bool          `json:"kekule_complete"`
	Cached         bool          `json:"cached"`
	Duration       time.Duration `json:"duration_ns"`
	AnalyzedAt     time.Time     `json:"analyzed_at"`
}

// ItemError describes a batch record that could not be analyzed.
type ItemError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// BatchItem is one record of a batch analysis.
type BatchItem struct {
	Index  int        `json:"index"`
	Result *Result    `json:"result,omitempty"`
	Error  *ItemError `json:"error,omitempty"`
}

// BatchResult is the response of AnalyzeBatch.
type BatchResult struct {
	Total     int         `json:"total"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
	Items     []BatchItem `json:"items"`
}

// ComponentHealth is the probe outcome of one dependency.
type ComponentHealth struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Health is the body of the detailed health endpoint.
type Health struct {
	Status     string                     `json:"status"`
	Version    string                     `json:"version"`
	Uptime     string                     `json:"uptime"`
	Components map[string]ComponentHealth `json:"components"`
}

// ---------------------------------------------------------------------------
// Calls
// ---------------------------------------------------------------------------

var contentTypes = map[Format]string{
	FormatJSON: "application/json",
	FormatMol:  "chemical/x-mdl-molfile",
	FormatSDF:  "chemical/x-mdl-sdfile",
}

func documentRequest(path string, format Format, doc []byte) (request, error) {
	if len(doc) == 0 {
		return request{}, errors.InvalidParam("client: document is empty")
	}
	ct, ok := contentTypes[format]
	if !ok {
		return request{}, errors.New(errors.ErrCodeMoleculeInvalidFormat, "client: unsupported format").WithDetail(string(format))
	}
	return request{
		method:      http.MethodPost,
		path:        path,
		query:       url.Values{"format": {string(format)}},
		contentType: ct,
		body:        doc,
	}, nil
}

// Analyze sends one molecule document and returns its analysis.
func (c *Client) Analyze(ctx context.Context, format Format, doc []byte) (*Result, error) {
	req, err := documentRequest("/api/v1/analyses", format, doc)
	if err != nil {
		return nil, err
	}
	var out Result
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AnalyzeBatch sends a JSON array of documents or a multi-record SD file.
// Records that fail are reported on their item, not as an error.
func (c *Client) AnalyzeBatch(ctx context.Context, format Format, doc []byte) (*BatchResult, error) {
	req, err := documentRequest("/api/v1/analyses/batch", format, doc)
	if err != nil {
		return nil, err
	}
	var out BatchResult
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health fetches the detailed health report without retrying.  A degraded
// service is returned as an *APIError with status 503.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var out Health
	if err := c.do(ctx, request{method: http.MethodGet, path: "/healthz/detail", noRetry: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

//Personal.AI order the ending
