package cli

import (
	"context"
	"fmt"

	"github.com/turtacn/pauling/internal/application/analysis"
	"github.com/turtacn/pauling/internal/domain/resonance"
	"github.com/turtacn/pauling/internal/infrastructure/molfile"
	"github.com/turtacn/pauling/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/pauling/pkg/client"
	"github.com/turtacn/pauling/pkg/errors"
)

// sdkLogger adapts logging.Logger to the SDK's printf-style Logger.
type sdkLogger struct {
	log logging.Logger
}

func (l sdkLogger) Debugf(format string, args ...interface{}) { l.log.Debug(fmt.Sprintf(format, args...)) }
func (l sdkLogger) Infof(format string, args ...interface{})  { l.log.Info(fmt.Sprintf(format, args...)) }
func (l sdkLogger) Errorf(format string, args ...interface{}) { l.log.Warn(fmt.Sprintf(format, args...)) }

// remoteAnalyzer sends documents to a running pauling server.
type remoteAnalyzer struct {
	c *client.Client
}

func newRemoteAnalyzer(serverURL string, log logging.Logger) (*remoteAnalyzer, error) {
	c, err := client.NewClient(serverURL,
		client.WithLogger(sdkLogger{log: log.Named("client")}),
		client.WithUserAgent("pauling-cli/"+Version),
	)
	if err != nil {
		return nil, err
	}
	return &remoteAnalyzer{c: c}, nil
}

func (r *remoteAnalyzer) analyze(ctx context.Context, format molfile.Format, payload []byte) (*analysis.Result, error) {
	res, err := r.c.Analyze(ctx, client.Format(format), payload)
	if err != nil {
		return nil, remoteError(err)
	}
	return fromRemote(res), nil
}

func (r *remoteAnalyzer) analyzeAll(ctx context.Context, format molfile.Format, payload []byte) ([]analysis.BatchItem, error) {
	res, err := r.c.AnalyzeBatch(ctx, client.Format(format), payload)
	if err != nil {
		return nil, remoteError(err)
	}
	items := make([]analysis.BatchItem, len(res.Items))
	for i, it := range res.Items {
		items[i] = analysis.BatchItem{Index: it.Index}
		if it.Error != nil {
			items[i].Error = &analysis.ItemError{Code: errors.ErrorCode(it.Error.Code), Message: it.Error.Message}
			continue
		}
		items[i].Result = fromRemote(it.Result)
	}
	return items, nil
}

// remoteError carries the server's error code over to the local error type.
func remoteError(err error) error {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Code != "" {
		return errors.New(errors.ErrorCode(apiErr.Code), apiErr.Message).WithDetail("request_id=" + apiErr.RequestID)
	}
	return errors.Wrap(err, errors.ErrCodeServiceUnavailable, "remote analysis failed")
}

func fromRemote(r *client.Result) *analysis.Result {
	if r == nil {
		return &analysis.Result{}
	}
	out := &analysis.Result{
		ID:             r.ID,
		Fingerprint:    r.Fingerprint,
		AtomCount:      r.AtomCount,
		BondCount:      r.BondCount,
		Atoms:          make([]analysis.AtomReport, len(r.Atoms)),
		Systems:        make([]resonance.ResonanceSystem, len(r.Systems)),
		KekuleComplete: r.KekuleComplete,
		Cached:         r.Cached,
		Duration:       r.Duration,
		AnalyzedAt:     r.AnalyzedAt,
	}
	for i, a := range r.Atoms {
		out.Atoms[i] = analysis.AtomReport(a)
	}
	for i, s := range r.Systems {
		out.Systems[i] = resonance.NewResonanceSystem(s.Atoms, s.Bonds)
	}
	return out
}

//Personal.AI order the ending
