package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/pauling/internal/application/analysis"
	"github.com/turtacn/pauling/internal/infrastructure/molfile"
	"github.com/turtacn/pauling/pkg/errors"
)

// NewPerceiveCmd creates the perceive command.
func NewPerceiveCmd() *cobra.Command {
	var format, server string

	cmd := &cobra.Command{
		Use:   "perceive <file>",
		Short: "Perceive a molecule file and print its resonance systems",
		Long: "Perceive reads a molecule in JSON, MDL molfile or SD file format and prints\n" +
			"the per-atom perception and the resonance systems found.  Use \"-\" to read\n" +
			"from stdin.  The format is taken from --format, then the file extension.",
		Example: "  pauling perceive glycine.mol\n  pauling perceive -o table caffeine.json\n  cat library.sdf | pauling perceive --format sdf -",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			return runPerceive(cmd, cliCtx, args[0], format, server)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "input format: json|mol|sdf (default: from file extension)")
	cmd.Flags().StringVar(&server, "server", "", "analyze on a running pauling server at this URL instead of in-process")
	return cmd
}

// documentAnalyzer runs analyses in-process or on a remote server.
type documentAnalyzer interface {
	analyze(ctx context.Context, format molfile.Format, payload []byte) (*analysis.Result, error)
	analyzeAll(ctx context.Context, format molfile.Format, payload []byte) ([]analysis.BatchItem, error)
}

type localAnalyzer struct {
	svc analysis.Service
}

func (l localAnalyzer) analyze(ctx context.Context, format molfile.Format, payload []byte) (*analysis.Result, error) {
	return l.svc.AnalyzeDocument(ctx, format, payload)
}

func (l localAnalyzer) analyzeAll(ctx context.Context, format molfile.Format, payload []byte) ([]analysis.BatchItem, error) {
	return l.svc.AnalyzeDocuments(ctx, format, payload)
}

func runPerceive(cmd *cobra.Command, cliCtx *CLIContext, path, formatFlag, server string) error {
	format := molfile.FormatFromPath(path)
	if formatFlag != "" {
		f, err := molfile.ParseFormat(formatFlag)
		if err != nil {
			return err
		}
		format = f
	}

	payload, err := readInput(cmd, path)
	if err != nil {
		return err
	}

	var analyzer documentAnalyzer = localAnalyzer{svc: analysis.NewService(cliCtx.Config.Analysis, nil, nil, cliCtx.Logger)}
	if server != "" {
		remote, err := newRemoteAnalyzer(server, cliCtx.Logger)
		if err != nil {
			return err
		}
		analyzer = remote
	}

	if format == molfile.FormatSDF {
		items, err := analyzer.analyzeAll(cmd.Context(), format, payload)
		if err != nil {
			return err
		}
		return PrintResult(cmd, batchView(items))
	}

	result, err := analyzer.analyze(cmd.Context(), format, payload)
	if err != nil {
		return err
	}
	return PrintResult(cmd, resultView{result})
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeBadRequest, "reading stdin")
		}
		return b, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeBadRequest, "reading input file")
	}
	return b, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Output views
// ─────────────────────────────────────────────────────────────────────────────

// resultView renders a single analysis for the text and table outputs.  JSON
// output is the Result itself.
type resultView struct {
	*analysis.Result
}

func (v resultView) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "fingerprint: %s\n", v.Fingerprint)
	fmt.Fprintf(&sb, "atoms: %d  bonds: %d  kekule complete: %t\n", v.AtomCount, v.BondCount, v.KekuleComplete)
	if len(v.Systems) == 0 {
		sb.WriteString("no resonance systems\n")
		return sb.String()
	}
	for i, s := range v.Systems {
		fmt.Fprintf(&sb, "system %d: atoms %v bonds %v\n", i+1, s.Atoms, s.Bonds)
	}
	return sb.String()
}

func (v resultView) TableHeaders() []string {
	return []string{"ATOM", "ELEMENT", "CHARGE", "DEGREE", "VALENCE", "LONE PAIRS", "HYBRIDIZATION", "AROMATIC", "SYSTEM"}
}

func (v resultView) TableRows() [][]string {
	rows := make([][]string, 0, len(v.Atoms))
	for _, a := range v.Atoms {
		system := "-"
		for i, s := range v.Systems {
			if s.ContainsAtom(a.ID) {
				system = strconv.Itoa(i + 1)
				break
			}
		}
		rows = append(rows, []string{
			strconv.Itoa(int(a.ID)),
			a.Element.String(),
			strconv.Itoa(int(a.FormalCharge)),
			strconv.Itoa(int(a.Degree)),
			strconv.Itoa(int(a.Valence)),
			strconv.Itoa(int(a.LonePairs)),
			a.Hybridization.String(),
			strconv.FormatBool(a.Aromatic),
			system,
		})
	}
	return rows
}

// batchView renders the records of a multi-molecule document.
type batchView []analysis.BatchItem

func (v batchView) String() string {
	var sb strings.Builder
	for i, it := range v {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "record %d\n", it.Index+1)
		if !it.OK() {
			fmt.Fprintf(&sb, "error: %s\n", it.Error.Message)
			continue
		}
		sb.WriteString(resultView{it.Result}.String())
	}
	return sb.String()
}

func (v batchView) TableHeaders() []string {
	return []string{"RECORD", "ATOMS", "BONDS", "SYSTEMS", "CONJUGATED ATOMS", "ERROR"}
}

func (v batchView) TableRows() [][]string {
	rows := make([][]string, 0, len(v))
	for _, it := range v {
		if !it.OK() {
			rows = append(rows, []string{strconv.Itoa(it.Index + 1), "-", "-", "-", "-", it.Error.Message})
			continue
		}
		r := it.Result
		rows = append(rows, []string{
			strconv.Itoa(it.Index + 1),
			strconv.Itoa(r.AtomCount),
			strconv.Itoa(r.BondCount),
			strconv.Itoa(len(r.Systems)),
			strconv.Itoa(r.ConjugatedAtoms()),
			"",
		})
	}
	return rows
}

//Personal.AI order the ending
