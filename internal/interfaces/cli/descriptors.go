package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	appdesc "github.com/turtacn/jazzy-go/internal/application/descriptor"
	"github.com/turtacn/jazzy-go/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/jazzy-go/pkg/errors"
	dtypes "github.com/turtacn/jazzy-go/pkg/types/descriptor"
)

// Descriptor views selectable with --view.
const (
	ViewMap       = "map"
	ViewTuples    = "tuples"
	ViewCondensed = "condensed"
	ViewVector    = "vector"
)

// AtomicMapView is the full per-atom map.
type AtomicMapView dtypes.AtomicMap

func (v AtomicMapView) TableHeaders() []string {
	return append([]string{"idx"}, dtypes.RecordFields...)
}

func (v AtomicMapView) TableRows() [][]string {
	rows := make([][]string, 0, len(v))
	for i, r := range v {
		row := []string{strconv.Itoa(i)}
		for _, f := range r.Fields() {
			row = append(row, cellString(f.Value))
		}
		rows = append(rows, row)
	}
	return rows
}

// TuplesView is the map as (field, value) pairs per atom.
type TuplesView [][]dtypes.FieldValue

func (v TuplesView) TableHeaders() []string {
	headers := []string{"idx"}
	if len(v) > 0 {
		for _, f := range v[0] {
			headers = append(headers, f.Field)
		}
	}
	return headers
}

func (v TuplesView) TableRows() [][]string {
	rows := make([][]string, 0, len(v))
	for i, atom := range v {
		row := []string{strconv.Itoa(i)}
		for _, f := range atom {
			row = append(row, cellString(f.Value))
		}
		rows = append(rows, row)
	}
	return rows
}

// CondensedView is the reduced per-atom map.
type CondensedView []dtypes.CondensedRecord

func (v CondensedView) TableHeaders() []string {
	return []string{"idx", "z", "eeq", "alp", "hyb", "num_lp"}
}

func (v CondensedView) TableRows() [][]string {
	rows := make([][]string, 0, len(v))
	for i, r := range v {
		rows = append(rows, []string{
			strconv.Itoa(i), strconv.Itoa(r.Z), formatFloat(r.EEQ), formatFloat(r.Alp), string(r.Hyb), strconv.Itoa(r.NumLP),
		})
	}
	return rows
}

// VectorView is the molecule vector.
type VectorView dtypes.MoleculeVector

func (v VectorView) TableHeaders() []string { return []string{"field", "sum"} }

// TableRows lists the sums in record field order.
func (v VectorView) TableRows() [][]string {
	rows := make([][]string, 0, len(v))
	for _, f := range dtypes.NumericFields {
		if val, ok := v[f]; ok {
			rows = append(rows, []string{f, formatFloat(val)})
		}
	}
	return rows
}

func cellString(v interface{}) string {
	switch x := v.(type) {
	case float64:
		return formatFloat(x)
	case int:
		return strconv.Itoa(x)
	case string:
		return x
	}
	return fmt.Sprint(v)
}

// renderView projects a result onto one of the descriptor views.
func renderView(svc appdesc.Service, res *appdesc.Result, view string) (interface{}, error) {
	switch view {
	case ViewMap, "":
		return AtomicMapView(res.AtomicMap), nil
	case ViewTuples:
		t, err := svc.ConvertMapToTuples(res.AtomicMap)
		return TuplesView(t), err
	case ViewCondensed:
		c, err := svc.CondenseAtomicMap(res.AtomicMap)
		return CondensedView(c), err
	case ViewVector:
		v, err := svc.SumAtomicMap(res.AtomicMap)
		return VectorView(v), err
	}
	return nil, errors.InvalidParam(fmt.Sprintf("unknown view %q; expected map|tuples|condensed|vector", view))
}

func newDescriptorsCmd() *cobra.Command {
	var smiles, minimisation, chargeMethod, view string

	cmd := &cobra.Command{
		Use:   "descriptors",
		Short: "Compute the hydrogen-bond descriptors of a molecule",
		Example: "  jazzy descriptors --smiles c1ccccn1\n" +
			"  jazzy descriptors --smiles 'CC(=O)Nc1ccc(O)cc1' --charges MMFF94 --view condensed -o json",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			switch view {
			case ViewMap, ViewTuples, ViewCondensed, ViewVector:
			default:
				return errors.InvalidParam(fmt.Sprintf("unknown view %q; expected map|tuples|condensed|vector", view))
			}
			svc, err := cliCtx.Service()
			if err != nil {
				return err
			}
			if minimisation == "" {
				minimisation = cliCtx.Config.Descriptor.MinimisationMethod
			}

			ctx, cancel := cliCtx.WithTimeout(cmd.Context())
			defer cancel()
			res, err := svc.Analyze(ctx, &appdesc.Request{
				SMILES:             smiles,
				MinimisationMethod: minimisation,
				ChargeMethod:       chargeMethod,
			})
			if err != nil {
				return err
			}
			cliCtx.Logger.Debug("descriptors computed",
				logging.SMILES(res.SMILES), logging.Int(logging.FieldNumAtoms, len(res.AtomicMap)), logging.String("view", view))

			out, err := renderView(svc, res, view)
			if err != nil {
				return err
			}
			return PrintResult(cmd, out)
		},
	}

	f := cmd.Flags()
	f.StringVar(&smiles, "smiles", "", "molecule SMILES (required)")
	f.StringVar(&minimisation, "minimisation", "", "conformer minimisation: none|MMFF94 (default from config)")
	f.StringVar(&chargeMethod, "charges", "", "partial charge method: kallisto|MMFF94 (default from config)")
	f.StringVar(&view, "view", ViewMap, "output view: map|tuples|condensed|vector")
	_ = cmd.MarkFlagRequired("smiles")
	return cmd
}

//Personal.AI order the ending
