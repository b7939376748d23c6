package cli

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	domainMol "github.com/turtacn/jazzy-go/internal/domain/molecule"
	"github.com/turtacn/jazzy-go/pkg/errors"
)

// ChargesResult lists one partial charge per atom.
type ChargesResult struct {
	SMILES  string    `json:"smiles" yaml:"smiles"`
	Method  string    `json:"method" yaml:"method"`
	Symbols []string  `json:"symbols" yaml:"symbols"`
	Charges []float64 `json:"charges" yaml:"charges"`
}

func (r ChargesResult) TableHeaders() []string { return []string{"idx", "atom", "charge"} }

func (r ChargesResult) TableRows() [][]string {
	rows := make([][]string, len(r.Charges))
	for i, q := range r.Charges {
		rows[i] = []string{strconv.Itoa(i), r.Symbols[i], formatFloat(q)}
	}
	return rows
}

// NeighborsResult is the covalent neighbour map of a molfile.
type NeighborsResult struct {
	Name      string                `json:"name,omitempty" yaml:"name,omitempty"`
	Symbols   []string              `json:"symbols" yaml:"symbols"`
	Neighbors domainMol.NeighborMap `json:"neighbors" yaml:"neighbors"`
}

func (r NeighborsResult) TableHeaders() []string { return []string{"idx", "atom", "neighbors"} }

func (r NeighborsResult) TableRows() [][]string {
	rows := make([][]string, len(r.Neighbors))
	for i, nbrs := range r.Neighbors {
		idx := make([]string, len(nbrs))
		for j, n := range nbrs {
			idx[j] = strconv.Itoa(n)
		}
		rows[i] = []string{strconv.Itoa(i), r.Symbols[i], strings.Join(idx, ",")}
	}
	return rows
}

func symbols(mol *domainMol.Molecule) []string {
	out := make([]string, len(mol.Atoms))
	for i, a := range mol.Atoms {
		out[i] = a.Symbol()
	}
	return out
}

func newChargesCmd() *cobra.Command {
	var smiles, method, minimisation string

	cmd := &cobra.Command{
		Use:     "charges",
		Short:   "Compute partial charges with kallisto EEQ or MMFF94",
		Example: "  jazzy charges --smiles c1ccccn1 --method MMFF94",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			svc, err := cliCtx.Service()
			if err != nil {
				return err
			}
			if method == "" {
				method = cliCtx.Config.Descriptor.ChargeMethod
			}
			if minimisation == "" {
				minimisation = cliCtx.Config.Descriptor.MinimisationMethod
			}

			ctx, cancel := cliCtx.WithTimeout(cmd.Context())
			defer cancel()
			mol, err := svc.MoleculeFromSMILES(ctx, smiles, minimisation)
			if err != nil {
				return err
			}
			km, err := svc.AdaptMolecule(ctx, mol)
			if err != nil {
				return err
			}
			charges, err := svc.ChargesByMethod(ctx, mol, km, method)
			if err != nil {
				return err
			}
			return PrintResult(cmd, ChargesResult{SMILES: mol.SMILES, Method: method, Symbols: symbols(mol), Charges: charges})
		},
	}

	f := cmd.Flags()
	f.StringVar(&smiles, "smiles", "", "molecule SMILES (required)")
	f.StringVar(&method, "method", "", "charge method: kallisto|MMFF94 (default from config)")
	f.StringVar(&minimisation, "minimisation", "", "conformer minimisation: none|MMFF94 (default from config)")
	_ = cmd.MarkFlagRequired("smiles")
	return cmd
}

func newNeighborsCmd() *cobra.Command {
	var molfile string

	cmd := &cobra.Command{
		Use:   "neighbors",
		Short: "Print the covalent neighbour map of a MOL file",
		Long:  "Reads a V2000 MOL block from --molfile, or from stdin when the path is \"-\".",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			block, err := readMolfile(cmd, molfile)
			if err != nil {
				return err
			}
			mol, err := domainMol.ParseMolBlock(block)
			if err != nil {
				return err
			}
			svc, err := cliCtx.Service()
			if err != nil {
				return err
			}
			nbrs, err := svc.CovalentAtomIdxs(mol)
			if err != nil {
				return err
			}
			return PrintResult(cmd, NeighborsResult{Name: mol.Name, Symbols: symbols(mol), Neighbors: nbrs})
		},
	}

	cmd.Flags().StringVar(&molfile, "molfile", "", "MOL file path, or - for stdin (required)")
	_ = cmd.MarkFlagRequired("molfile")
	return cmd
}

func readMolfile(cmd *cobra.Command, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeBadRequest, "failed to read molfile").WithDetail("path=" + path)
	}
	return string(data), nil
}

//Personal.AI order the ending
