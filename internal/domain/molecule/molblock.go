package molecule

import (
	"bufio"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/turtacn/jazzy-go/pkg/errors"
)

// MDL V2000 charge column codes.
var chargeFromCode = map[int]int{0: 0, 1: 3, 2: 2, 3: 1, 5: -1, 6: -2, 7: -3}

func chargeCode(q int) int {
	for code, v := range chargeFromCode {
		if v == q && code != 0 {
			return code
		}
	}
	return 0
}

// ParseMolBlock reads the first record of an MDL V2000 molfile.  Formal
// charges come from the atom block and are overridden by "M  CHG" lines.
// Atoms that take part in an aromatic bond (type 4) are flagged aromatic.
// A block whose coordinates are all zero is treated as not embedded.
func ParseMolBlock(block string) (*Molecule, error) {
	sc := bufio.NewScanner(strings.NewReader(strings.ReplaceAll(block, "\r\n", "\n")))
	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeMoleculeParsingFailed, "failed to read molblock")
	}
	if len(lines) < 4 {
		return nil, errors.New(errors.ErrCodeMoleculeParsingFailed, "molblock too short: missing header")
	}

	counts := lines[3]
	if !strings.Contains(counts, "V2000") {
		return nil, errors.New(errors.ErrCodeMoleculeInvalidFormat, "only V2000 molblocks are supported")
	}
	numAtoms, err1 := atoiCol(counts, 0, 3)
	numBonds, err2 := atoiCol(counts, 3, 6)
	if err1 != nil || err2 != nil {
		return nil, errors.New(errors.ErrCodeMoleculeParsingFailed, "invalid counts line").
			WithDetail(fmt.Sprintf("line=%q", counts))
	}
	body := lines[4:]
	if len(body) < numAtoms+numBonds {
		return nil, errors.Newf(errors.ErrCodeMoleculeParsingFailed, "molblock declares %d atoms and %d bonds but has %d lines", numAtoms, numBonds, len(body))
	}

	mol := &Molecule{
		Name:      strings.TrimSpace(lines[0]),
		Atoms:     make([]Atom, numAtoms),
		Bonds:     make([]Bond, 0, numBonds),
		Conformer: make([]Point3, numAtoms),
	}
	embedded := false
	for i := 0; i < numAtoms; i++ {
		l := body[i]
		x, ex := floatCol(l, 0, 10)
		y, ey := floatCol(l, 10, 20)
		z, ez := floatCol(l, 20, 30)
		if ex != nil || ey != nil || ez != nil {
			return nil, errors.Newf(errors.ErrCodeMoleculeParsingFailed, "atom %d: invalid coordinates", i+1)
		}
		sym := col(l, 31, 34)
		num, ok := AtomicNumber(sym)
		if !ok {
			return nil, errors.Newf(errors.ErrCodeMoleculeParsingFailed, "atom %d: unknown element %q", i+1, sym)
		}
		code, _ := atoiCol(l, 36, 39)
		mol.Atoms[i] = Atom{AtomicNumber: num, FormalCharge: chargeFromCode[code]}
		mol.Conformer[i] = Point3{X: x, Y: y, Z: z}
		if x != 0 || y != 0 || z != 0 {
			embedded = true
		}
	}
	for i := 0; i < numBonds; i++ {
		l := body[numAtoms+i]
		a, e1 := atoiCol(l, 0, 3)
		b, e2 := atoiCol(l, 3, 6)
		t, e3 := atoiCol(l, 6, 9)
		if e1 != nil || e2 != nil || e3 != nil {
			return nil, errors.Newf(errors.ErrCodeMoleculeParsingFailed, "bond %d: invalid bond line", i+1)
		}
		order := BondOrder(t)
		mol.Bonds = append(mol.Bonds, Bond{Begin: a - 1, End: b - 1, Order: order})
		if order == BondAromatic && a >= 1 && a <= numAtoms && b >= 1 && b <= numAtoms {
			mol.Atoms[a-1].IsAromatic = true
			mol.Atoms[b-1].IsAromatic = true
		}
	}

	resetCharges := true
	for _, l := range body[numAtoms+numBonds:] {
		if strings.HasPrefix(l, "M  END") {
			break
		}
		if !strings.HasPrefix(l, "M  CHG") {
			continue
		}
		// The first CHG line supersedes every charge from the atom block.
		if resetCharges {
			for i := range mol.Atoms {
				mol.Atoms[i].FormalCharge = 0
			}
			resetCharges = false
		}
		f := strings.Fields(l[6:])
		if len(f) == 0 {
			continue
		}
		n, err := strconv.Atoi(f[0])
		if err != nil || len(f) < 1+2*n {
			return nil, errors.New(errors.ErrCodeMoleculeParsingFailed, "malformed M  CHG line").
				WithDetail(fmt.Sprintf("line=%q", l))
		}
		for k := 0; k < n; k++ {
			idx, e1 := strconv.Atoi(f[1+2*k])
			q, e2 := strconv.Atoi(f[2+2*k])
			if e1 != nil || e2 != nil || idx < 1 || idx > numAtoms {
				return nil, errors.New(errors.ErrCodeMoleculeParsingFailed, "malformed M  CHG entry").
					WithDetail(fmt.Sprintf("line=%q", l))
			}
			mol.Atoms[idx-1].FormalCharge = q
		}
	}

	if !embedded {
		mol.Conformer = nil
	}
	if err := mol.Validate(); err != nil {
		return nil, err
	}
	return mol, nil
}

// MolBlock renders the molecule as an MDL V2000 molfile.  Missing
// coordinates are written as zeros.
func (m *Molecule) MolBlock() string {
	var sb strings.Builder
	dim := "2D"
	if m.IsEmbedded() {
		dim = "3D"
	}
	sb.WriteString(m.Name + "\n")
	fmt.Fprintf(&sb, "     jazzy          %s\n", dim)
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "%3d%3d  0  0  0  0  0  0  0  0999 V2000\n", len(m.Atoms), len(m.Bonds))

	var charged []int
	for i, a := range m.Atoms {
		var p Point3
		if m.IsEmbedded() {
			p = m.Conformer[i]
		}
		fmt.Fprintf(&sb, "%10.4f%10.4f%10.4f %-3s 0%3d  0  0  0  0  0  0  0  0  0  0\n",
			p.X, p.Y, p.Z, a.Symbol(), chargeCode(a.FormalCharge))
		if a.FormalCharge != 0 {
			charged = append(charged, i)
		}
	}
	for _, b := range m.Bonds {
		fmt.Fprintf(&sb, "%3d%3d%3d  0\n", b.Begin+1, b.End+1, int(b.Order))
	}
	sort.Ints(charged)
	for start := 0; start < len(charged); start += 8 {
		end := start + 8
		if end > len(charged) {
			end = len(charged)
		}
		fmt.Fprintf(&sb, "M  CHG%3d", end-start)
		for _, i := range charged[start:end] {
			fmt.Fprintf(&sb, " %3d %3d", i+1, m.Atoms[i].FormalCharge)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("M  END\n")
	return sb.String()
}

func col(line string, from, to int) string {
	if from >= len(line) {
		return ""
	}
	if to > len(line) {
		to = len(line)
	}
	return strings.TrimSpace(line[from:to])
}

func atoiCol(line string, from, to int) (int, error) {
	s := col(line, from, to)
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func floatCol(line string, from, to int) (float64, error) {
	return strconv.ParseFloat(col(line, from, to), 64)
}

//Personal.AI order the ending
