package molecule

import "strings"

// symbols is indexed by atomic number; index 0 is the dummy atom.
var symbols = []string{
	"*",
	"H", "He",
	"Li", "Be", "B", "C", "N", "O", "F", "Ne",
	"Na", "Mg", "Al", "Si", "P", "S", "Cl", "Ar",
	"K", "Ca", "Sc", "Ti", "V", "Cr", "Mn", "Fe", "Co", "Ni", "Cu", "Zn",
	"Ga", "Ge", "As", "Se", "Br", "Kr",
	"Rb", "Sr", "Y", "Zr", "Nb", "Mo", "Tc", "Ru", "Rh", "Pd", "Ag", "Cd",
	"In", "Sn", "Sb", "Te", "I", "Xe",
	"Cs", "Ba", "La", "Ce", "Pr", "Nd", "Pm", "Sm", "Eu", "Gd", "Tb", "Dy",
	"Ho", "Er", "Tm", "Yb", "Lu", "Hf", "Ta", "W", "Re", "Os", "Ir", "Pt",
	"Au", "Hg", "Tl", "Pb", "Bi", "Po", "At", "Rn",
}

var numbersBySymbol = func() map[string]int {
	m := make(map[string]int, len(symbols))
	for z, s := range symbols {
		m[strings.ToLower(s)] = z
	}
	return m
}()

// Symbol returns the element symbol for atomic number z, or "" if unknown.
func Symbol(z int) string {
	if z <= 0 || z >= len(symbols) {
		return ""
	}
	return symbols[z]
}

// AtomicNumber returns the atomic number for an element symbol
// (case-insensitive).  The second result is false for unknown symbols.
func AtomicNumber(symbol string) (int, bool) {
	z, ok := numbersBySymbol[strings.ToLower(strings.TrimSpace(symbol))]
	if !ok || z == 0 {
		return 0, false
	}
	return z, true
}

// ValenceShell describes the outer shell of a main-group element.
type ValenceShell struct {
	// Electrons is the number of valence electrons of the neutral atom.
	Electrons int
	// DefaultValence is the usual number of bonds of the neutral atom.
	DefaultValence int
}

var valenceShells = map[int]ValenceShell{
	1:  {1, 1},
	3:  {1, 1},
	5:  {3, 3},
	6:  {4, 4},
	7:  {5, 3},
	8:  {6, 2},
	9:  {7, 1},
	11: {1, 1},
	12: {2, 2},
	13: {3, 3},
	14: {4, 4},
	15: {5, 3},
	16: {6, 2},
	17: {7, 1},
	19: {1, 1},
	20: {2, 2},
	32: {4, 4},
	33: {5, 3},
	34: {6, 2},
	35: {7, 1},
	50: {4, 4},
	51: {5, 3},
	52: {6, 2},
	53: {7, 1},
}

// ValenceShellOf returns the valence shell for atomic number z.  Elements
// outside the supported main-group set report false.
func ValenceShellOf(z int) (ValenceShell, bool) {
	s, ok := valenceShells[z]
	return s, ok
}

// IsHeteroatom reports whether z is neither carbon nor hydrogen.
func IsHeteroatom(z int) bool {
	return z != 1 && z != 6
}

//Personal.AI order the ending
