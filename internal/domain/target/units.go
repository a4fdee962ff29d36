package target

import (
	"fmt"
	"sort"
)

// LengthUnit is the canonical name of a supported length unit.
type LengthUnit string

// Supported length units.
const (
	Metre      LengthUnit = "metre"
	Yard       LengthUnit = "yard"
	Centimetre LengthUnit = "cm"
	Inch       LengthUnit = "inch"
)

var unitAliases = map[LengthUnit][]string{
	Metre:      {"Metre", "metre", "Metres", "metres", "M", "m", "Ms", "ms"},
	Yard:       {"Yard", "yard", "Yards", "yards", "Y", "y", "Yd", "yd", "Yds", "yds"},
	Centimetre: {"Centimetre", "centimetre", "Centimetres", "centimetres", "CM", "cm", "CMs", "cms"},
	Inch:       {"Inch", "inch", "Inches", "inches"},
}

var metresPer = map[LengthUnit]float64{
	Metre:      1.0,
	Yard:       0.9144,
	Centimetre: 0.01,
	Inch:       0.0254,
}

var aliasIndex = func() map[string]LengthUnit {
	idx := make(map[string]LengthUnit)
	for unit, aliases := range unitAliases {
		for _, a := range aliases {
			idx[a] = unit
		}
	}
	return idx
}()

// ParseLengthUnit resolves any accepted alias to its canonical unit.
func ParseLengthUnit(alias string) (LengthUnit, error) {
	if u, ok := aliasIndex[alias]; ok {
		return u, nil
	}
	return "", fmt.Errorf("%w: %q, select from %v", ErrUnknownUnit, alias, knownUnits())
}

// ToMetres converts value expressed in unit to metres.
func ToMetres(value float64, unit LengthUnit) float64 {
	return value * metresPer[unit]
}

// FromMetres converts a value in metres to unit.
func FromMetres(metres float64, unit LengthUnit) float64 {
	return metres / metresPer[unit]
}

func knownUnits() []string {
	out := make([]string, 0, len(metresPer))
	for u := range metresPer {
		out = append(out, string(u))
	}
	sort.Strings(out)
	return out
}
