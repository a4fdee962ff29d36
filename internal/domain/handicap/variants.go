package handicap

import "math"

// AGBParams are the constants of the Archery GB 2023 scheme.
type AGBParams struct {
	Datum float64 `validate:"required"`
	Step  float64 `validate:"gt=0"`
	Ang0  float64 `validate:"gt=0"`
	KD    float64 `validate:"gte=0"`
}

// DefaultAGBParams returns the published AGB constants.
func DefaultAGBParams() AGBParams {
	return AGBParams{Datum: 6.0, Step: 3.5, Ang0: 5.0e-4, KD: 0.00365}
}

func (p AGBParams) sigmaT(h, dist float64) float64 {
	return p.Ang0 * math.Pow(1.0+p.Step/100.0, h+p.Datum) * math.Exp(p.KD*dist)
}

func (p AGBParams) params() map[string]float64 {
	return map[string]float64{"datum": p.Datum, "step": p.Step, "ang_0": p.Ang0, "kd": p.KD}
}

// NewAGB builds the AGB scheme: descending scale, ceiling rounding.
func NewAGB(p AGBParams, opts ...Option) (*Scheme, error) {
	return newScheme(Scheme{
		Name:                 AGB,
		ArrowDiameterIndoor:  9.3e-3,
		ArrowDiameterOutdoor: 5.5e-3,
		Direction:            Descending,
		Bounds:               descendingBounds,
		RoundingMargin:       1.0,
		Rounding:             RoundCeil,
	}, p, opts)
}

// AGBOldParams are the constants of the pre-2023 Archery GB scheme.
type AGBOldParams struct {
	Datum float64 `validate:"required"`
	Step  float64 `validate:"gt=0"`
	Ang0  float64 `validate:"gt=0"`
	K1    float64 `validate:"gte=0"`
	K2    float64 `validate:"gt=0"`
	K3    float64
	P1    float64 `validate:"gt=0"`
}

// DefaultAGBOldParams returns the published AGBold constants.
func DefaultAGBOldParams() AGBOldParams {
	return AGBOldParams{Datum: 12.9, Step: 3.6, Ang0: 5.0e-4, K1: 1.429e-6, K2: 1.07, K3: 4.3, P1: 2.0}
}

func (p AGBOldParams) sigmaT(h, dist float64) float64 {
	k := p.K1 * math.Pow(p.K2, h+p.K3)
	return p.Ang0 * math.Pow(1.0+p.Step/100.0, h+p.Datum) * (1.0 + k*math.Pow(dist, p.P1))
}

func (p AGBOldParams) params() map[string]float64 {
	return map[string]float64{
		"datum": p.Datum, "step": p.Step, "ang_0": p.Ang0,
		"k1": p.K1, "k2": p.K2, "k3": p.K3, "p1": p.P1,
	}
}

// NewAGBOld builds the AGBold scheme: descending scale, nearest rounding.
func NewAGBOld(p AGBOldParams, opts ...Option) (*Scheme, error) {
	return newScheme(Scheme{
		Name:                 AGBOld,
		ArrowDiameterIndoor:  7.14e-3,
		ArrowDiameterOutdoor: 7.14e-3,
		Direction:            Descending,
		Bounds:               descendingBounds,
		RoundingMargin:       0.5,
		Rounding:             RoundNearest,
	}, p, opts)
}

// AAParams are the constants of the Archery Australia scheme.
type AAParams struct {
	Ang0 float64 `validate:"gt=0"`
	K0   float64 `validate:"required"`
	KS   float64 `validate:"gt=0"`
	KD   float64 `validate:"gte=0"`
}

// DefaultAAParams returns the published AA constants.
func DefaultAAParams() AAParams {
	return AAParams{Ang0: 1.0e-3, K0: 2.37, KS: 0.027, KD: 0.004}
}

func (p AAParams) sigmaT(h, dist float64) float64 {
	return math.Sqrt2 * p.Ang0 * math.Exp(p.K0-p.KS*h+p.KD*dist)
}

func (p AAParams) params() map[string]float64 {
	return map[string]float64{"ang_0": p.Ang0, "k0": p.K0, "ks": p.KS, "kd": p.KD}
}

// NewAA builds the AA scheme: ascending scale, nearest rounding.
func NewAA(p AAParams, opts ...Option) (*Scheme, error) {
	return newScheme(Scheme{
		Name:                 AA,
		ArrowDiameterIndoor:  9.3e-3,
		ArrowDiameterOutdoor: 5.0e-3,
		Direction:            Ascending,
		Bounds:               ascendingBounds,
		RoundingMargin:       0.5,
		Rounding:             RoundNearest,
	}, p, opts)
}

// AA2Params are the constants of the revised Archery Australia scheme.
type AA2Params struct {
	Ang0 float64 `validate:"gt=0"`
	K0   float64 `validate:"required"`
	KS   float64 `validate:"gt=0"`
	F1   float64 `validate:"gte=0"`
	F2   float64 `validate:"gte=0"`
	D0   float64 `validate:"gt=0"`
}

// DefaultAA2Params returns the published AA2 constants.
func DefaultAA2Params() AA2Params {
	return AA2Params{Ang0: 1.0e-3, K0: 2.57, KS: 0.027, F1: 0.815, F2: 0.185, D0: 50.0}
}

func (p AA2Params) sigmaT(h, dist float64) float64 {
	return math.Sqrt2 * p.Ang0 * math.Exp(p.K0-p.KS*h) * (p.F1 + p.F2*dist/p.D0)
}

func (p AA2Params) params() map[string]float64 {
	return map[string]float64{"ang_0": p.Ang0, "k0": p.K0, "ks": p.KS, "f1": p.F1, "f2": p.F2, "d0": p.D0}
}

// NewAA2 builds the AA2 scheme: ascending scale, nearest rounding.
func NewAA2(p AA2Params, opts ...Option) (*Scheme, error) {
	return newScheme(Scheme{
		Name:                 AA2,
		ArrowDiameterIndoor:  9.3e-3,
		ArrowDiameterOutdoor: 5.0e-3,
		Direction:            Ascending,
		Bounds:               ascendingBounds,
		RoundingMargin:       0.5,
		Rounding:             RoundNearest,
	}, p, opts)
}
