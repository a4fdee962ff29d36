package handicap

import (
	"context"
	"math"
)

const (
	maxRootIterations = 25
	rootXTol          = 1.0e-16
	// residualTolerance is the largest |f|, in score points, accepted as a
	// fallback when the iteration cap is reached before the bracket closes.
	residualTolerance = 1.0
)

// rootResult is the outcome of a root search.
type rootResult struct {
	root       float64
	residual   float64
	iterations int
	converged  bool
}

// brentRoot finds a zero of f in [xa, xb] with a fixed Brent iteration:
// the bracket is held by a current, a previous and a block point, and each
// step is a secant or inverse quadratic step when it stays well inside the
// bracket, a bisection otherwise.
//
// The update rules are fixed and reproduce published handicap values; in
// particular the secant step divides by fcur-xpre. Floating point division
// by zero yields an infinite or NaN trial step, which is rejected in favour
// of bisection.
//
// The bracket rarely closes below rootXTol within maxRootIterations at
// handicap magnitudes. As a fallback, the last iterate is accepted when
// |f| is within residualTolerance, and ErrNoConvergence is returned
// otherwise.
func brentRoot(ctx context.Context, f func(float64) float64, xa, xb float64) (rootResult, error) {
	fa, fb := f(xa), f(xb)

	if fa == 0 {
		return rootResult{root: xa, converged: true}, nil
	}
	if fb == 0 {
		return rootResult{root: xb, converged: true}, nil
	}
	if math.Signbit(fa) == math.Signbit(fb) {
		return rootResult{}, ErrNotBracketed
	}

	// Start from xb unless fa is the smaller positive side.
	xpre, xcur, fpre, fcur := xb, xa, fb, fa
	if math.Abs(fb) <= fa {
		xpre, xcur, fpre, fcur = xa, xb, fa, fb
	}

	var xblk, fblk, spre, scur float64

	for i := 1; i <= maxRootIterations; i++ {
		if err := ctx.Err(); err != nil {
			return rootResult{}, err
		}

		if fpre != 0 && fcur != 0 && math.Signbit(fpre) != math.Signbit(fcur) {
			xblk, fblk = xpre, fpre
			spre = xcur - xpre
			scur = spre
		}
		if math.Abs(fblk) < math.Abs(fcur) {
			xpre, xcur, xblk = xcur, xblk, xcur
			fpre, fcur, fblk = fcur, fblk, fcur
		}

		delta := rootXTol / 2
		sbis := (xblk - xcur) / 2
		if fcur == 0 || math.Abs(sbis) < delta {
			return rootResult{root: xcur, residual: fcur, iterations: i, converged: true}, nil
		}

		if math.Abs(spre) > delta && math.Abs(fcur) < math.Abs(fpre) {
			var stry float64
			if xpre == xblk {
				stry = -fcur * (xcur - xpre) / (fcur - xpre)
			} else {
				dpre := (fpre - fcur) / (xpre - xcur)
				dblk := (fblk - fcur) / (xblk - xcur)
				stry = -fcur * (fblk - fpre) / (fblk*dpre - fpre*dblk)
			}
			if 2*math.Abs(stry) < math.Min(math.Abs(spre), 3*math.Abs(sbis)-delta) {
				spre, scur = scur, stry
			} else {
				spre, scur = sbis, sbis
			}
		} else {
			spre, scur = sbis, sbis
		}

		xpre, fpre = xcur, fcur
		switch {
		case math.Abs(scur) > delta:
			xcur += scur
		case sbis > 0:
			xcur += delta
		default:
			xcur -= delta
		}
		fcur = f(xcur)
	}

	res := rootResult{root: xcur, residual: fcur, iterations: maxRootIterations}
	if !(math.Abs(fcur) <= residualTolerance) {
		return res, ErrNoConvergence
	}
	return res, nil
}
