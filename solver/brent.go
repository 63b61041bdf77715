package solver

import (
	"fmt"
	"math"
)

const (
	// cgold is the golden-section ratio (3 - sqrt(5)) / 2.
	cgold = 0.3819660112501051
	zeps  = 1e-15
)

// Minimize finds a local minimum of f on [lo, hi] with Brent's method:
// golden-section steps, accelerated by parabolic interpolation when the last
// steps were well behaved.
//
// It returns the abscissa, the function value there and the number of
// iterations used. When the bracket has not shrunk below tol within maxIter
// iterations a *ConvergenceError is returned together with the best point found.
func Minimize(f func(float64) float64, lo, hi, tol float64, maxIter int) (float64, float64, int, error) {
	if !(lo < hi) {
		return 0, 0, 0, fmt.Errorf("Minimize: invalid bracket [%v, %v]", lo, hi)
	}
	if tol <= 0 || maxIter <= 0 {
		return 0, 0, 0, fmt.Errorf("Minimize: tolerance and iteration budget must be positive")
	}

	a, b := lo, hi
	x := a + cgold*(b-a)
	w, v := x, x
	fx := f(x)
	fw, fv := fx, fx
	var d, e float64

	for iter := 1; iter <= maxIter; iter++ {
		xm := 0.5 * (a + b)
		tol1 := tol*math.Abs(x) + zeps
		tol2 := 2 * tol1
		if math.Abs(x-xm) <= tol2-0.5*(b-a) {
			return x, fx, iter, nil
		}

		golden := true
		if math.Abs(e) > tol1 {
			r := (x - w) * (fx - fv)
			q := (x - v) * (fx - fw)
			p := (x-v)*q - (x-w)*r
			q = 2 * (q - r)
			if q > 0 {
				p = -p
			}
			q = math.Abs(q)
			etemp := e
			e = d
			if math.Abs(p) < math.Abs(0.5*q*etemp) && p > q*(a-x) && p < q*(b-x) {
				d = p / q
				u := x + d
				if u-a < tol2 || b-u < tol2 {
					d = math.Copysign(tol1, xm-x)
				}
				golden = false
			}
		}
		if golden {
			if x >= xm {
				e = a - x
			} else {
				e = b - x
			}
			d = cgold * e
		}

		var u float64
		if math.Abs(d) >= tol1 {
			u = x + d
		} else {
			u = x + math.Copysign(tol1, d)
		}
		fu := f(u)

		if fu <= fx {
			if u >= x {
				a = x
			} else {
				b = x
			}
			v, w, x = w, x, u
			fv, fw, fx = fw, fx, fu
			continue
		}
		if u < x {
			a = u
		} else {
			b = u
		}
		if fu <= fw || w == x {
			v, w = w, u
			fv, fw = fw, fu
		} else if fu <= fv || v == x || v == w {
			v = u
			fv = fu
		}
	}

	return x, fx, maxIter, &ConvergenceError{
		Reason:     "iteration budget exhausted",
		Rate:       x,
		Residual:   fx,
		Iterations: maxIter,
	}
}
