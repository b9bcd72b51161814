package massbal

import (
	"errors"
	"fmt"
	"math"
)

// nearzero is the absolute volume [m³] below which a balance is treated as closed,
// used when nothing entered the system.
const nearzero = 1e-6

// ErrMassBalance is returned (wrapped) whenever a component fails to conserve water.
var ErrMassBalance = errors.New("mass balance violated")

// Error reports both sides of a violated balance.
type Error struct {
	Component string
	Year, Day int // Day < 0 for annual checks
	In, Out   float64
	Tol       float64
}

func (e *Error) Error() string {
	when := fmt.Sprintf("year %d", e.Year)
	if e.Day >= 0 {
		when = fmt.Sprintf("year %d day %d", e.Year, e.Day)
	}
	return fmt.Sprintf("%s wbal error (%s): in = %.6e  out = %.6e  |out-in|/in = %.3e > %.1e",
		e.Component, when, e.In, e.Out, relative(e.In, e.Out), e.Tol)
}

func (e *Error) Unwrap() error { return ErrMassBalance }

func relative(in, out float64) float64 {
	if in == 0. {
		return math.Abs(out - in)
	}
	return math.Abs(out-in) / math.Abs(in)
}

// Check returns a *Error when |out-in| > tol*in.
func Check(component string, year, day int, in, out, tol float64) error {
	d := math.Abs(out - in)
	if d <= tol*math.Abs(in) || d <= nearzero {
		return nil
	}
	return &Error{Component: component, Year: year, Day: day, In: in, Out: out, Tol: tol}
}

// Account accumulates inputs and outputs of one subsystem.
type Account struct {
	In, Out float64
}

func (a *Account) Add(in, out float64) {
	a.In += in
	a.Out += out
}

// Check tests the accumulated totals.
func (a Account) Check(component string, year, day int, tol float64) error {
	return Check(component, year, day, a.In, a.Out, tol)
}

// Relative imbalance |out-in|/in.
func (a Account) Relative() float64 { return relative(a.In, a.Out) }
