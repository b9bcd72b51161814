package hydrotrend

import (
	"encoding/gob"
	"fmt"
	"os"

	"github.com/mcflugen/sedflux-sub001/config"
	"github.com/mcflugen/sedflux-sub001/cryo"
	"github.com/mcflugen/sedflux-sub001/flow"
	"github.com/mcflugen/sedflux-sub001/gwru"
	"github.com/mcflugen/sedflux-sub001/hypsometry"
)

// Carry holds the routed discharge [m³/s] that spills past Dec 31 into the
// first days of the next year.
type Carry struct {
	Glacier, Snow, Rain []float64
}

// State is everything a year hands to the next.
type State struct {
	Pool    gwru.Pool
	Snow    []float64 // per-bin pack [m³]
	Glacier cryo.GlacierState
	Carry   Carry
	Outlets flow.Outlets
	Event   flow.EventDetector
}

func newState(e *config.Epoch, l *hypsometry.Layout, wrap int) (*State, error) {
	p, err := gwru.New(e.Rain.GWInit, e.Rain.GWMin, e.Rain.GWMax)
	if err != nil {
		return nil, err
	}
	return &State{
		Pool: *p,
		Snow: make([]float64, l.N()),
		Carry: Carry{
			Glacier: make([]float64, wrap),
			Snow:    make([]float64, wrap),
			Rain:    make([]float64, wrap),
		},
		Outlets: flow.NewOutlets(e.Outlets),
	}, nil
}

// Clone returns a deep copy; simulating from a clone leaves the original untouched.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	c := *s
	c.Snow = append([]float64(nil), s.Snow...)
	c.Carry = Carry{
		Glacier: append([]float64(nil), s.Carry.Glacier...),
		Snow:    append([]float64(nil), s.Carry.Snow...),
		Rain:    append([]float64(nil), s.Carry.Rain...),
	}
	c.Outlets = s.Outlets.Clone()
	return &c
}

// enterEpoch carries the state across an epoch boundary onto a new layout.
// The glacier restarts from the new epoch's own ELA; the ice water equivalent
// [m³] it held is written off and returned.
func (s *State) enterEpoch(e *config.Epoch, l *hypsometry.Layout) float64 {
	ice := s.Glacier.Ice
	s.Glacier = cryo.GlacierState{}
	s.Snow = hypsometry.RemapSnow(s.Snow, l.N())
	s.Pool.Min, s.Pool.Max = e.Rain.GWMin, e.Rain.GWMax
	s.Pool.Overflow(0.) // clamp into the new bounds
	s.Outlets = flow.NewOutlets(e.Outlets)
	s.Event = flow.EventDetector{}
	return ice
}

func (s *State) SaveGob(fp string) error {
	f, err := os.Create(fp)
	if err != nil {
		return fmt.Errorf(" State.SaveGob %v", err)
	}
	defer f.Close()
	if err := gob.NewEncoder(f).Encode(s); err != nil {
		return fmt.Errorf(" State.SaveGob %v", err)
	}
	return nil
}

func LoadGobState(fp string) (*State, error) {
	var s State
	f, err := os.Open(fp)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := gob.NewDecoder(f).Decode(&s); err != nil {
		return nil, fmt.Errorf(" LoadGobState %v", err)
	}
	return &s, nil
}
