// Package hydrotrend simulates daily water and sediment discharge at a river
// mouth over epochs of changing climate.
package hydrotrend

import (
	"github.com/mcflugen/sedflux-sub001/config"
	"github.com/mcflugen/sedflux-sub001/forcing"
	"github.com/mcflugen/sedflux-sub001/logger"
	"github.com/mcflugen/sedflux-sub001/rng"
	"github.com/sirupsen/logrus"
)

// Simulation is one run. It owns its random streams and carry state, so
// separate Simulations may run concurrently.
type Simulation struct {
	cfg      *config.Config
	rs       *rng.Set
	log      logrus.FieldLogger
	series   *forcing.Series
	progress func(year int)
	state    *State

	Reports []EpochReport
}

// Option configures a Simulation.
type Option func(*Simulation)

// WithLogger routes warnings and epoch summaries to l.
func WithLogger(l logrus.FieldLogger) Option { return func(s *Simulation) { s.log = l } }

// WithSeries replaces the climate realizer for the years the series covers.
func WithSeries(fs *forcing.Series) Option { return func(s *Simulation) { s.series = fs } }

// WithProgress is called after every accepted final-pass year.
func WithProgress(f func(year int)) Option { return func(s *Simulation) { s.progress = f } }

// WithState starts the run from a copy of a check-pointed carry state; st
// itself is never modified.
func WithState(st *State) Option { return func(s *Simulation) { s.state = st.Clone() } }

// New validates the configuration and prepares a run.
func New(cfg *config.Config, opts ...Option) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Simulation{
		cfg: cfg,
		rs:  rng.NewSet(cfg.Seed),
		log: logger.Discard(),
	}
	for _, o := range opts {
		o(s)
	}
	if s.series == nil && cfg.Series != "" {
		fs, err := forcing.LoadGobSeries(cfg.Series)
		if err != nil {
			return nil, err
		}
		s.series = fs
	}
	s.log.WithFields(logrus.Fields{"seed": s.rs.Base(), "epochs": len(cfg.Epochs), "years": cfg.Years()}).Info("simulation configured")
	for _, d := range cfg.Drift() {
		s.log.WithField("check", "continuity").Warn(d)
	}
	return s, nil
}

// Run simulates every epoch in order, sending the final-pass records to sink
// at the configured output interval.
func (s *Simulation) Run(sink Sink) error {
	if sink == nil {
		sink = SinkFunc(func(Record) error { return nil })
	}
	agg := NewAggregator(s.cfg.Interval, sink)
	for k := range s.cfg.Epochs {
		if err := s.runEpoch(k, agg); err != nil {
			return err
		}
	}
	return agg.Flush()
}

// State is the carry left by the last completed epoch.
func (s *Simulation) State() *State { return s.state }

// Config of the run.
func (s *Simulation) Config() *config.Config { return s.cfg }
