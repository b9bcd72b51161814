package hydrotrend

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/mcflugen/sedflux-sub001/config"
	"github.com/remeh/sizedwaitgroup"
	"gonum.org/v1/gonum/stat"
)

// Member is one realization of an ensemble.
type Member struct {
	Seed          int64
	MeanQ, MeanQs float64 // [m³/s], [kg/s]
	Err           error
}

// Ensemble summarizes realizations that differ only in seed.
type Ensemble struct {
	Members       []Member
	MeanQ, StdQ   float64
	MeanQs, StdQs float64
}

// RunEnsemble runs n copies of cfg, member i seeded with cfg.Seed-i, on at
// most workers goroutines (all CPUs when workers<1).
func RunEnsemble(cfg *config.Config, n, workers int, opts ...Option) (*Ensemble, error) {
	if n < 1 {
		return nil, fmt.Errorf("RunEnsemble: need at least one member, got %d", n)
	}
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	ens := &Ensemble{Members: make([]Member, n)}
	swg := sizedwaitgroup.New(workers)
	for i := 0; i < n; i++ {
		swg.Add()
		go func(i int) {
			defer swg.Done()
			ens.Members[i] = runMember(cfg, cfg.Seed-int64(i), opts)
		}(i)
	}
	swg.Wait()

	var (
		qs, qss []float64
		errs    []error
	)
	for _, m := range ens.Members {
		if m.Err != nil {
			errs = append(errs, fmt.Errorf("member seed %d: %w", m.Seed, m.Err))
			continue
		}
		qs = append(qs, m.MeanQ)
		qss = append(qss, m.MeanQs)
	}
	if len(qs) > 0 {
		ens.MeanQ, ens.StdQ = stat.MeanStdDev(qs, nil)
		ens.MeanQs, ens.StdQs = stat.MeanStdDev(qss, nil)
	}
	return ens, errors.Join(errs...)
}

func runMember(cfg *config.Config, seed int64, opts []Option) Member {
	c := *cfg
	c.Seed = seed
	m := Member{Seed: seed}
	sim, err := New(&c, opts...)
	if err != nil {
		m.Err = err
		return m
	}
	var sq, sqs, nd float64
	err = sim.Run(SinkFunc(func(r Record) error {
		w := float64(r.Days)
		sq += r.Q * w
		sqs += r.Qs * w
		nd += w
		return nil
	}))
	if err != nil {
		m.Err = err
		return m
	}
	if nd > 0. {
		m.MeanQ, m.MeanQs = sq/nd, sqs/nd
	}
	return m
}
