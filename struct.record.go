package hydrotrend

// OutletRecord is the share of one distributary.
type OutletRecord struct {
	Frac                   float64
	Q, Qs, Qb              float64   // [m³/s], [kg/s], [kg/s]
	Width, Depth, Velocity float64   // [m], [m], [m/s]
	Conc                   []float64 // suspended concentration per grain class [kg/m³]
}

// Record is one output interval at the river mouth. Records are values; a
// sink may keep them.
type Record struct {
	Year, Day, Days        int // first day-of-year and length of the interval
	Q, Qs, Qb              float64
	Width, Depth, Velocity float64
	Conc                   []float64
	Outlets                []OutletRecord

	// discharge components [m³/s]
	Glacier, Snow, Rain, SS, Exceed float64
}

// Sink consumes the record stream of the final pass.
type Sink interface {
	Put(r Record) error
}

// SliceSink keeps every record in memory.
type SliceSink struct {
	Records []Record
}

func (s *SliceSink) Put(r Record) error {
	s.Records = append(s.Records, r)
	return nil
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(Record) error

func (f SinkFunc) Put(r Record) error { return f(r) }
