package hydrotrend

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"strings"

	"github.com/maseology/mmio"
)

// CSVSink writes one line per record.
type CSVSink struct {
	writeHead func(string) error
	writeLine func(...interface{})
	close     func()
	head      bool
}

func NewCSVSink(fp string) *CSVSink {
	w := mmio.NewCSVwriter(fp)
	return &CSVSink{
		writeHead: w.WriteHead,
		writeLine: func(v ...interface{}) { w.WriteLine(v...) },
		close:     func() { w.Close() },
	}
}

func (s *CSVSink) Put(r Record) error {
	if !s.head {
		if err := s.writeHead(csvHeader(r)); err != nil {
			return fmt.Errorf(" CSVSink.Put %v", err)
		}
		s.head = true
	}
	v := []interface{}{r.Year, r.Day, r.Days, r.Q, r.Qs, r.Qb, r.Width, r.Depth, r.Velocity, r.Glacier, r.Snow, r.Rain, r.SS, r.Exceed}
	for _, c := range r.Conc {
		v = append(v, c)
	}
	for _, o := range r.Outlets {
		v = append(v, o.Frac, o.Q, o.Qs, o.Qb)
	}
	s.writeLine(v...)
	return nil
}

func (s *CSVSink) Close() { s.close() }

func csvHeader(r Record) string {
	var sb strings.Builder
	sb.WriteString("year,day,ndays,q,qs,qb,width,depth,velocity,qglacier,qsnow,qrain,qss,qexceed")
	for i := range r.Conc {
		fmt.Fprintf(&sb, ",cs%d", i)
	}
	for i := range r.Outlets {
		fmt.Fprintf(&sb, ",frac%[1]d,q%[1]d,qs%[1]d,qb%[1]d", i)
	}
	return sb.String()
}

// BinarySink collects the mouth series and writes them on Close as
// little-endian float32 rows of q, qs, qb, width, depth, velocity.
type BinarySink struct {
	fp string
	v  []float64
}

const binaryColumns = 6

func NewBinarySink(fp string) *BinarySink { return &BinarySink{fp: fp} }

func (s *BinarySink) Put(r Record) error {
	s.v = append(s.v, r.Q, r.Qs, r.Qb, r.Width, r.Depth, r.Velocity)
	return nil
}

func (s *BinarySink) Close() error { return writeFloats(s.fp, s.v) }

func writeFloats(fp string, f []float64) error {
	f32 := make([]float32, len(f))
	for i, v := range f {
		f32[i] = float32(v)
	}
	buf := new(bytes.Buffer)
	if err := binary.Write(buf, binary.LittleEndian, f32); err != nil {
		return fmt.Errorf("writeFloats failed: %v", err)
	}
	if err := os.WriteFile(fp, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writeFloats failed: %v", err)
	}
	return nil
}

// ReadBinary returns the rows written by a BinarySink.
func ReadBinary(fp string) ([][binaryColumns]float32, error) {
	b, err := os.ReadFile(fp)
	if err != nil {
		return nil, fmt.Errorf("ReadBinary failed: %v", err)
	}
	if len(b)%(4*binaryColumns) != 0 {
		return nil, fmt.Errorf("ReadBinary failed: %d bytes is not a whole number of rows", len(b))
	}
	o := make([][binaryColumns]float32, len(b)/(4*binaryColumns))
	if err := binary.Read(bytes.NewReader(b), binary.LittleEndian, o); err != nil {
		return nil, fmt.Errorf("ReadBinary failed: %v", err)
	}
	return o, nil
}

// MultiSink fans records out to several sinks.
type MultiSink []Sink

func (m MultiSink) Put(r Record) error {
	for _, s := range m {
		if err := s.Put(r); err != nil {
			return err
		}
	}
	return nil
}
