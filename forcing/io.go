package forcing

import (
	"encoding/gob"
	"fmt"
	"os"
)

func (s *Series) SaveGob(fp string) error {
	f, err := os.Create(fp)
	if err != nil {
		return fmt.Errorf(" forcing.SaveGob %v", err)
	}
	defer f.Close()
	if err := gob.NewEncoder(f).Encode(s); err != nil {
		return fmt.Errorf(" forcing.SaveGob %v", err)
	}
	return nil
}

func LoadGobSeries(fp string) (*Series, error) {
	var s Series
	f, err := os.Open(fp)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := gob.NewDecoder(f).Decode(&s); err != nil {
		return nil, fmt.Errorf(" forcing.LoadGobSeries %v", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}
