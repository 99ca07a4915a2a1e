package metadata

import (
	"errors"
	"sync"

	exiftool "github.com/barasher/go-exiftool"
)

// exiftoolStrategy shells out to the exiftool binary through its stay-open
// protocol. The wrapped process handles one request stream, so calls are
// serialized behind the mutex; the other strategies keep the extraction phase
// parallel for the common case.
type exiftoolStrategy struct {
	mu sync.Mutex
	et *exiftool.Exiftool
}

// newExiftoolStrategy returns nil when the exiftool binary is not installed;
// the resolver then simply runs without this strategy.
func newExiftoolStrategy() *exiftoolStrategy {
	et, err := exiftool.NewExiftool()
	if err != nil {
		return nil
	}
	return &exiftoolStrategy{et: et}
}

func (s *exiftoolStrategy) name() string { return "exiftool" }

func (s *exiftoolStrategy) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.et != nil {
		_ = s.et.Close()
		s.et = nil
	}
}

func (s *exiftoolStrategy) extract(path string) (partial, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.et == nil {
		return partial{}, errors.New("exiftool closed")
	}

	metas := s.et.ExtractMetadata(path)
	if len(metas) == 0 {
		return partial{}, errors.New("exiftool returned no result")
	}
	meta := metas[0]
	if meta.Err != nil {
		return partial{}, meta.Err
	}

	var p partial
	if value, err := meta.GetString("DateTimeOriginal"); err == nil {
		if taken, ok := parseEXIFTime(value); ok {
			p.taken = taken
		}
	}

	model, _ := meta.GetString("Model")
	maker, _ := meta.GetString("Make")
	p.camera = combineMakeModel(maker, model)

	if lens, err := meta.GetString("LensModel"); err == nil && lens != "" {
		p.lens = lens
	} else if lens, err := meta.GetString("Lens"); err == nil && lens != "" {
		p.lens = lens
	}
	return p, nil
}
