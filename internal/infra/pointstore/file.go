package pointstore

import (
	"context"
	"fmt"
	"os"

	"github.com/yanqian/patternlife/internal/domain/signal"
)

// FileSource reads a JSON or CSV dataset from disk on every Load.
type FileSource struct {
	path string
}

// NewFileSource constructs a file backed store.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Load implements signal.Store.
func (s *FileSource) Load(_ context.Context) (signal.Dataset, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return signal.Dataset{}, fmt.Errorf("open dataset file: %w", err)
	}
	defer f.Close()

	points, err := Decode(f, FormatFor(s.path))
	if err != nil {
		return signal.Dataset{}, err
	}
	return signal.NewDataset(points), nil
}

var _ signal.Store = (*FileSource)(nil)
