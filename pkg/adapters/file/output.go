package file

import "context"

// OutputWriter implements ports.DocumentSink by writing into a directory.
type OutputWriter struct {
	Dir string
}

// NewOutputWriter creates an OutputWriter. An empty dir means the working directory.
func NewOutputWriter(dir string) *OutputWriter {
	if dir == "" {
		dir = "."
	}
	return &OutputWriter{Dir: dir}
}

// WriteDocument writes data to Dir/name atomically.
func (w *OutputWriter) WriteDocument(ctx context.Context, name string, data []byte) error {
	return writeAtomic(w.Dir, name, data)
}
