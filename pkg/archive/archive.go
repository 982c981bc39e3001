// Package archive opens document packages and replaces single entries.
//
// Untouched entries are copied raw, without recompression, so they stay
// byte-identical. Replaced entries are deflated at a fixed level with the
// original header, which makes repeated runs on the same input produce the
// same bytes.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/aretw0/protocolfill/pkg/domain"
	"github.com/klauspost/compress/flate"
)

// DefaultCompressionLevel is used for replaced entries.
const DefaultCompressionLevel = flate.DefaultCompression

// maxEntrySize bounds how much of one entry is read into memory.
const maxEntrySize = 64 << 20

// Package is an opened, read-only document package.
type Package struct {
	reader *zip.Reader
	index  map[string]*zip.File
}

// Open reads a package from its bytes. The bytes must not be modified while the Package is in use.
func Open(data []byte) (*Package, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptPackage, err)
	}
	p := &Package{reader: r, index: make(map[string]*zip.File, len(r.File))}
	for _, f := range r.File {
		p.index[f.Name] = f
	}
	return p, nil
}

// Entries lists entry names in package order.
func (p *Package) Entries() []string {
	names := make([]string, 0, len(p.reader.File))
	for _, f := range p.reader.File {
		names = append(names, f.Name)
	}
	return names
}

// Has reports whether the package contains name.
func (p *Package) Has(name string) bool {
	_, ok := p.index[name]
	return ok
}

// Read returns the uncompressed content of an entry.
func (p *Package) Read(name string) ([]byte, error) {
	f, ok := p.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrEntryNotFound, name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", domain.ErrCorruptPackage, name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxEntrySize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrCorruptPackage, name, err)
	}
	if len(data) > maxEntrySize {
		return nil, fmt.Errorf("%w: entry %s exceeds %d bytes", domain.ErrCorruptPackage, name, maxEntrySize)
	}
	return data, nil
}

// Option configures Replace.
type Option func(*options)

type options struct {
	level int
}

// WithCompressionLevel sets the deflate level for replaced entries.
// Levels outside the flate range fall back to DefaultCompressionLevel.
func WithCompressionLevel(level int) Option {
	return func(o *options) {
		if level >= flate.HuffmanOnly && level <= flate.BestCompression {
			o.level = level
		}
	}
}

// Replace writes a new package in which the named entries carry new content.
// Every other entry is copied raw. All replaced names must exist.
func (p *Package) Replace(replacements map[string][]byte, opts ...Option) ([]byte, error) {
	o := options{level: DefaultCompressionLevel}
	for _, opt := range opts {
		opt(&o)
	}

	missing := make([]string, 0)
	for name := range replacements {
		if !p.Has(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("%w: %v", domain.ErrEntryNotFound, missing)
	}

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	w.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		fw, err := flate.NewWriter(out, o.level)
		if err != nil {
			return nil, err
		}
		return fw, nil
	})
	if p.reader.Comment != "" {
		if err := w.SetComment(p.reader.Comment); err != nil {
			return nil, err
		}
	}

	for _, f := range p.reader.File {
		content, replace := replacements[f.Name]
		if !replace {
			if err := w.Copy(f); err != nil {
				return nil, fmt.Errorf("%w: copy %s: %v", domain.ErrCorruptPackage, f.Name, err)
			}
			continue
		}
		hdr := f.FileHeader
		hdr.Method = zip.Deflate
		hdr.Extra = nil
		hdr.CRC32 = 0
		hdr.CompressedSize64 = 0
		hdr.UncompressedSize64 = 0
		fw, err := w.CreateHeader(&hdr)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", f.Name, err)
		}
		if _, err := fw.Write(content); err != nil {
			return nil, fmt.Errorf("write %s: %w", f.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalize package: %w", err)
	}
	return buf.Bytes(), nil
}

// ReplaceEntry opens data, replaces one entry and returns the new package bytes.
func ReplaceEntry(data []byte, name string, content []byte, opts ...Option) ([]byte, error) {
	p, err := Open(data)
	if err != nil {
		return nil, err
	}
	return p.Replace(map[string][]byte{name: content}, opts...)
}
