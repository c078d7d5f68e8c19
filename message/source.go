package message

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// source is the body of a leaf entity.
type source interface {
	// open returns a reader for the body. The caller must close it.
	open() (io.ReadCloser, error)

	// inline returns the body if it is held in memory and nil otherwise.
	inline() []byte

	// scannable returns true if the body may be read ahead of time to pick
	// an encoding without spoiling a later read.
	scannable() bool

	// path returns the file path of the body, if it has one.
	path() string
}

// bytesSource is inline data.
type bytesSource []byte

func (s bytesSource) open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(s)), nil
}

func (s bytesSource) inline() []byte  { return s }
func (s bytesSource) scannable() bool { return true }
func (s bytesSource) path() string    { return "" }

// linesSource turns a sequence of lines into inline data. Each line gets a
// trailing LF unless it already ends in one.
func linesSource(lines []string) bytesSource {
	var buf bytes.Buffer
	for _, l := range lines {
		buf.WriteString(l)
		if len(l) == 0 || l[len(l)-1] != '\n' {
			buf.WriteByte('\n')
		}
	}
	return buf.Bytes()
}

// pathSource is a file read when the entity is written.
type pathSource string

func (s pathSource) open() (io.ReadCloser, error) {
	f, err := os.Open(string(s))
	if err != nil {
		return nil, &PathError{Path: string(s), Err: err}
	}
	return &pathReader{f}, nil
}

func (s pathSource) inline() []byte  { return nil }
func (s pathSource) scannable() bool { return true }
func (s pathSource) path() string    { return string(s) }

// verify checks that the file can be opened.
func (s pathSource) verify() error {
	f, err := os.Open(string(s))
	if err != nil {
		return &PathError{Path: string(s), Err: err}
	}
	return f.Close()
}

// pathReader turns read errors into a *PathError.
type pathReader struct {
	*os.File
}

func (r *pathReader) Read(p []byte) (int, error) {
	n, err := r.File.Read(p)
	if err != nil && err != io.EOF {
		err = &PathError{Path: r.Name(), Err: err}
	}
	return n, err
}

// readerSource is an open handle provided by the caller. The handle is never
// closed by this package. If it is an io.Seeker, it is rewound to the offset
// it had when the entity was built every time the body is written. Otherwise,
// it may only be written once.
type readerSource struct {
	r      io.Reader
	seeker io.Seeker
	offset int64
	used   bool
}

func newReaderSource(r io.Reader) *readerSource {
	rs := &readerSource{r: r}
	if s, isSeeker := r.(io.Seeker); isSeeker {
		if off, err := s.Seek(0, io.SeekCurrent); err == nil {
			rs.seeker = s
			rs.offset = off
		}
	}
	return rs
}

func (s *readerSource) open() (io.ReadCloser, error) {
	if s.seeker != nil {
		if _, err := s.seeker.Seek(s.offset, io.SeekStart); err != nil {
			return nil, fmt.Errorf("unable to rewind body: %w", err)
		}
		return io.NopCloser(s.r), nil
	}

	if s.used {
		return nil, fmt.Errorf("%w: body reader has already been consumed", ErrState)
	}

	s.used = true
	return io.NopCloser(s.r), nil
}

func (s *readerSource) inline() []byte  { return nil }
func (s *readerSource) scannable() bool { return false }
func (s *readerSource) path() string    { return "" }
