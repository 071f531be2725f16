package device

import (
	"fmt"
	"io"

	"go.bug.st/serial"
)

// DefaultBaud is the conventional serial rate for TCode firmware.
const DefaultBaud = 115200

// Source is a byte transport feeding the router. Name is used for log and
// status lines.
type Source interface {
	io.ReadCloser
	Name() string
}

type serialSource struct {
	port serial.Port
	name string
}

// OpenSerial opens a serial device at the given baud rate.
func OpenSerial(path string, baud int) (Source, error) {
	if baud <= 0 {
		baud = DefaultBaud
	}
	port, err := serial.Open(path, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", path, err)
	}
	return &serialSource{port: port, name: path}, nil
}

func (s *serialSource) Read(p []byte) (int, error) { return s.port.Read(p) }
func (s *serialSource) Close() error               { return s.port.Close() }
func (s *serialSource) Name() string               { return s.name }

type readerSource struct {
	r    io.Reader
	name string
}

// NewReaderSource adapts any reader into a Source. Close closes the
// underlying reader when it supports closing.
func NewReaderSource(r io.Reader, name string) Source {
	return &readerSource{r: r, name: name}
}

func (s *readerSource) Read(p []byte) (int, error) { return s.r.Read(p) }

func (s *readerSource) Close() error {
	if c, ok := s.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (s *readerSource) Name() string { return s.name }
