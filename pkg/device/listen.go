package device

import (
	"io"
	"net"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	// Browser-based senders connect from arbitrary origins.
	CheckOrigin: func(*http.Request) bool { return true },
}

// ListenSource accepts TCode over websocket, the transport browser pattern
// players use. Every text message carries one command line; a missing line
// terminator is supplied so senders may omit it.
type ListenSource struct {
	ln     net.Listener
	srv    *http.Server
	chunks chan []byte

	pending []byte // remainder of the chunk being consumed, single reader

	closeOnce sync.Once
	closed    chan struct{}
}

// Listen starts a websocket listener on addr, e.g. ":8000".
func Listen(addr string) (*ListenSource, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	s := &ListenSource{
		ln:     ln,
		chunks: make(chan []byte, 16),
		closed: make(chan struct{}),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handle)
	s.srv = &http.Server{Handler: mux}
	go s.srv.Serve(ln)
	return s, nil
}

func (s *ListenSource) handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if len(data) == 0 || data[len(data)-1] != '\n' {
			data = append(data, '\n')
		}
		select {
		case s.chunks <- data:
		case <-s.closed:
			return
		}
	}
}

func (s *ListenSource) Read(p []byte) (int, error) {
	for len(s.pending) == 0 {
		select {
		case chunk := <-s.chunks:
			s.pending = chunk
		case <-s.closed:
			return 0, io.EOF
		}
	}
	n := copy(p, s.pending)
	s.pending = s.pending[n:]
	return n, nil
}

// Close stops the listener, drops active connections and ends the stream.
func (s *ListenSource) Close() error {
	s.closeOnce.Do(func() { close(s.closed) })
	return s.srv.Close()
}

func (s *ListenSource) Name() string {
	return "ws://" + s.ln.Addr().String()
}
