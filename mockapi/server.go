package mockapi

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/shiva-pdv/api-contract-tests/logging"
)

const listenerTimeout = time.Second * 10

// Server is a running HTTP listener for a Backend.
type Server struct {
	URL    string
	server *http.Server
}

// Start listens on addr (for instance ":0" for any free port), serves the backend's endpoints,
// and returns once the listener is answering requests.
func Start(addr string, backend *Backend, logger logging.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.NullLogger()
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("could not start mock API listener: %w", err)
	}
	handler := backend.Handler()
	server := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodHead && r.URL.Path == "/" {
				w.WriteHeader(200) // we use this to test whether the listener is active yet
				return
			}
			handler.ServeHTTP(w, r)
		}),
	}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Printf("Mock API listener stopped: %s", err)
		}
	}()

	s := &Server{
		URL:    fmt.Sprintf("http://localhost:%d", listener.Addr().(*net.TCPAddr).Port),
		server: server,
	}

	// Wait till the server is definitely listening for requests before we run any tests
	deadline := time.NewTimer(listenerTimeout)
	defer deadline.Stop()
	ticker := time.NewTicker(time.Millisecond * 10)
	defer ticker.Stop()
	for {
		select {
		case <-deadline.C:
			_ = server.Close()
			return nil, fmt.Errorf("could not detect mock API listener at %s", s.URL)
		case <-ticker.C:
			resp, err := http.DefaultClient.Head(s.URL)
			if err == nil {
				resp.Body.Close()
				if resp.StatusCode == 200 {
					logger.Printf("Mock API listening at %s", s.URL)
					return s, nil
				}
			}
		}
	}
}

// Close stops the listener.
func (s *Server) Close() error {
	return s.server.Close()
}
