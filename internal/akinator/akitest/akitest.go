// Package akitest runs a scripted stand-in for the akinator service.
package akitest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
)

// GamePage renders a game page carrying the given credentials.
func GamePage(session, signature, question string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body>
  <form id="askSoundlike" method="post">
    <input type="hidden" id="session" name="session" value="%s">
    <input type="hidden" id="signature" name="signature" value="%s">
  </form>
  <p id="question-label">%s</p>
</body>
</html>`, session, signature, question)
}

type Request struct {
	Path string
	Form url.Values
}

// Server answers /game with a fixed page and /answer, /cancel_answer with
// the bodies queued through Reply, in order.
type Server struct {
	*httptest.Server

	mutex    sync.Mutex
	page     string
	replies  []string
	requests []Request
}

func NewServer(t testing.TB, page string) *Server {
	s := &Server{page: page}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// Reply queues bodies for the next answer/cancel requests.
func (s *Server) Reply(bodies ...string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.replies = append(s.replies, bodies...)
}

// Requests returns every request received so far.
func (s *Server) Requests() []Request {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.requests = append(s.requests, Request{Path: r.URL.Path, Form: r.PostForm})

	switch r.URL.Path {
	case "/game":
		w.Header().Set("content-type", "text/html")
		w.Write([]byte(s.page))
	case "/answer", "/cancel_answer":
		if len(s.replies) == 0 {
			http.Error(w, "<html>no reply queued</html>", http.StatusInternalServerError)
			return
		}
		body := s.replies[0]
		s.replies = s.replies[1:]
		w.Header().Set("content-type", "application/json")
		w.Write([]byte(body))
	default:
		http.NotFound(w, r)
	}
}
