package dms

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// handleEventSub implements the GENA SUBSCRIBE/UNSUBSCRIBE half of UPnP
// eventing against one service's EventSubURL. rustymedia never actually
// fires a NOTIFY (ContentDirectory state here never changes mid-process:
// no persistence, no live filesystem watch), but control points still
// expect a subscription handshake that doesn't error, so this mints and
// tracks a SID.
func (s *Server) handleEventSub(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "SUBSCRIBE":
		s.subscribe(w, r)
	case "UNSUBSCRIBE":
		s.unsubscribe(w, r)
	default:
		http.Error(w, "only SUBSCRIBE/UNSUBSCRIBE are supported here", http.StatusMethodNotAllowed)
	}
}

func (s *Server) subscribe(w http.ResponseWriter, r *http.Request) {
	if sid := r.Header.Get("SID"); sid != "" {
		s.renew(w, sid)
		return
	}

	timeout := 1800
	fmt.Sscanf(r.Header.Get("TIMEOUT"), "Second-%d", &timeout)

	sid := randomSID()
	s.mu.Lock()
	s.subscriptions[sid] = subscription{
		callback: parseCallbackURLs(r.Header.Get("CALLBACK")),
		timeout:  time.Duration(timeout) * time.Second,
	}
	s.mu.Unlock()

	w.Header().Set("SID", sid)
	w.Header().Set("TIMEOUT", fmt.Sprintf("Second-%d", timeout))
	w.WriteHeader(http.StatusOK)
}

func (s *Server) renew(w http.ResponseWriter, sid string) {
	s.mu.Lock()
	sub, ok := s.subscriptions[sid]
	s.mu.Unlock()
	if !ok {
		http.Error(w, "no such subscription", http.StatusPreconditionFailed)
		return
	}
	w.Header().Set("SID", sid)
	w.Header().Set("TIMEOUT", fmt.Sprintf("Second-%d", int(sub.timeout.Seconds())))
	w.WriteHeader(http.StatusOK)
}

func (s *Server) unsubscribe(w http.ResponseWriter, r *http.Request) {
	sid := r.Header.Get("SID")
	if sid == "" {
		http.Error(w, "missing SID", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	delete(s.subscriptions, sid)
	s.mu.Unlock()
	w.WriteHeader(http.StatusOK)
}

// parseCallbackURLs extracts the "<...>" bracketed URLs out of a GENA
// CALLBACK header; rustymedia never dials them (see handleEventSub), but
// keeps them on the subscription record for when a real delta exists to
// push.
func parseCallbackURLs(header string) []string {
	var urls []string
	for _, part := range strings.Split(header, "<") {
		if i := strings.IndexByte(part, '>'); i >= 0 {
			urls = append(urls, part[:i])
		}
	}
	return urls
}
