// Package metrics exports the prometheus counters of the process over HTTP.
package metrics

import (
	"net"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/squareup/strata/errors"
)

type Server struct {
	listenAddress string
	lock          sync.Mutex
	httpServer    *http.Server
	listener      net.Listener
	started       bool
}

func NewServer(listenAddress string) *Server {
	return &Server{listenAddress: listenAddress}
}

func (s *Server) Start() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.started {
		return errors.New("already started")
	}
	listener, err := net.Listen("tcp", s.listenAddress)
	if err != nil {
		return errors.WithStack(err)
	}
	s.listener = listener
	s.httpServer = &http.Server{Handler: promhttp.Handler()}
	s.started = true
	go func(srv *http.Server, l net.Listener) {
		if err := srv.Serve(l); err != nil && err != http.ErrServerClosed {
			log.Errorf("prometheus http export server failed to serve %v", err)
		}
	}(s.httpServer, listener)
	log.Debugf("started prometheus http server on address %s", listener.Addr())
	return nil
}

// Addr is the address the server listens on, once started.
func (s *Server) Addr() string {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) Stop() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if !s.started {
		return errors.New("not started")
	}
	s.started = false
	s.listener = nil
	return errors.WithStack(s.httpServer.Close())
}
