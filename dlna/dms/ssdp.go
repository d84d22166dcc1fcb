package dms

import (
	"fmt"
	"net"
	"strings"
	"sync"

	"github.com/anacrolix/log"

	"github.com/kevincox/rustymedia/dlna/ssdp"
)

// runSSDP starts one ssdp.Server per usable interface and waits for Close.
func (s *Server) runSSDP() {
	var wg sync.WaitGroup
	for _, ifc := range s.Interfaces {
		ifc := ifc
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.ssdpOnInterface(ifc)
		}()
	}
	wg.Wait()
}

func (s *Server) ssdpOnInterface(ifc net.Interface) {
	logger := s.Logger.WithNames("ssdp", ifc.Name)
	srv := ssdp.Server{
		Interface:      ifc,
		UUID:           s.UUID,
		Server:         serverField,
		Location:       s.location,
		NotifyInterval: s.NotifyInterval,
		Logger:         logger,
	}
	if err := srv.Init(); err != nil {
		if strings.Contains(err.Error(), "listening") {
			return // interface without usable multicast, expected on some hosts.
		}
		logger.Printf("ssdp init on %s: %v", ifc.Name, err)
		return
	}
	defer srv.Close()
	logger.Levelf(log.Info, "started SSDP on %q", ifc.Name)

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		if err := srv.Serve(); err != nil {
			logger.Printf("%s: %v", ifc.Name, err)
		}
	}()
	select {
	case <-s.closed:
	case <-stopped:
	}
}

func (s *Server) location(ip net.IP) string {
	_, port, _ := net.SplitHostPort(s.HTTPConn.Addr().String())
	return fmt.Sprintf("http://%s", net.JoinHostPort(ip.String(), port)) + rootDescPath
}
