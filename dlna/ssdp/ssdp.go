// Package ssdp implements the presence-announcement half of SSDP: it
// periodically multicasts NOTIFY ssdp:alive messages for a root device
// and its embedded services, and answers M-SEARCH requests on the same
// socket.
package ssdp

import (
	"context"
	"fmt"
	"net"
	"strings"
	"syscall"
	"time"

	"golang.org/x/net/ipv4"
	"golang.org/x/sys/unix"

	"github.com/anacrolix/log"
)

// Multicast group and port SSDP operates on.
const (
	Addr = "239.255.255.250:1900"
)

// Server multicasts presence for one root device UUID across one network
// interface. The caller starts one per interface the device should be
// reachable from.
type Server struct {
	Interface      net.Interface
	UUID           string
	Server         string // the HTTP Server header value to advertise
	Location       func(ip net.IP) string
	NotifyInterval time.Duration
	Logger         log.Logger

	conn   *ipv4.PacketConn
	closed chan struct{}
}

// notificationTypes is the fixed set of NT values a DLNA media server
// announces, each paired with a USN derived from the device UUID.
var notificationTypes = []string{
	"upnp:rootdevice",
	"", // bare uuid, filled in at use
	"urn:schemas-upnp-org:device:MediaServer:1",
	"urn:schemas-upnp-org:service:ContentDirectory:1",
	"urn:schemas-upnp-org:service:ConnectionManager:1",
}

func (s *Server) usn(nt string) string {
	if nt == "" {
		return "uuid:" + s.UUID
	}
	return fmt.Sprintf("uuid:%s::%s", s.UUID, nt)
}

// Init opens the multicast socket on Server.Interface, joining the SSDP
// group so both outbound NOTIFYs and inbound M-SEARCHes use it.
func (s *Server) Init() error {
	if s.NotifyInterval == 0 {
		s.NotifyInterval = 60 * time.Second
	}
	udpAddr, err := net.ResolveUDPAddr("udp4", Addr)
	if err != nil {
		return err
	}

	lc := net.ListenConfig{
		Control: func(network, address string, c syscall.RawConn) error {
			var sockErr error
			err := c.Control(func(fd uintptr) {
				sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
			})
			if err != nil {
				return err
			}
			return sockErr
		},
	}
	pc, err := lc.ListenPacket(context.Background(), "udp4", fmt.Sprintf(":%d", udpAddr.Port))
	if err != nil {
		return fmt.Errorf("ssdp: listening on %s: %w", s.Interface.Name, err)
	}

	s.conn = ipv4.NewPacketConn(pc)
	if err := s.conn.JoinGroup(&s.Interface, &net.UDPAddr{IP: udpAddr.IP}); err != nil {
		pc.Close()
		return fmt.Errorf("ssdp: joining group on %s: %w", s.Interface.Name, err)
	}
	if err := s.conn.SetMulticastInterface(&s.Interface); err != nil {
		return fmt.Errorf("ssdp: setting multicast interface: %w", err)
	}
	s.conn.SetMulticastTTL(4)
	s.closed = make(chan struct{})
	return nil
}

// Serve runs the NOTIFY cadence and M-SEARCH responder until Close is
// called. It blocks, so the caller should run it in its own goroutine.
func (s *Server) Serve() error {
	go s.readLoop()

	ticker := time.NewTicker(s.NotifyInterval)
	defer ticker.Stop()
	s.notifyAll("ssdp:alive")
	for {
		select {
		case <-ticker.C:
			s.notifyAll("ssdp:alive")
		case <-s.closed:
			return nil
		}
	}
}

// Close sends ssdp:byebye for every advertised NT, makes a pending Serve
// call return, and closes the socket.
func (s *Server) Close() error {
	select {
	case <-s.closed:
	default:
		close(s.closed)
		s.notifyAll("ssdp:byebye")
	}
	return s.conn.Close()
}

func (s *Server) notifyAll(nts string) {
	for _, nt := range notificationTypes {
		s.notify(nts, nt)
	}
}

func (s *Server) notify(nts, nt string) {
	localIP := s.localIP()
	if localIP == nil {
		return
	}
	advNT := nt
	if advNT == "" {
		advNT = "uuid:" + s.UUID
	}
	msg := "NOTIFY * HTTP/1.1\r\n" +
		"HOST: " + Addr + "\r\n" +
		"CACHE-CONTROL: max-age=1800\r\n" +
		"LOCATION: " + s.Location(localIP) + "\r\n" +
		"NT: " + advNT + "\r\n" +
		"NTS: " + nts + "\r\n" +
		"SERVER: " + s.Server + "\r\n" +
		"USN: " + s.usn(nt) + "\r\n\r\n"

	dst, err := net.ResolveUDPAddr("udp4", Addr)
	if err != nil {
		return
	}
	if _, err := s.conn.WriteTo([]byte(msg), nil, dst); err != nil {
		s.Logger.Levelf(log.Debug, "ssdp: notify on %s: %v", s.Interface.Name, err)
	}
}

func (s *Server) localIP() net.IP {
	addrs, err := s.Interface.Addrs()
	if err != nil {
		return nil
	}
	for _, a := range addrs {
		if ipNet, ok := a.(*net.IPNet); ok && ipNet.IP.To4() != nil {
			return ipNet.IP
		}
	}
	return nil
}

// readLoop answers M-SEARCH requests with a unicast 200 OK response per
// advertised NT, the same set NOTIFY uses.
func (s *Server) readLoop() {
	buf := make([]byte, 2048)
	for {
		n, _, src, err := s.conn.ReadFrom(buf)
		if err != nil {
			return
		}
		req := string(buf[:n])
		if !strings.HasPrefix(req, "M-SEARCH") {
			continue
		}
		udpSrc, ok := src.(*net.UDPAddr)
		if !ok {
			continue
		}
		s.respondSearch(udpSrc)
	}
}

func (s *Server) respondSearch(dst *net.UDPAddr) {
	localIP := s.localIP()
	if localIP == nil {
		return
	}
	for _, nt := range notificationTypes {
		advNT := nt
		if advNT == "" {
			advNT = "uuid:" + s.UUID
		}
		msg := "HTTP/1.1 200 OK\r\n" +
			"CACHE-CONTROL: max-age=1800\r\n" +
			"EXT:\r\n" +
			"LOCATION: " + s.Location(localIP) + "\r\n" +
			"SERVER: " + s.Server + "\r\n" +
			"ST: " + advNT + "\r\n" +
			"USN: " + s.usn(nt) + "\r\n\r\n"
		if _, err := s.conn.WriteTo([]byte(msg), nil, dst); err != nil {
			s.Logger.Levelf(log.Debug, "ssdp: search response: %v", err)
		}
	}
}
