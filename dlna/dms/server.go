// Package dms wires the content tree, format planner, transcode cache,
// and device profiles into the HTTP+SSDP surface a DLNA control point and
// renderer actually talk to.
package dms

import (
	"crypto/rand"
	"encoding/xml"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/anacrolix/log"

	"github.com/kevincox/rustymedia/dlna/upnp"
	"github.com/kevincox/rustymedia/internal/cache"
	"github.com/kevincox/rustymedia/internal/content"
)

const (
	rootDeviceType     = "urn:schemas-upnp-org:device:MediaServer:1"
	rootDeviceModel    = "rustymedia"
	serviceControlURL  = "/content/control"
	contentDescPath    = "/content/desc.xml"
	connectionDescPath = "/connection/desc.xml"
	rootDescPath       = "/root.xml"
	videoPathPrefix    = "/video/"
)

const serverField = "Linux/0.0 UPnP/1.0 rustymedia/0.1"

func init() {
	// The GENA verbs aren't in chi's default method table.
	chi.RegisterMethod("SUBSCRIBE")
	chi.RegisterMethod("UNSUBSCRIBE")
}

// Server is one running media server instance: one content tree, one
// HTTP listener, and one SSDP announcer per live network interface.
type Server struct {
	Tree           *content.Tree
	Cache          *cache.Cache
	FriendlyName   string
	UUID           string
	NotifyInterval time.Duration
	Logger         log.Logger

	HTTPConn   net.Listener
	Interfaces []net.Interface

	router        chi.Router
	rootDescXML   []byte
	services      map[string]UPnPService
	closed        chan struct{}
	mu            sync.Mutex
	subscriptions map[string]subscription
}

type subscription struct {
	callback []string
	timeout  time.Duration
}

// UPnPService handles SOAP actions for one service URN.
type UPnPService interface {
	Handle(action string, argsXML []byte, r *http.Request) (respArgs [][2]string, err error)
}

// Init prepares the server for Run: resolves defaults, builds the router,
// and renders the device description document.
func (s *Server) Init() error {
	if s.FriendlyName == "" {
		s.FriendlyName = defaultFriendlyName()
	}
	if s.UUID == "" {
		s.UUID = upnp.DeterministicUUID(s.FriendlyName)
	}
	if _, err := uuid.Parse(s.UUID); err != nil {
		return fmt.Errorf("dms: invalid server UUID %q: %w", s.UUID, err)
	}
	if s.HTTPConn == nil {
		l, err := net.Listen("tcp", "")
		if err != nil {
			return err
		}
		s.HTTPConn = l
	}
	if s.Interfaces == nil {
		ifs, err := net.Interfaces()
		if err != nil {
			return err
		}
		for _, i := range ifs {
			if i.Flags&(net.FlagUp|net.FlagMulticast) == net.FlagUp|net.FlagMulticast {
				s.Interfaces = append(s.Interfaces, i)
			}
		}
	}

	s.closed = make(chan struct{})
	s.subscriptions = map[string]subscription{}
	s.services = map[string]UPnPService{
		"ContentDirectory":  &contentDirectoryService{server: s},
		"ConnectionManager": &connectionManagerService{server: s},
	}

	desc, err := s.renderDeviceDesc()
	if err != nil {
		return err
	}
	s.rootDescXML = desc

	s.router = s.buildRouter()
	return nil
}

// Run serves HTTP and SSDP until Close is called.
func (s *Server) Run() error {
	go s.runSSDP()
	err := http.Serve(s.HTTPConn, s.router)
	select {
	case <-s.closed:
		return nil
	default:
		return err
	}
}

// Close stops HTTP and SSDP serving.
func (s *Server) Close() error {
	close(s.closed)
	return s.HTTPConn.Close()
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()
	r.Get("/", s.handleIndex)
	r.Get(rootDescPath, s.handleRootDesc)
	r.Get(contentDescPath, serveStaticXML(contentDirectorySCPD))
	r.Get(connectionDescPath, serveStaticXML(connectionManagerSCPD))
	r.Post(serviceControlURL, s.handleSOAP)
	r.Get(videoPathPrefix+"*", s.handleVideo)
	r.Handle("/metrics", promhttp.Handler())
	r.MethodFunc("SUBSCRIBE", "/content/event", s.handleEventSub)
	r.MethodFunc("UNSUBSCRIBE", "/content/event", s.handleEventSub)
	r.MethodFunc("SUBSCRIBE", "/connection/event", s.handleEventSub)
	r.MethodFunc("UNSUBSCRIBE", "/connection/event", s.handleEventSub)
	return r
}

func serveStaticXML(doc string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", `text/xml; charset="utf-8"`)
		http.ServeContent(w, r, "", time.Time{}, strings.NewReader(doc))
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "%s\nroot device description: %s\n", s.FriendlyName, rootDescPath)
}

func (s *Server) handleRootDesc(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", `text/xml; charset="utf-8"`)
	w.Header().Set("Server", serverField)
	w.Write(s.rootDescXML)
}

func (s *Server) renderDeviceDesc() ([]byte, error) {
	desc := upnp.DeviceDesc{
		Xmlns:       "urn:schemas-upnp-org:device-1-0",
		NSDLNA:      "urn:schemas-dlna-org:device-1-0",
		NSSEC:       "http://www.sec.co.kr/dlna",
		SpecVersion: upnp.SpecVersion{Major: 1, Minor: 0},
		Device: upnp.Device{
			DeviceType:   rootDeviceType,
			FriendlyName: s.FriendlyName,
			Manufacturer: "rustymedia",
			ModelName:    rootDeviceModel,
			UDN:          "uuid:" + s.UUID,
			ServiceList: []upnp.Service{
				{
					ServiceType: "urn:schemas-upnp-org:service:ContentDirectory:1",
					ServiceId:   "urn:upnp-org:serviceId:ContentDirectory",
					SCPDURL:     contentDescPath,
					ControlURL:  serviceControlURL,
					EventSubURL: "/content/event",
				},
				{
					ServiceType: "urn:schemas-upnp-org:service:ConnectionManager:1",
					ServiceId:   "urn:upnp-org:serviceId:ConnectionManager",
					SCPDURL:     connectionDescPath,
					ControlURL:  serviceControlURL,
					EventSubURL: "/connection/event",
				},
			},
			PresentationURL: "/",
		},
	}
	body, err := xml.MarshalIndent(desc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}

func defaultFriendlyName() string {
	host, _ := os.Hostname()
	user := os.Getenv("USER")
	if user == "" {
		user = os.Getenv("USERNAME")
	}
	if user == "" {
		return fmt.Sprintf("rustymedia: %s", host)
	}
	return fmt.Sprintf("rustymedia: %s@%s", user, host)
}

// randomSID mints a GENA subscription id; used for event subscriptions,
// which this server accepts but never actually fires (see handleEventSub).
func randomSID() string {
	var b [16]byte
	rand.Read(b[:])
	return "uuid:" + upnp.FormatUUID(b[:])
}
