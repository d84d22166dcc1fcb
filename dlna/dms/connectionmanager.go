package dms

import (
	"net/http"

	"github.com/kevincox/rustymedia/dlna/upnp"
)

// connectionManagerService is the minimal ConnectionManager every UPnP
// MediaServer must expose; rustymedia has no real connection negotiation
// to do, so it just reports the one always-available source protocol set.
type connectionManagerService struct {
	server *Server
}

func (cm *connectionManagerService) Handle(action string, argsXML []byte, r *http.Request) ([][2]string, error) {
	switch action {
	case "GetProtocolInfo":
		return [][2]string{
			{"Source", "http-get:*:video/x-matroska:*,http-get:*:video/mp4:*"},
			{"Sink", ""},
		}, nil
	case "GetCurrentConnectionIDs":
		return [][2]string{{"ConnectionIDs", "0"}}, nil
	case "GetCurrentConnectionInfo":
		return [][2]string{
			{"RcsID", "-1"},
			{"AVTransportID", "-1"},
			{"ProtocolInfo", ""},
			{"PeerConnectionManager", ""},
			{"PeerConnectionID", "-1"},
			{"Direction", "Output"},
			{"Status", "OK"},
		}, nil
	default:
		return nil, upnp.Errorf(upnp.InvalidActionErrorCode, "unknown ConnectionManager action %q", action)
	}
}
