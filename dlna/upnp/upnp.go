// Package upnp holds the UPnP device/service description types and the
// small amount of protocol plumbing (SOAPACTION header parsing, error
// codes, device UUID formatting) that every service built on top of it
// shares.
package upnp

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// SpecVersion is the UPnP device description SpecVersion element.
type SpecVersion struct {
	Major int `xml:"major"`
	Minor int `xml:"minor"`
}

// Icon describes one entry in a device's iconList.
type Icon struct {
	Mimetype string `xml:"mimetype"`
	Width    int    `xml:"width"`
	Height   int    `xml:"height"`
	Depth    int    `xml:"depth"`
	URL      string `xml:"url"`
}

// Service is one entry in a device's serviceList: the URNs and URLs a
// control point needs to locate and invoke it.
type Service struct {
	ServiceType string `xml:"serviceType"`
	ServiceId   string `xml:"serviceId"`
	SCPDURL     string `xml:"SCPDURL"`
	ControlURL  string `xml:"controlURL"`
	EventSubURL string `xml:"eventSubURL"`

	SCPD string `xml:"-"`
}

// Device is the <device> element of a UPnP root device description.
type Device struct {
	DeviceType      string    `xml:"deviceType"`
	FriendlyName    string    `xml:"friendlyName"`
	Manufacturer    string    `xml:"manufacturer"`
	ModelName       string    `xml:"modelName"`
	UDN             string    `xml:"UDN"`
	PresentationURL string    `xml:"presentationURL,omitempty"`
	ServiceList     []Service `xml:"serviceList>service"`
	IconList        []Icon    `xml:"iconList>icon,omitempty"`
	VendorXML       string    `xml:",innerxml"`
}

// DeviceDesc is the root <root> element of a UPnP device description
// document.
type DeviceDesc struct {
	XMLName     xml.Name    `xml:"root"`
	NSDLNA      string      `xml:"xmlns:dlna,attr"`
	NSSEC       string      `xml:"xmlns:sec,attr"`
	Xmlns       string      `xml:"xmlns,attr"`
	SpecVersion SpecVersion `xml:"specVersion"`
	Device      Device      `xml:"device"`
}

// Variable is one state variable in a PropertySet event notification.
type Variable struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

// Property wraps a single Variable, matching the UPnP eventing schema's
// one-variable-per-property convention.
type Property struct {
	Variable Variable
}

// PropertySet is the body of a GENA NOTIFY event message.
type PropertySet struct {
	XMLName    xml.Name `xml:"urn:schemas-upnp-org:event-1-0 propertyset"`
	Space      string   `xml:"xmlns:e,attr"`
	Properties []Property
}

// SoapAction identifies a parsed SOAPACTION header: the service's URN
// and the action name within it.
type SoapAction struct {
	ServiceURN ServiceURN
	Action     string
}

// Type is the bare service type name (e.g. "ContentDirectory") used to
// key the server's service map.
func (sa SoapAction) Type() string { return sa.ServiceURN.Type }

// ServiceURN is a parsed "urn:schemas-upnp-org:service:X:N" service type.
type ServiceURN struct {
	Type    string
	Version int
}

func (u ServiceURN) String() string {
	return fmt.Sprintf("urn:schemas-upnp-org:service:%s:%d", u.Type, u.Version)
}

// ParseServiceType parses a serviceType string into its URN and version.
func ParseServiceType(s string) (ServiceURN, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 5 || parts[0] != "urn" || parts[2] != "service" {
		return ServiceURN{}, fmt.Errorf("upnp: malformed service type %q", s)
	}
	v, err := strconv.Atoi(parts[4])
	if err != nil {
		return ServiceURN{}, fmt.Errorf("upnp: malformed service version in %q: %w", s, err)
	}
	return ServiceURN{Type: parts[3], Version: v}, nil
}

// ParseActionHTTPHeader parses a SOAPACTION header of the form
// `"urn:schemas-upnp-org:service:X:N#ActionName"`.
func ParseActionHTTPHeader(s string) (SoapAction, error) {
	s = strings.Trim(s, `"`)
	i := strings.LastIndex(s, "#")
	if i < 0 {
		return SoapAction{}, fmt.Errorf("upnp: malformed SOAPACTION header %q", s)
	}
	urn, err := ParseServiceType(s[:i])
	if err != nil {
		return SoapAction{}, err
	}
	return SoapAction{ServiceURN: urn, Action: s[i+1:]}, nil
}

// FormatUUID formats 16 raw bytes as a canonical UUID string.
func FormatUUID(b []byte) string {
	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:16])
}

// rustymediaNamespace roots every deterministic device UUID. It is the
// standard OID namespace; the "rustymedia-dms:" prefix DeterministicUUID
// puts on the seed is what keeps these UUIDs apart from other
// SHA1-derived schemes using the same namespace.
var rustymediaNamespace = uuid.NameSpaceOID

// DeterministicUUID derives a stable device UUID from a seed string (the
// friendly name, typically), so restarts of the same server keep the
// same identity without persisting any state.
func DeterministicUUID(seed string) string {
	return uuid.NewSHA1(rustymediaNamespace, []byte("rustymedia-dms:"+seed)).String()
}
