// Package soap implements the small slice of SOAP 1.1 envelope handling
// that UPnP control requires: a request envelope wrapping one action, and
// a response envelope wrapping either the action's output arguments or a
// UPnPError fault.
package soap

import "encoding/xml"

// Envelope is a SOAP request envelope. Only the action body is decoded;
// everything else about the wrapper is fixed by the UPnP spec.
type Envelope struct {
	XMLName xml.Name `xml:"http://schemas.xmlsoap.org/soap/envelope/ Envelope"`
	Body    Body     `xml:"Body"`
}

// Body holds the raw bytes of whatever action element the envelope wraps;
// the service dispatcher decodes it against the action's own argument
// struct once it knows which action was invoked.
type Body struct {
	Action []byte `xml:",innerxml"`
}

// Arg is one SOAP response argument: an XML element named after the
// argument with its string value as content.
type Arg struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

// Fault is a SOAP 1.1 fault body used to report a UPnP error back to the
// control point.
type Fault struct {
	XMLName     xml.Name `xml:"http://schemas.xmlsoap.org/soap/envelope/ Fault"`
	FaultCode   string   `xml:"faultcode"`
	FaultString string   `xml:"faultstring"`
	Detail      Detail   `xml:"detail"`
}

// Detail wraps the UPnPError payload inside a SOAP fault.
type Detail struct {
	UPnPError UPnPErrorDetail `xml:"urn:schemas-upnp-org:control-1-0 UPnPError"`
}

// UPnPErrorDetail is the UPnP-defined error body: a numeric code plus a
// human-readable description.
type UPnPErrorDetail struct {
	ErrorCode        int    `xml:"errorCode"`
	ErrorDescription string `xml:"errorDescription"`
}

// NewFault builds a SOAP fault carrying the given UPnP error code and
// description, with faultcode "s:Client" and the given faultstring
// (UPnP control points expect "UPnPError").
func NewFault(faultString string, err UPnPErrorDetail) Fault {
	return Fault{
		FaultCode:   "s:Client",
		FaultString: faultString,
		Detail:      Detail{UPnPError: err},
	}
}
