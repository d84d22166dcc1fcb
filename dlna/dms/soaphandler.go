package dms

import (
	"encoding/xml"
	"fmt"
	"net/http"

	"github.com/kevincox/rustymedia/dlna/soap"
	"github.com/kevincox/rustymedia/dlna/upnp"
	"github.com/kevincox/rustymedia/internal/metrics"
)

func (s *Server) handleSOAP(w http.ResponseWriter, r *http.Request) {
	sa, err := upnp.ParseActionHTTPHeader(r.Header.Get("SOAPACTION"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var env soap.Envelope
	if err := xml.NewDecoder(r.Body).Decode(&env); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	metrics.SOAPRequests.WithLabelValues(sa.ServiceURN.Type, sa.Action).Inc()

	w.Header().Set("Content-Type", `text/xml; charset="utf-8"`)
	w.Header().Set("Ext", "")
	w.Header().Set("Server", serverField)

	respXML, status := s.dispatchSOAP(sa, env.Body.Action, r)
	w.WriteHeader(status)
	w.Write(respXML)
}

func (s *Server) dispatchSOAP(sa upnp.SoapAction, actionXML []byte, r *http.Request) ([]byte, int) {
	svc, ok := s.services[sa.ServiceURN.Type]
	if !ok {
		return soapFault(upnp.Errorf(upnp.InvalidActionErrorCode, "unknown service %q", sa.ServiceURN.Type))
	}
	args, err := svc.Handle(sa.Action, actionXML, r)
	if err != nil {
		return soapFault(err)
	}
	respXML := marshalSOAPResponse(sa, args)
	envelope := fmt.Sprintf(
		`<?xml version="1.0" encoding="utf-8" standalone="yes"?>`+
			`<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/" s:encodingStyle="http://schemas.xmlsoap.org/soap/encoding/">`+
			`<s:Body>%s</s:Body></s:Envelope>`, respXML)
	return []byte(envelope), http.StatusOK
}

func marshalSOAPResponse(sa upnp.SoapAction, args [][2]string) []byte {
	soapArgs := make([]soap.Arg, 0, len(args))
	for _, a := range args {
		soapArgs = append(soapArgs, soap.Arg{XMLName: xml.Name{Local: a[0]}, Value: a[1]})
	}
	inner, _ := xml.Marshal(soapArgs)
	return []byte(fmt.Sprintf(`<u:%[1]sResponse xmlns:u="%[2]s">%[3]s</u:%[1]sResponse>`,
		sa.Action, sa.ServiceURN.String(), inner))
}

// soapFault renders a SOAP 1.1 fault body. rustymedia answers faults with
// 200 OK (the fault is carried entirely in the body) rather than the 500
// a strict SOAP 1.1 HTTP binding would use; control points accept either.
func soapFault(err error) ([]byte, int) {
	detail := upnp.ConvertError(err)
	fault := soap.NewFault("UPnPError", detail)
	body, _ := xml.Marshal(fault)
	envelope := fmt.Sprintf(
		`<?xml version="1.0" encoding="utf-8" standalone="yes"?>`+
			`<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/" s:encodingStyle="http://schemas.xmlsoap.org/soap/encoding/">`+
			`<s:Body>%s</s:Body></s:Envelope>`, body)
	return []byte(envelope), http.StatusOK
}
