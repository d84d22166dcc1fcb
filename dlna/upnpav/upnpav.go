// Package upnpav implements the DIDL-Lite XML vocabulary ContentDirectory
// Browse responses are built from: containers, items, and the resources
// (actual playable URLs) hanging off an item.
package upnpav

import "encoding/xml"

// DIDLLite is the root element of a ContentDirectory Browse result.
type DIDLLite struct {
	XMLName    xml.Name    `xml:"urn:schemas-upnp-org:metadata-1-0/DIDL-Lite/ DIDL-Lite"`
	NSDC       string      `xml:"xmlns:dc,attr"`
	NSUPnP     string      `xml:"xmlns:upnp,attr"`
	Containers []Container `xml:"container"`
	Items      []Item      `xml:"item"`
}

// Object is the metadata shared by every DIDL-Lite container and item.
type Object struct {
	ID         string `xml:"id,attr"`
	ParentID   string `xml:"parentID,attr"`
	Restricted int    `xml:"restricted,attr"`
	Title      string `xml:"dc:title"`
	Class      string `xml:"upnp:class"`

	Artist string `xml:"upnp:artist,omitempty"`
	Album  string `xml:"upnp:album,omitempty"`
	Genre  string `xml:"upnp:genre,omitempty"`
}

// Container is a browsable folder: a directory, or the virtual root.
type Container struct {
	Object
	ChildCount int `xml:"childCount,attr"`
}

// Item is a leaf object: something with one or more playable Resources.
type Item struct {
	Object
	Resources []Resource `xml:"res"`
}

// Resource is one playable rendition of an Item: a URL plus the
// protocolInfo string describing its transport and media type.
type Resource struct {
	ProtocolInfo string `xml:"protocolInfo,attr"`
	Size         int64  `xml:"size,attr,omitempty"`
	Duration     string `xml:"duration,attr,omitempty"`
	Resolution   string `xml:"resolution,attr,omitempty"`
	URL          string `xml:",chardata"`
}
