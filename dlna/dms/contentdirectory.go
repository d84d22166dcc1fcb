package dms

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/kevincox/rustymedia/dlna/dlnaflags"
	"github.com/kevincox/rustymedia/dlna/upnp"
	"github.com/kevincox/rustymedia/dlna/upnpav"
	"github.com/kevincox/rustymedia/internal/content"
)

// contentDirectoryService answers Browse requests by rendering DIDL-Lite
// from the content tree.
type contentDirectoryService struct {
	server *Server
}

type browseRequest struct {
	XMLName        xml.Name `xml:"Browse"`
	ObjectID       string   `xml:"ObjectID"`
	BrowseFlag     string   `xml:"BrowseFlag"`
	Filter         string   `xml:"Filter"`
	StartingIndex  int      `xml:"StartingIndex"`
	RequestedCount int      `xml:"RequestedCount"`
	SortCriteria   string   `xml:"SortCriteria"`
}

func (cd *contentDirectoryService) Handle(action string, argsXML []byte, r *http.Request) ([][2]string, error) {
	switch action {
	case "Browse":
		return cd.browse(argsXML, r)
	default:
		return nil, upnp.Errorf(upnp.InvalidActionErrorCode, "unknown ContentDirectory action %q", action)
	}
}

func (cd *contentDirectoryService) browse(argsXML []byte, r *http.Request) ([][2]string, error) {
	var req browseRequest
	if err := xml.Unmarshal(argsXML, &req); err != nil {
		return nil, upnp.Errorf(upnp.InvalidArgsErrorCode, "malformed Browse request: %v", err)
	}

	tree := cd.server.Tree
	obj, err := tree.Lookup(req.ObjectID)
	if err != nil {
		return nil, upnp.Errorf(upnp.NoSuchObjectErrorCode, "%v", err)
	}

	var didl upnpav.DIDLLite
	didl.NSDC = "http://purl.org/dc/elements/1.1/"
	didl.NSUPnP = "urn:schemas-upnp-org:metadata-1-0/upnp/"

	var matches int
	switch req.BrowseFlag {
	case "BrowseMetadata":
		cd.appendObject(&didl, tree, obj, r)
		matches = 1
	default: // BrowseDirectChildren
		children, err := tree.RelevantChildren(obj)
		if err != nil {
			return nil, upnp.Errorf(upnp.ActionFailedErrorCode, "%v", err)
		}
		matches = len(children)
		children = page(children, req.StartingIndex, req.RequestedCount)
		for _, c := range children {
			cd.appendObject(&didl, tree, c, r)
		}
	}

	body, err := xml.Marshal(didl)
	if err != nil {
		return nil, err
	}

	return [][2]string{
		{"Result", string(body)},
		{"NumberReturned", strconv.Itoa(len(didl.Containers) + len(didl.Items))},
		{"TotalMatches", strconv.Itoa(matches)},
		{"UpdateID", "0"},
	}, nil
}

func page(objs []*content.Object, start, count int) []*content.Object {
	if start < 0 {
		start = 0
	}
	if start >= len(objs) {
		return nil
	}
	end := len(objs)
	if count > 0 && start+count < end {
		end = start + count
	}
	return objs[start:end]
}

func (cd *contentDirectoryService) appendObject(didl *upnpav.DIDLLite, tree *content.Tree, obj *content.Object, r *http.Request) {
	base := upnpav.Object{
		ID:         obj.ID(),
		ParentID:   obj.ParentID(),
		Restricted: 1,
		Title:      obj.Title(),
		Class:      obj.DLNAClass(),
	}

	if obj.IsDir() {
		count := 0
		if children, err := tree.RelevantChildren(obj); err == nil {
			count = len(children)
		}
		didl.Containers = append(didl.Containers, upnpav.Container{Object: base, ChildCount: count})
		return
	}

	item := upnpav.Item{Object: base}
	if obj.FileType() == content.Video {
		item.Resources = cd.videoResources(obj, r)
	}
	didl.Items = append(didl.Items, item)
}

func (cd *contentDirectoryService) videoResources(obj *content.Object, r *http.Request) []upnpav.Resource {
	// Whether this particular renderer needs a transcode is only decided
	// when it actually fetches /video/ with its own User-Agent; Browse
	// results stay probe-free so listing a directory never spawns ffprobe.
	features := dlnaflags.ContentFeatures{
		SupportRange: true,
	}
	// obj.ID() is itself '/'-separated (root name + relative path); the
	// whole id is percent-encoded as one path segment (url.PathEscape
	// turns '/' into %2F), not joined as nested URL path segments the
	// way url.URL.Path would render it.
	resURL := fmt.Sprintf("http://%s%s%s", r.Host, videoPathPrefix, url.PathEscape(obj.ID()))
	return []upnpav.Resource{{
		// The mimetype is fixed for every item resource, independent of
		// any planned target format.
		ProtocolInfo: fmt.Sprintf("http-get:*:video/x-matroska:%s", features),
		URL:          resURL,
	}}
}
