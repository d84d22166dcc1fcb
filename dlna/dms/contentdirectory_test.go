package dms

import (
	"encoding/xml"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anacrolix/log"

	"github.com/kevincox/rustymedia/internal/cache"
	"github.com/kevincox/rustymedia/internal/content"
	"github.com/kevincox/rustymedia/internal/transcode"
)

// browseEnvelope unmarshals a BrowseResponse SOAP envelope. Result is
// plain XML-escaped text per the ContentDirectory convention; decoding it
// through encoding/xml (rather than scanning the raw body) un-escapes it
// back to literal DIDL-Lite markup.
type browseEnvelope struct {
	XMLName xml.Name `xml:"Envelope"`
	Body    struct {
		BrowseResponse struct {
			Result string `xml:"Result"`
		} `xml:"BrowseResponse"`
	} `xml:"Body"`
}

func decodeBrowseResult(t *testing.T, body []byte) string {
	t.Helper()
	var env browseEnvelope
	require.NoError(t, xml.Unmarshal(body, &env))
	return env.Body.BrowseResponse.Result
}

func newTestServer(t *testing.T, roots map[string]string) *Server {
	t.Helper()
	tree := content.NewTree()
	// Map iteration order is random, so roots register in no fixed order
	// here; a test where root order matters builds its own tree instead
	// (see TestBrowseRootListsRegisteredRootsInOrder).
	for name, path := range roots {
		require.NoError(t, tree.AddRoot(name, path))
	}

	engine := &transcode.Engine{Logger: log.Default}
	c, err := cache.New(engine, 8)
	require.NoError(t, err)

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })

	srv := &Server{
		Tree:         tree,
		Cache:        c,
		FriendlyName: "test server",
		Logger:       log.Default,
		HTTPConn:     l,
		Interfaces:   []net.Interface{}, // no SSDP in unit tests
	}
	require.NoError(t, srv.Init())
	return srv
}

func soapRequest(t *testing.T, srv *Server, action, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, serviceControlURL, strings.NewReader(body))
	req.Header.Set("Soapaction", `"urn:schemas-upnp-org:service:ContentDirectory:1#`+action+`"`)
	req.Header.Set("Content-Type", `text/xml; charset="utf-8"`)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	return w
}

const browseRootBody = `<?xml version="1.0"?>
<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/">
<s:Body>
<u:Browse xmlns:u="urn:schemas-upnp-org:service:ContentDirectory:1">
<ObjectID>0</ObjectID>
<BrowseFlag>BrowseDirectChildren</BrowseFlag>
<Filter>*</Filter>
<StartingIndex>0</StartingIndex>
<RequestedCount>0</RequestedCount>
<SortCriteria></SortCriteria>
</u:Browse>
</s:Body>
</s:Envelope>`

func TestBrowseRootListsRegisteredRootsInOrder(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()

	tree := content.NewTree()
	require.NoError(t, tree.AddRoot("Movies", dirA))
	require.NoError(t, tree.AddRoot("Shows", dirB))

	engine := &transcode.Engine{Logger: log.Default}
	c, err := cache.New(engine, 8)
	require.NoError(t, err)
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })

	srv := &Server{
		Tree: tree, Cache: c,
		FriendlyName: "test", Logger: log.Default, HTTPConn: l,
		Interfaces: []net.Interface{},
	}
	require.NoError(t, srv.Init())

	w := soapRequest(t, srv, "Browse", browseRootBody)
	require.Equal(t, http.StatusOK, w.Code)

	result := decodeBrowseResult(t, w.Body.Bytes())
	iMovies := strings.Index(result, "Movies")
	iShows := strings.Index(result, "Shows")
	require.Greater(t, iMovies, -1)
	require.Greater(t, iShows, -1)
	assert.Less(t, iMovies, iShows, "roots must list in registration order")
	assert.Contains(t, result, "object.container.storageFolder")
	assert.Contains(t, result, `parentID="0"`)
}

func TestBrowseUnknownObjectIsNoSuchObjectFault(t *testing.T) {
	srv := newTestServer(t, map[string]string{"r": t.TempDir()})
	body := strings.ReplaceAll(browseRootBody, "<ObjectID>0</ObjectID>", "<ObjectID>r/missing.mkv</ObjectID>")
	w := soapRequest(t, srv, "Browse", body)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Fault")
	assert.Contains(t, w.Body.String(), "<errorCode>701</errorCode>")
}

func TestBrowseItemResourceURIPercentEncodesID(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "clip.mkv"), []byte("x"), 0o644))
	srv := newTestServer(t, map[string]string{"Local": dir})

	body := strings.ReplaceAll(browseRootBody, "<ObjectID>0</ObjectID>", "<ObjectID>Local</ObjectID>")
	w := soapRequest(t, srv, "Browse", body)
	require.Equal(t, http.StatusOK, w.Code)

	result := decodeBrowseResult(t, w.Body.Bytes())
	// The id "Local/clip.mkv" must appear as one percent-encoded path
	// segment, not as nested URL segments.
	assert.Contains(t, result, "/video/Local%2Fclip.mkv")
	assert.NotContains(t, result, "/video/Local/clip.mkv")
}

func TestUnknownSOAPActionReturnsClientFault(t *testing.T) {
	srv := newTestServer(t, map[string]string{"r": t.TempDir()})
	w := soapRequest(t, srv, "Search", browseRootBody)
	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "s:Client")
	assert.Contains(t, body, "Fault")
}

func TestHumanOrderedDirectoryListing(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"clip 10.mkv", "clip 07.mkv", "clip 2.mkv", "clip 7.mkv"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	srv := newTestServer(t, map[string]string{"r": dir})

	body := strings.ReplaceAll(browseRootBody, "<ObjectID>0</ObjectID>", "<ObjectID>r</ObjectID>")
	w := soapRequest(t, srv, "Browse", body)
	require.Equal(t, http.StatusOK, w.Code)

	result := decodeBrowseResult(t, w.Body.Bytes())
	order := []string{"clip 2.mkv", "clip 7.mkv", "clip 07.mkv", "clip 10.mkv"}
	last := -1
	for _, name := range order {
		i := strings.Index(result, name)
		require.Greater(t, i, -1, "missing %q in response", name)
		assert.Greater(t, i, last, "%q out of human order", name)
		last = i
	}
}
