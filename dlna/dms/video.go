package dms

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kevincox/rustymedia/dlna/dlnaflags"
	"github.com/kevincox/rustymedia/internal/device"
	"github.com/kevincox/rustymedia/internal/mediafmt"
	"github.com/kevincox/rustymedia/internal/metrics"
	"github.com/kevincox/rustymedia/internal/transcode"
)

// handleVideo serves an object's bytes, transcoding through the cache
// when the renderer's profile can't accept the source format as-is.
func (s *Server) handleVideo(w http.ResponseWriter, r *http.Request) {
	// chi routes on the escaped path, so ids with %2F arrive still
	// percent-encoded here.
	id, err := url.PathUnescape(chi.URLParam(r, "*"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	obj, err := s.Tree.Lookup(id)
	if err != nil || obj.IsDir() {
		http.NotFound(w, r)
		return
	}

	source, err := mediafmt.Probe(r.Context(), obj.ProbeInput())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dev := device.Identify(r)

	transcoded := !mediafmt.Compatible(source, dev)
	var media transcode.Media
	if !transcoded {
		media = transcode.NewFileMedia(obj.FSPath())
	} else {
		target := mediafmt.Plan(source, dev)
		media, err = s.Cache.GetOrBuild(r.Context(), obj, source, target)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}

	sz := media.Size()
	start, end, status := parseRange(r.Header.Get("Range"), sz)
	w.Header().Set("Accept-Ranges", "bytes")
	// Always application/octet-stream, regardless of the planned target
	// container: renderers key off protocolInfo, not this header.
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("contentFeatures.dlna.org", dlnaflags.ContentFeatures{
		SupportRange: true,
		Transcoded:   transcoded,
	}.String())
	total, totalKnown := sz.Total.Value, sz.Total.Ok
	if status == http.StatusPartialContent {
		totalField := "*"
		if totalKnown {
			totalField = strconv.FormatInt(total, 10)
		}
		w.Header().Set("Content-Range", fmt.Sprintf("bytes %d-%d/%s", start, end-1, totalField))
	}
	if end != transcode.Unbounded {
		w.Header().Set("Content-Length", strconv.FormatInt(end-start, 10))
	} else if totalKnown {
		w.Header().Set("Content-Length", strconv.FormatInt(total, 10))
	}
	w.WriteHeader(status)

	if r.Method == http.MethodHead {
		return
	}

	body, err := media.ReadRange(r.Context(), start, end)
	if err != nil {
		return
	}
	defer body.Close()
	n, _ := copyBody(w, body)
	metrics.BytesStreamed.Add(float64(n))
}

// parseRange resolves a Range header against a Media's current Size,
// returning a half-open [start, end) byte range and the status code to
// answer with:
//   - "start-end": if start < available, use (start, min(end, available-1)).
//   - "start-": if start < available, use (start, available-1).
//   - "-suffix": ignored, always treated as no range.
//
// Any header that doesn't satisfy its start-against-available check falls
// back to the whole (possibly still-growing) body.
func parseRange(header string, size transcode.Size) (start, end int64, status int) {
	if header == "" {
		return 0, transcode.Unbounded, http.StatusOK
	}
	spec := strings.TrimPrefix(header, "bytes=")
	if strings.HasPrefix(spec, "-") {
		return 0, transcode.Unbounded, http.StatusOK
	}
	parts := strings.SplitN(spec, "-", 2)
	if len(parts) != 2 {
		return 0, transcode.Unbounded, http.StatusOK
	}
	s, errS := strconv.ParseInt(parts[0], 10, 64)
	if errS != nil || s >= size.Available {
		return 0, transcode.Unbounded, http.StatusOK
	}
	if parts[1] == "" {
		return s, size.Available, http.StatusPartialContent
	}
	e, errE := strconv.ParseInt(parts[1], 10, 64)
	if errE != nil {
		return s, size.Available, http.StatusPartialContent
	}
	end = e + 1
	if end > size.Available {
		end = size.Available
	}
	return s, end, http.StatusPartialContent
}

func copyBody(w http.ResponseWriter, r io.Reader) (int64, error) {
	buf := make([]byte, transcode.ChunkSize)
	var total int64
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return total, werr
			}
			total += int64(n)
		}
		if err != nil {
			if err == io.EOF {
				return total, nil
			}
			return total, err
		}
	}
}
