// Package cache memoizes transcodes by source object so that two readers
// asking for the same target format share one ffmpeg process instead of
// racing to start their own. A cached transcode is reused only for an
// identical target format, not for another format the device would also
// accept.
package cache

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/kevincox/rustymedia/internal/content"
	"github.com/kevincox/rustymedia/internal/mediafmt"
	"github.com/kevincox/rustymedia/internal/metrics"
	"github.com/kevincox/rustymedia/internal/transcode"
)

// entry pairs a produced Media with the format it was built for; a later
// lookup matches it only against an equal target format.
type entry struct {
	format mediafmt.Format
	media  *transcode.MediaFile
}

// Cache holds a small number of in-flight or recently-finished transcodes
// per source object. Eviction drops the cache's own reference; readers
// that are still mid-stream keep the MediaFile alive via their own
// Retain.
type Cache struct {
	engine   *transcode.Engine
	capacity int

	mu      sync.Mutex
	entries *lru.Cache[string, []entry]

	flight singleflight.Group
}

// New builds a Cache holding at most size source objects' worth of
// transcodes. Oldest-used is evicted first.
func New(engine *transcode.Engine, size int) (*Cache, error) {
	entries, err := lru.New[string, []entry](size)
	if err != nil {
		return nil, fmt.Errorf("constructing transcode cache: %w", err)
	}
	return &Cache{engine: engine, capacity: size, entries: entries}, nil
}

// GetOrBuild returns a Media built for exactly target, building it via the
// engine if nothing cached was built for that format. Concurrent calls for the
// same object and target share a single ffmpeg invocation.
func (c *Cache) GetOrBuild(ctx context.Context, obj *content.Object, source, target mediafmt.Format) (transcode.Media, error) {
	if m, ok := c.lookup(obj.ID(), target); ok {
		metrics.CacheHits.Inc()
		return m, nil
	}

	key := obj.ID() + "|" + target.Container.String() + "|" + formatKey(target)
	v, err, _ := c.flight.Do(key, func() (interface{}, error) {
		if m, ok := c.lookup(obj.ID(), target); ok {
			metrics.CacheHits.Inc()
			return m, nil
		}
		metrics.CacheMisses.Inc()
		metrics.TranscodesStarted.Inc()
		metrics.TranscodesActive.Inc()
		mf, err := c.engine.Transcode(ctx, obj.ProbeInput(), source, target)
		if err != nil {
			metrics.TranscodesActive.Dec()
			return nil, err
		}
		go func() {
			mf.Wait(context.Background())
			metrics.TranscodesActive.Dec()
		}()
		c.store(obj.ID(), target, mf)
		return transcode.Media(mf), nil
	})
	if err != nil {
		return nil, err
	}
	return v.(transcode.Media), nil
}

func (c *Cache) lookup(id string, target mediafmt.Format) (transcode.Media, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	list, ok := c.entries.Get(id)
	if !ok {
		return nil, false
	}
	for _, e := range list {
		if e.format == target {
			return e.media, true
		}
	}
	return nil, false
}

// store appends under id, evicting the least-recently-used key first if
// the cache is at capacity. Eviction happens here, by hand, rather than
// through the LRU's own overflow path: the cache's reference on each
// evicted MediaFile must be dropped (readers mid-stream hold their own),
// and the library's evict callback also fires on value replacement, which
// would release entries that are still cached.
func (c *Cache) store(id string, target mediafmt.Format, mf *transcode.MediaFile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	list, had := c.entries.Get(id)
	if !had && c.entries.Len() >= c.capacity {
		if _, old, ok := c.entries.RemoveOldest(); ok {
			for _, e := range old {
				e.media.Release()
			}
		}
	}
	list = append(list, entry{format: target, media: mf})
	c.entries.Add(id, list)
}

func formatKey(f mediafmt.Format) string {
	return f.Video.Value.String() + "/" + f.Audio.Value.String()
}
