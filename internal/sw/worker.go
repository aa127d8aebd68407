package sw

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cockroachdb/pebble"
)

const assetPrefix = "asset:"

// NetworkRule matches requests that must always hit the network.
// Empty fields match everything, so {Host:"x"} matches any path on x.
type NetworkRule struct {
	HostContains string
	PathContains string
}

func (r NetworkRule) matches(host, path string) bool {
	if r.HostContains != "" && !strings.Contains(host, r.HostContains) {
		return false
	}
	if r.PathContains != "" && !strings.Contains(path, r.PathContains) {
		return false
	}
	return true
}

type Options struct {
	// Version tags the cache generation; Activate garbage-collects
	// every other generation.
	Version string
	// Manifest lists the static shell resources precached at install.
	Manifest []string
	// NetworkOnly lists the live-data endpoints that are never served
	// from cache: realtime stream, object-store API, object-store
	// binaries.
	NetworkOnly []NetworkRule
	// Client fetches manifest resources; defaults to a plain client
	// with a timeout.
	Client *http.Client
}

// Worker is the offline cache controller. It runs next to the chat
// core but shares nothing with it beyond the requests flowing through
// its handler; the pebble store underneath is its private state.
type Worker struct {
	db          *pebble.DB
	version     string
	manifest    []string
	networkOnly []NetworkRule
	client      *http.Client
}

type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"contentType"`
	Body        []byte `json:"body"`
}

// Open opens (or creates) the cache store at path.
func Open(path string, opts Options) (*Worker, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache store: %w", err)
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}

	return &Worker{
		db:          db,
		version:     opts.Version,
		manifest:    opts.Manifest,
		networkOnly: opts.NetworkOnly,
		client:      client,
	}, nil
}

func (w *Worker) Close() error {
	return w.db.Close()
}

func (w *Worker) key(rawURL string) []byte {
	return []byte(assetPrefix + w.version + ":" + cacheKeyFor(rawURL))
}

// cacheKeyFor reduces a manifest URL to the form incoming requests are
// matched on: path plus query. Cross-origin assets keep their path too;
// the gateway never receives requests for them, caching is for
// completeness of the shell manifest.
func cacheKeyFor(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	key := u.Path
	if key == "" {
		key = "/"
	}
	if u.RawQuery != "" {
		key += "?" + u.RawQuery
	}
	return key
}

// Install populates the current generation from the manifest. A
// resource that cannot be fetched or stored is logged and skipped;
// installation always proceeds.
func (w *Worker) Install(ctx context.Context) {
	log.Printf("sw: installing cache generation %s", w.version)
	for _, res := range w.manifest {
		if err := w.cacheOne(ctx, res); err != nil {
			log.Printf("sw: failed to cache %s: %v", res, err)
		}
	}
}

func (w *Worker) cacheOne(ctx context.Context, rawURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	data, err := json.Marshal(cachedResponse{
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	})
	if err != nil {
		return err
	}

	return w.db.Set(w.key(rawURL), data, pebble.Sync)
}

// Activate deletes every cache generation whose tag differs from the
// current version.
func (w *Worker) Activate() error {
	iter, err := w.db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return err
	}
	defer iter.Close()

	keep := []byte(assetPrefix + w.version + ":")
	prefix := []byte(assetPrefix)

	batch := w.db.NewBatch()
	for iter.SeekGE(prefix); iter.Valid(); iter.Next() {
		if !bytes.HasPrefix(iter.Key(), prefix) {
			break
		}
		if bytes.HasPrefix(iter.Key(), keep) {
			continue
		}
		key := append([]byte(nil), iter.Key()...)
		if err := batch.Delete(key, nil); err != nil {
			batch.Close()
			return err
		}
	}

	if err := batch.Commit(pebble.Sync); err != nil {
		return fmt.Errorf("failed to delete stale cache generations: %w", err)
	}
	return nil
}

func (w *Worker) lookup(key string) (*cachedResponse, bool) {
	data, closer, err := w.db.Get([]byte(assetPrefix + w.version + ":" + key))
	if err != nil {
		return nil, false
	}
	defer closer.Close()

	var cached cachedResponse
	if err := json.Unmarshal(data, &cached); err != nil {
		log.Printf("sw: corrupt cache entry for %s: %v", key, err)
		return nil, false
	}
	return &cached, true
}

func (w *Worker) isNetworkOnly(r *http.Request) bool {
	host := r.Host
	if r.URL.Host != "" {
		host = r.URL.Host
	}
	for _, rule := range w.networkOnly {
		if rule.matches(host, r.URL.Path) {
			return true
		}
	}
	return false
}

// Handler intercepts fetches. Live-data requests bypass the cache
// entirely; everything else is cache-first with a network fallback.
// Misses are not written back, the cache is populated at install time
// only.
func (w *Worker) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		if w.isNetworkOnly(r) {
			next.ServeHTTP(rw, r)
			return
		}

		key := r.URL.Path
		if r.URL.RawQuery != "" {
			key += "?" + r.URL.RawQuery
		}

		if cached, ok := w.lookup(key); ok {
			if cached.ContentType != "" {
				rw.Header().Set("Content-Type", cached.ContentType)
			}
			rw.WriteHeader(cached.Status)
			rw.Write(cached.Body)
			return
		}

		next.ServeHTTP(rw, r)
	})
}
