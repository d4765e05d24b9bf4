// Package imagecache lazily generates and caches exercise graphics.
package imagecache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/jislas1039-svg/higher-self/internal/config"
	"github.com/jislas1039-svg/higher-self/internal/logger"
	"github.com/jislas1039-svg/higher-self/internal/wellness"
)

const defaultPrefetchConcurrency = 2

var errNotGenerated = errors.New("graphic not generated")

// Generator produces an exercise graphic as a data URI.
type Generator interface {
	GenerateExerciseGraphic(ctx context.Context, name, description string) (string, bool)
}

// Store persists generated images.
type Store interface {
	Image(key string) (string, bool)
	PutImage(ctx context.Context, key, dataURI string)
}

// Cache guarantees at most one in-flight generation per key.
type Cache struct {
	gen    Generator
	store  Store
	log    *logger.Logger
	keying string

	group singleflight.Group

	mu         sync.Mutex
	generating map[string]struct{}
}

func New(gen Generator, store Store, log *logger.Logger, keying string) *Cache {
	if keying != config.KeyingByContent {
		keying = config.KeyingByName
	}
	return &Cache{
		gen:        gen,
		store:      store,
		log:        log.With("service", "ImageCache"),
		keying:     keying,
		generating: map[string]struct{}{},
	}
}

// Key returns the cache key for an exercise. Name keying matches what is
// already persisted; content keying hashes name and description so that
// two exercises sharing a name do not collide.
func (c *Cache) Key(ex wellness.Exercise) string {
	if c.keying == config.KeyingByContent {
		sum := sha256.Sum256([]byte(ex.Name + "\x00" + ex.Description))
		return "sha256:" + hex.EncodeToString(sum[:12])
	}
	return ex.Name
}

// Get returns a cached image without generating.
func (c *Cache) Get(ex wellness.Exercise) (string, bool) {
	return c.store.Image(c.Key(ex))
}

// Generating reports whether a generation for ex is in flight.
func (c *Cache) Generating(ex wellness.Exercise) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.generating[c.Key(ex)]
	return ok
}

// Expand returns the cached image or generates it. Concurrent callers for
// the same key share one generation.
func (c *Cache) Expand(ctx context.Context, ex wellness.Exercise) (string, bool) {
	key := c.Key(ex)
	if uri, ok := c.store.Image(key); ok {
		return uri, true
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// A caller that lost the race to a finished generation lands here.
		if uri, ok := c.store.Image(key); ok {
			return uri, nil
		}

		c.mark(key, true)
		defer c.mark(key, false)

		uri, ok := c.gen.GenerateExerciseGraphic(ctx, ex.Name, ex.Description)
		if !ok {
			return "", errNotGenerated
		}
		c.store.PutImage(ctx, key, uri)
		return uri, nil
	})
	if err != nil {
		c.log.Debug("exercise graphic unavailable", "exercise", ex.Name)
		return "", false
	}
	return v.(string), true
}

// Prefetch expands every exercise of a day with bounded concurrency. It
// returns the number of images available afterwards.
func (c *Cache) Prefetch(ctx context.Context, exercises []wellness.Exercise, concurrency int) (int, error) {
	if concurrency < 1 {
		concurrency = defaultPrefetchConcurrency
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var (
		mu        sync.Mutex
		available int
	)
	for _, ex := range exercises {
		ex := ex
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			if _, ok := c.Expand(gctx, ex); ok {
				mu.Lock()
				available++
				mu.Unlock()
			}
			return nil
		})
	}
	err := g.Wait()
	return available, err
}

func (c *Cache) mark(key string, on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if on {
		c.generating[key] = struct{}{}
	} else {
		delete(c.generating, key)
	}
}
