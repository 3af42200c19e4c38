package carrier

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/funvibe/callsite/internal/diagnostics"
	"github.com/funvibe/callsite/internal/typesystem"
)

// Cache maps simplified shapes to synthesized classes.
//
// A class is generated at most once per shape and, once published, is never
// replaced or evicted. Requests for the same shape wait for the one in-flight
// generation; requests for different shapes do not block each other.
// A shape whose generation failed keeps failing with the same error.
//
// A Cache is meant to be created once at startup and shared.
type Cache struct {
	synth  Synthesizer
	logger *zap.Logger

	mu       sync.RWMutex
	classes  map[string]*Class
	failures map[string]error

	group       singleflight.Group
	generations atomic.Int64
}

// Option configures a Cache.
type Option func(*Cache)

// WithLogger sets the logger for cache misses and generation failures.
func WithLogger(l *zap.Logger) Option {
	return func(c *Cache) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewCache creates an empty cache backed by synth.
func NewCache(synth Synthesizer, opts ...Option) *Cache {
	c := &Cache{
		synth:    synth,
		logger:   zap.NewNop(),
		classes:  make(map[string]*Class),
		failures: make(map[string]error),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Lookup returns the class for shape, synthesizing it on first use.
func (c *Cache) Lookup(shape typesystem.SimpleShape) (*Class, error) {
	key := shape.Descriptor()
	if cls, ok, err := c.published(key); ok {
		return cls, err
	}

	v, err, shared := c.group.Do(key, func() (any, error) {
		// A generation may have completed between the fast path and Do.
		if cls, ok, err := c.published(key); ok {
			return cls, err
		}
		cls, err := c.generate(shape)

		c.mu.Lock()
		if err != nil {
			c.failures[key] = err
		} else {
			c.classes[key] = cls
		}
		c.mu.Unlock()
		return cls, err
	})
	if shared {
		c.logger.Debug("carrier generation shared", zap.String("shape", key))
	}
	cls, _ := v.(*Class)
	return cls, err
}

func (c *Cache) published(key string) (*Class, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if cls, ok := c.classes[key]; ok {
		return cls, true, nil
	}
	if err, ok := c.failures[key]; ok {
		return nil, true, err
	}
	return nil, false, nil
}

func (c *Cache) generate(shape typesystem.SimpleShape) (cls *Class, err error) {
	d := NewDescriptor(shape)
	c.generations.Add(1)
	c.logger.Debug("carrier cache miss",
		zap.String("shape", d.String()), zap.String("class", d.Name), zap.Stringer("id", d.ID))

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("synthesizer panicked: %v", r)
		}
		if err != nil {
			cls = nil
			err = diagnostics.NewGenerationError(d.String(), err)
			c.logger.Warn("carrier generation failed", zap.String("shape", d.String()), zap.Error(err))
		}
	}()

	cls, err = c.synth.Synthesize(d)
	if err != nil {
		return nil, err
	}
	if err := cls.validate(d); err != nil {
		return nil, err
	}
	return cls, nil
}

// Len returns the number of published classes.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.classes)
}

// Generations returns how many times the synthesizer has been invoked.
func (c *Cache) Generations() int64 {
	return c.generations.Load()
}

// Classes returns the published classes ordered by shape descriptor.
func (c *Cache) Classes() []*Class {
	c.mu.RLock()
	out := make([]*Class, 0, len(c.classes))
	for _, cls := range c.classes {
		out = append(out, cls)
	}
	c.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		return out[i].Descriptor.String() < out[j].Descriptor.String()
	})
	return out
}
