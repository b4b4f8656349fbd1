package charts

import (
	"context"
	"time"

	"desmatamento/internal/cache"
	"desmatamento/internal/dashboard"
	"desmatamento/internal/log"
)

// Renderer caches rendered PNGs per chart and selection. The dataset is
// immutable for the life of the process so the selection key is enough.
type Renderer struct {
	cache  *cache.LRUCache[[]byte]
	logger *log.Logger
}

func NewRenderer(size int, ttl time.Duration, logger *log.Logger) *Renderer {
	if logger == nil {
		logger = log.Discard()
	}
	return &Renderer{
		cache:  cache.NewLRUCache[[]byte](size, ttl),
		logger: logger.WithComponent(log.ComponentCharts),
	}
}

// Cache exposes the PNG cache for the cleanup manager.
func (r *Renderer) Cache() *cache.LRUCache[[]byte] { return r.cache }

func (r *Renderer) PNG(ctx context.Context, name string, m dashboard.Model) ([]byte, error) {
	key := name + "|" + m.Selection.Key()
	if png, ok := r.cache.Get(key); ok {
		return png, nil
	}

	start := time.Now()
	png, err := RenderPNG(name, m)
	if err != nil {
		r.logger.ErrorContext(ctx, "Chart rendering failed",
			log.FieldChart, name,
			log.FieldOperation, log.OpRender,
			log.FieldError, err.Error())
		return nil, err
	}
	r.cache.Set(key, png)

	r.logger.DebugContext(ctx, "Chart rendered",
		log.FieldChart, name,
		log.FieldDuration, time.Since(start).Milliseconds(),
		"bytes", len(png))
	return png, nil
}
