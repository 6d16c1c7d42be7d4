package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/deckdown/diagramscene/pkg/cache"
	"github.com/deckdown/diagramscene/pkg/observability"
	"github.com/deckdown/diagramscene/pkg/render/sink"
	"github.com/deckdown/diagramscene/pkg/scene"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// cachedScene is the cache payload for a built scene.
type cachedScene struct {
	Fallback bool         `json:"fallback"`
	Scene    *scene.Scene `json:"scene"`
}

// Execute runs the complete build → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, in Input, opts Options) (*Result, error) {
	if err := ValidateInput(in); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{Input: in}
	logger := opts.Logger.With("input", inputName(in))

	// Stage 1: Build
	observability.Pipeline().OnBuildStart(ctx, in.Hint, len(in.Text))
	buildStart := time.Now()
	s, fallback, buildHit, err := r.BuildWithCacheInfo(ctx, in, opts)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Scene = s
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.Shapes = len(s.Shapes)
	result.Stats.Connectors = len(s.Connectors)
	result.Stats.Fallback = fallback
	result.CacheInfo.SceneHit = buildHit
	observability.Pipeline().OnBuildComplete(ctx, observability.BuildStats{
		Kind:       s.Kind.String(),
		Shapes:     len(s.Shapes),
		Connectors: len(s.Connectors),
		Fallback:   fallback,
	}, result.Stats.BuildTime)

	sceneHash, err := hashScene(s)
	if err != nil {
		return nil, fmt.Errorf("hash scene: %w", err)
	}
	result.SceneHash = sceneHash

	logger.Info("built scene",
		"kind", s.Kind,
		"shapes", len(s.Shapes),
		"connectors", len(s.Connectors),
		"fallback", fallback,
		"cached", buildHit,
		"duration", result.Stats.BuildTime)

	// Stage 2: Render
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, s, sceneHash, in, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = renderHit

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// BuildWithCacheInfo builds the scene for in, reading and writing the
// cache. It reports whether the scene is a fallback and whether it came
// from the cache.
func (r *Runner) BuildWithCacheInfo(ctx context.Context, in Input, opts Options) (*scene.Scene, bool, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, false, err
	}

	cacheKey := r.Keyer.SceneKey(cache.HashText(in.Text), opts.SceneKeyOpts(in))

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if cached, ok := r.readScene(ctx, cacheKey); ok {
			return cached.Scene, cached.Fallback, true, nil
		}
	}

	tr := Run(in, opts)

	if data, err := json.Marshal(cachedScene{Fallback: tr.Fallback, Scene: tr.Scene}); err == nil {
		r.store(ctx, cacheKey, data, cache.TTLScene)
	}
	return tr.Scene, tr.Fallback, false, nil
}

// readScene loads a cached scene. Undecodable or inconsistent entries count
// as misses and are recomputed.
func (r *Runner) readScene(ctx context.Context, key string) (cachedScene, bool) {
	var cached cachedScene
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		observability.Cache().OnCacheError(ctx, key, err)
		r.Logger.Warn("cache read failed", "key", key, "error", err)
		return cached, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, key)
		return cached, false
	}
	if err := json.Unmarshal(data, &cached); err != nil || cached.Scene == nil {
		r.Logger.Debug("discarding undecodable cache entry", "key", key)
		return cached, false
	}
	if err := cached.Scene.Check(); err != nil {
		r.Logger.Debug("discarding inconsistent cache entry", "key", key, "error", err)
		return cached, false
	}
	observability.Cache().OnCacheHit(ctx, key)
	return cached, true
}

// RenderWithCacheInfo renders every requested format of s, reading and
// writing the cache. It reports a hit only when all formats were cached.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, s *scene.Scene, sceneHash string, in Input, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		key := r.artifactKey(sceneHash, in, format, opts)
		if !opts.Refresh {
			data, hit, err := r.Cache.Get(ctx, key)
			switch {
			case err != nil:
				observability.Cache().OnCacheError(ctx, key, err)
			case hit:
				observability.Cache().OnCacheHit(ctx, key)
				artifacts[format] = data
				continue
			default:
				observability.Cache().OnCacheMiss(ctx, key)
			}
		}
		missing = append(missing, format)
	}

	if len(missing) == 0 {
		return artifacts, true, nil // All artifacts from cache
	}

	sub := opts
	sub.Formats = missing
	rendered, err := Render(ctx, s, in, sub)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		r.store(ctx, r.artifactKey(sceneHash, in, format, opts), data, cache.TTLArtifact)
		artifacts[format] = data
	}
	return artifacts, false, nil
}

// artifactKey keys one artifact. JSON embeds the input name and DOT is
// drawn from the source model, so both also hash their input.
func (r *Runner) artifactKey(sceneHash string, in Input, format string, opts Options) string {
	switch format {
	case FormatJSON:
		sceneHash = cache.Hash([]byte(sceneHash + "\x00" + in.Name))
	case FormatDOT:
		sceneHash = cache.Hash([]byte(sceneHash + "\x00" + cache.HashText(in.Text)))
	}
	return r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format))
}

func (r *Runner) store(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		observability.Cache().OnCacheError(ctx, key, err)
		r.Logger.Warn("cache write failed", "key", key, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, key, len(data))
}

// BuildAll executes every input with bounded concurrency. Results keep the
// order of inputs. The first error cancels the remaining work.
func (r *Runner) BuildAll(ctx context.Context, inputs []Input, opts Options) ([]*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	results := make([]*Result, len(inputs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for i, in := range inputs {
		g.Go(func() error {
			res, err := r.Execute(ctx, in, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", inputName(in), err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// hashScene hashes the compact JSON form of s.
func hashScene(s *scene.Scene) (string, error) {
	data, err := sink.RenderJSON(s)
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}

func inputName(in Input) string {
	if in.Name != "" {
		return in.Name
	}
	return "<stdin>"
}
