package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/digtower/pkg/cache"
	"github.com/matzehuels/digtower/pkg/errors"
	"github.com/matzehuels/digtower/pkg/observability"
	"github.com/matzehuels/digtower/pkg/render/nodelink"
)

// Artifacts holds Graphviz output keyed by format ("svg", "cmapx", "png").
type Artifacts map[string][]byte

// renderers are the Graphviz-backed formats.
var renderers = map[string]func(string) ([]byte, error){
	nodelink.FormatSVG:   nodelink.RenderSVG,
	nodelink.FormatPNG:   nodelink.RenderPNG,
	nodelink.FormatCMAPX: nodelink.RenderMap,
}

// graphvizFormats lists the Graphviz formats one file needs.
func graphvizFormats(opts Options) []string {
	formats := []string{nodelink.FormatSVG, nodelink.FormatCMAPX}
	if opts.Wants(FormatPNG) {
		formats = append(formats, nodelink.FormatPNG)
	}
	return formats
}

// Render produces the Graphviz artifacts for dot, consulting the cache
// first. The bool reports whether every artifact came from the cache.
//
// The click map is optional: if Graphviz cannot produce it the page is
// written without one, so a map failure is logged rather than returned.
func (r *Runner) Render(ctx context.Context, dot string, opts Options) (Artifacts, bool, error) {
	r.applyLogger(&opts)
	dotHash := cache.Hash([]byte(dot))
	artifacts := make(Artifacts)
	allHit := true

	for _, format := range graphvizFormats(opts) {
		key := r.Keyer.ArtifactKey(dotHash, cache.ArtifactKeyOpts{Format: format})
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, format)
				artifacts[format] = data
				continue
			} else if err != nil {
				opts.Logger.Debug("cache read failed", "format", format, "err", err)
			}
			observability.Cache().OnCacheMiss(ctx, format)
		}
		allHit = false

		data, err := renderers[format](dot)
		if err != nil {
			if format == nodelink.FormatCMAPX {
				opts.Logger.Warn("image map unavailable", "err", err)
				continue
			}
			return nil, false, errors.Wrap(errors.ErrCodeRenderFailed, err, "render %s", format)
		}
		artifacts[format] = data

		if err := r.Cache.Set(ctx, key, data, opts.CacheTTL); err != nil {
			opts.Logger.Debug("cache write failed", "format", format, "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, format, len(data))
		}
	}

	return artifacts, allHit, nil
}

// RenderSVG is a convenience wrapper returning only the SVG.
func (r *Runner) RenderSVG(ctx context.Context, dot string, opts Options) ([]byte, error) {
	artifacts, _, err := r.Render(ctx, dot, opts)
	if err != nil {
		return nil, err
	}
	svg, ok := artifacts[nodelink.FormatSVG]
	if !ok {
		return nil, fmt.Errorf("svg missing from render output")
	}
	return svg, nil
}
