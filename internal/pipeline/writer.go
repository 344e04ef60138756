package pipeline

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/sitegen/internal/buildstate"
	"git.home.luguber.info/inful/sitegen/internal/config"
	sgerrors "git.home.luguber.info/inful/sitegen/internal/errors"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/render"
	"git.home.luguber.info/inful/sitegen/internal/value"
)

// writeBundles serializes each bundle through the pipeline's engine and
// writes it under the output directory. With a build-state store attached,
// byte-identical pages are skipped.
func (g *Generator) writeBundles(ctx context.Context, p *config.Pipeline,
	bundles []render.ContextBundle) (written, skipped int, err error) {

	for _, bundle := range bundles {
		data, err := g.encode(p, bundle)
		if err != nil {
			return written, skipped, err
		}

		relPath := filepath.Join(bundle.Destination.Path,
			bundle.Destination.File+"."+bundle.Destination.Ext)
		outPath := filepath.Join(g.cfg.Output.Dir, relPath)

		if g.unchanged(ctx, p.ID, relPath, data) {
			skipped++
			continue
		}

		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return written, skipped, sgerrors.OutputWriteFailed(outPath, err)
		}
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			return written, skipped, sgerrors.OutputWriteFailed(outPath, err)
		}
		g.remember(ctx, p.ID, relPath, data)
		written++
	}
	return written, skipped, nil
}

func (g *Generator) encode(p *config.Pipeline, bundle render.ContextBundle) ([]byte, error) {
	switch p.Engine.ID {
	case config.EngineMustache:
		if g.templates == nil {
			slog.Warn("No template renderer configured, falling back to JSON",
				logfields.Pipeline(p.ID))
			break
		}
		name := templateName(p, bundle)
		out, err := g.templates.Render(name, value.ToAnyMap(bundle.Context))
		if err != nil {
			return nil, sgerrors.RenderFailed(bundle.Content.Slug, err)
		}
		return []byte(out), nil
	}

	data, err := json.MarshalIndent(value.ToAnyMap(bundle.Context), "", "  ")
	if err != nil {
		return nil, sgerrors.RenderFailed(bundle.Content.Slug, err)
	}
	return data, nil
}

// templateName resolves the template for a page: a per-content-type entry in
// the engine options, else the engine's default template, else the content
// type id itself.
func templateName(p *config.Pipeline, bundle render.ContextBundle) string {
	typeID := bundle.Content.Definition.ID
	if opts := p.Engine.Options; opts != nil {
		if byType, ok := opts["templates"].(map[string]any); ok {
			if name, ok := byType[typeID].(string); ok {
				return name
			}
		}
		if name, ok := opts["template"].(string); ok {
			return name
		}
	}
	return typeID
}

func (g *Generator) unchanged(ctx context.Context, pipeline, relPath string, data []byte) bool {
	if g.state == nil {
		return false
	}
	hash, found, err := g.state.Fingerprint(ctx, pipeline, relPath)
	if err != nil {
		slog.Warn("Fingerprint lookup failed", logfields.Path(relPath), logfields.Error(err))
		return false
	}
	return found && hash == buildstate.Hash(data)
}

func (g *Generator) remember(ctx context.Context, pipeline, relPath string, data []byte) {
	if g.state == nil {
		return
	}
	if err := g.state.SetFingerprint(ctx, pipeline, relPath, buildstate.Hash(data)); err != nil {
		slog.Warn("Fingerprint store failed", logfields.Path(relPath), logfields.Error(err))
	}
}
