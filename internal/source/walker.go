package source

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	sgerrors "git.home.luguber.info/inful/sitegen/internal/errors"
	"git.home.luguber.info/inful/sitegen/internal/frontmatter"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

const indexName = "index"

// Walk discovers all raw content bundles under root. A directory containing
// an index.md forms a bundle (sibling non-markdown files become its assets);
// any other markdown file is a single-file bundle of its own. Results are
// ordered by origin path so downstream processing is deterministic.
func Walk(root string) ([]RawContent, error) {
	var raws []RawContent

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isMarkdown(path) {
			return nil
		}

		raw, err := loadBundle(root, path)
		if err != nil {
			return err
		}
		raws = append(raws, raw)
		return nil
	})
	if err != nil {
		return nil, sgerrors.SourceWalkFailed(root, err)
	}

	sort.Slice(raws, func(i, j int) bool {
		return raws[i].Origin.Path < raws[j].Origin.Path
	})

	slog.Info("Content discovered", logfields.Path(root), logfields.Count(len(raws)))
	return raws, nil
}

func loadBundle(root, path string) (RawContent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RawContent{}, err
	}

	fm, body, _, err := frontmatter.Split(data)
	if err != nil {
		return RawContent{}, sgerrors.SourceWalkFailed(path, err)
	}
	fields, err := frontmatter.Parse(fm)
	if err != nil {
		return RawContent{}, sgerrors.SourceWalkFailed(path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return RawContent{}, err
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		return RawContent{}, err
	}
	originPath := normalizePath(strings.TrimSuffix(rel, filepath.Ext(rel)))

	var assets []string
	if filepath.Base(originPath) == indexName {
		if assets, err = siblingAssets(filepath.Dir(path)); err != nil {
			return RawContent{}, err
		}
	}

	return RawContent{
		Origin: Origin{
			Path: originPath,
			Slug: slugFromPath(originPath),
		},
		FrontMatter:  fields,
		Markdown:     string(body),
		LastModified: info.ModTime(),
		Assets:       assets,
	}, nil
}

// siblingAssets lists non-markdown files next to an index bundle.
func siblingAssets(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var assets []string
	for _, e := range entries {
		if e.IsDir() || isMarkdown(e.Name()) {
			continue
		}
		assets = append(assets, e.Name())
	}
	sort.Strings(assets)
	return assets, nil
}

// slugFromPath derives the slug from a normalized origin path: a trailing
// index segment collapses to the parent path, and the root index becomes the
// empty slug.
func slugFromPath(originPath string) string {
	if originPath == indexName {
		return ""
	}
	return strings.TrimSuffix(originPath, "/"+indexName)
}

// normalizePath converts OS separators to slashes and applies Unicode NFC so
// slugs compare consistently regardless of how the filesystem encoded them.
func normalizePath(p string) string {
	return norm.NFC.String(filepath.ToSlash(p))
}

func isMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}
