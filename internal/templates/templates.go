// Package templates implements the directory-backed template engine injected
// into template-rendering pipelines. Templates are Go text templates; every
// file in the directory tree is parsed once at load time and addressed by its
// extension-less relative path.
package templates

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

// Engine renders named templates against page context data.
type Engine struct {
	root *template.Template
}

// Load parses every template file under dir. Template names are the
// slash-separated paths relative to dir without extension, so
// dir/post/detail.tmpl is addressed as "post/detail".
func Load(dir string) (*Engine, error) {
	root := template.New("").Option("missingkey=zero").Funcs(builtins())

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isTemplate(path) {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		name := templateName(rel)
		if _, err := root.New(name).Parse(string(data)); err != nil {
			return fmt.Errorf("parse template %s: %w", name, err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading templates from %s: %w", dir, err)
	}

	return &Engine{root: root}, nil
}

// Render executes the named template with the given context data.
func (e *Engine) Render(name string, context map[string]any) (string, error) {
	tpl := e.root.Lookup(name)
	if tpl == nil {
		return "", fmt.Errorf("template %s not found", name)
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, context); err != nil {
		return "", fmt.Errorf("render template %s: %w", name, err)
	}
	return buf.String(), nil
}

func templateName(rel string) string {
	rel = filepath.ToSlash(rel)
	return strings.TrimSuffix(rel, filepath.Ext(rel))
}

func isTemplate(path string) bool {
	switch filepath.Ext(path) {
	case ".tmpl", ".html", ".xml", ".txt":
		return true
	}
	return false
}
