package render

import (
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"
)

const (
	layoutFile = "layout.html"
	headerFile = "header.html"
)

// LoadTemplates parses every page template in fsys/templates together with
// the layout and header partial. The result is keyed by page file name.
func LoadTemplates(fsys fs.FS, funcMap template.FuncMap) (map[string]*template.Template, error) {
	templates := make(map[string]*template.Template)
	entries, err := fs.ReadDir(fsys, "templates")
	if err != nil {
		return nil, fmt.Errorf("error reading templates directory: %w", err)
	}

	shared := []string{path.Join("templates", layoutFile), path.Join("templates", headerFile)}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".html") || name == layoutFile || name == headerFile {
			continue
		}
		files := append(append([]string{}, shared...), path.Join("templates", name))
		tmpl, err := template.New(name).Funcs(funcMap).ParseFS(fsys, files...)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		templates[name] = tmpl
	}
	return templates, nil
}
