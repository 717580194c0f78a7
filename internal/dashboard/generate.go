package dashboard

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

//go:embed templates/*.tmpl
var templates embed.FS

// Params are substituted into the dashboard templates.
type Params struct {
	DatasourceUID     string
	TelemetryTable    string
	DebrisEventTable  string
	NotificationTable string
}

// ErrMissingDatasource is returned when no datasource UID is configured.
var ErrMissingDatasource = errors.New("GREPTIMEDB_DATASOURCE_UID not set")

// Render parses the embedded dashboard templates and writes the rendered
// dashboards to outDir. It returns the written paths.
func Render(outDir string, p Params) ([]string, error) {
	if p.DatasourceUID == "" {
		return nil, ErrMissingDatasource
	}
	t, err := template.New("dashboards").Funcs(template.FuncMap{
		"quote": func(s string) string { return fmt.Sprintf("%q", s) },
	}).ParseFS(templates, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var written []string
	for _, tpl := range t.Templates() {
		name := tpl.Name()
		if !strings.HasSuffix(name, ".tmpl") {
			continue
		}
		outPath := filepath.Join(outDir, strings.TrimSuffix(name, ".tmpl"))
		f, err := os.Create(outPath)
		if err != nil {
			return written, err
		}
		if err := tpl.Execute(f, p); err != nil {
			f.Close()
			return written, fmt.Errorf("render %s: %w", name, err)
		}
		if err := f.Close(); err != nil {
			return written, err
		}
		written = append(written, outPath)
	}
	return written, nil
}
