package report

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"path"
	"strings"

	"github.com/helmcode/robotstatus/pkg/model"
)

// Title heads every report.
const Title = "Robot Operational Status"

//go:embed layout.html.tmpl
var defaultLayout string

// Renderer projects robots into a standalone HTML document.
type Renderer struct {
	tmpl     *template.Template
	imageDir string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithImageDir adds a picture of each robot, loaded from
// <dir>/<lowercase robot name>.jpeg, under its heading.
func WithImageDir(dir string) Option {
	return func(r *Renderer) {
		r.imageDir = dir
	}
}

// New builds a Renderer from the embedded layout.
func New(opts ...Option) (*Renderer, error) {
	return NewWithLayout(defaultLayout, opts...)
}

// NewWithLayout builds a Renderer from a custom html/template layout. The
// layout receives Title, ImageDir and Robots.
func NewWithLayout(layout string, opts ...Option) (*Renderer, error) {
	tmpl, err := template.New("report").
		Option("missingkey=error").
		Funcs(template.FuncMap{"imageSrc": imageSrc}).
		Parse(layout)
	if err != nil {
		return nil, fmt.Errorf("failed to parse report layout: %w", err)
	}

	r := &Renderer{tmpl: tmpl}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

type page struct {
	Title    string
	ImageDir string
	Robots   model.Robots
}

// Render executes the layout. Field values are escaped for their HTML
// context, so untrusted input cannot inject markup.
func (r *Renderer) Render(robots model.Robots) ([]byte, error) {
	var buf bytes.Buffer
	err := r.tmpl.Execute(&buf, page{
		Title:    Title,
		ImageDir: r.imageDir,
		Robots:   robots,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute report layout: %w", err)
	}
	return buf.Bytes(), nil
}

func imageSrc(dir, name string) string {
	return path.Join(dir, strings.ToLower(name)+".jpeg")
}
