package pipeline

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/helmcode/robotstatus/pkg/mapper"
	"github.com/helmcode/robotstatus/pkg/model"
	"github.com/helmcode/robotstatus/pkg/parser"
	"github.com/helmcode/robotstatus/pkg/report"
	"github.com/helmcode/robotstatus/pkg/schema"
	"go.uber.org/zap"
)

// Config locates the pipeline's inputs and output.
type Config struct {
	InputPath string
	// SchemaPath selects a schema file. Empty uses the embedded schema.
	SchemaPath string
	OutputPath string
	// ImageDir adds robot pictures to the report when set.
	ImageDir string
}

// Mapper turns a validated document into robots.
type Mapper interface {
	Map(data any) (model.Robots, error)
}

// MapperFunc adapts a function to Mapper.
type MapperFunc func(data any) (model.Robots, error)

func (f MapperFunc) Map(data any) (model.Robots, error) {
	return f(data)
}

// Renderer turns robots into the report body.
type Renderer interface {
	Render(robots model.Robots) ([]byte, error)
}

// Pipeline validates an input document and renders it as a report. Each
// step runs only if the previous one succeeded.
type Pipeline struct {
	cfg      Config
	source   Source
	sink     Sink
	mapper   Mapper
	renderer Renderer
	logger   *zap.Logger
	diag     io.Writer
}

// Option configures a Pipeline.
type Option func(*Pipeline)

func WithSource(s Source) Option {
	return func(p *Pipeline) { p.source = s }
}

func WithSink(s Sink) Option {
	return func(p *Pipeline) { p.sink = s }
}

func WithMapper(m Mapper) Option {
	return func(p *Pipeline) { p.mapper = m }
}

// WithRenderer replaces the HTML renderer built from Config.
func WithRenderer(r Renderer) Option {
	return func(p *Pipeline) { p.renderer = r }
}

func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithDiagnostics sets where validation violations are written.
func WithDiagnostics(w io.Writer) Option {
	return func(p *Pipeline) { p.diag = w }
}

// New creates a pipeline backed by the local filesystem.
func New(cfg Config, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:    cfg,
		source: FileSource{},
		sink:   FileSink{},
		mapper: MapperFunc(mapper.Map),
		logger: zap.NewNop(),
		diag:   os.Stderr,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes the whole pipeline and writes the report. Nothing is written
// unless every earlier step succeeded.
func (p *Pipeline) Run() error {
	robots, err := p.Load()
	if err != nil {
		return err
	}

	renderer, err := p.reportRenderer()
	if err != nil {
		return &Error{Kind: KindRender, Op: "build renderer", Err: err}
	}
	out, err := renderer.Render(robots)
	if err != nil {
		return &Error{Kind: KindRender, Op: "render report", Err: err}
	}
	p.logger.Debug("Rendered report", zap.Int("bytes", len(out)))

	if err := p.sink.WriteFile(p.cfg.OutputPath, out); err != nil {
		return &Error{Kind: KindIO, Op: "write report", Path: p.cfg.OutputPath, Err: err}
	}
	p.logger.Info("Report written",
		zap.String("path", p.cfg.OutputPath),
		zap.Int("robots", len(robots)),
		zap.Int("components", robots.ComponentCount()))
	return nil
}

// Load reads, validates and maps the input document. Violations are written
// to the diagnostics writer and the mapper is not called.
func (p *Pipeline) Load() (model.Robots, error) {
	data, res, err := p.check()
	if err != nil {
		return nil, err
	}
	if !res.Valid() {
		for _, v := range res.Violations {
			fmt.Fprintf(p.diag, "Validation error: %s\n", v)
		}
		return nil, &Error{Kind: KindValidation, Op: "validate", Path: p.cfg.InputPath, Err: res.Err()}
	}

	robots, err := p.mapper.Map(data)
	if err != nil {
		return nil, &Error{Kind: KindMapping, Op: "map document", Path: p.cfg.InputPath, Err: err}
	}
	p.logger.Debug("Mapped document", zap.Int("robots", len(robots)))
	return robots, nil
}

// Check reads and validates the input document without mapping it. An
// invalid document is reported through the result, not the error.
func (p *Pipeline) Check() (schema.Result, error) {
	_, res, err := p.check()
	return res, err
}

func (p *Pipeline) check() (any, schema.Result, error) {
	raw, err := p.source.ReadFile(p.cfg.InputPath)
	if err != nil {
		return nil, schema.Result{}, &Error{Kind: KindIO, Op: "read input", Path: p.cfg.InputPath, Err: err}
	}
	p.logger.Debug("Read input", zap.String("path", p.cfg.InputPath), zap.Int("bytes", len(raw)))

	data, err := parser.ParseDocument(raw)
	if err != nil {
		return nil, schema.Result{}, &Error{Kind: KindParse, Op: "parse input", Path: p.cfg.InputPath, Err: err}
	}

	sch, err := p.loadSchema()
	if err != nil {
		return nil, schema.Result{}, err
	}

	res := sch.Validate(data)
	p.logger.Debug("Validated input", zap.Bool("valid", res.Valid()), zap.Int("violations", len(res.Violations)))
	return data, res, nil
}

// SchemaDocument returns the schema document the pipeline validates against,
// after checking that it compiles.
func (p *Pipeline) SchemaDocument() ([]byte, error) {
	raw, _, err := p.schemaSource()
	if err != nil {
		return nil, err
	}
	return raw, nil
}

func (p *Pipeline) loadSchema() (*schema.Schema, error) {
	_, sch, err := p.schemaSource()
	return sch, err
}

func (p *Pipeline) schemaSource() ([]byte, *schema.Schema, error) {
	if p.cfg.SchemaPath == "" {
		sch, err := schema.Default()
		if err != nil {
			return nil, nil, &Error{Kind: KindConfig, Op: "load embedded schema", Err: err}
		}
		return schema.DefaultDocument(), sch, nil
	}

	raw, err := p.source.ReadFile(p.cfg.SchemaPath)
	if err != nil {
		return nil, nil, &Error{Kind: KindIO, Op: "read schema", Path: p.cfg.SchemaPath, Err: err}
	}
	sch, err := schema.Load(raw)
	switch {
	case errors.Is(err, schema.ErrSyntax):
		return nil, nil, &Error{Kind: KindParse, Op: "parse schema", Path: p.cfg.SchemaPath, Err: err}
	case err != nil:
		return nil, nil, &Error{Kind: KindConfig, Op: "compile schema", Path: p.cfg.SchemaPath, Err: err}
	}
	p.logger.Debug("Loaded schema", zap.String("path", p.cfg.SchemaPath))
	return raw, sch, nil
}

func (p *Pipeline) reportRenderer() (Renderer, error) {
	if p.renderer != nil {
		return p.renderer, nil
	}
	var opts []report.Option
	if p.cfg.ImageDir != "" {
		opts = append(opts, report.WithImageDir(p.cfg.ImageDir))
	}
	return report.New(opts...)
}
