package pipeline

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/helmcode/robotstatus/pkg/mapper"
	"github.com/helmcode/robotstatus/pkg/model"
	"github.com/helmcode/robotstatus/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const validInput = `
robots:
  - name: Goku
    components:
      - name: c1
        status: {level: OK, description: "<script>alert(1)</script>", unique_id: "G-1", action: None}
      - name: c2
        status: {level: WARN, description: Worn, unique_id: "G-2", action: Inspect}
  - name: Vegeta
    components:
      - name: c3
        status: {level: FAIL, description: Broken, unique_id: "V-1", action: Replace}
`

type memSource map[string]string

func (m memSource) ReadFile(name string) ([]byte, error) {
	s, ok := m[name]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return []byte(s), nil
}

type memSink struct {
	files map[string][]byte
	err   error
}

func (m *memSink) WriteFile(name string, data []byte) error {
	if m.err != nil {
		return m.err
	}
	if m.files == nil {
		m.files = map[string][]byte{}
	}
	m.files[name] = data
	return nil
}

type countingMapper struct {
	calls int
}

func (c *countingMapper) Map(data any) (model.Robots, error) {
	c.calls++
	return mapper.Map(data)
}

var testConfig = Config{InputPath: "in.yaml", OutputPath: "out.html"}

func newTestPipeline(src memSource, sink *memSink, opts ...Option) (*Pipeline, *bytes.Buffer) {
	diag := &bytes.Buffer{}
	base := []Option{WithSource(src), WithSink(sink), WithDiagnostics(diag)}
	return New(testConfig, append(base, opts...)...), diag
}

func TestRun_WritesReportInOrder(t *testing.T) {
	sink := &memSink{}
	p, diag := newTestPipeline(memSource{"in.yaml": validInput}, sink)

	require.NoError(t, p.Run())
	assert.Empty(t, diag.String())

	out := string(sink.files["out.html"])
	require.NotEmpty(t, out)
	assert.Less(t, strings.Index(out, "<h2>Goku</h2>"), strings.Index(out, "<h2>Vegeta</h2>"))
	assert.Less(t, strings.Index(out, "<td>c1</td>"), strings.Index(out, "<td>c2</td>"))
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestRun_EmptyCollection(t *testing.T) {
	sink := &memSink{}
	p, _ := newTestPipeline(memSource{"in.yaml": "robots: []\n"}, sink)

	require.NoError(t, p.Run())
	out := string(sink.files["out.html"])
	assert.Contains(t, out, "<h1>Robot Operational Status</h1>")
	assert.NotContains(t, out, "<h2>")
}

func TestRun_InvalidSkipsMappingAndOutput(t *testing.T) {
	input := `
robots:
  - components: []
  - name: Vegeta
    components:
      - name: c3
        status: {description: Broken, unique_id: "V-1", action: Replace}
`
	sink := &memSink{}
	m := &countingMapper{}
	p, diag := newTestPipeline(memSource{"in.yaml": input}, sink, WithMapper(m))

	err := p.Run()
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Equal(t, 4, ExitCode(err))
	assert.Zero(t, m.calls)
	assert.Empty(t, sink.files)

	var resErr *schema.ResultError
	require.ErrorAs(t, err, &resErr)
	assert.Len(t, resErr.Violations, 2)

	lines := strings.Split(strings.TrimSpace(diag.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Validation error: robots[0].name: "))
	assert.True(t, strings.HasPrefix(lines[1], "Validation error: robots[1].components[0].status.level: "))
}

func TestRun_ValidCallsMapperOnce(t *testing.T) {
	m := &countingMapper{}
	p, _ := newTestPipeline(memSource{"in.yaml": validInput}, &memSink{}, WithMapper(m))

	require.NoError(t, p.Run())
	assert.Equal(t, 1, m.calls)
}

func TestRun_MissingComponentsLeavesExistingFileUntouched(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.yaml")
	out := filepath.Join(dir, "out", "report.html")
	require.NoError(t, os.WriteFile(in, []byte("robots:\n  - name: Goku\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Dir(out), 0o755))
	require.NoError(t, os.WriteFile(out, []byte("previous"), 0o644))

	p := New(Config{InputPath: in, OutputPath: out}, WithDiagnostics(&bytes.Buffer{}))
	err := p.Run()
	require.Error(t, err)
	assert.NotZero(t, ExitCode(err))

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(got))

	entries, err := os.ReadDir(filepath.Dir(out))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRun_FilesystemRoundTrip(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.yaml")
	schemaPath := filepath.Join(dir, "schema.json")
	out := filepath.Join(dir, "out", "report.html")
	require.NoError(t, os.WriteFile(in, []byte(validInput), 0o644))
	require.NoError(t, os.WriteFile(schemaPath, schema.DefaultDocument(), 0o644))

	p := New(Config{InputPath: in, SchemaPath: schemaPath, OutputPath: out, ImageDir: "../static"})
	require.NoError(t, p.Run())

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(got), `src="../static/goku.jpeg"`)

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestRun_Failures(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		src      memSource
		opts     []Option
		sinkErr  error
		wantKind Kind
		wantCode int
		wantMsg  string
	}{
		{
			name:     "input missing",
			src:      memSource{},
			wantKind: KindIO,
			wantCode: 2,
			wantMsg:  "read input in.yaml",
		},
		{
			name:     "input malformed",
			src:      memSource{"in.yaml": "robots: [unclosed"},
			wantKind: KindParse,
			wantCode: 3,
			wantMsg:  "line",
		},
		{
			name:     "input with trailing broken document",
			src:      memSource{"in.yaml": "robots: []\n---\nrobots: [unclosed\n"},
			wantKind: KindParse,
			wantCode: 3,
			wantMsg:  "parse input in.yaml",
		},
		{
			name:     "input with several documents",
			src:      memSource{"in.yaml": "robots: []\n---\nrobots:\n  - name: Goku\n"},
			wantKind: KindParse,
			wantCode: 3,
			wantMsg:  "single document",
		},
		{
			name:     "schema missing",
			cfg:      Config{SchemaPath: "schema.json"},
			src:      memSource{"in.yaml": validInput},
			wantKind: KindIO,
			wantCode: 2,
			wantMsg:  "read schema schema.json",
		},
		{
			name:     "schema malformed",
			cfg:      Config{SchemaPath: "schema.json"},
			src:      memSource{"in.yaml": validInput, "schema.json": `{"type": }`},
			wantKind: KindParse,
			wantCode: 3,
			wantMsg:  "offset",
		},
		{
			name:     "schema not compilable",
			cfg:      Config{SchemaPath: "schema.json"},
			src:      memSource{"in.yaml": validInput, "schema.json": `{"type": 5}`},
			wantKind: KindConfig,
			wantCode: 7,
			wantMsg:  "compile schema",
		},
		{
			name: "mapper disagrees with schema",
			src:  memSource{"in.yaml": validInput},
			opts: []Option{WithMapper(MapperFunc(func(any) (model.Robots, error) {
				return nil, &mapper.FieldError{Path: "robots[0].serial", Reason: "missing"}
			}))},
			wantKind: KindMapping,
			wantCode: 5,
			wantMsg:  "robots[0].serial",
		},
		{
			name:     "renderer fails",
			src:      memSource{"in.yaml": validInput},
			opts:     []Option{WithRenderer(failingRenderer{})},
			wantKind: KindRender,
			wantCode: 6,
			wantMsg:  "render report",
		},
		{
			name:     "output unwritable",
			src:      memSource{"in.yaml": validInput},
			sinkErr:  fs.ErrPermission,
			wantKind: KindIO,
			wantCode: 2,
			wantMsg:  "write report out.html",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig
			cfg.SchemaPath = tt.cfg.SchemaPath
			sink := &memSink{err: tt.sinkErr}
			opts := append([]Option{WithSource(tt.src), WithSink(sink), WithDiagnostics(&bytes.Buffer{})}, tt.opts...)

			err := New(cfg, opts...).Run()
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, KindOf(err), "error: %v", err)
			assert.Equal(t, tt.wantCode, ExitCode(err))
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.Empty(t, sink.files)
		})
	}
}

type failingRenderer struct{}

func (failingRenderer) Render(model.Robots) ([]byte, error) {
	return nil, errors.New("layout broken")
}

func TestCheck_ReportsWithoutError(t *testing.T) {
	p, diag := newTestPipeline(memSource{"in.yaml": "robots:\n  - name: Goku\n"}, &memSink{})

	res, err := p.Check()
	require.NoError(t, err)
	assert.False(t, res.Valid())
	assert.Equal(t, "robots[0].components", res.Violations[0].Path)
	assert.Empty(t, diag.String())
}

func TestLoad_ReturnsRobots(t *testing.T) {
	p, _ := newTestPipeline(memSource{"in.yaml": validInput}, &memSink{})

	robots, err := p.Load()
	require.NoError(t, err)
	require.Len(t, robots, 2)
	assert.Equal(t, "Vegeta", robots[1].Name)
}

func TestRun_Logs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	p, _ := newTestPipeline(memSource{"in.yaml": validInput}, &memSink{}, WithLogger(zap.New(core)))

	require.NoError(t, p.Run())
	written := logs.FilterMessage("Report written").All()
	require.Len(t, written, 1)
	fields := written[0].ContextMap()
	assert.Equal(t, int64(2), fields["robots"])
	assert.Equal(t, int64(3), fields["components"])
	assert.NotZero(t, logs.FilterMessage("Validated input").Len())
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(errors.New("flag misuse")))
	assert.Equal(t, "validation", KindValidation.String())
	assert.Equal(t, "unknown", KindUnknown.String())
}
