package schema

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/helmcode/robotstatus/pkg/parser"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed robot_operational_status_schema.json
var defaultSchema []byte

var (
	// ErrSyntax marks a schema document that is not well-formed JSON.
	ErrSyntax = errors.New("schema is not valid JSON")
	// ErrInvalidSchema marks well-formed JSON that cannot be compiled as a schema.
	ErrInvalidSchema = errors.New("invalid schema")
)

// RootPath is the path reported for violations on the document itself.
const RootPath = "(root)"

// Schema is a compiled structural schema. It is safe to reuse.
type Schema struct {
	compiled *gojsonschema.Schema
}

// Default compiles the embedded robot operational status schema.
func Default() (*Schema, error) {
	return Load(defaultSchema)
}

// DefaultDocument returns a copy of the embedded schema document.
func DefaultDocument() []byte {
	return slices.Clone(defaultSchema)
}

// Load compiles a JSON Schema document.
func Load(raw []byte) (*Schema, error) {
	if _, err := parser.ParseJSON(raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
	}

	compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}
	return &Schema{compiled: compiled}, nil
}

// Validate checks data against the schema and returns every violation found.
// It never fails: a document the validator cannot read is reported as a
// violation on the root.
func (s *Schema) Validate(data any) Result {
	res, err := s.compiled.Validate(gojsonschema.NewGoLoader(data))
	if err != nil {
		return Result{Violations: []Violation{{
			Path:   RootPath,
			Kind:   "unreadable_document",
			Reason: err.Error(),
		}}}
	}
	if res.Valid() {
		return Result{}
	}

	violations := make([]Violation, 0, len(res.Errors()))
	for _, re := range res.Errors() {
		violations = append(violations, Violation{
			Path:   violationPath(re),
			Kind:   re.Type(),
			Reason: re.Description(),
		})
	}
	slices.SortStableFunc(violations, compareViolations)
	return Result{Violations: violations}
}

// violationPath turns the validator's dotted field ("robots.2.components")
// into indexed notation ("robots[2].components"). Missing required fields
// are reported at the field itself rather than at its parent.
func violationPath(re gojsonschema.ResultError) string {
	segments := splitField(re.Field())

	if re.Type() == "required" {
		if prop, ok := re.Details()["property"].(string); ok && prop != "" {
			if len(segments) == 0 || segments[len(segments)-1] != prop {
				segments = append(segments, prop)
			}
		}
	}
	return joinPath(segments)
}

func splitField(field string) []string {
	field = strings.TrimPrefix(field, RootPath)
	field = strings.TrimPrefix(field, ".")
	if field == "" {
		return nil
	}
	return strings.Split(field, ".")
}

func joinPath(segments []string) string {
	if len(segments) == 0 {
		return RootPath
	}

	var b strings.Builder
	for _, seg := range segments {
		if isIndex(seg) {
			b.WriteString("[" + seg + "]")
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg)
	}
	return b.String()
}

func isIndex(seg string) bool {
	_, err := strconv.Atoi(seg)
	return err == nil && !strings.HasPrefix(seg, "-") && !strings.HasPrefix(seg, "+")
}
