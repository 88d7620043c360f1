package mapper

import (
	"fmt"

	"github.com/helmcode/robotstatus/pkg/model"
)

// FieldError reports a field the mapper expected but could not read. It only
// occurs when the schema accepts documents the mapper does not understand.
type FieldError struct {
	Path   string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

// Map converts a validated document into robots, keeping input order.
func Map(data any) (model.Robots, error) {
	root, ok := data.(map[string]any)
	if !ok {
		return nil, &FieldError{Path: "(root)", Reason: "expected a mapping"}
	}
	raw, ok := root["robots"]
	if !ok {
		return nil, &FieldError{Path: "robots", Reason: "missing"}
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, &FieldError{Path: "robots", Reason: "expected a sequence"}
	}

	robots := make(model.Robots, 0, len(items))
	for i, item := range items {
		robot, err := mapRobot(item, fmt.Sprintf("robots[%d]", i))
		if err != nil {
			return nil, err
		}
		robots = append(robots, robot)
	}
	return robots, nil
}

func mapRobot(v any, path string) (model.Robot, error) {
	m, err := asMap(v, path)
	if err != nil {
		return model.Robot{}, err
	}
	name, err := stringField(m, path, "name")
	if err != nil {
		return model.Robot{}, err
	}
	raw, ok := m["components"].([]any)
	if !ok {
		return model.Robot{}, &FieldError{Path: path + ".components", Reason: "expected a sequence"}
	}

	components := make([]model.Component, 0, len(raw))
	for i, item := range raw {
		c, err := mapComponent(item, fmt.Sprintf("%s.components[%d]", path, i))
		if err != nil {
			return model.Robot{}, err
		}
		components = append(components, c)
	}
	return model.Robot{Name: name, Components: components}, nil
}

func mapComponent(v any, path string) (model.Component, error) {
	m, err := asMap(v, path)
	if err != nil {
		return model.Component{}, err
	}
	name, err := stringField(m, path, "name")
	if err != nil {
		return model.Component{}, err
	}
	status, err := mapStatus(m["status"], path+".status")
	if err != nil {
		return model.Component{}, err
	}
	return model.Component{Name: name, Status: status}, nil
}

func mapStatus(v any, path string) (model.Status, error) {
	m, err := asMap(v, path)
	if err != nil {
		return model.Status{}, err
	}

	var s model.Status
	fields := []struct {
		key string
		dst *string
	}{
		{"level", &s.Level},
		{"description", &s.Description},
		{"unique_id", &s.UniqueID},
		{"action", &s.Action},
	}
	for _, f := range fields {
		if *f.dst, err = stringField(m, path, f.key); err != nil {
			return model.Status{}, err
		}
	}
	return s, nil
}

func asMap(v any, path string) (map[string]any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, &FieldError{Path: path, Reason: "expected a mapping"}
	}
	return m, nil
}

func stringField(m map[string]any, path, key string) (string, error) {
	raw, ok := m[key]
	if !ok {
		return "", &FieldError{Path: path + "." + key, Reason: "missing"}
	}
	s, ok := raw.(string)
	if !ok {
		return "", &FieldError{Path: path + "." + key, Reason: fmt.Sprintf("expected a string, got %T", raw)}
	}
	return s, nil
}
