package model

// Status describes the health of a single component.
type Status struct {
	Level       string `json:"level" yaml:"level"`
	Description string `json:"description" yaml:"description"`
	UniqueID    string `json:"unique_id" yaml:"unique_id"`
	Action      string `json:"action" yaml:"action"`
}

type Component struct {
	Name   string `json:"name" yaml:"name"`
	Status Status `json:"status" yaml:"status"`
}

// Robot owns its components in the order they were declared in the input.
type Robot struct {
	Name       string      `json:"name" yaml:"name"`
	Components []Component `json:"components" yaml:"components"`
}

// Robots is the ordered collection handed to the report renderer.
type Robots []Robot

// ComponentCount returns the total number of components across all robots.
func (r Robots) ComponentCount() int {
	n := 0
	for _, robot := range r {
		n += len(robot.Components)
	}
	return n
}
