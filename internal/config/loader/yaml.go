package loader

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// parseYAML parses YAML data into a map. Nested mappings are normalized to
// map[string]any so YAML and TOML documents decode the same way.
func parseYAML(source string, data []byte) (map[string]any, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		perr := &ParseError{
			Path:    source,
			Message: err.Error(),
			Err:     err,
		}
		var typeErr *yaml.TypeError
		if !errors.As(err, &typeErr) {
			perr.Line = yamlErrorLine(err)
		}
		return nil, perr
	}

	// Empty document.
	if len(root.Content) == 0 {
		return map[string]any{}, nil
	}

	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, &ParseError{
			Path:    source,
			Line:    doc.Line,
			Column:  doc.Column,
			Message: "top level must be a mapping",
		}
	}

	var config map[string]any
	if err := doc.Decode(&config); err != nil {
		return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
	}
	return config, nil
}

// yamlErrorLine extracts the line number from a yaml.v3 syntax error
// ("yaml: line 3: ...").
func yamlErrorLine(err error) int {
	var line int
	if _, scanErr := fmt.Sscanf(err.Error(), "yaml: line %d:", &line); scanErr != nil {
		return 0
	}
	return line
}
