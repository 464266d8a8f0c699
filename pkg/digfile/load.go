package digfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/digtower/pkg/errors"
)

// IncludeTag is the YAML tag for opaque includes.
const IncludeTag = "!include"

// Definition is one loaded workflow file.
type Definition struct {
	Path  string  // path as given to Load
	Dir   string  // directory containing the file
	Name  string  // base file name, e.g. "daily.dig"
	Tasks Mapping // top-level directives; nil for an empty document
}

// Project returns the name of the directory holding the definition.
func (d *Definition) Project() string {
	return filepath.Base(d.Dir)
}

// Stem returns the file name without its extension.
func (d *Definition) Stem() string {
	return strings.TrimSuffix(d.Name, filepath.Ext(d.Name))
}

// Load reads and parses the definition at path.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidDefinition, err, "read %s", path)
	}
	tasks, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDefinition, err, "parse %s", path)
	}
	return &Definition{
		Path:  path,
		Dir:   filepath.Dir(path),
		Name:  filepath.Base(path),
		Tasks: tasks,
	}, nil
}

// Parse decodes a definition document. An empty document, or one holding
// only null, yields a nil Mapping. Any other non-mapping top level is an
// error.
func Parse(data []byte) (Mapping, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return nil, nil
	}

	c := &converter{active: make(map[*yaml.Node]bool)}
	v, err := c.convert(root.Content[0])
	if err != nil {
		return nil, err
	}
	switch top := v.(type) {
	case nil:
		return nil, nil
	case Mapping:
		return top, nil
	default:
		return nil, fmt.Errorf("line %d: top level must be a mapping, got %T", root.Content[0].Line, v)
	}
}

// MaxAliasExpansions bounds the number of alias dereferences in one
// document. Every alias is expanded in full, so nested aliases grow the
// converted value exponentially.
const MaxAliasExpansions = 10000

// converter turns a yaml.Node tree into plain values. active holds the
// anchors currently being expanded.
type converter struct {
	active  map[*yaml.Node]bool
	aliases int
}

func (c *converter) convert(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return c.convert(n.Content[0])
	case yaml.AliasNode:
		return c.alias(n)
	case yaml.MappingNode:
		return c.convertMapping(n)
	case yaml.SequenceNode:
		items := make([]any, 0, len(n.Content))
		for _, child := range n.Content {
			v, err := c.convert(child)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return items, nil
	case yaml.ScalarNode:
		return convertScalar(n)
	}
	return nil, fmt.Errorf("line %d: unsupported YAML node kind %d", n.Line, n.Kind)
}

func (c *converter) alias(n *yaml.Node) (any, error) {
	if n.Alias == nil {
		return nil, fmt.Errorf("line %d: unknown anchor %q", n.Line, n.Value)
	}
	if c.active[n.Alias] {
		return nil, fmt.Errorf("line %d: alias *%s refers to itself", n.Line, n.Value)
	}
	c.aliases++
	if c.aliases > MaxAliasExpansions {
		return nil, fmt.Errorf("line %d: more than %d alias expansions", n.Line, MaxAliasExpansions)
	}
	c.active[n.Alias] = true
	defer delete(c.active, n.Alias)
	return c.convert(n.Alias)
}

func (c *converter) convertMapping(n *yaml.Node) (Mapping, error) {
	m := make(Mapping, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]

		if k.ShortTag() == "!!merge" {
			merged, err := c.convert(v)
			if err != nil {
				return nil, err
			}
			if mm, ok := merged.(Mapping); ok {
				m = append(m, mm...)
			}
			continue
		}

		key, err := mappingKey(k)
		if err != nil {
			return nil, err
		}
		val, err := c.convert(v)
		if err != nil {
			return nil, err
		}
		m = append(m, Entry{Key: key, Value: val})
	}
	return m, nil
}

func mappingKey(k *yaml.Node) (string, error) {
	if k.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("line %d: mapping keys must be scalars", k.Line)
	}
	if k.Tag == IncludeTag {
		if k.Value == "" {
			return IncludeTag, nil
		}
		return "include " + k.Value, nil
	}
	return k.Value, nil
}

func convertScalar(n *yaml.Node) (any, error) {
	if n.Tag == IncludeTag {
		return "include " + n.Value, nil
	}
	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return b, nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return n.Value, nil
		}
		return i, nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return n.Value, nil
		}
		return f, nil
	}
	return n.Value, nil
}
