package definition

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// StringList accepts either "a, b" or a YAML sequence.
type StringList []string

func (s *StringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		// 老格式用逗号加空格分隔
		var out []string
		for _, v := range strings.Split(value.Value, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
		*s = out
		return nil
	case yaml.SequenceNode:
		var arr []string
		if err := value.Decode(&arr); err != nil {
			return err
		}
		*s = arr
		return nil
	default:
		return fmt.Errorf("cannot unmarshal %v into StringList", value.Kind)
	}
}

// Args holds filter arguments as strings; a scalar becomes a one element list.
type Args []string

func (a *Args) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*a = Args{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make(Args, 0, len(value.Content))
		for _, n := range value.Content {
			out = append(out, n.Value)
		}
		*a = out
		return nil
	default:
		return fmt.Errorf("cannot unmarshal %v into filter args", value.Kind)
	}
}

// Get returns the i-th argument, negative indexes count from the end.
func (a Args) Get(i int) (string, bool) {
	if i < 0 {
		i += len(a)
	}
	if i < 0 || i >= len(a) {
		return "", false
	}
	return a[i], true
}

// Int returns the i-th argument parsed as an integer.
func (a Args) Int(i int) (int, bool) {
	v, ok := a.Get(i)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, false
	}
	return n, true
}

// UnmarshalYAML walks the mapping node pairwise so declaration order survives
// decoding. Entries whose value is not a number are dropped.
func (c *CaseList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("case must be a mapping, got %v", value.Kind)
	}
	out := make(CaseList, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		k, v := value.Content[i], value.Content[i+1]
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Value), 64)
		if err != nil {
			continue
		}
		out = append(out, CaseEntry{Selector: k.Value, Value: f})
	}
	*c = out
	return nil
}

// Parse decodes one site definition document.
func Parse(data []byte) (*Indexer, error) {
	var def Indexer
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("decode definition: %w", err)
	}
	if def.ID == "" {
		return nil, fmt.Errorf("definition without id")
	}
	def.Normalize()
	return &def, nil
}
