package site

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format names a serialization of the descriptor.
type Format string

// Supported formats.
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatJS   Format = "js"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(p string) (Format, error) {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".js":
		return FormatJS, nil
	default:
		return "", fmt.Errorf("unsupported descriptor extension %q (want .yaml, .yml or .json)", filepath.Ext(p))
	}
}

// Parse decodes a descriptor from data.
func Parse(data []byte, format Format) (*Descriptor, error) {
	var d Descriptor
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode yaml descriptor: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode json descriptor: %w", err)
		}
	case FormatJS:
		return nil, fmt.Errorf("js descriptors are export-only")
	default:
		return nil, fmt.Errorf("unknown descriptor format %q", format)
	}
	return &d, nil
}

// Marshal encodes d. FormatJS produces the unminified module source; use
// EncodeJS for more control.
func Marshal(d *Descriptor, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return nil, fmt.Errorf("encode yaml descriptor: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml descriptor: %w", err)
		}
		return buf.Bytes(), nil
	case FormatJSON:
		b, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json descriptor: %w", err)
		}
		return append(b, '\n'), nil
	case FormatJS:
		return EncodeJS(d, JSOptions{})
	default:
		return nil, fmt.Errorf("unknown descriptor format %q", format)
	}
}

// Load reads a descriptor file. The format follows the file extension.
func Load(p string) (*Descriptor, error) {
	format, err := FormatFromPath(p)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p) //nolint:gosec // G304: descriptor path comes from settings
	if err != nil {
		return nil, fmt.Errorf("read descriptor: %w", err)
	}
	d, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	return d, nil
}

// MarshalYAML writes the sidebar as an ordered mapping.
func (s Sidebar) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, sec := range s {
		pages := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, id := range sec.Pages {
			pages.Content = append(pages.Content, &yaml.Node{
				Kind:  yaml.ScalarNode,
				Tag:   "!!str",
				Value: id,
				Style: scalarStyle(id),
			})
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: sec.Prefix, Style: scalarStyle(sec.Prefix)},
			pages,
		)
	}
	return node, nil
}

// UnmarshalYAML reads the sidebar mapping, keeping key order.
func (s *Sidebar) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode && value.Tag == "!!null" {
		*s = nil
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: sidebar must be a mapping of prefix to pages", value.Line)
	}
	out := make(Sidebar, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, val := value.Content[i], value.Content[i+1]
		var pages []string
		if err := val.Decode(&pages); err != nil {
			return fmt.Errorf("sidebar %q: %w", key.Value, err)
		}
		if len(pages) == 0 {
			pages = nil
		}
		out = append(out, SidebarSection{Prefix: key.Value, Pages: pages})
	}
	if len(out) == 0 {
		out = nil
	}
	*s = out
	return nil
}

// MarshalJSON writes the sidebar as an object with keys in authored order.
func (s Sidebar) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("{}"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, sec := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(sec.Prefix)
		if err != nil {
			return nil, err
		}
		pages := sec.Pages
		if pages == nil {
			pages = []string{}
		}
		val, err := json.Marshal(pages)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the sidebar object, keeping key order.
func (s *Sidebar) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*s = nil
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("sidebar must be an object of prefix to pages")
	}
	var out Sidebar
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		prefix, _ := tok.(string)
		var pages []string
		if err := dec.Decode(&pages); err != nil {
			return fmt.Errorf("sidebar %q: %w", prefix, err)
		}
		if len(pages) == 0 {
			pages = nil
		}
		out = append(out, SidebarSection{Prefix: prefix, Pages: pages})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	if len(out) == 0 {
		out = nil
	}
	*s = out
	return nil
}

// MarshalYAML writes the tag as a flow sequence [tag, attrs].
func (h HeadTag) MarshalYAML() (interface{}, error) {
	var node yaml.Node
	if err := node.Encode([]interface{}{h.Tag, h.attrsOrEmpty()}); err != nil {
		return nil, err
	}
	node.Style = yaml.FlowStyle
	return &node, nil
}

// UnmarshalYAML reads [tag] or [tag, attrs].
func (h *HeadTag) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.SequenceNode || len(value.Content) == 0 || len(value.Content) > 2 {
		return fmt.Errorf("line %d: head entry must be [tag, {attributes}]", value.Line)
	}
	var out HeadTag
	if err := value.Content[0].Decode(&out.Tag); err != nil {
		return fmt.Errorf("head tag name: %w", err)
	}
	if len(value.Content) == 2 {
		if err := value.Content[1].Decode(&out.Attrs); err != nil {
			return fmt.Errorf("head %s attributes: %w", out.Tag, err)
		}
	}
	if len(out.Attrs) == 0 {
		out.Attrs = nil
	}
	*h = out
	return nil
}

// MarshalJSON writes the tag as [tag, attrs].
func (h HeadTag) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{h.Tag, h.attrsOrEmpty()})
}

// UnmarshalJSON reads [tag] or [tag, attrs].
func (h *HeadTag) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("head entry must be [tag, {attributes}]: %w", err)
	}
	if len(raw) == 0 || len(raw) > 2 {
		return fmt.Errorf("head entry must be [tag, {attributes}], got %d elements", len(raw))
	}
	var out HeadTag
	if err := json.Unmarshal(raw[0], &out.Tag); err != nil {
		return fmt.Errorf("head tag name: %w", err)
	}
	if len(raw) == 2 {
		if err := json.Unmarshal(raw[1], &out.Attrs); err != nil {
			return fmt.Errorf("head %s attributes: %w", out.Tag, err)
		}
	}
	if len(out.Attrs) == 0 {
		out.Attrs = nil
	}
	*h = out
	return nil
}

func (h HeadTag) attrsOrEmpty() map[string]string {
	if h.Attrs == nil {
		return map[string]string{}
	}
	return h.Attrs
}

// scalarStyle quotes strings that would otherwise read back as a
// different type or as null.
func scalarStyle(s string) yaml.Style {
	if s == "" {
		return yaml.DoubleQuotedStyle
	}
	var probe interface{}
	if err := yaml.Unmarshal([]byte(s), &probe); err != nil {
		return yaml.DoubleQuotedStyle
	}
	if str, ok := probe.(string); !ok || str != s {
		return yaml.DoubleQuotedStyle
	}
	return 0
}
