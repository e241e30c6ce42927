package material

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-gl/engine/slab"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	// MaxSlotNameLength is the longest slot name a schema may declare.
	MaxSlotNameLength = 31

	// headerSize is the bookkeeping word accounted to every instance slot.
	headerSize = 4
)

type shaderDocument struct {
	Vert string `json:"vert" toml:"vert" yaml:"vert"`
	Frag string `json:"frag" toml:"frag" yaml:"frag"`
	Geom string `json:"geom" toml:"geom" yaml:"geom"`
}

type slotDocument struct {
	Type    string `json:"type" toml:"type" yaml:"type"`
	Default any    `json:"default" toml:"default" yaml:"default"`
}

// schemaDocument is the decoded form of a template schema file.
type schemaDocument struct {
	Shaders *shaderDocument         `json:"shaders" toml:"shaders" yaml:"shaders"`
	Slots   map[string]slotDocument `json:"slots" toml:"slots" yaml:"slots"`
}

// materialDocument is the decoded form of a material instance file.
type materialDocument struct {
	Template string         `json:"template" toml:"template" yaml:"template"`
	Slots    map[string]any `json:"slots" toml:"slots" yaml:"slots"`
}

// layout is a validated template description that has not been committed to a manager.
type layout struct {
	path     string
	paths    shader.Paths
	slots    []Slot
	size     int
	defaults []byte
}

// decodeDocument unmarshals data into out using the decoder selected by the file extension of path.
//
// Parameters:
//   - path: the document path, only its extension is used
//   - data: the raw document
//   - out: pointer to the target document struct
//
// Returns:
//   - error: ErrUnsupportedFormat for unknown extensions, ErrDuplicateKey when a mapping repeats a
//     key, or the decoder's error
func decodeDocument(path string, data []byte, out any) error {
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err = checkJSONKeys(json.NewDecoder(bytes.NewReader(data))); err == nil {
			err = json.Unmarshal(data, out)
		}
	case ".toml":
		// TOML itself forbids redefining a key, so the decoder already rejects duplicates.
		err = toml.Unmarshal(data, out)
	case ".yaml", ".yml":
		var node yaml.Node
		if err = yaml.Unmarshal(data, &node); err == nil {
			if err = checkYAMLKeys(&node); err == nil && node.Kind != 0 {
				err = node.Decode(out)
			}
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	return nil
}

// checkJSONKeys consumes one JSON value from dec and fails on the first object that repeats a key.
// encoding/json would otherwise keep the last duplicate.
func checkJSONKeys(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return nil
	}
	switch delim {
	case '{':
		seen := make(map[string]struct{})
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return err
			}
			key, _ := tok.(string)
			if _, dup := seen[key]; dup {
				return fmt.Errorf("%w %q", ErrDuplicateKey, key)
			}
			seen[key] = struct{}{}
			if err := checkJSONKeys(dec); err != nil {
				return err
			}
		}
	case '[':
		for dec.More() {
			if err := checkJSONKeys(dec); err != nil {
				return err
			}
		}
	}
	_, err = dec.Token()
	return err
}

// checkYAMLKeys fails on the first mapping in n that repeats a key. Aliases are not followed.
func checkYAMLKeys(n *yaml.Node) error {
	if n.Kind == yaml.MappingNode {
		seen := make(map[string]struct{}, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i]
			if key.ShortTag() == "!!merge" {
				continue
			}
			if _, dup := seen[key.Value]; dup {
				return fmt.Errorf("%w %q at line %d", ErrDuplicateKey, key.Value, key.Line)
			}
			seen[key.Value] = struct{}{}
		}
	}
	for _, c := range n.Content {
		if err := checkYAMLKeys(c); err != nil {
			return err
		}
	}
	return nil
}

// readLayout reads and validates a schema file. It touches no shared state and is safe to call
// from worker goroutines.
//
// Parameters:
//   - path: the cleaned absolute schema path
//
// Returns:
//   - layout: the validated layout with shader paths resolved next to the schema
//   - error: a read, decode or schema error
func readLayout(path string) (layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return layout{}, err
	}
	var doc schemaDocument
	if err := decodeDocument(path, data, &doc); err != nil {
		return layout{}, err
	}
	l, err := buildLayout(doc)
	if err != nil {
		return layout{}, err
	}
	l.path = path
	dir := filepath.Dir(path)
	l.paths = shader.Paths{
		Vertex:   resolvePath(dir, doc.Shaders.Vert),
		Fragment: resolvePath(dir, doc.Shaders.Frag),
		Geometry: resolvePath(dir, doc.Shaders.Geom),
	}
	return l, nil
}

// buildLayout validates a decoded schema and computes the sorted slot layout and default payload.
// Shader paths are left unresolved.
func buildLayout(doc schemaDocument) (layout, error) {
	switch {
	case doc.Shaders == nil:
		return layout{}, fmt.Errorf("%w: shaders", ErrMissingField)
	case doc.Shaders.Vert == "":
		return layout{}, fmt.Errorf("%w: shaders.vert", ErrMissingField)
	case doc.Shaders.Frag == "":
		return layout{}, fmt.Errorf("%w: shaders.frag", ErrMissingField)
	case doc.Slots == nil:
		return layout{}, fmt.Errorf("%w: slots", ErrMissingField)
	}

	names := make([]string, 0, len(doc.Slots))
	for name := range doc.Slots {
		if name == "" {
			return layout{}, ErrEmptySlotName
		}
		if len(name) > MaxSlotNameLength {
			return layout{}, fmt.Errorf("%w: %q is %d bytes, limit is %d", ErrSlotNameTooLong, name, len(name), MaxSlotNameLength)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	l := layout{slots: make([]Slot, len(names))}
	for i, name := range names {
		kind, err := shader.ParseUniformKind(doc.Slots[name].Type)
		if err != nil {
			return layout{}, fmt.Errorf("%w: slot %q: %q", ErrUnknownKind, name, doc.Slots[name].Type)
		}
		l.slots[i] = Slot{Name: name, Kind: kind, Offset: l.size, Location: -1}
		l.size += kind.Size()
	}
	if l.size+headerSize > slab.MaxSlotSize {
		return layout{}, fmt.Errorf("%w: %d payload bytes, limit is %d", ErrLayoutOverflow, l.size, slab.MaxSlotSize-headerSize)
	}

	l.defaults = make([]byte, l.size)
	for _, s := range l.slots {
		def := doc.Slots[s.Name].Default
		if def == nil {
			continue
		}
		v, err := ValueFromLiteral(s.Kind, def)
		if err != nil {
			return layout{}, fmt.Errorf("slot %q default: %w", s.Name, err)
		}
		v.encode(l.defaults[s.Offset:])
	}
	return l, nil
}

// readMaterialDocument reads an instance document and resolves its template path next to it.
func readMaterialDocument(path string) (materialDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return materialDocument{}, err
	}
	var doc materialDocument
	if err := decodeDocument(path, data, &doc); err != nil {
		return materialDocument{}, err
	}
	if doc.Template == "" {
		return materialDocument{}, fmt.Errorf("%w: template", ErrMissingField)
	}
	doc.Template = resolvePath(filepath.Dir(path), doc.Template)
	return doc, nil
}

func resolvePath(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// canonicalPath returns the cleaned absolute form of path used as the template cache key.
func canonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}
