// Package contextfile builds render contexts from YAML or JSON files and from
// key=value assignments given on the command line.
package contextfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-promptgen/pkg/domain"
)

const opContext = "context file"

// Load reads a context mapping from path. Files ending in .json are decoded as
// JSON; everything else is decoded as YAML, which also accepts JSON.
func Load(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		kind := domain.KindIO
		if errors.Is(err, fs.ErrNotExist) {
			kind = domain.KindNotFound
		}
		return nil, domain.New(opContext, kind, path, err)
	}

	out, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return nil, domain.New(opContext, domain.KindParse, path, err)
	}
	return out, nil
}

// Decode parses data as JSON when ext is .json and as YAML otherwise. Empty
// documents yield an empty mapping.
func Decode(data []byte, ext string) (map[string]any, error) {
	out := map[string]any{}
	if len(bytes.TrimSpace(data)) == 0 {
		return out, nil
	}

	if strings.EqualFold(ext, ".json") {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&out); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		return normalize(out).(map[string]any), nil
	}

	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if out == nil {
		out = map[string]any{}
	}
	return normalize(out).(map[string]any), nil
}

// ParseAssignments turns key=value pairs into a context mapping. Dotted keys
// build nested mappings; values are parsed as YAML scalars so numbers and
// booleans keep their type.
func ParseAssignments(pairs []string) (map[string]any, error) {
	out := map[string]any{}
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("contextfile: invalid assignment %q, expected key=value", pair)
		}

		if err := setPath(out, strings.Split(key, "."), parseScalar(raw)); err != nil {
			return nil, fmt.Errorf("contextfile: assignment %q: %w", pair, err)
		}
	}
	return out, nil
}

// Merge copies src into dst recursively; src wins on conflicts. Nested
// mappings present on both sides are merged rather than replaced.
func Merge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = map[string]any{}
	}
	for key, value := range src {
		srcMap, srcIsMap := value.(map[string]any)
		dstMap, dstIsMap := dst[key].(map[string]any)
		if srcIsMap && dstIsMap {
			dst[key] = Merge(dstMap, srcMap)
			continue
		}
		dst[key] = value
	}
	return dst
}

func setPath(target map[string]any, path []string, value any) error {
	for i, segment := range path {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			return errors.New("empty key segment")
		}
		if i == len(path)-1 {
			target[segment] = value
			return nil
		}
		next, ok := target[segment].(map[string]any)
		if !ok {
			if _, exists := target[segment]; exists {
				return fmt.Errorf("key %q is not a mapping", segment)
			}
			next = map[string]any{}
			target[segment] = next
		}
		target = next
	}
	return nil
}

func parseScalar(raw string) any {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	switch trimmed {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.Atoi(trimmed); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil && strings.ContainsAny(trimmed, ".eE") {
		return f
	}
	return raw
}

// normalize rewrites decoded values into map[string]any / []any / int /
// float64 shapes so templates see the same types whichever format was used.
func normalize(value any) any {
	switch v := value.(type) {
	case map[string]any:
		for key, inner := range v {
			v[key] = normalize(inner)
		}
		return v
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, inner := range v {
			out[fmt.Sprint(key)] = normalize(inner)
		}
		return out
	case []any:
		for i, inner := range v {
			v[i] = normalize(inner)
		}
		return v
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	default:
		return v
	}
}
