package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// fileSchema is the JSON Schema a pattern-set override file must satisfy.
const fileSchema = `{
  "type": "object",
  "required": ["version", "fields"],
  "properties": {
    "version": {"type": "integer", "minimum": 1},
    "fields": {
      "type": "array",
      "minItems": 1,
      "items": {"$ref": "#/$defs/field"}
    },
    "fallback": {
      "type": "array",
      "items": {"$ref": "#/$defs/field"}
    },
    "triple": {
      "type": "object",
      "required": ["anchors"],
      "properties": {
        "anchors": {"type": "array", "minItems": 1, "items": {"type": "string"}}
      }
    }
  },
  "$defs": {
    "field": {
      "type": "object",
      "required": ["name", "patterns"],
      "properties": {
        "name": {"type": "string", "minLength": 1},
        "patterns": {"type": "array", "minItems": 1, "items": {"type": "string"}}
      }
    }
  }
}`

type fileField struct {
	Name     string   `json:"name"`
	Patterns []string `json:"patterns"`
}

type fileFormat struct {
	Version  int         `json:"version"`
	Fields   []fileField `json:"fields"`
	Fallback []fileField `json:"fallback"`
	Triple   struct {
		Anchors []string `json:"anchors"`
	} `json:"triple"`
}

// Load reads a pattern-set override from a JSON file, validates its shape and
// compiles the regexps. Field patterns must carry exactly one capture group,
// triple anchors exactly three.
func Load(path string) (*Schema, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", strings.NewReader(fileSchema)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	js, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("parse schema file: %w", err)
	}
	if err := js.Validate(v); err != nil {
		return nil, fmt.Errorf("schema file does not match expected shape: %w", err)
	}

	var ff fileFormat
	if err := json.Unmarshal(raw, &ff); err != nil {
		return nil, fmt.Errorf("decode schema file: %w", err)
	}

	s := &Schema{Version: ff.Version}
	if s.Fields, err = compileFields(ff.Fields, 1); err != nil {
		return nil, err
	}
	if s.Fallback, err = compileFields(ff.Fallback, 1); err != nil {
		return nil, err
	}
	for _, a := range ff.Triple.Anchors {
		re, err := compileChecked(a, 3)
		if err != nil {
			return nil, err
		}
		s.Triple.Anchors = append(s.Triple.Anchors, re)
	}
	if len(s.Triple.Anchors) == 0 {
		s.Triple = Default().Triple
	}
	return s, nil
}

func compileFields(ffs []fileField, groups int) ([]Field, error) {
	fields := make([]Field, 0, len(ffs))
	for _, f := range ffs {
		field := Field{Name: f.Name}
		for _, p := range f.Patterns {
			re, err := compileChecked(p, groups)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", f.Name, err)
			}
			field.Patterns = append(field.Patterns, re)
		}
		fields = append(fields, field)
	}
	return fields, nil
}

func compileChecked(expr string, groups int) (*regexp.Regexp, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("pattern %q: %w", expr, err)
	}
	if re.NumSubexp() != groups {
		return nil, fmt.Errorf("pattern %q: want %d capture group(s), has %d", expr, groups, re.NumSubexp())
	}
	return re, nil
}
