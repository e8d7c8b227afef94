// Package cmsschema describes the content collections exposed to the
// git-backed CMS editor, and which files the content-update function may
// write.
package cmsschema

import (
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// Schema is the editor configuration document.
type Schema struct {
	Branch      string       `yaml:"branch"`
	Build       Build        `yaml:"build"`
	Media       Media        `yaml:"media"`
	Collections []Collection `yaml:"collections"`
}

// Build names the folders the editor build reads and writes.
type Build struct {
	PublicFolder string `yaml:"publicFolder"`
	OutputFolder string `yaml:"outputFolder"`
}

// Media configures where uploaded media lives.
type Media struct {
	MediaRoot    string `yaml:"mediaRoot"`
	PublicFolder string `yaml:"publicFolder"`
}

// Collection is a folder of documents sharing one set of fields.
type Collection struct {
	Name   string  `yaml:"name"`
	Label  string  `yaml:"label"`
	Path   string  `yaml:"path"`
	Format string  `yaml:"format,omitempty"`
	Fields []Field `yaml:"fields"`
}

// Field is one editable field of a collection.
type Field struct {
	Name  string `yaml:"name"`
	Label string `yaml:"label"`
	Type  string `yaml:"type"`
}

var fieldTypes = map[string]bool{
	"string":    true,
	"number":    true,
	"boolean":   true,
	"datetime":  true,
	"image":     true,
	"reference": true,
	"rich-text": true,
	"object":    true,
}

const defaultFormat = "md"

// Default returns the configuration shipped with the site: one "post"
// collection with a title and a rich-text body.
func Default() Schema {
	return Schema{
		Branch: "main",
		Build:  Build{PublicFolder: "public", OutputFolder: "admin"},
		Media:  Media{MediaRoot: "", PublicFolder: "public"},
		Collections: []Collection{
			{
				Name:   "post",
				Label:  "Posts",
				Path:   "content/posts",
				Format: defaultFormat,
				Fields: []Field{
					{Name: "title", Label: "Title", Type: "string"},
					{Name: "body", Label: "Body", Type: "rich-text"},
				},
			},
		},
	}
}

// Load reads a YAML schema document. An empty path returns Default.
func Load(filePath string) (Schema, error) {
	if strings.TrimSpace(filePath) == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return Schema{}, fmt.Errorf("read schema: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML schema document.
func Parse(data []byte) (Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Schema{}, fmt.Errorf("parse schema: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Schema{}, err
	}
	return s, nil
}

// Marshal encodes the schema as YAML.
func (s Schema) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return data, nil
}

// Validate checks collection and field declarations.
func (s Schema) Validate() error {
	if len(s.Collections) == 0 {
		return errors.New("schema declares no collections")
	}
	seen := make(map[string]bool, len(s.Collections))
	var errs []error
	for i, c := range s.Collections {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			errs = append(errs, fmt.Errorf("collection %d: name is required", i))
			continue
		}
		if seen[name] {
			errs = append(errs, fmt.Errorf("collection %q: duplicate name", name))
		}
		seen[name] = true
		if cleanDir(c.Path) == "" {
			errs = append(errs, fmt.Errorf("collection %q: path is required", name))
		}
		errs = append(errs, validateFields(name, c.Fields)...)
	}
	return errors.Join(errs...)
}

func validateFields(collection string, fields []Field) []error {
	var errs []error
	seen := make(map[string]bool, len(fields))
	for i, f := range fields {
		name := strings.TrimSpace(f.Name)
		if name == "" {
			errs = append(errs, fmt.Errorf("collection %q: field %d: name is required", collection, i))
			continue
		}
		if seen[name] {
			errs = append(errs, fmt.Errorf("collection %q: field %q: duplicate name", collection, name))
		}
		seen[name] = true
		if !fieldTypes[strings.TrimSpace(f.Type)] {
			errs = append(errs, fmt.Errorf("collection %q: field %q: unknown type %q", collection, name, f.Type))
		}
	}
	return errs
}

// CollectionFor returns the collection a repository file belongs to. The
// file must sit under the collection path and carry its format extension.
func (s Schema) CollectionFor(filePath string) (Collection, bool) {
	clean := path.Clean(strings.TrimPrefix(strings.TrimSpace(filePath), "/"))
	for _, c := range s.Collections {
		dir := cleanDir(c.Path)
		if dir == "" || !strings.HasPrefix(clean, dir+"/") {
			continue
		}
		format := strings.TrimSpace(c.Format)
		if format == "" {
			format = defaultFormat
		}
		if path.Ext(clean) != "."+format {
			continue
		}
		return c, true
	}
	return Collection{}, false
}

func cleanDir(dir string) string {
	trimmed := strings.Trim(strings.TrimSpace(dir), "/")
	if trimmed == "" {
		return ""
	}
	return path.Clean(trimmed)
}
