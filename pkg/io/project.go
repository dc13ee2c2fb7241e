package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/furnidraw/pkg/errors"
	"github.com/matzehuels/furnidraw/pkg/furniture"
)

// Format is a project file encoding.
type Format string

// Project file formats.
const (
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidProject, "unsupported project file %q (want .toml, .json, .yaml or .yml)", filepath.Base(path))
}

// ReadProjectFile reads and validates the project at path.
func ReadProjectFile(path string) (*furniture.Project, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "project file not found: %s", path)
		}
		return nil, err
	}
	defer f.Close()
	return ReadProject(f, format)
}

// ReadProject decodes a project in the given format and validates it.
// Unknown fields are rejected so that typos do not silently drop settings.
func ReadProject(r io.Reader, format Format) (*furniture.Project, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read project: %w", err)
	}

	var p furniture.Project
	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), &p)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidProject, err, "decode toml")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidProject, "unknown field %q", undecoded[0].String())
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&p); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidProject, err, "decode json")
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&p); err != nil && err != io.EOF {
			return nil, errors.Wrap(errors.ErrCodeInvalidProject, err, "decode yaml")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidProject, "unsupported project format %q", format)
	}

	if err := ValidateProject(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ValidateProject checks the module records. The space itself is checked
// by the export runner so that an incomplete space still loads.
//
// Validation rules:
//   - every module has an id and a module_id
//   - ids are unique
//   - slot indices are not negative
//   - custom sizes are not negative
func ValidateProject(p *furniture.Project) error {
	seen := make(map[string]bool, len(p.Modules))
	for i, m := range p.Modules {
		switch {
		case m.ID == "":
			return errors.New(errors.ErrCodeInvalidProject, "module %d: id is required", i)
		case m.ModuleID == "":
			return errors.New(errors.ErrCodeInvalidProject, "module %s: module_id is required", m.ID)
		case seen[m.ID]:
			return errors.New(errors.ErrCodeInvalidProject, "duplicate module id %q", m.ID)
		case m.SlotIndex != nil && *m.SlotIndex < 0:
			return errors.New(errors.ErrCodeInvalidProject, "module %s: slot_index must not be negative", m.ID)
		case m.CustomWidth < 0 || m.CustomDepth < 0:
			return errors.New(errors.ErrCodeInvalidProject, "module %s: custom sizes must not be negative", m.ID)
		}
		seen[m.ID] = true
	}
	return nil
}

// WriteProject encodes p as indented JSON.
func WriteProject(w io.Writer, p *furniture.Project) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}
