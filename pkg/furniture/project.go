package furniture

// Project is one saved layout: the space and the modules placed into it.
type Project struct {
	Name    string         `json:"name,omitempty" toml:"name" yaml:"name,omitempty"`
	Space   SpaceEnvelope  `json:"space" toml:"space" yaml:"space"`
	Modules []PlacedModule `json:"modules" toml:"modules" yaml:"modules"`
}

// CanExport reports whether the space has the dimensions every view needs.
func (p Project) CanExport() bool {
	return p.Space.Width > 0 && p.Space.Height > 0 && p.Space.Depth > 0
}
