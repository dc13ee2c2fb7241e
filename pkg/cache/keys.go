package cache

// Keyer builds cache keys for the export stages.
type Keyer interface {
	// DocumentKey identifies an extracted document. inputHash is the
	// content hash of the space and module records.
	DocumentKey(inputHash string, opts DocumentKeyOpts) string

	// ArtifactKey identifies one serialized output of a document.
	ArtifactKey(docHash string, opts ArtifactKeyOpts) string
}

// DocumentKeyOpts are the extraction settings that change the document.
type DocumentKeyOpts struct {
	View       string `json:"view"`
	Strategy   string `json:"strategy"`
	SideFilter string `json:"side_filter,omitempty"`
	Sanitize   string `json:"sanitize,omitempty"`
	// Date is the title block date (YYYY-MM-DD); empty for front views.
	Date string `json:"date,omitempty"`
}

// ArtifactKeyOpts are the serializer settings that change the output bytes.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Width  float64 `json:"width,omitempty"`
	Scale  float64 `json:"scale,omitempty"`
	Date   string  `json:"date,omitempty"`
}

// DefaultKeyer hashes the key inputs with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// DocumentKey implements [Keyer].
func (DefaultKeyer) DocumentKey(inputHash string, opts DocumentKeyOpts) string {
	return hashKey("document", inputHash, opts)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(docHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", docHash, opts)
}

var _ Keyer = DefaultKeyer{}
