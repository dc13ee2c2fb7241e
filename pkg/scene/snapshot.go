package scene

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// ReadSnapshot decodes a JSON scene snapshot written by the renderer.
func ReadSnapshot(r io.Reader) (*Node, error) {
	var root Node
	if err := json.NewDecoder(r).Decode(&root); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	root.link()
	return &root, nil
}

// ReadSnapshotFile opens path and decodes it with [ReadSnapshot].
func ReadSnapshotFile(path string) (*Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadSnapshot(f)
}

// WriteSnapshot encodes root as indented JSON.
func WriteSnapshot(w io.Writer, root *Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(root)
}
