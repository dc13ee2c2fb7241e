// Package io reads layout projects and writes export artifacts.
//
// # Project files
//
// A project is a space envelope plus the modules placed into it. The file
// format follows the extension: .toml, .json, .yaml or .yml. In TOML:
//
//	name = "Bedroom wall"
//
//	[space]
//	width = 4000
//	height = 2400
//	depth = 600
//	install_type = "built-in"
//
//	[space.walls]
//	left = true
//	right = true
//
//	[[modules]]
//	id = "m1"
//	module_id = "single-2drawer-hanging-800"
//	slot_index = 0
//
// Positions are in scene units (1 unit = 100 mm) centered on the space;
// every other length is in millimetres. A module without slot_index is
// placed by its position.
//
// # Artifacts
//
// [WriteArtifact] writes a rendered export into a directory, creating it
// when needed. The file appears atomically under its final name.
package io
