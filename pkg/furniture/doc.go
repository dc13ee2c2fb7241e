// Package furniture holds the layout input model and the module catalog.
//
// A layout is a [SpaceEnvelope] plus the [PlacedModule] records placed
// into it. Module sizes come from a [Catalog] generated for the space's
// column grid; [Resolve] turns a placed module into its [ModuleDimensions]
// once per export.
//
// Side sections show a single slice of the run, so [FilterSide] reduces the
// modules to the leftmost or rightmost ones before drawing.
package furniture
