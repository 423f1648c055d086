// Package meta introspects Go types into property descriptors and caches
// the results process-wide.
//
// Two styles are supported:
//   - StyleMethods: getter/setter methods (Name, GetName, IsName and
//     SetName), falling back to exported fields
//   - StyleFields: exported fields only, including promoted fields
//
// Results are cached per (type, style) in a concurrent map. Entries are
// grouped by package path scope and can be dropped with ClearScope.
package meta
