// Package diagnostic provides the failure taxonomy of property access and
// the per-property report produced by batch updates.
//
// Key capabilities:
//   - Tagged error kinds (invalid property, nil in nested path, type
//     mismatch, unsupported conversion, fatal introspection)
//   - Composite failure that keeps every collected error inspectable
//   - "Did you mean" suggestions attached to unknown properties
//   - Applied / ignored / failed outcome for each batch entry
package diagnostic
