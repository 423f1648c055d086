// Package convert coerces values into the declared types of properties.
//
// An Engine consults, in order:
//   - the custom converters of its Registry, property-scoped first
//   - the process-wide default converters (RegisterDefault)
//   - container rules for arrays, slices and maps, element by element
//   - scalar rules: pointers, the primitive conversion tables, text
//     marshaling and registered enums (RegisterEnum)
//
// Failures are *diagnostic.Error values of kind TypeMismatch or
// ConversionNotSupported.
package convert
