// Package propfile reads property values from YAML documents.
//
// Nested mappings become dotted paths and sequences of mappings become
// indexed paths, so
//
//	customer:
//	  name: Ann
//	  tags: [vip, early]
//	items:
//	  - sku: A-1
//	    quantity: 2
//	limits:
//	  "[cpu]": 4
//
// yields, in document order:
//
//	customer.name = "Ann"
//	customer.tags = []any{"vip", "early"}
//	items[0].sku = "A-1"
//	items[0].quantity = "2"
//	limits[cpu] = "4"
//
// Scalars are kept as text and left to the conversion engine; null becomes
// nil. Keys starting with "[" are appended without a dot.
package propfile
