// Package store is a small order-management domain used to demonstrate
// property access: plain exported fields, getter/setter pairs with
// validation, read-only derived properties, nested pointers, slices, maps,
// and values with their own text forms.
package store
