// Package accessor reads and writes properties of Go values addressed by
// nested paths such as "customer.address.city", "items[2].sku" or
// "labels['team']".
//
// Two accessors share one contract. BeanAccessor discovers getter and setter
// methods (falling back to exported fields) and walks arbitrarily deep paths,
// growing nil intermediates when asked to. FieldAccessor works on the
// exported fields of the target only and rejects dotted paths.
//
// Written values are coerced to the declared property type by a
// convert.Engine whose registry each accessor owns.
package accessor
