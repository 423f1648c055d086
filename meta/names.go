package meta

import (
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	tagName   = "prop"
	tagIgnore = "-"
)

// Decapitalize converts a Go name into a property name: "City" becomes
// "city" while "URL" and "ID" stay as they are.
func Decapitalize(name string) string {
	if name == "" {
		return name
	}

	first, size := utf8.DecodeRuneInString(name)
	if size < len(name) {
		second, _ := utf8.DecodeRuneInString(name[size:])
		if unicode.IsUpper(first) && unicode.IsUpper(second) {
			return name
		}
	}

	return string(unicode.ToLower(first)) + name[size:]
}

// Capitalize converts a property name back into an exported Go name.
func Capitalize(name string) string {
	if name == "" {
		return name
	}

	first, size := utf8.DecodeRuneInString(name)

	return string(unicode.ToUpper(first)) + name[size:]
}

// fieldName returns the property name of a struct field and whether the
// field is hidden by a `prop:"-"` tag.
func fieldName(f reflect.StructField) (string, bool) {
	tag, ok := f.Tag.Lookup(tagName)
	if !ok {
		return Decapitalize(f.Name), false
	}

	name, _, _ := strings.Cut(tag, ",")
	switch name {
	case tagIgnore:
		return "", true
	case "":
		return Decapitalize(f.Name), false
	default:
		return name, false
	}
}

// accessorName splits a method name into its property name and role.
func accessorName(method string) (string, accessorRole) {
	for _, prefix := range []struct {
		text string
		role accessorRole
	}{
		{"Set", roleSetter},
		{"Get", roleGetter},
		{"Is", roleBoolGetter},
	} {
		rest, ok := strings.CutPrefix(method, prefix.text)
		if !ok || rest == "" {
			continue
		}

		if r, _ := utf8.DecodeRuneInString(rest); unicode.IsUpper(r) {
			return Decapitalize(rest), prefix.role
		}
	}

	return Decapitalize(method), rolePlain
}

type accessorRole int

const (
	rolePlain accessorRole = iota
	roleGetter
	roleBoolGetter
	roleSetter
)
