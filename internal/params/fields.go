// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package params

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/matt-FFFFFF/dvcli/internal/dataverse"
)

var (
	// ErrInvalidFieldName is returned when a field name does not follow the grammar.
	ErrInvalidFieldName = errors.New("invalid field name")
	// ErrFieldValueSyntax is returned when a field value is not written as name=value.
	ErrFieldValueSyntax = errors.New("field value must be written as name=value")
)

var fieldNameRe = regexp.MustCompile(`^[a-zA-Z0-9]+\*?(\.[a-zA-Z0-9]+)?$`)

const multipleMarker = "*"

// ParseFieldValues parses name=value pairs into metadata fields.
// When a name is given more than once the last value wins.
func ParseFieldValues(values []string) ([]dataverse.MetadataField, error) {
	kv := make(map[string]string, len(values))

	for _, v := range values {
		name, value, ok := strings.Cut(v, "=")
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrFieldValueSyntax, v)
		}

		kv[name] = value
	}

	return FieldsFromMap(kv)
}

// FieldsFromMap turns a map of field names to values into metadata fields.
// Primitive fields come first, then compound fields, each sorted by name.
func FieldsFromMap(kv map[string]string) ([]dataverse.MetadataField, error) {
	primitives := make(map[string]string)
	compounds := make(map[string]map[string]string)

	for name, value := range kv {
		if !fieldNameRe.MatchString(name) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidFieldName, name)
		}

		parent, child, isSub := strings.Cut(name, ".")
		if !isSub {
			primitives[name] = value
			continue
		}

		if compounds[parent] == nil {
			compounds[parent] = make(map[string]string)
		}

		compounds[parent][child] = value
	}

	fields := make([]dataverse.MetadataField, 0, len(primitives)+len(compounds))

	for _, name := range sortedKeys(primitives) {
		fields = append(fields, primitiveField(name, primitives[name]))
	}

	for _, name := range sortedKeys(compounds) {
		fields = append(fields, compoundField(name, compounds[name]))
	}

	return fields, nil
}

func primitiveField(name, value string) dataverse.MetadataField {
	typeName, multiple := strings.CutSuffix(name, multipleMarker)

	f := dataverse.MetadataField{
		TypeName:  typeName,
		Multiple:  multiple,
		TypeClass: dataverse.TypeClassPrimitive,
		Value:     value,
	}

	if multiple {
		f.Value = []string{value}
	}

	return f
}

func compoundField(name string, subfields map[string]string) dataverse.MetadataField {
	typeName, multiple := strings.CutSuffix(name, multipleMarker)

	value := make(map[string]dataverse.MetadataField, len(subfields))
	for child, v := range subfields {
		value[child] = primitiveField(child, v)
	}

	f := dataverse.MetadataField{
		TypeName:  typeName,
		Multiple:  multiple,
		TypeClass: dataverse.TypeClassCompound,
		Value:     value,
	}

	if multiple {
		f.Value = []map[string]dataverse.MetadataField{value}
	}

	return f
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}
