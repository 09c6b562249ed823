package model

import (
	"fmt"
	"strings"
)

// Column types supported by the model. VARCHAR may carry a length
// parameter, e.g. "VARCHAR(255)"; all other types are the bare name.
const (
	TypeVarchar   = "VARCHAR"
	TypeDouble    = "DOUBLE"
	TypeFloat     = "FLOAT"
	TypeBool      = "BOOL"
	TypeInt       = "INT"
	TypeBigint    = "BIGINT"
	TypeDate      = "DATE"
	TypeDatetime  = "DATETIME"
	TypeTimestamp = "TIMESTAMP"
	TypeTime      = "TIME"
	TypeUnknown   = "UNKNOWN"
)

var validColumnTypes = map[string]bool{
	TypeVarchar:   true,
	TypeDouble:    true,
	TypeFloat:     true,
	TypeBool:      true,
	TypeInt:       true,
	TypeBigint:    true,
	TypeDate:      true,
	TypeDatetime:  true,
	TypeTimestamp: true,
	TypeTime:      true,
	TypeUnknown:   true,
}

// IsVarcharType reports whether a declared type is a variable-length
// string type, with or without a length parameter.
func IsVarcharType(columnType string) bool {
	return strings.HasPrefix(columnType, TypeVarchar)
}

// Column is a single column in a table. Columns are immutable after
// construction.
type Column struct {
	Name string
	Type string
}

// NewColumn creates a column, rejecting unrecognized types. A VARCHAR
// type with a length parameter is accepted.
func NewColumn(name, columnType string) (*Column, error) {
	if name == "" {
		return nil, fmt.Errorf("column name is required")
	}
	if !validColumnTypes[columnType] && !IsVarcharType(columnType) {
		return nil, fmt.Errorf("%s is not a valid column type for column %s", columnType, name)
	}
	return &Column{Name: name, Type: columnType}, nil
}
