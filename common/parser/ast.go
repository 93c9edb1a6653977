// Package parser parses data type names such as Array(Tuple(a UInt8, b String)) and table structures such as
// "id UInt64, tags Array(String)".
//
//nolint:govet
package parser

// TypeExpr is a type name with optional parameters.
type TypeExpr struct {
	Name   string       `parser:"@Ident"`
	Params []*TypeParam `parser:"( \"(\" ( @@ ( \",\" @@ )* )? \")\" )?"`
}

// TypeParam is one parameter of a TypeExpr. Which field is set depends on the type: enums take members,
// FixedString takes a number, tuples take optionally named element types.
type TypeParam struct {
	Enum   *EnumMember `parser:"  @@"`
	Number *int64      `parser:"| @Number"`
	Named  *ColumnDef  `parser:"| @@"`
	Type   *TypeExpr   `parser:"| @@"`
}

type EnumMember struct {
	Name  string `parser:"@String \"=\""`
	Value int64  `parser:"@Number"`
}

// ColumnDef is a name followed by a type.
type ColumnDef struct {
	Name string    `parser:"@Ident"`
	Type *TypeExpr `parser:"@@"`
}

// Structure is a comma separated list of column definitions.
type Structure struct {
	Columns []*ColumnDef `parser:"( @@ ( \",\" @@ )* )?"`
}
