package parser

import (
	"fmt"
	"math"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer/stateful"
	"github.com/squareup/strata/common"
	"github.com/squareup/strata/errors"
)

var (
	lex = stateful.MustSimple([]stateful.Rule{
		{Name: `Ident`, Pattern: `[a-zA-Z_][a-zA-Z_0-9]*|` + "`[^`]*`", Action: nil},
		{Name: `Number`, Pattern: `[-+]?\d+`, Action: nil},
		{Name: `String`, Pattern: `'(\\.|[^'\\])*'`, Action: nil},
		{Name: `Punct`, Pattern: `[(),=]`, Action: nil},
		{Name: `Whitespace`, Pattern: `\s+`, Action: nil},
	})
	typeParser = participle.MustBuild(&TypeExpr{},
		participle.Lexer(lex),
		participle.Elide("Whitespace"),
		participle.Unquote("String"),
		participle.UseLookahead(2),
	)
	structureParser = participle.MustBuild(&Structure{},
		participle.Lexer(lex),
		participle.Elide("Whitespace"),
		participle.Unquote("String"),
		participle.UseLookahead(2),
	)
)

// ParseTypeExpr parses a type name without resolving it.
func ParseTypeExpr(name string) (*TypeExpr, error) {
	expr := &TypeExpr{}
	if err := typeParser.ParseString("", name, expr); err != nil {
		return nil, errors.NewInvalidTypeDefinitionError(fmt.Sprintf("cannot parse type %q: %v", name, err))
	}
	return expr, nil
}

// ParseDataType parses and resolves a type name, for example "Enum8('a' = 1, 'b' = 2)". The Name of the
// returned DataType parses back to an equal type.
func ParseDataType(name string) (common.DataType, error) {
	expr, err := ParseTypeExpr(name)
	if err != nil {
		return nil, err
	}
	return expr.ToDataType()
}

// ParseStructure parses a list of column definitions such as "a UInt8, b Array(String)".
func ParseStructure(structure string) ([]common.NameAndType, error) {
	ast := &Structure{}
	if err := structureParser.ParseString("", structure, ast); err != nil {
		return nil, errors.NewInvalidTypeDefinitionError(fmt.Sprintf("cannot parse structure %q: %v", structure, err))
	}
	res := make([]common.NameAndType, 0, len(ast.Columns))
	seen := make(map[string]struct{}, len(ast.Columns))
	for _, col := range ast.Columns {
		name := unquoteIdent(col.Name)
		if _, ok := seen[name]; ok {
			return nil, errors.NewDuplicateColumnError(name)
		}
		seen[name] = struct{}{}
		typ, err := col.Type.ToDataType()
		if err != nil {
			return nil, err
		}
		res = append(res, common.NameAndType{Name: name, Type: typ})
	}
	return res, nil
}

func unquoteIdent(s string) string {
	if len(s) >= 2 && s[0] == '`' && s[len(s)-1] == '`' {
		return s[1 : len(s)-1]
	}
	return s
}

// ToDataType resolves the expression against the known data types.
func (e *TypeExpr) ToDataType() (common.DataType, error) {
	if typ, ok := common.NumberTypesByName[e.Name]; ok {
		return noParams(e, typ)
	}
	switch e.Name {
	case "String":
		return noParams(e, common.StringType)
	case "Date":
		return noParams(e, common.DateType)
	case "DateTime":
		return noParams(e, common.DateTimeType)
	case "FixedString":
		if len(e.Params) != 1 || e.Params[0].Number == nil {
			return nil, errors.NewInvalidTypeDefinitionError("FixedString data type family must have exactly one numeric parameter")
		}
		typ, err := common.NewFixedStringType(int(*e.Params[0].Number))
		if err != nil {
			return nil, err
		}
		return typ, nil
	case "Enum8":
		values, err := enumValues[int8](e, math.MinInt8, math.MaxInt8)
		if err != nil {
			return nil, err
		}
		typ, err := common.NewEnum8Type(values)
		if err != nil {
			return nil, err
		}
		return typ, nil
	case "Enum16":
		values, err := enumValues[int16](e, math.MinInt16, math.MaxInt16)
		if err != nil {
			return nil, err
		}
		typ, err := common.NewEnum16Type(values)
		if err != nil {
			return nil, err
		}
		return typ, nil
	case "Array":
		if len(e.Params) != 1 || e.Params[0].Type == nil {
			return nil, errors.NewInvalidTypeDefinitionError("Array data type family must have exactly one type parameter")
		}
		nested, err := e.Params[0].Type.ToDataType()
		if err != nil {
			return nil, err
		}
		return common.NewArrayType(nested), nil
	case "Tuple":
		return tupleType(e)
	case "AggregateFunction":
		return aggregateFunctionType(e)
	}
	return nil, errors.NewUnknownTypeError(e.Name)
}

func noParams(e *TypeExpr, typ common.DataType) (common.DataType, error) {
	if e.Params != nil {
		return nil, errors.NewInvalidTypeDefinitionError(fmt.Sprintf("data type %s cannot have parameters", e.Name))
	}
	return typ, nil
}

func enumValues[T int8 | int16](e *TypeExpr, min int64, max int64) ([]common.EnumValue[T], error) {
	if len(e.Params) == 0 {
		return nil, errors.NewInvalidTypeDefinitionError(fmt.Sprintf("%s data type cannot be empty", e.Name))
	}
	values := make([]common.EnumValue[T], len(e.Params))
	for i, p := range e.Params {
		if p.Enum == nil {
			return nil, errors.NewInvalidTypeDefinitionError(fmt.Sprintf("elements of %s must be 'name' = value", e.Name))
		}
		if p.Enum.Value < min || p.Enum.Value > max {
			return nil, errors.NewArgumentOutOfBoundError(fmt.Sprintf("value %d for element '%s' exceeds range of %s",
				p.Enum.Value, p.Enum.Name, e.Name))
		}
		values[i] = common.EnumValue[T]{Name: p.Enum.Name, Value: T(p.Enum.Value)}
	}
	return values, nil
}

func tupleType(e *TypeExpr) (common.DataType, error) {
	if len(e.Params) == 0 {
		return nil, errors.NewInvalidTypeDefinitionError("Tuple cannot be empty")
	}
	elems := make([]common.DataType, len(e.Params))
	var names []string
	named := e.Params[0].Named != nil
	for i, p := range e.Params {
		var expr *TypeExpr
		switch {
		case named && p.Named != nil:
			names = append(names, unquoteIdent(p.Named.Name))
			expr = p.Named.Type
		case !named && p.Type != nil:
			expr = p.Type
		default:
			return nil, errors.NewInvalidTypeDefinitionError("Tuple elements must be either all named or all unnamed")
		}
		typ, err := expr.ToDataType()
		if err != nil {
			return nil, err
		}
		elems[i] = typ
	}
	typ, err := common.NewTupleType(elems, names)
	if err != nil {
		return nil, err
	}
	return typ, nil
}

func aggregateFunctionType(e *TypeExpr) (common.DataType, error) {
	if len(e.Params) == 0 || e.Params[0].Type == nil || e.Params[0].Type.Params != nil {
		return nil, errors.NewInvalidTypeDefinitionError("AggregateFunction data type family must have the function name as its first parameter")
	}
	args := make([]common.DataType, 0, len(e.Params)-1)
	for _, p := range e.Params[1:] {
		if p.Type == nil {
			return nil, errors.NewInvalidTypeDefinitionError("AggregateFunction arguments must be data types")
		}
		typ, err := p.Type.ToDataType()
		if err != nil {
			return nil, err
		}
		args = append(args, typ)
	}
	return common.NewAggregateFunctionType(e.Params[0].Type.Name, args), nil
}
