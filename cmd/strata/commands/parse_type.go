package commands

import (
	"fmt"

	"github.com/alecthomas/repr"
	"github.com/squareup/strata/common/parser"
	"github.com/squareup/strata/errors"
)

type ParseTypeCommand struct {
	Name string `arg:"" help:"Type name, for example 'Array(Tuple(UInt8, String))'"`
}

// Run prints the syntax tree of the type name followed by its canonical name.
func (c *ParseTypeCommand) Run(env *Env) error {
	expr, err := parser.ParseTypeExpr(c.Name)
	if err != nil {
		return err
	}
	typ, err := expr.ToDataType()
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(env.Out, "%s\n%s\n", repr.String(expr, repr.Indent("  ")), typ.Name()); err != nil {
		return errors.WithStack(err)
	}
	return nil
}
