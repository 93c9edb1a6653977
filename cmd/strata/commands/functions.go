package commands

import (
	"fmt"

	"github.com/squareup/strata/errors"
)

type FunctionsCommand struct{}

func (c *FunctionsCommand) Run(env *Env) error {
	for _, name := range env.Factory.Names() {
		if _, err := fmt.Fprintln(env.Out, name); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}
