package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	konghcl "github.com/alecthomas/kong-hcl/v2"
	"github.com/squareup/strata/cmd/strata/commands"
	"github.com/squareup/strata/common"
	"github.com/squareup/strata/conf"
	"github.com/squareup/strata/errors"
	slog "github.com/squareup/strata/log"
	"github.com/squareup/strata/metrics"
)

type arguments struct {
	Config kong.ConfigFlag `help:"HCL file with defaults for the flags" type:"existingfile"`
	Conf   string          `help:"JSON configuration file, comments are allowed" type:"existingfile"`
	Log    slog.Config     `help:"Configuration for the logger" embed:"" prefix:"log-"`

	Format    commands.FormatCommand    `cmd:"" help:"Read JSONEachRow rows and write them in an output format"`
	Width     commands.WidthCommand     `cmd:"" help:"Write the visible width of every value of JSONEachRow rows"`
	Call      commands.CallCommand      `cmd:"" help:"Call a function on literal arguments"`
	Functions commands.FunctionsCommand `cmd:"" help:"List the available functions"`
	ParseType commands.ParseTypeCommand `cmd:"" name:"parse-type" help:"Show how a type name is parsed"`
}

func main() {
	defer common.PanicHandler()
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, common.MaybeLogInternalError(err).Error())
		os.Exit(1)
	}
}

func run(args []string, in io.Reader, out io.Writer) error {
	cfg := arguments{}
	parser, err := kong.New(&cfg,
		kong.Name("strata"),
		kong.Description("Format blocks of columns and call functions on them."),
		kong.Configuration(konghcl.Loader),
	)
	if err != nil {
		return errors.WithStack(err)
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return errors.WithStack(err)
	}
	if err := cfg.Log.Configure(); err != nil {
		return err
	}
	config := conf.NewDefaultConfig()
	if cfg.Conf != "" {
		if config, err = conf.Load(cfg.Conf); err != nil {
			return err
		}
	}
	env, err := commands.NewEnv(config, in, out)
	if err != nil {
		return err
	}
	if config.EnableMetrics {
		server := metrics.NewServer(config.MetricsListenAddress)
		if err := server.Start(); err != nil {
			return err
		}
		defer func() {
			_ = server.Stop()
		}()
	}
	return kctx.Run(env)
}
