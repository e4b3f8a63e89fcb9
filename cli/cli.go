package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/xpr/cli/cmd"
	"github.com/ardnew/xpr/pkg"
)

// CLI is the top-level command-line interface for xpr.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Scripts    []string `help:"YAML function script(s) to register" name:"funcs" short:"F" type:"existingfile"`
	NoBuiltins bool     `help:"Do not register the builtin functions"`

	Version kong.VersionFlag `help:"Print version and exit" short:"V"`

	Eval  cmd.Eval  `cmd:"" default:"withargs" help:"Evaluate expressions"`
	Bench cmd.Bench `cmd:""                    help:"Measure evaluation speed"`
	Dump  cmd.Dump  `cmd:""                    help:"Print tokens and compiled program"`
	Funcs cmd.Funcs `cmd:""                    help:"List available functions"`
	Repl  cmd.Repl  `cmd:""                    help:"Start an interactive session"`
	Init  cmd.Init  `cmd:""                    help:"Initialize configuration file"`
}

// Run executes the xpr CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(baseConfig + ".yaml")

	vars := kong.Vars{
		"version":            pkg.Version,
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  cacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configPath(baseConfig+".json")),
		kong.Configuration(resolve(cmd.ConfigIdentifier), configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Stuff additional context values for use by commands
	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithFunctions(ctx, cli.Scripts, !cli.NoBuiltins)

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	cli.Log.start(ctx)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}
