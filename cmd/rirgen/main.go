// Command rirgen synthesizes stochastic room impulse responses.
//
// Usage:
//
//	rirgen [generate] --folder <dir> [flags]
//	rirgen analyze <wav> ...
//	rirgen apply --ir <wav> <dry-wav> <out-wav>
//
// Examples:
//
//	rirgen --folder out
//	rirgen generate --folder out --count 10 --rt60 1200 --edt 120 --drr -6
//	rirgen analyze out/*.wav
//	rirgen apply --ir out/rir_1.wav voice.wav voice-room.wav
//
// Every flag can also be set through a RIRGEN_* environment variable or a
// JSON file passed with --config.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-rir/internal/cli"
)

var version = "0.1.0"

const description = "Stochastic room impulse response synthesis"

// CLI defines the command-line interface.
type CLI struct {
	Globals

	Generate GenerateCmd `cmd:"" default:"withargs" help:"Generate a batch of room impulse responses."`
	Analyze  AnalyzeCmd  `cmd:"" help:"Measure acoustic parameters of WAV impulse responses."`
	Apply    ApplyCmd    `cmd:"" help:"Convolve a dry recording with an impulse response."`
}

// Globals are flags shared by every command.
type Globals struct {
	Config   kong.ConfigFlag `short:"c" type:"path" help:"Load flag values from a JSON file."`
	LogLevel string          `default:"info" enum:"debug,info,warn,error" help:"Log level (debug, info, warn, error)."`
	Version  versionFlag     `short:"v" help:"Show version information."`
}

type versionFlag bool

// BeforeApply prints the version and exits before required flags are checked.
func (versionFlag) BeforeApply(app *kong.Kong) error {
	cli.PrintVersion(app.Stdout, version)
	app.Exit(0)

	return nil
}

// env carries the process streams and logger into command Run methods.
type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	log    *logrus.Logger
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr, os.Exit))
}

// run parses args, executes the selected command and returns the exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer, exit func(int)) int {
	var app CLI

	parser, err := kong.New(&app,
		kong.Name(cli.AppName),
		kong.Description(description),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
		kong.Exit(exit),
		kong.Help(cli.StyledHelpPrinter(description)),
		kong.Configuration(kong.JSON),
		kong.DefaultEnvars("RIRGEN"),
		kong.WithHyphenPrefixedParameters(true),
	)
	if err != nil {
		cli.PrintError(stderr, err.Error())
		return 1
	}

	ctx, err := parser.Parse(args)
	if err != nil {
		cli.PrintError(stderr, err.Error())
		return 1
	}

	logger, err := newLogger(app.LogLevel, stderr)
	if err != nil {
		cli.PrintError(stderr, err.Error())
		return 1
	}

	if err := ctx.Run(&env{stdin: stdin, stdout: stdout, stderr: stderr, log: logger}); err != nil {
		cli.PrintError(stderr, err.Error())
		return 1
	}

	return 0
}

func newLogger(level string, w io.Writer) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(lvl)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})

	return logger, nil
}
