// Command svg2png converts an SVG file to a PNG image.
//
// Usage:
//
//	svg2png [flags] <input.svg> <output.png> <width> <height>
//
// Flags may be given before or after the positional arguments.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/benoitkugler/svg2png/svgicon"
	"github.com/benoitkugler/svg2png/svgrender"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

type command struct {
	input, output string
	target        svgrender.Target
	settings      settings
	config        svgrender.Configuration
}

// parseArgs accepts flags interleaved with the positional arguments.
func parseArgs(args []string, stderr io.Writer) (command, error) {
	fs := flag.NewFlagSet("svg2png", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		noFix      = fs.Bool("no-svg-fix", false, "do not guess a missing viewBox from width and height")
		noAlpha    = fs.Bool("no-alpha-channel", false, "composite the image over the background color")
		background = fs.String("background", "white", "background color used with -no-alpha-channel")
		scale      = fs.Float64("scale", 1, "multiply the output size")
		errorMode  = fs.String("error-mode", "warn", "handling of unsupported content: ignore, warn or strict")
		quiet      = fs.Bool("quiet", false, "do not print warnings and errors")
		verbose    = fs.Bool("verbose", false, "print debug logs")
		configFile = fs.String("config", "", "HCL configuration `file`; flags take precedence")
	)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: svg2png [flags] <input.svg> <output.png> <width> <height>")
		fs.PrintDefaults()
	}

	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return command{}, err
		}
		args = fs.Args()
		if len(args) == 0 {
			break
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
	if len(positional) != 4 {
		return command{}, fmt.Errorf("expected 4 arguments, got %d", len(positional))
	}

	cmd := command{input: positional[0], output: positional[1]}
	var err error
	if cmd.target.Width, err = strconv.ParseFloat(positional[2], 64); err != nil {
		return command{}, fmt.Errorf("invalid width %q", positional[2])
	}
	if cmd.target.Height, err = strconv.ParseFloat(positional[3], 64); err != nil {
		return command{}, fmt.Errorf("invalid height %q", positional[3])
	}

	cmd.settings = defaultSettings()
	if *configFile != "" {
		cfg, err := loadConfigFile(*configFile)
		if err != nil {
			return command{}, err
		}
		cmd.settings.applyFile(cfg)
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "no-svg-fix":
			cmd.settings.allowFix = !*noFix
		case "no-alpha-channel":
			cmd.settings.removeAlpha = *noAlpha
		case "background":
			cmd.settings.background = *background
		case "scale":
			cmd.settings.scale = *scale
		case "error-mode":
			cmd.settings.errorMode = *errorMode
		case "quiet":
			cmd.settings.quiet = *quiet
		case "verbose":
			cmd.settings.verbose = *verbose
		}
	})

	cmd.target.Scale = cmd.settings.scale
	if cmd.config, err = cmd.settings.configuration(); err != nil {
		return command{}, err
	}
	return cmd, nil
}

func run(args []string, stderr io.Writer) int {
	cmd, err := parseArgs(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "[Error] %s\n", err)
		return exitUsage
	}

	if cmd.settings.verbose {
		svgrender.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		defer svgrender.SetLogger(nil)
	}

	fail := func(err error) int {
		if !cmd.settings.quiet {
			fmt.Fprintf(stderr, "[Error] %s\n", err)
		}
		return exitFailure
	}

	data, err := os.ReadFile(cmd.input)
	if err != nil {
		return fail(err)
	}

	var warn svgrender.WarningHandler
	if !cmd.settings.quiet {
		warn = func(w svgicon.Warning) { fmt.Fprintf(stderr, "[Warning] %s\n", w) }
	}
	out, err := svgrender.NewConverter(cmd.config).Render(data, cmd.target, warn)
	if err != nil {
		return fail(err)
	}
	if err := os.WriteFile(cmd.output, out, 0o644); err != nil {
		return fail(err)
	}
	return exitOK
}
