// strokebake is a CLI utility for baking drawings and exercising reveal
// channels outside the preview window.
package main

import (
	"fmt"
	"os"

	"github.com/Faultbox/strokereveal/internal/config"
	"github.com/Faultbox/strokereveal/internal/logger"
)

func main() {
	config.ParseFlags()
	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	command := args[0]
	rest := args[1:]

	switch command {
	case "info":
		err = cmdInfo(cfg, rest)
	case "bake":
		err = cmdBake(cfg, rest)
	case "eval":
		err = cmdEval(cfg, rest)
	case "watch":
		err = cmdWatch(cfg, rest)
	case "reveal":
		err = cmdReveal(cfg, rest)
	case "config":
		err = cmdConfig(cfg, rest)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		logger.Sync()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`strokebake - drawing bake and reveal utility

Usage:
  strokebake [global flags] <command> [options]

Commands:
  info <drawing.yaml>                  Show drawing and stroke information
  bake [-o out] <drawing.yaml>         Bake and write the baked artifact
  eval [-n N] <drawing.yaml> <stroke> [t ...]
                                       Evaluate position and tangent along a stroke
  watch [-o out] <drawing.yaml>        Re-bake whenever the drawing changes
  reveal <script.yaml>                 Run a scripted reveal sequence
  config [-save] [-o path]             Print or save the effective configuration

Global flags:
  -config <path>   Config file
  -debug           Debug logging
  -seed <n>        Displacement seed override
  -simplify <tol>  Simplify tolerance override

Examples:
  strokebake info garden.yaml
  strokebake -seed 3 bake -o garden.baked.yaml garden.yaml
  strokebake eval garden.yaml 0 0 0.5 1
  strokebake reveal bees.yaml`)
}
