package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/strokereveal/internal/config"
	"github.com/Faultbox/strokereveal/internal/drawing"
	"github.com/Faultbox/strokereveal/internal/logger"
	"github.com/Faultbox/strokereveal/internal/watch"
)

var errUsage = errors.New("invalid arguments")

func usage(format string) error {
	fmt.Fprintln(os.Stderr, "Usage: strokebake "+format)
	return errUsage
}

func cmdInfo(cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return usage("info <drawing.yaml>")
	}

	d, err := drawing.Load(args[0], cfg.Bake)
	if err != nil {
		return err
	}

	fmt.Printf("Drawing: %s\n", d.Name)
	fmt.Printf("File:    %s\n", args[0])
	fmt.Printf("Width:   %g\n", d.Width)
	fmt.Printf("Strokes: %d\n", len(d.Strokes))
	if min, max, ok := d.Bounds(); ok {
		fmt.Printf("Bounds:  (%g, %g, %g) - (%g, %g, %g)\n", min.X, min.Y, min.Z, max.X, max.Y, max.Z)
	}
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  #\tpoints\tsegments\tclosed")
	for i := range d.Strokes {
		s := &d.Strokes[i]
		fmt.Fprintf(w, "  %d\t%d\t%d\t%v\n", i, len(s.Points), s.SegmentCount(), s.Closed)
	}
	return w.Flush()
}

func defaultBakedPath(src string) string {
	ext := filepath.Ext(src)
	return strings.TrimSuffix(src, ext) + ".baked" + ext
}

func cmdBake(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("bake", flag.ExitOnError)
	out := fs.String("o", "", "Output path (default <drawing>.baked.yaml, - for stdout)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return usage("bake [-o out] <drawing.yaml>")
	}

	src := fs.Arg(0)
	if *out == "" {
		*out = defaultBakedPath(src)
	}
	return bakeFile(cfg, src, *out)
}

func bakeFile(cfg *config.Config, src, out string) error {
	d, err := drawing.Load(src, cfg.Bake)
	if err != nil {
		return err
	}
	d.Bake()

	if out == "-" {
		data, err := d.MarshalBaked()
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}

	if err := d.SaveBaked(out); err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  #\tsampled\tsimplified\tpoints\tlength\ttruncated")
	for i, st := range d.Stats() {
		b, _ := d.BakedStroke(i)
		truncated := st.SamplingCut || st.StrokeCapped || st.BudgetCapped
		fmt.Fprintf(w, "  %d\t%d\t%d\t%d\t%.4f\t%v\n", i, st.Sampled, st.Simplified, st.Points, b.TotalLength, truncated)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", out)
	return nil
}

func cmdEval(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("eval", flag.ExitOnError)
	steps := fs.Int("n", 11, "Number of evenly spaced samples when no t is given")
	fs.Parse(args)

	if fs.NArg() < 2 {
		return usage("eval [-n N] <drawing.yaml> <stroke> [t ...]")
	}

	d, err := drawing.Load(fs.Arg(0), cfg.Bake)
	if err != nil {
		return err
	}
	index, err := strconv.Atoi(fs.Arg(1))
	if err != nil {
		return fmt.Errorf("stroke index %q: %w", fs.Arg(1), err)
	}
	d.Bake()
	b, err := d.BakedStroke(index)
	if err != nil {
		return err
	}

	ts, err := parseParams(fs.Args()[2:], *steps)
	if err != nil {
		return err
	}

	fmt.Printf("Stroke %d: %d points, length %.4f, loop %v\n", index, b.Len(), b.TotalLength, b.Loop)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  t\tposition\ttangent\tvisible")
	for _, t := range ts {
		p := b.Evaluate(t)
		tan := b.Tangent(t)
		fmt.Fprintf(w, "  %.3f\t(%.4f, %.4f, %.4f)\t(%.4f, %.4f, %.4f)\t%d\n",
			t, p.X, p.Y, p.Z, tan.X, tan.Y, tan.Z, b.VisibleCount(t))
	}
	return w.Flush()
}

// parseParams parses explicit arc-length parameters, or spaces n of them
// evenly over [0, 1] when none are given.
func parseParams(args []string, n int) ([]float32, error) {
	if len(args) > 0 {
		ts := make([]float32, len(args))
		for i, a := range args {
			v, err := strconv.ParseFloat(a, 32)
			if err != nil {
				return nil, fmt.Errorf("parameter %q: %w", a, err)
			}
			ts[i] = float32(v)
		}
		return ts, nil
	}

	if n < 2 {
		n = 2
	}
	ts := make([]float32, n)
	for i := range ts {
		ts[i] = float32(i) / float32(n-1)
	}
	return ts, nil
}

func cmdWatch(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	out := fs.String("o", "", "Output path (default <drawing>.baked.yaml)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return usage("watch [-o out] <drawing.yaml>")
	}
	src := fs.Arg(0)
	if *out == "" {
		*out = defaultBakedPath(src)
	}

	rebake := func(string) {
		if err := bakeFile(cfg, src, *out); err != nil {
			logger.Error("re-bake failed", zap.String("drawing", src), zap.Error(err))
		}
	}
	rebake(src)

	w, err := watch.New(src, watch.DefaultDebounce, rebake)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("watching drawing", zap.String("path", w.Path()), zap.String("output", *out))
	return w.Run(ctx)
}

func cmdReveal(cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return usage("reveal <script.yaml>")
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening script: %w", err)
	}
	defer f.Close()

	script, err := parseScript(f)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	if script.File != "" && !filepath.IsAbs(script.File) {
		script.File = filepath.Join(filepath.Dir(args[0]), script.File)
	}
	return runScript(script, cfg, os.Stdout)
}

func cmdConfig(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	save := fs.Bool("save", false, "Save to the user config directory")
	out := fs.String("o", "", "Save to a specific path")
	fs.Parse(args)

	switch {
	case *out != "":
		if err := cfg.SaveTo(*out); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Printf("Wrote %s\n", *out)
	case *save:
		path, err := cfg.Save()
		if err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Printf("Wrote %s\n", path)
	default:
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}
	return nil
}
