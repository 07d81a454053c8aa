package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"

	"github.com/starford/almanac/internal/batch"
	"github.com/starford/almanac/internal/catalog"
	"github.com/starford/almanac/internal/models"
	"github.com/starford/almanac/pkg/flexidate"
)

var (
	unparsedColor  = color.New(color.FgRed, color.Bold)
	qualifiedColor = color.New(color.FgYellow)
)

type parsed struct {
	input string
	date  *flexidate.FlexiDate
}

func normalizeCommand() *cli.Command {
	return &cli.Command{
		Name:      "normalize",
		Usage:     "Print the canonical form of each date (arguments, --file, or stdin lines)",
		ArgsUsage: "[text...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "Read one date per line from `FILE`"},
			&cli.BoolFlag{Name: "sort", Aliases: []string{"s"}, Usage: "Order output chronologically"},
			&cli.BoolFlag{Name: "json", Usage: "Emit a JSON array"},
			&cli.BoolFlag{Name: "month-first", Usage: "Read 05/07/2010 as May 7"},
			&cli.BoolFlag{Name: "no-color", Usage: "Disable colored output"},
		},
		Action: normalize,
	}
}

func normalize(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Bool("no-color") {
		color.NoColor = true
	}
	if cmd.Bool("month-first") {
		cfg.Parser.DayFirst = false
	}

	inputs, err := readInputs(cmd)
	if err != nil {
		return err
	}

	p := cfg.Parser.NewParser()
	results, err := batch.Map(ctx, cfg.Parser.Workers, inputs, func(_ context.Context, s string) (parsed, error) {
		return parsed{input: s, date: p.Parse(flexidate.Text(s))}, nil
	})
	if err != nil {
		return err
	}

	if cmd.Bool("sort") {
		slices.SortStableFunc(results, func(a, b parsed) int {
			return flexidate.Compare(deref(a.date), deref(b.date))
		})
	}

	out := writerOf(cmd)
	if cmd.Bool("json") {
		return writeJSON(out, results)
	}
	return writeText(out, results)
}

func readInputs(cmd *cli.Command) ([]string, error) {
	if args := cmd.Args().Slice(); len(args) > 0 {
		return args, nil
	}
	var r io.Reader = os.Stdin
	if root := cmd.Root(); root != nil && root.Reader != nil {
		r = root.Reader
	}
	if path := cmd.String("file"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return lines, nil
}

func writerOf(cmd *cli.Command) io.Writer {
	if root := cmd.Root(); root != nil && root.Writer != nil {
		return root.Writer
	}
	return os.Stdout
}

func deref(d *flexidate.FlexiDate) flexidate.FlexiDate {
	if d == nil {
		return flexidate.FlexiDate{}
	}
	return *d
}

func writeJSON(w io.Writer, results []parsed) error {
	out := make([]models.Normalized, len(results))
	for i, r := range results {
		out[i] = catalog.Describe(r.input, r.date)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeText(w io.Writer, results []parsed) error {
	for _, r := range results {
		var err error
		switch {
		case r.date == nil:
			_, err = fmt.Fprintln(w)
		case r.date.IsUnparsed():
			_, err = unparsedColor.Fprintln(w, r.date.String())
		case r.date.Qualifier() != "":
			_, err = qualifiedColor.Fprintln(w, r.date.String())
		default:
			_, err = fmt.Fprintln(w, r.date.String())
		}
		if err != nil {
			return err
		}
	}
	return nil
}
