package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kingpin/v2"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/eugenenazirov/pallet-planner/internal/export"
	"github.com/eugenenazirov/pallet-planner/internal/logging"
	"github.com/eugenenazirov/pallet-planner/internal/packing"
	"github.com/eugenenazirov/pallet-planner/internal/presentation"
	"github.com/eugenenazirov/pallet-planner/internal/tui"
)

var errDimensions = errors.New("invalid dimensions")

type options struct {
	box         string
	pallet      string
	maxHeight   string
	selectRow   int
	interactive bool
	xlsxPath    string
	logLevel    string
}

var runProgram = func(m tea.Model) error {
	_, err := tea.NewProgram(m).Run()
	return err
}

func main() {
	app := kingpin.New("palletcalc", "Rank box orientations on a pallet from the terminal")
	var opts options
	app.Flag("box", "Box size as LENGTHxWIDTHxHEIGHT").Required().StringVar(&opts.box)
	app.Flag("pallet", "Pallet footprint as LENGTHxWIDTH").Required().StringVar(&opts.pallet)
	app.Flag("max-height", "Maximum stack height").Required().StringVar(&opts.maxHeight)
	app.Flag("select", "Show the Nth ranked result (1 is the best)").Default("1").IntVar(&opts.selectRow)
	app.Flag("interactive", "Browse the ranking interactively").Short('i').BoolVar(&opts.interactive)
	app.Flag("xlsx", "Write the ranking to an Excel workbook").StringVar(&opts.xlsxPath)
	app.Flag("log-level", "Log level (debug, info, warn, error)").Default("warn").EnumVar(&opts.logLevel, "debug", "info", "warn", "error")

	kingpin.MustParse(app.Parse(os.Args[1:]))

	logger, err := logging.New(logging.WithConsole(), logging.WithLevel(opts.logLevel))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := run(opts, os.Stdout, logger); err != nil {
		logger.Error("palletcalc failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(opts options, out io.Writer, logger *zap.Logger) error {
	in, err := parseInputs(opts.box, opts.pallet, opts.maxHeight)
	if err != nil {
		return err
	}

	session := presentation.NewSession(packing.New(), logger)
	view := session.Recompute(in)

	if opts.selectRow > 1 && !view.Empty {
		if view, err = session.Select(opts.selectRow - 1); err != nil {
			return fmt.Errorf("select row %d: %w", opts.selectRow, err)
		}
	}

	if opts.xlsxPath != "" {
		if err := writeWorkbook(opts.xlsxPath, view); err != nil {
			return err
		}
		logger.Info("workbook written", zap.String("path", opts.xlsxPath))
	}

	if opts.interactive {
		return runProgram(tui.NewModel(session))
	}

	_, err = fmt.Fprint(out, tui.Report(view, tui.TopView(session)))
	return err
}

func writeWorkbook(path string, view presentation.View) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create workbook: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close workbook: %w", closeErr)
		}
	}()
	return export.WriteXLSX(f, view.Inputs, view.Results)
}

func parseInputs(box, pallet, maxHeight string) (packing.Inputs, error) {
	b, err := parseDimensions(box, 3)
	if err != nil {
		return packing.Inputs{}, fmt.Errorf("box: %w", err)
	}
	p, err := parseDimensions(pallet, 2)
	if err != nil {
		return packing.Inputs{}, fmt.Errorf("pallet: %w", err)
	}
	return packing.ParseInputs([6]string{b[0], b[1], b[2], p[0], p[1], maxHeight}), nil
}

// parseDimensions splits "40x30x20" into its parts. The values themselves are
// coerced later, so "40xabcx20" is accepted with a zero width.
func parseDimensions(raw string, parts int) ([]string, error) {
	fields := strings.FieldsFunc(strings.ToLower(raw), func(r rune) bool {
		return r == 'x' || r == '×' || r == '*'
	})
	if len(fields) != parts {
		return nil, fmt.Errorf("%w: %q needs %d values", errDimensions, raw, parts)
	}
	return fields, nil
}
