// Package export writes a ranked packing report as an Excel workbook.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/eugenenazirov/pallet-planner/internal/packing"
	"github.com/eugenenazirov/pallet-planner/internal/presentation"
)

const (
	inputsSheet  = "Inputs"
	rankingSheet = "Ranking"
)

var rankingHeader = []any{
	"Rank", "Orientation", "Dimensions", "Boxes X", "Boxes Y",
	"Boxes/Layer", "Layers", "Total Boxes", "Efficiency %", "Tier",
}

// WriteXLSX writes an Inputs sheet and a Ranking sheet to w.
func WriteXLSX(w io.Writer, in packing.Inputs, summaries []presentation.Summary) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if err := f.SetSheetName("Sheet1", inputsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeInputs(f, in); err != nil {
		return err
	}

	if _, err := f.NewSheet(rankingSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	if err := writeRanking(f, summaries); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeInputs(f *excelize.File, in packing.Inputs) error {
	rows := [][]any{
		{"Field", "Value"},
		{"Box length", in.BoxLength},
		{"Box width", in.BoxWidth},
		{"Box height", in.BoxHeight},
		{"Pallet length", in.PalletLength},
		{"Pallet width", in.PalletWidth},
		{"Max stack height", in.MaxStackHeight},
	}
	for i, row := range rows {
		if err := setRow(f, inputsSheet, i+1, row); err != nil {
			return err
		}
	}
	return nil
}

func writeRanking(f *excelize.File, summaries []presentation.Summary) error {
	if err := setRow(f, rankingSheet, 1, rankingHeader); err != nil {
		return err
	}
	for i, s := range summaries {
		res := s.Result
		row := []any{
			s.Rank + 1, s.Label, s.Dimensions, res.BoxesX, res.BoxesY,
			res.BoxesPerLayer, res.Layers, res.TotalBoxes, res.Efficiency, string(s.Tier),
		}
		if err := setRow(f, rankingSheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}
