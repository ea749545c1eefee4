package tools

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/bamkit/fgbio-mcp/pkg/fgbio"
	"github.com/bamkit/fgbio-mcp/pkg/resultutil"
)

// GetString is a helper to extract a string parameter with a default value
func GetString(params map[string]any, key, defaultValue string) string {
	if val, ok := params[key]; ok {
		if str, ok := val.(string); ok && str != "" {
			return str
		}
	}
	return defaultValue
}

// GetBool is a helper to extract a boolean parameter with a default value
func GetBool(params map[string]any, key string, defaultValue bool) bool {
	if val, ok := params[key]; ok {
		if b, ok := val.(bool); ok {
			return b
		}
	}
	return defaultValue
}

// GetInt is a helper to extract an integer parameter with a default value.
// JSON numbers arrive as float64 from the MCP layer.
func GetInt(params map[string]any, key string, defaultValue int) int {
	if v := GetIntPtr(params, key); v != nil {
		return *v
	}
	return defaultValue
}

// GetIntPtr is a helper to extract an optional integer parameter as a pointer
func GetIntPtr(params map[string]any, key string) *int {
	if val, ok := params[key]; ok {
		switch n := val.(type) {
		case float64:
			i := int(n)
			return &i
		case int:
			return &n
		}
	}
	return nil
}

func BuildSortBamInput(args map[string]any) SortBamInput {
	return SortBamInput{
		InputBam:        GetString(args, "input_bam", ""),
		OutputBam:       GetString(args, "output_bam", ""),
		SortOrder:       GetString(args, "sort_order", DefaultSortOrder),
		TempDir:         GetString(args, "temp_dir", ""),
		MaxRecordsInRAM: GetIntPtr(args, "max_records_in_ram"),
	}
}

func BuildFilterBamInput(args map[string]any) FilterBamInput {
	return FilterBamInput{
		InputBam:                  GetString(args, "input_bam", ""),
		OutputBam:                 GetString(args, "output_bam", ""),
		Rejects:                   GetString(args, "rejects", ""),
		Intervals:                 GetString(args, "intervals", ""),
		RemoveDuplicates:          GetBool(args, "remove_duplicates", true),
		RemoveUnmappedReads:       GetBool(args, "remove_unmapped_reads", true),
		MinMapQ:                   GetInt(args, "min_map_q", DefaultMinMapQ),
		RemoveSingleEndMappings:   GetBool(args, "remove_single_end_mappings", false),
		RemoveSecondaryAlignments: GetBool(args, "remove_secondary_alignments", true),
		MinInsertSize:             GetIntPtr(args, "min_insert_size"),
		MaxInsertSize:             GetIntPtr(args, "max_insert_size"),
		MinMappedBases:            GetIntPtr(args, "min_mapped_bases"),
	}
}

// SortBamHandler sorts a BAM file via fgbio SortBam. Every failure becomes
// a structured success=false response that echoes the request back; errors
// never cross the handler boundary.
func SortBamHandler(ctx context.Context, runner fgbio.Runner, input SortBamInput) *resultutil.Result {
	slog.Info("SortBamHandler called", "input", input.InputBam, "output", input.OutputBam)

	if err := validateSortBam(&input); err != nil {
		slog.Error("sort_bam rejected", "error", err)
		return sortFailure(input, err)
	}

	params := fgbio.Params{
		{Name: "input", Value: input.InputBam},
		{Name: "output", Value: input.OutputBam},
		{Name: "sort_order", Value: input.SortOrder},
	}
	if input.TempDir != "" {
		params = append(params, fgbio.Param{Name: "tmp_dir", Value: input.TempDir})
	}
	if input.MaxRecordsInRAM != nil {
		params = append(params, fgbio.Param{Name: "max_records_in_ram", Value: *input.MaxRecordsInRAM})
	}

	res, err := runner.Run(ctx, "SortBam", params)
	if err != nil {
		slog.Error("sort_bam failed", "error", err)
		return sortFailure(input, err)
	}
	if err := outputProduced(input.OutputBam); err != nil {
		slog.Error("sort_bam output missing", "error", err)
		return sortFailure(input, err)
	}

	slog.Info("sort_bam succeeded", "output", input.OutputBam)
	return resultutil.NewSuccessResult(SortBamOutput{
		Success:         true,
		Message:         fmt.Sprintf("Successfully sorted BAM file with sort order '%s'", input.SortOrder),
		InputFile:       input.InputBam,
		OutputFile:      input.OutputBam,
		SortOrder:       input.SortOrder,
		CommandExecuted: res.Command,
		Stdout:          res.Stdout,
		Stderr:          res.Stderr,
	})
}

// FilterBamHandler filters a BAM file via fgbio FilterBam and reports a
// summary of the filters that were active. Same fail-soft contract as
// SortBamHandler.
func FilterBamHandler(ctx context.Context, runner fgbio.Runner, input FilterBamInput) *resultutil.Result {
	slog.Info("FilterBamHandler called", "input", input.InputBam, "output", input.OutputBam)

	if err := validateFilterBam(&input); err != nil {
		slog.Error("filter_bam rejected", "error", err)
		return filterFailure(input, err)
	}

	params := fgbio.Params{
		{Name: "input", Value: input.InputBam},
		{Name: "output", Value: input.OutputBam},
	}
	if input.Rejects != "" {
		params = append(params, fgbio.Param{Name: "rejects", Value: input.Rejects})
	}
	if input.Intervals != "" {
		params = append(params, fgbio.Param{Name: "intervals", Value: input.Intervals})
	}
	params = append(params,
		fgbio.Param{Name: "remove_duplicates", Value: input.RemoveDuplicates},
		fgbio.Param{Name: "remove_unmapped_reads", Value: input.RemoveUnmappedReads},
		fgbio.Param{Name: "min_map_q", Value: input.MinMapQ},
		fgbio.Param{Name: "remove_single_end_mappings", Value: input.RemoveSingleEndMappings},
		fgbio.Param{Name: "remove_secondary_alignments", Value: input.RemoveSecondaryAlignments},
	)
	if input.MinInsertSize != nil {
		params = append(params, fgbio.Param{Name: "min_insert_size", Value: *input.MinInsertSize})
	}
	if input.MaxInsertSize != nil {
		params = append(params, fgbio.Param{Name: "max_insert_size", Value: *input.MaxInsertSize})
	}
	if input.MinMappedBases != nil {
		params = append(params, fgbio.Param{Name: "min_mapped_bases", Value: *input.MinMappedBases})
	}

	res, err := runner.Run(ctx, "FilterBam", params)
	if err != nil {
		slog.Error("filter_bam failed", "error", err)
		return filterFailure(input, err)
	}
	if err := outputProduced(input.OutputBam); err != nil {
		slog.Error("filter_bam output missing", "error", err)
		return filterFailure(input, err)
	}

	slog.Info("filter_bam succeeded", "output", input.OutputBam)
	return resultutil.NewSuccessResult(FilterBamOutput{
		Success:         true,
		Message:         "Successfully filtered BAM file",
		InputFile:       input.InputBam,
		OutputFile:      input.OutputBam,
		RejectsFile:     input.Rejects,
		IntervalsFile:   input.Intervals,
		FiltersApplied:  filtersApplied(input),
		CommandExecuted: res.Command,
		Stdout:          res.Stdout,
		Stderr:          res.Stderr,
	})
}

// filtersApplied summarizes the active filters. The five toggles and the
// mapping-quality floor are always present; optional bounds appear only
// when the request carried them.
func filtersApplied(input FilterBamInput) map[string]any {
	summary := map[string]any{
		"remove_duplicates":           input.RemoveDuplicates,
		"remove_unmapped_reads":       input.RemoveUnmappedReads,
		"min_map_q":                   input.MinMapQ,
		"remove_single_end_mappings":  input.RemoveSingleEndMappings,
		"remove_secondary_alignments": input.RemoveSecondaryAlignments,
	}
	if input.MinInsertSize != nil {
		summary["min_insert_size"] = *input.MinInsertSize
	}
	if input.MaxInsertSize != nil {
		summary["max_insert_size"] = *input.MaxInsertSize
	}
	if input.MinMappedBases != nil {
		summary["min_mapped_bases"] = *input.MinMappedBases
	}
	if input.Intervals != "" {
		summary["intervals_filter"] = true
	}
	return summary
}

func validateSortBam(input *SortBamInput) error {
	input.InputBam = strings.TrimSpace(input.InputBam)
	input.OutputBam = strings.TrimSpace(input.OutputBam)
	input.TempDir = strings.TrimSpace(input.TempDir)

	if input.InputBam == "" {
		return fgbio.Errorf(fgbio.ValidationError, "input_bam cannot be empty")
	}
	if input.OutputBam == "" {
		return fgbio.Errorf(fgbio.ValidationError, "output_bam cannot be empty")
	}
	if input.SortOrder == "" {
		input.SortOrder = DefaultSortOrder
	}
	if !slices.Contains(SortOrders, input.SortOrder) {
		return fgbio.Errorf(fgbio.ValidationError, "invalid sort_order %q, must be one of %s",
			input.SortOrder, strings.Join(SortOrders, ", "))
	}
	if input.MaxRecordsInRAM != nil && *input.MaxRecordsInRAM <= 0 {
		return fgbio.Errorf(fgbio.ValidationError, "max_records_in_ram must be positive, got %d", *input.MaxRecordsInRAM)
	}

	if err := fgbio.ValidatePath(input.InputBam, true); err != nil {
		return err
	}
	return fgbio.ValidatePath(input.OutputBam, false)
}

func validateFilterBam(input *FilterBamInput) error {
	input.InputBam = strings.TrimSpace(input.InputBam)
	input.OutputBam = strings.TrimSpace(input.OutputBam)
	input.Rejects = strings.TrimSpace(input.Rejects)
	input.Intervals = strings.TrimSpace(input.Intervals)

	if input.InputBam == "" {
		return fgbio.Errorf(fgbio.ValidationError, "input_bam cannot be empty")
	}
	if input.OutputBam == "" {
		return fgbio.Errorf(fgbio.ValidationError, "output_bam cannot be empty")
	}
	if input.MinMapQ < 0 {
		return fgbio.Errorf(fgbio.ValidationError, "min_map_q must be >= 0, got %d", input.MinMapQ)
	}
	if input.MinInsertSize != nil && *input.MinInsertSize <= 0 {
		return fgbio.Errorf(fgbio.ValidationError, "min_insert_size must be positive, got %d", *input.MinInsertSize)
	}
	if input.MaxInsertSize != nil && *input.MaxInsertSize <= 0 {
		return fgbio.Errorf(fgbio.ValidationError, "max_insert_size must be positive, got %d", *input.MaxInsertSize)
	}
	if input.MinInsertSize != nil && input.MaxInsertSize != nil && *input.MaxInsertSize <= *input.MinInsertSize {
		return fgbio.Errorf(fgbio.ValidationError, "max_insert_size must be greater than min_insert_size")
	}
	if input.MinMappedBases != nil && *input.MinMappedBases <= 0 {
		return fgbio.Errorf(fgbio.ValidationError, "min_mapped_bases must be positive, got %d", *input.MinMappedBases)
	}

	if err := fgbio.ValidatePath(input.InputBam, true); err != nil {
		return err
	}
	if err := fgbio.ValidatePath(input.OutputBam, false); err != nil {
		return err
	}
	if input.Rejects != "" {
		if err := fgbio.ValidatePath(input.Rejects, false); err != nil {
			return err
		}
	}
	if input.Intervals != "" {
		if err := fgbio.ValidatePath(input.Intervals, true); err != nil {
			return err
		}
	}
	return nil
}

// outputProduced defends against a tool that exits 0 without writing its
// output file.
func outputProduced(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fgbio.Errorf(fgbio.OutputNotProduced, "fgbio reported success but output file was not produced: %s", path)
	}
	return nil
}

func sortFailure(input SortBamInput, err error) *resultutil.Result {
	return resultutil.NewSuccessResult(SortBamOutput{
		Success:    false,
		Message:    fmt.Sprintf("fgbio error: %s", err),
		InputFile:  input.InputBam,
		OutputFile: input.OutputBam,
		SortOrder:  input.SortOrder,
	})
}

func filterFailure(input FilterBamInput, err error) *resultutil.Result {
	return resultutil.NewSuccessResult(FilterBamOutput{
		Success:        false,
		Message:        fmt.Sprintf("fgbio error: %s", err),
		InputFile:      input.InputBam,
		OutputFile:     input.OutputBam,
		RejectsFile:    input.Rejects,
		IntervalsFile:  input.Intervals,
		FiltersApplied: map[string]any{},
	})
}
