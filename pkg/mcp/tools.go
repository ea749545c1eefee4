package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bamkit/fgbio-mcp/pkg/tools"
)

func CreateSortBamTool() mcp.Tool {
	return mcp.NewTool("sort_bam",
		mcp.WithDescription(`Sort a BAM file using the fgbio SortBam tool.

Sort orders:
- coordinate: Sort by genomic coordinates (default)
- queryname: Sort by read name
- random: Random order
- unsorted: No specific order

The input file must exist and the output directory must be writable; both
are validated before fgbio is executed.`),
		mcp.WithString("input_bam",
			mcp.Required(),
			mcp.Description("Path to the input BAM file to sort"),
		),
		mcp.WithString("output_bam",
			mcp.Required(),
			mcp.Description("Path where the sorted BAM file will be written"),
		),
		mcp.WithString("sort_order",
			mcp.Description("Sort order for the BAM file"),
			mcp.Enum("coordinate", "queryname", "random", "unsorted"),
			mcp.DefaultString("coordinate"),
		),
		mcp.WithString("temp_dir",
			mcp.Description("Temporary directory for sorting operations (optional)"),
		),
		mcp.WithNumber("max_records_in_ram",
			mcp.Description("Maximum number of records to keep in memory during sorting (optional)"),
			mcp.Min(1),
		),
		mcp.WithOutputSchema[tools.SortBamOutput](),
	)
}

func CreateFilterBamTool() mcp.Tool {
	return mcp.NewTool("filter_bam",
		mcp.WithDescription(`Filter a BAM file using the fgbio FilterBam tool.

Removes reads that may not be useful in downstream processing or
visualization. By default it removes unmapped reads, reads with MAPQ below
1, reads marked as secondary alignments, and reads marked as duplicates.

Additional filters:
- Minimum mapping quality threshold (min_map_q)
- Insert size bounds (min_insert_size / max_insert_size)
- Minimum mapped bases requirement (min_mapped_bases)
- Interval-based filtering (intervals)
- Single-end mapping removal (remove_single_end_mappings)

The input file must exist and the output directory must be writable; both
are validated before fgbio is executed.`),
		mcp.WithString("input_bam",
			mcp.Required(),
			mcp.Description("Path to the input BAM file to filter"),
		),
		mcp.WithString("output_bam",
			mcp.Required(),
			mcp.Description("Path where the filtered BAM file will be written"),
		),
		mcp.WithString("rejects",
			mcp.Description("Optional output file for rejected reads"),
		),
		mcp.WithString("intervals",
			mcp.Description("Optional intervals file to filter by"),
		),
		mcp.WithBoolean("remove_duplicates",
			mcp.Description("Remove reads marked as duplicates"),
			mcp.DefaultBool(true),
		),
		mcp.WithBoolean("remove_unmapped_reads",
			mcp.Description("Remove unmapped reads"),
			mcp.DefaultBool(true),
		),
		mcp.WithNumber("min_map_q",
			mcp.Description("Minimum mapping quality"),
			mcp.DefaultNumber(1),
			mcp.Min(0),
		),
		mcp.WithBoolean("remove_single_end_mappings",
			mcp.Description("Remove non-PE reads and reads with unmapped mates"),
			mcp.DefaultBool(false),
		),
		mcp.WithBoolean("remove_secondary_alignments",
			mcp.Description("Remove secondary alignments"),
			mcp.DefaultBool(true),
		),
		mcp.WithNumber("min_insert_size",
			mcp.Description("Minimum insert size (optional)"),
			mcp.Min(1),
		),
		mcp.WithNumber("max_insert_size",
			mcp.Description("Maximum insert size, must be greater than min_insert_size (optional)"),
			mcp.Min(1),
		),
		mcp.WithNumber("min_mapped_bases",
			mcp.Description("Minimum number of mapped bases (optional)"),
			mcp.Min(1),
		),
		mcp.WithOutputSchema[tools.FilterBamOutput](),
	)
}
