package tools

// SortBamInput carries the validated parameters for a sort_bam call.
type SortBamInput struct {
	InputBam        string
	OutputBam       string
	SortOrder       string
	TempDir         string
	MaxRecordsInRAM *int
}

// SortBamOutput defines the output schema for the sort_bam tool.
type SortBamOutput struct {
	Success         bool   `json:"success" jsonschema:"description=Whether the operation was successful"`
	Message         string `json:"message" jsonschema:"description=Description of the operation result"`
	InputFile       string `json:"input_file" jsonschema:"description=Path to the input BAM file"`
	OutputFile      string `json:"output_file" jsonschema:"description=Path to the output BAM file"`
	SortOrder       string `json:"sort_order" jsonschema:"description=Sort order used"`
	CommandExecuted string `json:"command_executed,omitempty" jsonschema:"description=The fgbio command that was executed"`
	Stdout          string `json:"stdout,omitempty" jsonschema:"description=Standard output from the fgbio command"`
	Stderr          string `json:"stderr,omitempty" jsonschema:"description=Standard error from the fgbio command"`
}

// FilterBamInput carries the validated parameters for a filter_bam call.
type FilterBamInput struct {
	InputBam                  string
	OutputBam                 string
	Rejects                   string
	Intervals                 string
	RemoveDuplicates          bool
	RemoveUnmappedReads       bool
	MinMapQ                   int
	RemoveSingleEndMappings   bool
	RemoveSecondaryAlignments bool
	MinInsertSize             *int
	MaxInsertSize             *int
	MinMappedBases            *int
}

// FilterBamOutput defines the output schema for the filter_bam tool.
type FilterBamOutput struct {
	Success         bool           `json:"success" jsonschema:"description=Whether the operation was successful"`
	Message         string         `json:"message" jsonschema:"description=Description of the operation result"`
	InputFile       string         `json:"input_file" jsonschema:"description=Path to the input BAM file"`
	OutputFile      string         `json:"output_file" jsonschema:"description=Path to the output BAM file"`
	RejectsFile     string         `json:"rejects_file,omitempty" jsonschema:"description=Path to the rejects BAM file if specified"`
	IntervalsFile   string         `json:"intervals_file,omitempty" jsonschema:"description=Path to the intervals file if specified"`
	FiltersApplied  map[string]any `json:"filters_applied" jsonschema:"description=Summary of filters that were applied"`
	CommandExecuted string         `json:"command_executed,omitempty" jsonschema:"description=The fgbio command that was executed"`
	Stdout          string         `json:"stdout,omitempty" jsonschema:"description=Standard output from the fgbio command"`
	Stderr          string         `json:"stderr,omitempty" jsonschema:"description=Standard error from the fgbio command"`
}

// SortOrders enumerates the orders fgbio SortBam understands.
var SortOrders = []string{"coordinate", "queryname", "random", "unsorted"}

// DefaultSortOrder is used when a sort_bam request does not specify one.
const DefaultSortOrder = "coordinate"

// DefaultMinMapQ is the filter_bam mapping-quality floor applied when the
// request does not specify one.
const DefaultMinMapQ = 1
