// Command generate-test-bam synthesizes a coordinate-sorted BAM file with
// randomized paired reads for manually smoke-testing the fgbio MCP tools.
// It is not part of the request-serving path.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/exascience/elprep/v5/sam"
	"github.com/exascience/elprep/v5/utils"
	"github.com/exascience/elprep/v5/utils/nibbles"
)

const (
	duplicateRate = 0.05
	unmappedRate  = 0.02
	secondaryRate = 0.01

	readGroupID = "test_sample"
)

// GRCh38 lengths for the first five chromosomes.
var references = []struct {
	name   string
	length int32
}{
	{"chr1", 248956422},
	{"chr2", 242193529},
	{"chr3", 198295559},
	{"chr4", 190214555},
	{"chr5", 181538259},
}

var (
	asTag       = utils.Intern("AS")
	readLengths = []int32{75, 100, 150}

	mapqValues  = []byte{0, 1, 10, 20, 30, 40, 60}
	mapqWeights = []int{5, 5, 10, 15, 25, 25, 15}
)

func main() {
	var output = flag.String("output", "test_sample.bam", "Output BAM (or SAM) file path")
	var pairs = flag.Int("pairs", 5000, "Number of read pairs to generate")
	var seed = flag.Int64("seed", 0, "Random seed (0 = nondeterministic)")
	flag.Parse()

	if *pairs <= 0 {
		log.Fatal("-pairs must be positive")
	}

	seedVal := *seed
	if seedVal == 0 {
		seedVal = rand.Int63()
	}
	rng := rand.New(rand.NewSource(seedVal))

	fmt.Printf("Generating synthetic BAM file with %d read pairs...\n", *pairs)
	reads := generateReads(rng, *pairs)
	sortByCoordinate(reads)

	writeAlignments(*output, reads)

	printStats(*output, reads)
	fmt.Println("Note: index the file with 'samtools index' if your tooling needs a .bai.")
}

func generateReads(rng *rand.Rand, pairs int) []*sam.Alignment {
	reads := make([]*sam.Alignment, 0, 2*pairs)

	for i := 0; i < pairs; i++ {
		name := fmt.Sprintf("read_%06d", i)
		refIdx := rng.Intn(len(references))
		ref := references[refIdx]

		readLength := readLengths[rng.Intn(len(readLengths))]
		insertSize := int32(200 + rng.Intn(601)) // 200-800, typical library

		maxPos := ref.length - insertSize - readLength
		if maxPos < 1 {
			maxPos = ref.length / 2
		}
		pos1 := 1 + rng.Int31n(maxPos)
		pos2 := pos1 + insertSize - readLength
		mapq := weightedMapq(rng)

		read1 := newRead(rng, name, ref.name, pos1, mapq, readLength)
		read1.FLAG = sam.Multiple | sam.Proper | sam.NextReversed | sam.First // 99
		read1.PNEXT = pos2
		read1.TLEN = insertSize

		read2 := newRead(rng, name, ref.name, pos2, mapq, readLength)
		read2.FLAG = sam.Multiple | sam.Proper | sam.Reversed | sam.Last // 147
		read2.PNEXT = pos1
		read2.TLEN = -insertSize

		// Duplicates are marked on both mates.
		if rng.Float64() < duplicateRate {
			read1.FLAG |= sam.Duplicate
			read2.FLAG |= sam.Duplicate
		}

		if rng.Float64() < unmappedRate {
			markUnmapped(read1)
		}
		if rng.Float64() < unmappedRate {
			markUnmapped(read2)
		}

		if rng.Float64() < secondaryRate {
			secRef := references[rng.Intn(len(references))]
			sec := newRead(rng, name, secRef.name, 1+rng.Int31n(1000000), byte(rng.Intn(21)), readLength)
			sec.FLAG = sam.Multiple | sam.Proper | sam.NextReversed | sam.First | sam.Secondary // 355
			sec.RNEXT = "*"
			reads = append(reads, sec)
		}

		reads = append(reads, read1, read2)
	}

	return reads
}

func newRead(rng *rand.Rand, name, ref string, pos int32, mapq byte, length int32) *sam.Alignment {
	aln := &sam.Alignment{
		QNAME: name,
		RNAME: ref,
		POS:   pos,
		MAPQ:  mapq,
		CIGAR: []sam.CigarOperation{{Length: length, Operation: 'M'}},
		RNEXT: "=",
		SEQ:   randomSequence(rng, length),
		QUAL:  randomQualities(rng, length),
	}
	aln.SetRG(readGroupID)
	aln.TAGS.Set(asTag, int64(length)-int64(rng.Intn(6)))
	return aln
}

func markUnmapped(aln *sam.Alignment) {
	aln.FLAG |= sam.Unmapped
	aln.RNAME = "*"
	aln.POS = 0
	aln.MAPQ = 0
	aln.CIGAR = nil
}

func weightedMapq(rng *rand.Rand) byte {
	total := 0
	for _, w := range mapqWeights {
		total += w
	}
	pick := rng.Intn(total)
	for i, w := range mapqWeights {
		if pick < w {
			return mapqValues[i]
		}
		pick -= w
	}
	return mapqValues[len(mapqValues)-1]
}

func randomSequence(rng *rand.Rand, length int32) sam.Sequence {
	const bases = "ATGC"
	seq := sam.Sequence(nibbles.Make(int(length)))
	for i := 0; i < int(length); i++ {
		seq.SetBase(i, bases[rng.Intn(len(bases))])
	}
	return seq
}

// randomQualities skews toward high phred scores the way a healthy run
// does: 70% in 30-40, 20% in 20-29, 10% in 10-19.
func randomQualities(rng *rand.Rand, length int32) []byte {
	buf := make([]byte, length)
	for i := range buf {
		var q int
		switch r := rng.Float64(); {
		case r < 0.7:
			q = 30 + rng.Intn(11)
		case r < 0.9:
			q = 20 + rng.Intn(10)
		default:
			q = 10 + rng.Intn(10)
		}
		buf[i] = byte(q + 33)
	}
	return buf
}

// sortByCoordinate orders reads by reference index then position, with
// unmapped reads at the end.
func sortByCoordinate(reads []*sam.Alignment) {
	refIndex := make(map[string]int, len(references))
	for i, ref := range references {
		refIndex[ref.name] = i
	}
	rank := func(aln *sam.Alignment) int {
		if idx, ok := refIndex[aln.RNAME]; ok {
			return idx
		}
		return len(references)
	}
	sort.SliceStable(reads, func(i, j int) bool {
		ri, rj := rank(reads[i]), rank(reads[j])
		if ri != rj {
			return ri < rj
		}
		return reads[i].POS < reads[j].POS
	})
}

func buildHeader() *sam.Header {
	hdr := sam.NewHeader()
	hd := hdr.EnsureHD()
	hd["VN"] = "1.6"
	hdr.SetHDSO(sam.Coordinate)
	for _, ref := range references {
		hdr.SQ = append(hdr.SQ, utils.StringMap{
			"SN": ref.name,
			"LN": strconv.FormatInt(int64(ref.length), 10),
		})
	}
	hdr.RG = append(hdr.RG, utils.StringMap{
		"ID": readGroupID,
		"SM": "synthetic_sample",
		"LB": "test_library",
		"PL": "ILLUMINA",
		"PU": "test_flowcell.1.test_lane",
	})
	hdr.PG = append(hdr.PG, utils.StringMap{
		"ID": "test_generator",
		"PN": "generate-test-bam",
		"VN": "1.0",
	})
	return hdr
}

// writeAlignments streams the header and reads through elprep's writer,
// which panics on I/O errors.
func writeAlignments(path string, reads []*sam.Alignment) {
	format := "bam"
	if strings.EqualFold(filepath.Ext(path), ".sam") {
		format = "sam"
	}
	out := sam.Create(path, format)
	defer out.Close()

	out.FormatHeader(buildHeader())

	var block []byte
	for _, aln := range reads {
		block = out.FormatAlignment(aln, block[:0])
		out.Write(block)
	}
}

func printStats(path string, reads []*sam.Alignment) {
	var mapped, duplicates, secondary int
	for _, aln := range reads {
		if !aln.IsUnmapped() {
			mapped++
		}
		if aln.IsDuplicate() {
			duplicates++
		}
		if aln.IsSecondary() {
			secondary++
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		log.Fatalf("stat %s: %v", path, err)
	}

	fmt.Printf("Generated %s (%.2f MB)\n", path, float64(info.Size())/1024/1024)
	fmt.Printf("  Total reads: %d\n", len(reads))
	fmt.Printf("  Mapped reads: %d\n", mapped)
	fmt.Printf("  Unmapped reads: %d\n", len(reads)-mapped)
	fmt.Printf("  Duplicate reads: %d\n", duplicates)
	fmt.Printf("  Secondary alignments: %d\n", secondary)
}
