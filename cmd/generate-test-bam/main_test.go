package main

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"
)

func TestGenerateReadsCarryExpectedClasses(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	reads := generateReads(rng, 2000)

	if len(reads) < 4000 {
		t.Fatalf("got %d reads for 2000 pairs, want at least 4000", len(reads))
	}

	var duplicates, unmapped, secondary int
	for _, aln := range reads {
		if aln.IsDuplicate() {
			duplicates++
		}
		if aln.IsUnmapped() {
			unmapped++
		}
		if aln.IsSecondary() {
			secondary++
		}
	}
	if duplicates == 0 {
		t.Error("expected some duplicate reads")
	}
	if unmapped == 0 {
		t.Error("expected some unmapped reads")
	}
	if secondary == 0 {
		t.Error("expected some secondary alignments")
	}
}

func TestSortByCoordinateOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	reads := generateReads(rng, 500)
	sortByCoordinate(reads)

	refIndex := make(map[string]int, len(references))
	for i, ref := range references {
		refIndex[ref.name] = i
	}
	rank := func(rname string) int {
		if idx, ok := refIndex[rname]; ok {
			return idx
		}
		return len(references)
	}

	prevRank := -1
	prevPos := int32(-1)
	for i, aln := range reads {
		r := rank(aln.RNAME)
		if r < prevRank {
			t.Fatalf("read %d on %s sorted before %d", i, aln.RNAME, prevRank)
		}
		if r == prevRank && aln.POS < prevPos {
			t.Fatalf("read %d at %s:%d sorted before position %d", i, aln.RNAME, aln.POS, prevPos)
		}
		prevRank, prevPos = r, aln.POS
	}
}

func TestWriteAlignmentsProducesFile(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	reads := generateReads(rng, 200)
	sortByCoordinate(reads)

	path := filepath.Join(t.TempDir(), "fixture.bam")
	writeAlignments(path, reads)

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat output: %v", err)
	}
	if info.Size() == 0 {
		t.Error("expected a non-empty BAM file")
	}
}
