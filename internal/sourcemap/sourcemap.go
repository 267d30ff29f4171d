// Package sourcemap builds a version-3 source map from the Loc metadata
// that printer.PrintWithMappings records. Grounded directly in the
// teacher's own internal/sourcemap: esbuild hand-rolls its VLQ segment
// encoder rather than reaching for a third-party sourcemap library, and
// this package follows the same choice, trimmed to the coarser
// one-segment-per-generated-line granularity this project's printer
// offers (esbuild's own encoder supports arbitrary per-token mappings;
// nothing here needs that).
package sourcemap

import (
	"encoding/json"

	"github.com/modnorm/modnorm/internal/logger"
)

// Mapping is one point correspondence between a position in generated
// output and a position in an original source file. GeneratedLine values
// must be non-decreasing across the slice; PrintWithMappings guarantees
// this since it records one Mapping per top-level statement, in order.
type Mapping struct {
	GeneratedLine int
	OriginalLoc   logger.Loc
}

type fileMap struct {
	Version        int      `json:"version"`
	File           string   `json:"file"`
	Sources        []string `json:"sources"`
	SourcesContent []string `json:"sourcesContent"`
	Names          []string `json:"names"`
	Mappings       string   `json:"mappings"`
}

// Generate builds a V3 source map JSON payload for outputFile, whose
// content was produced from source, using mappings recorded while printing.
// Every mapping points at source's single entry (sourceIndex 0); this
// project only ever maps one output file back to the one input file it was
// rewritten from.
func Generate(source logger.Source, outputFile string, mappings []Mapping) ([]byte, error) {
	m := fileMap{
		Version:        3,
		File:           outputFile,
		Sources:        []string{source.PrettyPath},
		SourcesContent: []string{source.Contents},
		Names:          []string{},
		Mappings:       encodeMappings(source, mappings),
	}
	return json.Marshal(m)
}

// encodeMappings renders mappings as the semicolon/comma VLQ grid the
// source map spec describes. Since each recorded Mapping lands at the
// start of its own generated line (column 0, one per statement), every
// generated line holds at most one segment, so no comma-separated groups
// are ever produced within a line.
func encodeMappings(source logger.Source, mappings []Mapping) string {
	var out []byte
	prevGeneratedLine := 0
	prevOriginalLine := 0
	prevOriginalColumn := 0

	for _, mapping := range mappings {
		for prevGeneratedLine < mapping.GeneratedLine {
			out = append(out, ';')
			prevGeneratedLine++
		}

		loc := source.LocationForLoc(mapping.OriginalLoc)
		originalLine := loc.Line - 1 // source maps count lines from 0
		originalColumn := loc.Column

		out = encodeVLQ(out, 0) // generatedColumnDelta: always column 0
		out = encodeVLQ(out, 0) // sourceIndexDelta: always the one source
		out = encodeVLQ(out, originalLine-prevOriginalLine)
		out = encodeVLQ(out, originalColumn-prevOriginalColumn)

		prevOriginalLine = originalLine
		prevOriginalColumn = originalColumn
	}

	return string(out)
}

const base64Chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// encodeVLQ appends value to encoded as a base64 variable-length quantity:
// the low bit is the sign, the rest is the magnitude in 5-bit groups with a
// continuation bit in the 6th.
func encodeVLQ(encoded []byte, value int) []byte {
	var vlq int
	if value < 0 {
		vlq = ((-value) << 1) | 1
	} else {
		vlq = value << 1
	}

	for {
		digit := vlq & 31
		vlq >>= 5
		if vlq != 0 {
			digit |= 32
		}
		encoded = append(encoded, base64Chars[digit])
		if vlq == 0 {
			break
		}
	}
	return encoded
}
