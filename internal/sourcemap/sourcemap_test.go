package sourcemap

import (
	"encoding/json"
	"testing"

	"github.com/modnorm/modnorm/internal/logger"
)

func TestGenerateProducesValidV3Envelope(t *testing.T) {
	contents := "var a = 1;\nvar b = 2;\n"
	source := logger.Source{PrettyPath: "a.js", Contents: contents}
	mappings := []Mapping{
		{GeneratedLine: 0, OriginalLoc: logger.Loc{Start: 0}},
		{GeneratedLine: 1, OriginalLoc: logger.Loc{Start: int32(len("var a = 1;\n"))}},
	}

	out, err := Generate(source, "a.norm.js", mappings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded fileMap
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("Generate did not produce valid JSON: %v", err)
	}
	if decoded.Version != 3 {
		t.Errorf("got version %d, want 3", decoded.Version)
	}
	if len(decoded.Sources) != 1 || decoded.Sources[0] != "a.js" {
		t.Errorf("got Sources %v, want [\"a.js\"]", decoded.Sources)
	}
	if decoded.Mappings == "" {
		t.Error("got empty Mappings string")
	}
}

func TestEncodeVLQRoundTripsSmallValues(t *testing.T) {
	cases := []int{0, 1, -1, 15, -15, 16, 1000, -1000}
	for _, v := range cases {
		encoded := encodeVLQ(nil, v)
		got, _ := decodeVLQ(encoded, 0)
		if got != v {
			t.Errorf("encodeVLQ/decodeVLQ round trip for %d got %d", v, got)
		}
	}
}

// decodeVLQ mirrors encodeVLQ's bit layout; kept test-local since nothing
// in this package needs to decode its own output outside tests.
func decodeVLQ(encoded []byte, start int) (int, int) {
	shift := 0
	vlq := 0
	for {
		index := indexOfBase64(encoded[start])
		vlq |= (index & 31) << shift
		start++
		shift += 5
		if index&32 == 0 {
			break
		}
	}
	value := vlq >> 1
	if vlq&1 != 0 {
		value = -value
	}
	return value, start
}

func indexOfBase64(c byte) int {
	for i := 0; i < len(base64Chars); i++ {
		if base64Chars[i] == c {
			return i
		}
	}
	return -1
}

func TestEncodeMappingsEmitsOneSemicolonPerSkippedLine(t *testing.T) {
	contents := "a;\nb;\nc;\n"
	source := logger.Source{PrettyPath: "a.js", Contents: contents}
	mappings := []Mapping{
		{GeneratedLine: 0, OriginalLoc: logger.Loc{Start: 0}},
		{GeneratedLine: 2, OriginalLoc: logger.Loc{Start: int32(len("a;\nb;\n"))}},
	}
	got := encodeMappings(source, mappings)
	semicolons := 0
	for _, r := range got {
		if r == ';' {
			semicolons++
		}
	}
	if semicolons != 2 {
		t.Errorf("got %d semicolons for a skip from line 0 to line 2, want 2", semicolons)
	}
}
