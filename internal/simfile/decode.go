// Package simfile decodes simulation record files.
//
// A record file holds one record per line. Each record is at least
// RecordWidth characters of '0' and '1', read as Segments contiguous
// SegmentWidth-character unsigned binary integers. A line that cannot be
// decoded contributes a fallback row of zeros; the caller sees the same
// number of values for every line.
package simfile

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/banshee-data/simview/internal/fsutil"
)

const (
	// SegmentWidth is the number of characters per decoded integer.
	SegmentWidth = 8
	// Segments is the number of integers decoded from each line.
	Segments = 16
	// RecordWidth is the number of characters of a line that are decoded.
	RecordWidth = Segments * SegmentWidth
)

// Row holds the integers decoded from one line, in offset order.
type Row [Segments]int

// LineResult is the outcome of decoding a single line.
// When Fallback is set the decode failed and Row is all zeros.
type LineResult struct {
	Row      Row
	Fallback bool
}

// DecodeLine decodes the first RecordWidth characters of line.
// Any failure, whether a short line or a symbol other than '0' or '1',
// produces a fallback result for the whole line.
func DecodeLine(line string) LineResult {
	if len(line) < RecordWidth {
		return LineResult{Fallback: true}
	}

	var row Row
	for i := range row {
		seg := line[i*SegmentWidth : (i+1)*SegmentWidth]
		// explicit base 2: no sign, prefix or underscore is accepted
		v, err := strconv.ParseUint(seg, 2, SegmentWidth)
		if err != nil {
			return LineResult{Fallback: true}
		}
		row[i] = int(v)
	}
	return LineResult{Row: row}
}

// DecodeRows reads r to the end and decodes every line in order.
// "\n", "\r\n" and a lone "\r" all end a line. A final line without a
// terminator still counts as a line.
// Only read errors are returned; decode failures become fallback rows.
func DecodeRows(r io.Reader) ([]LineResult, error) {
	br := bufio.NewReader(r)
	var rows []LineResult
	for {
		chunk, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("read records: %w", err)
		}
		for _, line := range splitLines(chunk) {
			rows = append(rows, DecodeLine(line))
		}
		if err == io.EOF {
			return rows, nil
		}
	}
}

// Flatten concatenates rows into a single sample sequence.
// Fallback rows contribute Segments zeros.
func Flatten(rows []LineResult) []int {
	samples := make([]int, 0, len(rows)*Segments)
	for _, r := range rows {
		samples = append(samples, r.Row[:]...)
	}
	return samples
}

// Decode reads r to the end and returns the flattened samples.
func Decode(r io.Reader) ([]int, error) {
	rows, err := DecodeRows(r)
	if err != nil {
		return nil, err
	}
	return Flatten(rows), nil
}

// DecodeFileRows opens path, decodes every line and closes the file.
func DecodeFileRows(fsys fsutil.FileSystem, path string) ([]LineResult, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open record file: %w", err)
	}
	defer f.Close()

	rows, err := DecodeRows(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// DecodeFile opens path and returns its flattened samples.
func DecodeFile(fsys fsutil.FileSystem, path string) ([]int, error) {
	rows, err := DecodeFileRows(fsys, path)
	if err != nil {
		return nil, err
	}
	return Flatten(rows), nil
}

// FallbackCount returns how many rows fell back to zeros.
func FallbackCount(rows []LineResult) int {
	n := 0
	for _, r := range rows {
		if r.Fallback {
			n++
		}
	}
	return n
}

// splitLines splits a chunk read up to and including '\n' into lines.
// A "\r" inside the chunk ends a line; "\r\n" stays a single terminator
// since ReadString never splits it across chunks.
func splitLines(chunk string) []string {
	if chunk == "" {
		return nil
	}
	chunk = strings.TrimSuffix(chunk, "\n")
	lines := strings.Split(chunk, "\r")
	if len(lines) > 1 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
