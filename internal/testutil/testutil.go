// Package testutil provides shared test utilities and record-file fixtures.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// RecordLine encodes values as one record line of 8-bit binary segments.
// Values outside [0,255] are a test bug and cause a panic.
func RecordLine(values ...int) string {
	var b strings.Builder
	for _, v := range values {
		if v < 0 || v > 255 {
			panic(fmt.Sprintf("testutil: record value %d out of range", v))
		}
		fmt.Fprintf(&b, "%08b", v)
	}
	return b.String()
}

// UniformLine returns a 16-segment record line with every segment set to v.
func UniformLine(v int) string {
	values := make([]int, 16)
	for i := range values {
		values[i] = v
	}
	return RecordLine(values...)
}

// WriteRecordFile writes lines, each newline-terminated, to dir/name and
// returns the path.
func WriteRecordFile(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		t.Fatalf("write record file %s: %v", path, err)
	}
	return path
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
