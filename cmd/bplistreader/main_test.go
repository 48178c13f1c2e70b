package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// s1Bytes reproduces spec.md §8 scenario S1: a single empty ASCII string.
func s1Bytes() []byte {
	data := []byte("bplist00")
	data = append(data, 0x50) // ASCII string, length 0, offset 8
	data = append(data, 0x08) // offset table: 1 entry, value 8
	trailer := make([]byte, 32)
	trailer[6] = 1 // offsetIntSize
	trailer[7] = 1 // objRefSize
	trailer[15] = 1 // numObjects
	trailer[23] = 0 // topObjectIndex
	trailer[31] = 9 // offsetTableStart
	return append(data, trailer...)
}

func writeTempPlist(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.plist")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestDumpCommandPrintsValueTree(t *testing.T) {
	path := writeTempPlist(t, s1Bytes())

	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"dump", path})
	if err := root.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out.String(), "string=") {
		t.Errorf("output %q missing a string=value line", out.String())
	}
}

func TestDumpCommandFailsOnMissingFile(t *testing.T) {
	root := newRootCommand()
	root.SetOut(new(bytes.Buffer))
	root.SetErr(new(bytes.Buffer))
	root.SetArgs([]string{"dump", filepath.Join(t.TempDir(), "missing.plist")})
	if err := root.Execute(); err == nil {
		t.Error("Execute on a missing file: want error, got nil")
	}
}

func TestArchiveCommandRejectsNonArchivePlist(t *testing.T) {
	path := writeTempPlist(t, s1Bytes())

	root := newRootCommand()
	root.SetOut(new(bytes.Buffer))
	root.SetErr(new(bytes.Buffer))
	root.SetArgs([]string{"archive", path})
	if err := root.Execute(); err == nil {
		t.Error("Execute archive on a plain string plist: want error, got nil")
	}
}
