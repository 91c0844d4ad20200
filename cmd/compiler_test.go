package cmd

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gone/common"
	"gone/report"
)

const countListing = `entry 0
block 0 basic -> 1
    alloc_int @i
    $t1 := literal_int 0
    store_int $t1, @i
block 1 while $t4 body 2
    $t2 := load_int @i
    $t3 := literal_int 2
    $t4 := lt_int $t2, $t3
block 2 basic -> 1
    $t5 := load_int @i
    print_int $t5
    $t6 := literal_int 1
    $t7 := add_int $t5, $t6
    store_int $t7, @i
`

// writeProject writes a listing and an optional profile to a new directory.
func writeProject(t *testing.T, listing, prof string) (string, func()) {
	t.Helper()

	report.InitReporter(report.LogLevelSilent)

	dir, err := ioutil.TempDir("", "gone-cmd")
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(dir, "count"+common.ListingFileExt)
	if err := ioutil.WriteFile(path, []byte(listing), 0644); err != nil {
		t.Fatal(err)
	}

	if prof != "" {
		if err := ioutil.WriteFile(filepath.Join(dir, common.ProfileFileName), []byte(prof), 0644); err != nil {
			t.Fatal(err)
		}
	}

	return path, func() { os.RemoveAll(dir) }
}

func TestBuildAndRun(t *testing.T) {
	path, cleanup := writeProject(t, countListing, "")
	defer cleanup()

	c := NewCompiler(path, "")
	if !c.Read() || !c.Generate() {
		t.Fatal("compilation failed")
	}

	c.WriteOutput()

	wantPath := strings.TrimSuffix(path, common.ListingFileExt) + common.LLVMFileExt
	if c.outputPath() != wantPath {
		t.Errorf("outputPath = %s, want %s", c.outputPath(), wantPath)
	}

	text, err := ioutil.ReadFile(wantPath)
	if err != nil {
		t.Fatalf("output was not written: %v", err)
	}
	if !strings.Contains(string(text), "define void @main()") {
		t.Errorf("output does not define main:\n%s", text)
	}

	out := &bytes.Buffer{}
	if !c.Run(out) {
		t.Fatal("Run failed")
	}
	if out.String() != "0\n1\n" {
		t.Errorf("output = %q, want %q", out.String(), "0\n1\n")
	}
}

func TestProfileRuntimeNames(t *testing.T) {
	path, cleanup := writeProject(t, countListing, "output = \"build/count.ll\"\n[runtime]\nprint-int = \"rt_print_i32\"\n")
	defer cleanup()

	c := NewCompiler(path, "")
	if c.outputPath() != "build/count.ll" {
		t.Errorf("outputPath = %s, want the profile's", c.outputPath())
	}

	if !c.Read() || !c.Generate() {
		t.Fatal("compilation failed")
	}

	if !strings.Contains(c.mod.String(), "@rt_print_i32") {
		t.Errorf("module does not use the configured print routine:\n%s", c.mod)
	}

	out := &bytes.Buffer{}
	if !c.Run(out) || out.String() != "0\n1\n" {
		t.Errorf("output = %q, want %q", out.String(), "0\n1\n")
	}
}
