package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"campus-map/internal/navigator/dataset"
)

func TestExportEdgesCommand(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "nodes.csv"), []byte("id,building,floor,x,y,label,kind\n1,A,1,50,50,R1,1\n0,A,1,10,10,,0\n"), 0o644)
	os.WriteFile(filepath.Join(dir, "edges.txt"), []byte("0 1\n"), 0o644)
	dataDir, imagesDir, strictMode = dir, "", false

	var out bytes.Buffer
	cmd := exportCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"edges"})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if got, want := out.String(), "0 1\n1 0\n"; got != want {
		t.Errorf("export edges = %q, want %q", got, want)
	}

	cmd = exportCmd()
	cmd.SetArgs([]string{"rooms"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	if err := cmd.Execute(); err == nil {
		t.Error("export accepted an unknown table")
	}
}

func TestPrintSegments(t *testing.T) {
	var out bytes.Buffer
	printSegments(&out, dataset.ParseRoute("(A/0:Main/1;B/2:Hall/7)"), nil)
	want := "1. A/0\n   Main #1\n2. B/2\n   Hall #7\n"
	if out.String() != want {
		t.Errorf("printSegments = %q, want %q", out.String(), want)
	}
}
