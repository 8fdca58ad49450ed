package main

import (
	"bytes"
	"strings"
	"testing"

	"mercator-hq/anvil/pkg/buildfile"
	"mercator-hq/anvil/pkg/buildfile/builtin"
)

func TestShowGraphValidFile(t *testing.T) {
	graphFlags.file = "testdata/valid.anvil"

	err := showGraph(nil, []string{})
	if err != nil {
		t.Errorf("showGraph() with valid file returned error: %v", err)
	}
}

func TestShowGraphInvalidFile(t *testing.T) {
	graphFlags.file = "testdata/invalid.anvil"

	err := showGraph(nil, []string{})
	if err == nil {
		t.Error("showGraph() with invalid file should return error")
	}
}

func TestRenderGraph(t *testing.T) {
	delegate := builtin.NewDelegate()
	bf := buildfile.New("testdata/valid.anvil", delegate)
	if !bf.Load() {
		t.Fatalf("Load() failed: %v", delegate.Diagnostics)
	}

	var buf bytes.Buffer
	renderGraph(&buf, bf, delegate)
	out := buf.String()

	for _, want := range []string{
		"client: anvil (version 1)",
		"  shell\n",
		"  in.txt (implicit)",
		"  out.txt\n",
		"  all: out.txt",
		"  out.txt: tool=shell inputs=[in.txt] outputs=[out.txt]",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("graph output missing %q:\n%s", want, out)
		}
	}
}
