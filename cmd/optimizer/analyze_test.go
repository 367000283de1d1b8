package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestAnalyzeCommandPrintsMetrics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hello.txt")
	if err := os.WriteFile(path, []byte("Hello world. This is great!"), 0o600); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"analyze", path, "--title", "Hello World"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		flagTitle, flagHTML = "", false
	})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("analyze: %v", err)
	}

	var got analyzeReport
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, out.String())
	}
	if got.WordCount != 5 || got.SentenceCount != 2 {
		t.Fatalf("unexpected counts: %+v", got)
	}
	if got.Title != "Hello World" {
		t.Fatalf("title = %q", got.Title)
	}
	if len(got.KeywordDensity) != 4 || got.KeywordDensity["great"] != 25 {
		t.Fatalf("unexpected keyword density %#v", got.KeywordDensity)
	}
	if got.ReadabilityScore < 0 || got.ReadabilityScore > 100 {
		t.Fatalf("readability out of range: %v", got.ReadabilityScore)
	}
}

func TestAnalyzeCommandMissingFile(t *testing.T) {
	rootCmd.SetArgs([]string{"analyze", filepath.Join(t.TempDir(), "missing.txt")})
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	if err := rootCmd.Execute(); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestRuntimeCloseRunsInReverse(t *testing.T) {
	var order []int
	rt := &runtime{}
	for i := 1; i <= 3; i++ {
		n := i
		rt.closers = append(rt.closers, func() { order = append(order, n) })
	}
	rt.Close()
	rt.Close()

	if len(order) != 3 || order[0] != 3 || order[2] != 1 {
		t.Fatalf("unexpected close order %v", order)
	}
}
