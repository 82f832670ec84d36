package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/teleivo/assertive/assert"
)

func tempFD(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.fd")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func TestLintReportsNothingForValidDocument(t *testing.T) {
	file := tempFD(t, `rect @box { x: 10 y: 20 }`)
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"lint", file})

	assert.NoError(t, root.Execute())
	assert.Equals(t, out.String(), "", "a valid document should produce no lint output")
}

func TestLintFailsOnDuplicateID(t *testing.T) {
	file := tempFD(t, `rect @a {} rect @a {}`)
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"lint", file})

	assert.True(t, root.Execute() != nil, "a duplicate id should be reported as a lint error")
}

func TestViewStructureModeDropsProperties(t *testing.T) {
	file := tempFD(t, `rect @box { x: 10 fill: #FF0000 }`)
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"view", "--mode", "structure", file})

	assert.NoError(t, root.Execute())
	assert.True(t, strings.Contains(out.String(), "rect @box"), "expected the shape in structure view")
	assert.True(t, !strings.Contains(out.String(), "fill:"), "structure view should drop design properties")
}

func TestExportSpecEmitsAcceptanceCheckbox(t *testing.T) {
	file := tempFD(t, `rect @box { spec { "a box" accept: "renders blue" } }`)
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"export-spec", file})

	assert.NoError(t, root.Execute())
	assert.True(t, strings.Contains(out.String(), "- [ ] renders blue"), "expected an acceptance checkbox")
}
