// Package output writes generated page objects to disk and reports how each
// file differs from what was there before.
package output

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/v0xg/pomgen/internal/prompt"
	"github.com/v0xg/pomgen/internal/reconcile"
)

// Status of a written file
type Status string

const (
	StatusNew       Status = "new"
	StatusChanged   Status = "changed"
	StatusUnchanged Status = "unchanged"
)

// File is one generated artifact
type File struct {
	Path   string
	Status Status
	Diff   string // line diff against the previous content, set when changed
}

// Options controls writing
type Options struct {
	DryRun bool // compute statuses and diffs without touching disk
}

// Files lists the artifacts of a result as name -> content. A degraded
// result yields a single page file holding the raw text.
func Files(pageName string, r reconcile.Result) map[string]string {
	files := make(map[string]string)
	if r.Degraded() {
		if pageName == "" {
			pageName = prompt.DefaultPageName
		}
		files[pageName+"Page."+reconcile.Ext(r.Code)] = r.Code
		return files
	}

	if r.POMCode != "" && r.POMFileName != "" {
		files[r.POMFileName] = r.POMCode
	}
	if r.DataCode != "" && r.DataFileName != "" {
		files[r.DataFileName] = r.DataCode
	}
	if strings.TrimSpace(r.DataFileContent) != "" {
		files[reconcile.DefaultsFileName(pageName, r.DataFileContent)] = r.DataFileContent
	}
	return files
}

// Write stores every artifact of r under dir
func Write(dir, pageName string, r reconcile.Result, opts Options) ([]File, error) {
	files := Files(pageName, r)
	if len(files) == 0 {
		return nil, fmt.Errorf("nothing to write")
	}

	if !opts.DryRun {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}

	var out []File
	for _, name := range sortedKeys(files) {
		content := ensureNewline(files[name])
		path := filepath.Join(dir, filepath.Base(name))

		f, err := compare(path, content)
		if err != nil {
			return out, err
		}
		if !opts.DryRun && f.Status != StatusUnchanged {
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				return out, fmt.Errorf("write %s: %w", path, err)
			}
		}
		out = append(out, f)
	}
	return out, nil
}

func compare(path, content string) (File, error) {
	old, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return File{Path: path, Status: StatusNew}, nil
	}
	if err != nil {
		return File{}, fmt.Errorf("read %s: %w", path, err)
	}
	if string(old) == content {
		return File{Path: path, Status: StatusUnchanged}, nil
	}
	return File{Path: path, Status: StatusChanged, Diff: Diff(string(old), content)}, nil
}

// Diff renders a line diff of old against new, one line per row prefixed
// with "-", "+" or " ".
func Diff(old, new string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(old, new)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)

	var sb strings.Builder
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(prefix)
			sb.WriteString(ensureNewline(line))
		}
	}
	return sb.String()
}

func ensureNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// page file first
	sort.Slice(keys, func(i, j int) bool {
		pi, pj := strings.Contains(keys[i], "Page."), strings.Contains(keys[j], "Page.")
		if pi != pj {
			return pi
		}
		return keys[i] < keys[j]
	})
	return keys
}
