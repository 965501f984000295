package main

import (
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const modulePath = "timecapsule"

// sharedPrefix holds cross-cutting contexts every module may import.
const sharedPrefix = modulePath + "/contexts/shared"

// layerAllowlist lists, per inner layer, the module-relative packages it may
// import besides the standard library. Adapters and transport are unrestricted.
var layerAllowlist = map[string][]string{
	"domain":      {"/domain"},
	"ports":       {"/domain", "/ports"},
	"application": {"/application", "/domain", "/ports"},
}

type violation struct {
	File   string
	Line   int
	Import string
	Rule   string
}

func main() {
	violations := collectViolations("contexts")
	if len(violations) == 0 {
		fmt.Println("boundary checks passed")
		return
	}

	sort.Slice(violations, func(i, j int) bool {
		a, b := violations[i], violations[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Import < b.Import
	})

	fmt.Println("boundary violations found:")
	for _, v := range violations {
		fmt.Printf("- %s:%d imports %q (%s)\n", v.File, v.Line, v.Import, v.Rule)
	}
	os.Exit(1)
}

// collectViolations walks root, a contexts/ directory laid out as
// <context>/<service>/<layer>/..., skipping tests and the shared context.
func collectViolations(root string) []violation {
	var violations []violation

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		parts := strings.Split(filepath.ToSlash(rel), "/")
		if len(parts) < 3 || parts[0] == "shared" {
			return nil
		}

		modulePrefix := fmt.Sprintf("%s/contexts/%s/%s", modulePath, parts[0], parts[1])
		violations = append(violations, checkFile(path, parts[2], modulePrefix)...)
		return nil
	})

	return violations
}

func checkFile(path string, layer string, modulePrefix string) []violation {
	file := filepath.ToSlash(path)
	fset := token.NewFileSet()
	parsed, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
	if err != nil {
		return []violation{{File: file, Line: 1, Rule: "file must parse"}}
	}

	var violations []violation
	add := func(line int, importPath string, rule string) {
		violations = append(violations, violation{File: file, Line: line, Import: importPath, Rule: rule})
	}

	allowlist, restricted := layerAllowlist[layer]
	for _, imp := range parsed.Imports {
		importPath := strings.Trim(imp.Path.Value, "\"")
		line := fset.Position(imp.Pos()).Line

		if strings.HasPrefix(importPath, modulePath+"/contexts/") &&
			!hasPrefix(importPath, modulePrefix) && !hasPrefix(importPath, sharedPrefix) {
			add(line, importPath, "cross-module imports are forbidden")
		}
		if !restricted {
			continue
		}

		if strings.Contains(importPath, "/adapters/") {
			add(line, importPath, layer+" must not import adapters")
		}
		if strings.HasPrefix(importPath, modulePath+"/internal/") {
			add(line, importPath, layer+" must not import runtime infrastructure")
		}
		if !isStdlib(importPath) && !allowed(importPath, modulePrefix, layer, allowlist) {
			add(line, importPath, layer+" import is outside explicit allowlist")
		}
	}

	return violations
}

func allowed(importPath string, modulePrefix string, layer string, allowlist []string) bool {
	if layer != "domain" && hasPrefix(importPath, sharedPrefix) {
		return true
	}
	for _, suffix := range allowlist {
		if hasPrefix(importPath, modulePrefix+suffix) {
			return true
		}
	}
	return false
}

func hasPrefix(path string, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func isStdlib(importPath string) bool {
	if strings.HasPrefix(importPath, modulePath+"/") {
		return false
	}
	first, _, _ := strings.Cut(importPath, "/")
	return !strings.Contains(first, ".")
}
