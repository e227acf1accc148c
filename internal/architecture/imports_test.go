package architecture_test

import (
	"bufio"
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

type violation struct {
	file string
	imp  string
	rule string
}

func TestImportBoundaries(t *testing.T) {
	root, modulePath := moduleRoot(t)

	violations := walkImports(t, root, func(rel string) bool {
		// Test files wire whole stacks and are exempt from layering.
		return !strings.HasSuffix(rel, "_test.go")
	}, func(rel, imp string) string {
		for _, bad := range disallowedImports(modulePath, layerFor(rel)) {
			if strings.HasPrefix(imp, bad) {
				return bad
			}
		}
		return ""
	})

	if len(violations) > 0 {
		var b strings.Builder
		b.WriteString("import boundary violations:\n")
		for _, v := range violations {
			fmt.Fprintf(&b, "- %s imports %q (disallowed: %q)\n", v.file, v.imp, v.rule)
		}
		t.Fatal(b.String())
	}
}

func TestClientsOnlyImportedByApp(t *testing.T) {
	root, modulePath := moduleRoot(t)
	clientsPrefix := modulePath + "/internal/clients/"

	violations := walkImports(t, root, func(rel string) bool {
		return !strings.HasPrefix(rel, "internal/clients/") && !strings.HasPrefix(rel, "internal/app/")
	}, func(_ string, imp string) string {
		if strings.HasPrefix(imp, clientsPrefix) {
			return clientsPrefix
		}
		return ""
	})

	if len(violations) > 0 {
		var b strings.Builder
		b.WriteString("internal/clients imported outside internal/app (depend on the interfaces in internal/services or internal/domain instead):\n")
		for _, v := range violations {
			fmt.Fprintf(&b, "- %s imports %q\n", v.file, v.imp)
		}
		t.Fatal(b.String())
	}
}

func layerFor(rel string) string {
	switch {
	case strings.HasPrefix(rel, "internal/platform/"):
		return "platform"
	case strings.HasPrefix(rel, "internal/domain/"):
		return "domain"
	case strings.HasPrefix(rel, "internal/modules/"):
		return "modules"
	case strings.HasPrefix(rel, "internal/data/"):
		return "data"
	case strings.HasPrefix(rel, "internal/realtime/"):
		return "realtime"
	case strings.HasPrefix(rel, "internal/services/"):
		return "services"
	case strings.HasPrefix(rel, "internal/http/"):
		return "http"
	default:
		return ""
	}
}

func disallowedImports(modulePath string, layer string) []string {
	internal := modulePath + "/internal/"
	switch layer {
	case "platform":
		return []string{
			internal + "domain",
			internal + "modules/",
			internal + "data/",
			internal + "services",
			internal + "http/",
			internal + "app",
		}
	case "domain":
		return []string{
			internal + "modules/",
			internal + "data/",
			internal + "services",
			internal + "http/",
		}
	case "modules":
		return []string{
			internal + "data/",
			internal + "services",
			internal + "http/",
			internal + "realtime",
		}
	case "data", "realtime":
		return []string{
			internal + "services",
			internal + "http/",
			internal + "app",
		}
	case "services":
		return []string{
			internal + "http/",
			internal + "app",
		}
	case "http":
		return []string{
			internal + "data/",
			internal + "app",
		}
	default:
		return nil
	}
}

func moduleRoot(t *testing.T) (string, string) {
	t.Helper()

	start, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	root, err := findModuleRoot(start)
	if err != nil {
		t.Fatalf("find module root: %v", err)
	}
	modulePath, err := readModulePath(filepath.Join(root, "go.mod"))
	if err != nil {
		t.Fatalf("read module path: %v", err)
	}
	return root, modulePath
}

// walkImports parses every Go file under internal/ that include accepts and
// reports imports for which check returns a non-empty rule.
func walkImports(t *testing.T, root string, include func(rel string) bool, check func(rel, imp string) string) []violation {
	t.Helper()

	internalDir := filepath.Join(root, "internal")
	fset := token.NewFileSet()
	var violations []violation

	walkErr := filepath.WalkDir(internalDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			switch d.Name() {
			case ".git", "vendor", "node_modules", ".gocache":
				return filepath.SkipDir
			default:
				return nil
			}
		}
		if !strings.HasSuffix(path, ".go") {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !include(rel) {
			return nil
		}

		f, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			return err
		}
		for _, spec := range f.Imports {
			if spec == nil || spec.Path == nil {
				continue
			}
			imp, err := strconv.Unquote(spec.Path.Value)
			if err != nil {
				continue
			}
			if rule := check(rel, imp); rule != "" {
				violations = append(violations, violation{file: rel, imp: imp, rule: rule})
			}
		}
		return nil
	})
	if walkErr != nil {
		t.Fatalf("walk internal/: %v", walkErr)
	}
	return violations
}

func findModuleRoot(start string) (string, error) {
	dir := start
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found from %s", start)
		}
		dir = parent
	}
}

func readModulePath(goModPath string) (string, error) {
	f, err := os.Open(goModPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		if !strings.HasPrefix(line, "module ") {
			continue
		}
		mp := strings.TrimSpace(strings.TrimPrefix(line, "module "))
		if mp == "" {
			return "", fmt.Errorf("empty module path in %s", goModPath)
		}
		return mp, nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("module path not found in %s", goModPath)
}
