package lint

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/c360studio/semlint/ast"
	"github.com/c360studio/semlint/config"
)

// ResolveTargets expands targets (files, directories, or glob patterns)
// into the sorted set of checkable files: files whose extension has a
// registered parser, filtered through the configured include and
// exclude patterns. An empty target list means the repository root.
func ResolveTargets(root string, targets []string, lintCfg config.LintConfig, parsers *ast.ParserRegistry) ([]string, error) {
	if parsers == nil {
		parsers = ast.DefaultRegistry
	}
	if len(targets) == 0 {
		targets = []string{root}
	}

	allowedExts := allowedExtensions(parsers, lintCfg.Languages)

	var files []string
	seen := make(map[string]bool)
	add := func(path string) {
		if seen[path] {
			return
		}
		seen[path] = true
		if keepFile(path, root, allowedExts, lintCfg) {
			files = append(files, path)
		}
	}

	for _, target := range targets {
		if containsGlob(target) {
			absPattern, err := makeAbsolutePattern(target)
			if err != nil {
				return nil, fmt.Errorf("resolve pattern %q: %w", target, err)
			}
			matches, err := doublestar.FilepathGlob(absPattern)
			if err != nil {
				return nil, fmt.Errorf("glob error: %w", err)
			}
			for _, match := range matches {
				info, err := os.Stat(match)
				if err != nil {
					continue // Skip paths that can't be stat'd
				}
				if info.IsDir() {
					if err := walkDir(match, add); err != nil {
						return nil, err
					}
				} else {
					add(match)
				}
			}
			continue
		}

		absPath, err := filepath.Abs(target)
		if err != nil {
			return nil, fmt.Errorf("resolve target %q: %w", target, err)
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("stat target %q: %w", target, err)
		}
		if info.IsDir() {
			if err := walkDir(absPath, add); err != nil {
				return nil, err
			}
		} else {
			add(absPath)
		}
	}

	sort.Strings(files)
	return files, nil
}

// walkDir walks a directory, skipping build output and hidden
// directories.
func walkDir(dir string, add func(string)) error {
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if path != dir && shouldSkipDir(filepath.Base(path)) {
				return filepath.SkipDir
			}
			return nil
		}
		add(path)
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory: %w", err)
	}
	return nil
}

// shouldSkipDir returns true for directories that never hold checkable
// sources: hidden, dependency, and build output directories.
func shouldSkipDir(base string) bool {
	if strings.HasPrefix(base, ".") {
		return true
	}
	switch base {
	case "target", "build", "bin", "out", "classes",
		"node_modules", "vendor", "test-output":
		return true
	}
	return false
}

// keepFile applies the extension, include, and exclude filters.
func keepFile(path, root string, allowedExts map[string]bool, lintCfg config.LintConfig) bool {
	if !allowedExts[filepath.Ext(path)] {
		return false
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)

	if len(lintCfg.Include) > 0 && !matchesAny(lintCfg.Include, rel) {
		return false
	}
	if matchesAny(lintCfg.Exclude, rel) {
		return false
	}
	return true
}

// matchesAny reports whether the relative path matches any pattern.
func matchesAny(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// allowedExtensions maps the checkable extensions, optionally filtered
// to a language subset.
func allowedExtensions(parsers *ast.ParserRegistry, languages []string) map[string]bool {
	allowed := make(map[string]bool)
	if len(languages) == 0 {
		for _, ext := range parsers.ListExtensions() {
			allowed[ext] = true
		}
		return allowed
	}
	for _, lang := range languages {
		for _, ext := range parsers.GetExtensionsForParser(lang) {
			allowed[ext] = true
		}
	}
	return allowed
}

// containsGlob checks if a pattern contains glob characters.
func containsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[")
}

// makeAbsolutePattern converts a relative pattern to absolute.
// Preserves glob characters in the pattern.
func makeAbsolutePattern(pattern string) (string, error) {
	// Find the first glob character
	globIdx := -1
	for i, c := range pattern {
		if c == '*' || c == '?' || c == '[' {
			globIdx = i
			break
		}
	}

	if globIdx == -1 {
		// No glob characters - just make absolute
		return filepath.Abs(pattern)
	}

	// Find the directory part before the glob
	dirPart := pattern[:globIdx]
	if lastSep := strings.LastIndex(dirPart, string(filepath.Separator)); lastSep >= 0 {
		dirPart = pattern[:lastSep]
	} else if lastSep := strings.LastIndex(dirPart, "/"); lastSep >= 0 {
		// Handle Unix-style paths on any platform
		dirPart = pattern[:lastSep]
	} else {
		dirPart = "."
	}

	globPart := pattern[len(dirPart):]

	// Make the directory part absolute
	absDir, err := filepath.Abs(dirPart)
	if err != nil {
		return "", err
	}

	// Normalize the glob part separators
	globPart = filepath.FromSlash(globPart)

	return absDir + globPart, nil
}
