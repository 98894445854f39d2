package tree

import (
	"path"
	"strings"
)

// excluded reports whether a shared entry is filtered out by the patterns.
// relativePath is slash-separated. Supported forms:
//   - basename globs: *.tmp, *.log
//   - directory names: .git/, node_modules/
//   - path globs: build/*, docs/*.md
//   - any depth: **/testdata, **/*.bak
func excluded(relativePath string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}

	baseName := path.Base(relativePath)

	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		pattern = strings.ReplaceAll(pattern, "\\", "/")

		if dir, ok := strings.CutSuffix(pattern, "/"); ok {
			if relativePath == dir ||
				strings.HasPrefix(relativePath, dir+"/") ||
				strings.HasSuffix(relativePath, "/"+dir) ||
				strings.Contains(relativePath, "/"+dir+"/") {
				return true
			}
			continue
		}

		if suffix, ok := strings.CutPrefix(pattern, "**/"); ok {
			if match(suffix, baseName) || matchAnyComponent(suffix, relativePath) {
				return true
			}
			if strings.Contains(suffix, "/") && matchTail(suffix, relativePath) {
				return true
			}
			continue
		}

		if strings.Contains(pattern, "/") {
			if match(pattern, relativePath) {
				return true
			}
			continue
		}

		if match(pattern, baseName) {
			return true
		}
	}

	return false
}

func match(pattern, name string) bool {
	matched, _ := path.Match(pattern, name)
	return matched
}

// matchAnyComponent checks if any component of the path matches the pattern
func matchAnyComponent(pattern, relativePath string) bool {
	for _, part := range strings.Split(relativePath, "/") {
		if match(pattern, part) {
			return true
		}
	}
	return false
}

// matchTail matches a multi-component pattern against the trailing components of the path
func matchTail(pattern, relativePath string) bool {
	want := strings.Count(pattern, "/") + 1
	parts := strings.Split(relativePath, "/")
	if len(parts) < want {
		return false
	}
	return match(pattern, strings.Join(parts[len(parts)-want:], "/"))
}
