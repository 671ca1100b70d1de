package batch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Discover finds the Markdown files named by opts. Directories are
// walked recursively, arguments containing glob metacharacters are
// expanded, and explicitly named files pass through without extension
// filtering. The result is absolute, deduplicated, and sorted.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, err
	}

	extensions := opts.effectiveExtensions()

	seen := make(map[string]struct{})
	var files []string
	add := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, arg := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		abs := arg
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(workDir, abs)
		}
		abs = filepath.Clean(abs)

		info, statErr := os.Stat(abs)
		switch {
		case statErr == nil && info.IsDir():
			found, walkErr := walkDir(ctx, abs, workDir, extensions, opts)
			if walkErr != nil {
				return nil, walkErr
			}
			for _, f := range found {
				add(f)
			}

		case statErr == nil:
			// An explicit file skips the extension and include
			// filters; the user asked for it by name.
			if !matchAny(relTo(workDir, abs), opts.Exclude) {
				add(abs)
			}

		case isPattern(arg):
			matches, globErr := doublestar.FilepathGlob(abs)
			if globErr != nil {
				return nil, fmt.Errorf("bad pattern %q: %w", arg, globErr)
			}
			for _, m := range matches {
				fi, err := os.Stat(m)
				if err != nil || fi.IsDir() {
					continue
				}
				if matchAny(relTo(workDir, m), opts.Exclude) {
					continue
				}
				add(m)
			}

		default:
			return nil, fmt.Errorf("stat %s: %w", arg, statErr)
		}
	}

	sort.Strings(files)
	return files, nil
}

// resolveWorkDir resolves the working directory, defaulting to the
// process working directory.
func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	abs, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve working directory: %w", err)
	}
	return abs, nil
}

// walkDir recursively walks root collecting matching Markdown files.
// Hidden and excluded directories are pruned; directory symlinks are
// only followed when the options say so.
func walkDir(ctx context.Context, root, workDir string, extensions []string, opts Options) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		rel := relTo(workDir, path)

		if entry.IsDir() {
			if path == root {
				return nil
			}
			if strings.HasPrefix(entry.Name(), ".") {
				return filepath.SkipDir
			}
			if excludedDir(rel, opts.Exclude) {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			real, evalErr := filepath.EvalSymlinks(path)
			if evalErr != nil {
				return nil //nolint:nilerr // broken symlinks are skipped
			}
			info, statErr := os.Stat(real)
			if statErr != nil {
				return nil //nolint:nilerr // unreadable targets are skipped
			}
			if info.IsDir() {
				if !opts.FollowSymlinks {
					return nil
				}
				// Walk the target rather than the link so WalkDir's
				// Lstat-based traversal cannot recurse forever.
				sub, subErr := walkDir(ctx, real, workDir, extensions, opts)
				if subErr != nil {
					return subErr
				}
				files = append(files, sub...)
				return nil
			}
		}

		if strings.HasPrefix(entry.Name(), ".") {
			return nil
		}
		if !matchesFile(rel, path, extensions, opts) {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	return files, nil
}

// matchesFile applies the extension, exclude, and include filters to a
// discovered file.
func matchesFile(rel, path string, extensions []string, opts Options) bool {
	if !hasExtension(path, extensions) {
		return false
	}
	if matchAny(rel, opts.Exclude) {
		return false
	}
	if len(opts.Include) > 0 && !matchAny(rel, opts.Include) {
		return false
	}
	return true
}

// hasExtension reports whether path carries one of the extensions.
func hasExtension(path string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range extensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

// matchAny reports whether rel matches any of the glob patterns. A
// pattern without a path separator also matches by base name, so
// "vendor" excludes a vendor directory at any depth.
func matchAny(rel string, patterns []string) bool {
	rel = filepath.ToSlash(rel)
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
		if !strings.Contains(pattern, "/") {
			if ok, err := doublestar.Match(pattern, filepath.Base(rel)); err == nil && ok {
				return true
			}
		}
	}
	return false
}

// excludedDir reports whether a directory should be pruned. A pattern
// like "vendor/**" prunes the vendor directory itself, not just its
// contents.
func excludedDir(rel string, patterns []string) bool {
	if matchAny(rel, patterns) {
		return true
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range patterns {
		trimmed := strings.TrimSuffix(filepath.ToSlash(pattern), "/**")
		if trimmed == pattern {
			continue
		}
		if ok, err := doublestar.Match(trimmed, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// relTo returns path relative to base, falling back to the path itself
// when no relative form exists.
func relTo(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return path
	}
	return rel
}

// isPattern reports whether a path argument contains glob
// metacharacters.
func isPattern(path string) bool {
	return strings.ContainsAny(path, "*?[{")
}
