package detector

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/getlawrence/useserver/internal/domain"
	"github.com/go-enry/go-enry/v2"
)

// shebangProbeSize bounds how much of an extension-less file is read to
// classify it.
const shebangProbeSize = 512

// DefaultExtensions maps file extensions to linter languages
var DefaultExtensions = map[string]string{
	".js":  domain.LanguageJavaScript,
	".jsx": domain.LanguageJavaScript,
	".mjs": domain.LanguageJavaScript,
	".cjs": domain.LanguageJavaScript,
	".ts":  domain.LanguageTypeScript,
	".mts": domain.LanguageTypeScript,
	".cts": domain.LanguageTypeScript,
	".tsx": domain.LanguageTSX,
}

// Options controls which files DiscoverSources returns
type Options struct {
	// ExcludePaths holds directory names or doublestar patterns relative to
	// the root being walked.
	ExcludePaths []string
	// Extensions overrides DefaultExtensions when non-empty.
	Extensions map[string]string
}

// DiscoverSources walks root (a file or directory) and returns the files the
// linter can parse, sorted by path. A root that is a file is always returned
// when its language is known, even if it matches an exclude pattern.
func DiscoverSources(ctx context.Context, root string, opts Options) ([]domain.SourceFile, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", root, err)
	}

	extensions := opts.Extensions
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}

	if !info.IsDir() {
		if lang := detectFileLanguage(root, extensions); lang != "" {
			return []domain.SourceFile{{Path: root, Language: lang}}, nil
		}
		return nil, nil
	}

	var files []domain.SourceFile
	err = filepath.WalkDir(root, func(path string, de os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, _ := filepath.Rel(root, path)
		if shouldSkipPath(rel, de, opts.ExcludePaths) {
			if de.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if de.IsDir() || !de.Type().IsRegular() {
			return nil
		}

		if lang := detectFileLanguage(path, extensions); lang != "" {
			files = append(files, domain.SourceFile{Path: path, Language: lang})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// shouldSkipPath determines if a file or directory should be skipped
func shouldSkipPath(rel string, de os.DirEntry, excludes []string) bool {
	if rel == "." {
		return false
	}

	// Skip hidden files and directories such as .git and .next
	if strings.HasPrefix(de.Name(), ".") {
		return true
	}

	slashed := filepath.ToSlash(rel)
	if enry.IsVendor(slashed) || (de.IsDir() && enry.IsVendor(slashed+"/")) {
		return true
	}

	return isExcluded(slashed, excludes)
}

// isExcluded matches plain names against every path component and
// everything else as a doublestar pattern.
func isExcluded(slashed string, excludes []string) bool {
	parts := strings.Split(slashed, "/")
	for _, pattern := range excludes {
		if pattern == "" {
			continue
		}
		if !strings.ContainsAny(pattern, "/*?[{") {
			for _, part := range parts {
				if part == pattern {
					return true
				}
			}
			continue
		}
		pattern = strings.TrimSuffix(pattern, "/")
		if ok, _ := doublestar.Match(pattern, slashed); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern+"/**", slashed); ok {
			return true
		}
	}
	return false
}

func detectFileLanguage(path string, extensions map[string]string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != "" {
		return extensions[ext]
	}

	// Extension-less scripts are classified by their shebang
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()
	head := make([]byte, shebangProbeSize)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		return ""
	}

	candidates := enry.GetLanguagesByShebang(path, head[:n], nil)
	if len(candidates) != 1 {
		return ""
	}
	return normalizeLanguageName(candidates[0])
}

// normalizeLanguageName maps enry language names to linter languages
func normalizeLanguageName(lang string) string {
	switch lang {
	case "JavaScript":
		return domain.LanguageJavaScript
	case "TypeScript":
		return domain.LanguageTypeScript
	case "TSX":
		return domain.LanguageTSX
	default:
		return ""
	}
}

// DetectLanguageForFile returns the linter language for a single path
func DetectLanguageForFile(filePath string) string {
	return detectFileLanguage(filePath, DefaultExtensions)
}
