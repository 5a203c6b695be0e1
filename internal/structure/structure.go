// Package structure builds LLM-friendly snapshots of repository layout:
// a depth- and width-limited file tree, language frequencies, size metrics,
// documentation, and sampled source content.
package structure

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Defaults for tree construction and sampling
const (
	DefaultFilesPerDir = 20
	DefaultMaxDepth    = 3
	DefaultMaxFileSize = 100_000
)

// languageExtensions maps source extensions to display language names.
// Membership in this map also marks an extension as analyzable.
var languageExtensions = map[string]string{
	".py":     "Python",
	".js":     "JavaScript",
	".ts":     "TypeScript",
	".jsx":    "React",
	".tsx":    "React TypeScript",
	".java":   "Java",
	".cpp":    "C++",
	".c":      "C",
	".h":      "C/C++ Header",
	".hpp":    "C++ Header",
	".rb":     "Ruby",
	".php":    "PHP",
	".go":     "Go",
	".rs":     "Rust",
	".swift":  "Swift",
	".kt":     "Kotlin",
	".kts":    "Kotlin Script",
	".scala":  "Scala",
	".pl":     "Perl",
	".r":      "R",
	".sh":     "Shell",
	".bat":    "Batch",
	".ps1":    "PowerShell",
	".lua":    "Lua",
	".sql":    "SQL",
	".html":   "HTML",
	".css":    "CSS",
	".xml":    "XML",
	".json":   "JSON",
	".yaml":   "YAML",
	".yml":    "YAML",
	".md":     "Markdown",
	".ipynb":  "Jupyter Notebook",
	".m":      "MATLAB/Objective-C",
	".mm":     "Objective-C++",
	".cs":     "C#",
	".fs":     "F#",
	".erl":    "Erlang",
	".ex":     "Elixir",
	".exs":    "Elixir Script",
	".dart":   "Dart",
	".groovy": "Groovy",
	".jl":     "Julia",
	".clj":    "Clojure",
	".cljs":   "ClojureScript",
	".hs":     "Haskell",
	".ml":     "OCaml",
	".nim":    "Nim",
	".cr":     "Crystal",
	".vue":    "Vue",
	".svelte": "Svelte",
	".zig":    "Zig",
	".sol":    "Solidity",
	".vy":     "Vyper",
}

// packageFiles maps recognized manifest names to their ecosystem label
var packageFiles = map[string]string{
	"package.json":       "npm",
	"requirements.txt":   "pip",
	"setup.py":           "python",
	"pyproject.toml":     "poetry",
	"Pipfile":            "pipenv",
	"pom.xml":            "maven",
	"build.gradle":       "gradle",
	"Gemfile":            "bundler",
	"Cargo.toml":         "cargo",
	"go.mod":             "go",
	"go.sum":             "go",
	"composer.json":      "composer",
	"pubspec.yaml":       "dart",
	"mix.exs":            "elixir",
	"Makefile":           "make",
	"CMakeLists.txt":     "cmake",
	"build.sbt":          "sbt",
	"project.clj":        "leiningen",
	"deps.edn":           "clojure",
	"stack.yaml":         "haskell",
	"Dockerfile":         "docker",
	"docker-compose.yml": "docker-compose",
	"Procfile":           "heroku",
	"tox.ini":            "tox",
	"environment.yml":    "conda",
	"default.nix":        "nix",
	"Vagrantfile":        "vagrant",
}

// excludedDirs are directories never traversed or attributed
var excludedDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"__pycache__":  true,
	"build":        true,
	"dist":         true,
	"vendor":       true,
	"third_party":  true,
	"external":     true,
}

// IsAnalyzablePath reports whether a relative file path should be included
// in stylometric analysis: not inside an excluded directory, and carrying a
// recognized source extension
func IsAnalyzablePath(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if excludedDirs[part] {
			return false
		}
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return false
	}

	_, ok := languageExtensions[ext]
	return ok
}

// Analyze builds the complete structural snapshot for a repository clone
func Analyze(repoPath string) (*RepoStructure, error) {
	tree, err := BuildTree(repoPath, DefaultFilesPerDir, DefaultMaxDepth)
	if err != nil {
		return nil, err
	}

	stats := analyzeFileStats(repoPath)
	docs := extractDocumentation(repoPath)
	languages := CountLanguages(tree)

	return &RepoStructure{
		Structure:     tree,
		FileStats:     stats,
		Documentation: docs,
		Languages:     languages,
	}, nil
}

// BuildTree walks the repository and produces a limited tree representation.
// filesPerDir caps files listed per directory; maxDepth caps nesting.
func BuildTree(repoPath string, filesPerDir, maxDepth int) (TreeNode, error) {
	info, err := os.Stat(repoPath)
	if err != nil {
		return TreeNode{}, fmt.Errorf("failed to stat repository path: %w", err)
	}
	if !info.IsDir() {
		return TreeNode{}, fmt.Errorf("repository path is not a directory: %s", repoPath)
	}

	return buildSubtree(repoPath, repoPath, filesPerDir, maxDepth, 0), nil
}

func buildSubtree(repoPath, path string, filesPerDir, maxDepth, depth int) TreeNode {
	rel, err := filepath.Rel(repoPath, path)
	if err != nil {
		rel = filepath.Base(path)
	}

	node := TreeNode{
		Type: "directory",
		Name: filepath.Base(path),
		Path: filepath.ToSlash(rel),
	}

	if depth >= maxDepth {
		node.Children = []TreeNode{{
			Type:    "note",
			Message: fmt.Sprintf("Directory depth limit (%d) reached", maxDepth),
		}}
		return node
	}

	if excludedDirs[node.Name] {
		return node
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return node
	}

	fileCount := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if _, ok := languageExtensions[ext]; !ok {
			continue
		}
		if fileCount >= filesPerDir {
			break
		}

		childRel, _ := filepath.Rel(repoPath, filepath.Join(path, entry.Name()))
		size := int64(0)
		if info, err := entry.Info(); err == nil {
			size = info.Size()
		}

		node.Children = append(node.Children, TreeNode{
			Type:      "file",
			Name:      entry.Name(),
			Path:      filepath.ToSlash(childRel),
			Extension: ext,
			Size:      size,
		})
		fileCount++
	}

	for _, entry := range entries {
		if !entry.IsDir() || excludedDirs[entry.Name()] {
			continue
		}

		subtree := buildSubtree(repoPath, filepath.Join(path, entry.Name()), filesPerDir, maxDepth, depth+1)
		if len(subtree.Children) > 0 {
			node.Children = append(node.Children, subtree)
		}
	}

	return node
}

// SourceFiles flattens the tree into its file nodes, sorted by path
func SourceFiles(tree TreeNode) []TreeNode {
	var files []TreeNode

	var traverse func(node TreeNode)
	traverse = func(node TreeNode) {
		if node.Type == "file" {
			files = append(files, node)
			return
		}
		for _, child := range node.Children {
			traverse(child)
		}
	}
	traverse(tree)

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files
}

// CountLanguages renders a frequency-ordered language list from the tree
func CountLanguages(tree TreeNode) string {
	counts := make(map[string]int)
	for _, file := range SourceFiles(tree) {
		if lang, ok := languageExtensions[file.Extension]; ok {
			counts[lang]++
		}
	}

	type langCount struct {
		name  string
		count int
	}

	ordered := make([]langCount, 0, len(counts))
	for name, count := range counts {
		ordered = append(ordered, langCount{name, count})
	}

	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].count == ordered[j].count {
			return ordered[i].name < ordered[j].name
		}
		return ordered[i].count > ordered[j].count
	})

	names := make([]string, len(ordered))
	for i, lc := range ordered {
		names[i] = lc.name
	}
	return strings.Join(names, ", ")
}

// analyzeFileStats counts analyzable files and their non-blank lines
func analyzeFileStats(repoPath string) FileStats {
	stats := FileStats{}

	_ = filepath.WalkDir(repoPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if excludedDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(repoPath, path)
		if err != nil || !IsAnalyzablePath(rel) {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return nil
		}

		loc := 0
		for _, line := range strings.Split(string(content), "\n") {
			if strings.TrimSpace(line) != "" {
				loc++
			}
		}

		stats.FileCount++
		stats.TotalLOC += loc
		return nil
	})

	return stats
}

// extractDocumentation reads the README and recognized package manifests
func extractDocumentation(repoPath string) Documentation {
	docs := Documentation{
		PackageInfo: make(map[string]string),
	}

	matches, _ := filepath.Glob(filepath.Join(repoPath, "README*"))
	if len(matches) > 0 {
		if content, err := os.ReadFile(matches[0]); err == nil {
			docs.Readme = string(content)
		}
	}

	for filename, pkgType := range packageFiles {
		content, err := os.ReadFile(filepath.Join(repoPath, filename))
		if err != nil {
			continue
		}
		docs.PackageInfo[pkgType] = string(content)
	}

	return docs
}
