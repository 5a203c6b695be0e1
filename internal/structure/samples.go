package structure

import (
	"os"
	"path/filepath"
	"strings"
)

// FilterLargeFiles returns a copy of the tree with files over maxSize removed,
// so the file-selection prompt never sees candidates we would refuse to read
func FilterLargeFiles(tree TreeNode, maxSize int64) TreeNode {
	if tree.Type != "directory" {
		return tree
	}

	filtered := tree
	filtered.Children = nil

	for _, child := range tree.Children {
		switch child.Type {
		case "directory":
			filtered.Children = append(filtered.Children, FilterLargeFiles(child, maxSize))
		case "file":
			if child.Size <= maxSize {
				filtered.Children = append(filtered.Children, child)
			}
		default:
			filtered.Children = append(filtered.Children, child)
		}
	}

	return filtered
}

// ReadSourceFile reads one sampled file, rejecting paths outside the
// analyzable set, oversized files, and binary content
func ReadSourceFile(repoPath, filePath string, maxSize int64) (string, bool) {
	if !IsAnalyzablePath(filePath) {
		return "", false
	}

	fullPath := filepath.Join(repoPath, filepath.FromSlash(filePath))

	info, err := os.Stat(fullPath)
	if err != nil || info.IsDir() {
		return "", false
	}
	if maxSize > 0 && info.Size() > maxSize {
		return "", false
	}

	content, err := os.ReadFile(fullPath)
	if err != nil {
		return "", false
	}

	// Binary check
	if strings.ContainsRune(string(content), '\x00') {
		return "", false
	}

	return string(content), true
}

// ApplySelection populates the Samples field from a file selection,
// reading each chosen file that exists in the tree
func (rs *RepoStructure) ApplySelection(repoPath string, selection FileSelection, maxSize int64) {
	known := make(map[string]bool)
	for _, file := range SourceFiles(rs.Structure) {
		if file.Size <= maxSize {
			known[file.Path] = true
		}
	}

	read := func(paths []string) map[string]string {
		out := make(map[string]string)
		for _, path := range paths {
			if !known[path] {
				continue
			}
			if content, ok := ReadSourceFile(repoPath, path, maxSize); ok {
				out[path] = content
			}
		}
		return out
	}

	rs.Samples = &Samples{
		CoreFiles:      read(selection.CoreFiles),
		SecondaryFiles: read(selection.SecondaryFiles),
		ConfigFiles:    read(selection.ConfigFiles),
	}
}
