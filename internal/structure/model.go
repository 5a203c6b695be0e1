package structure

// TreeNode is one entry in the depth-limited repository tree.
// Type is "directory", "file", or "note" for truncation markers.
type TreeNode struct {
	Type      string     `json:"type"`
	Name      string     `json:"name,omitempty"`
	Path      string     `json:"path,omitempty"`
	Extension string     `json:"extension,omitempty"`
	Size      int64      `json:"size,omitempty"`
	Message   string     `json:"message,omitempty"`
	Children  []TreeNode `json:"children,omitempty"`
}

// FileStats aggregates simple size metrics over analyzable files
type FileStats struct {
	FileCount int `json:"file_count"`
	TotalLOC  int `json:"total_loc"`
}

// Documentation carries the README and recognized package manifests
type Documentation struct {
	Readme      string            `json:"readme,omitempty"`
	PackageInfo map[string]string `json:"package_info"`
}

// Samples holds extracted source content keyed by file path,
// split into the categories the file-selection step produces
type Samples struct {
	CoreFiles      map[string]string `json:"core_files"`
	SecondaryFiles map[string]string `json:"secondary_files"`
	ConfigFiles    map[string]string `json:"config_files"`
}

// FileSelection is the set of files chosen for sampling in one repository
type FileSelection struct {
	CoreFiles      []string `json:"core_files"`
	SecondaryFiles []string `json:"secondary_files"`
	ConfigFiles    []string `json:"config_files"`
}

// RepoStructure is the complete structural snapshot of one repository
type RepoStructure struct {
	Structure     TreeNode      `json:"structure"`
	FileStats     FileStats     `json:"file_stats"`
	Documentation Documentation `json:"documentation"`
	Languages     string        `json:"languages"`
	Samples       *Samples      `json:"samples,omitempty"`
}
