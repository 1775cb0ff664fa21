package model

// Target is a base directory plus the glob that selects files under it.
type Target struct {
	Dir     string `yaml:"dir"`
	Pattern string `yaml:"pattern"`
}

// FileResult is the outcome of repairing a single file.
type FileResult struct {
	Path     string
	Changed  bool
	Original string
	Fixed    string
}

// Summary holds the results of an operation for display.
type Summary struct {
	Modified  []string
	Unchanged []string
	Failed    []string
	Warnings  []string
	Message   string
	DryRun    bool
}

// Total is the number of files the operation touched or tried to touch.
func (s Summary) Total() int {
	return len(s.Modified) + len(s.Unchanged) + len(s.Failed)
}
