package state

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sokinpui/commafix/internal/fs"
)

// DirName is the history directory created under the root.
const DirName = ".commafix"

const (
	stateFileName = "state"
	objectsDir    = "objects"

	ActionFix = "fix"
)

// ErrContentMismatch means a file changed since the recorded operation, so
// restoring it would lose edits.
var ErrContentMismatch = errors.New("file content does not match history")

// Operation records one rewritten file.
type Operation struct {
	Action     string
	Path       string
	BeforeHash string
	AfterHash  string
}

// HistoryEntry represents one complete run of the tool.
type HistoryEntry struct {
	Timestamp  int64
	Operations []Operation
}

// State represents the entire state file.
type State struct {
	History      []HistoryEntry
	CurrentIndex int
}

// Manager handles the lifecycle of the state file and the object store
// holding file contents before and after each run.
type Manager struct {
	statePath string
	state     *State
	StateDir  string
}

// findGitRoot finds the root of the git repository.
func findGitRoot() (string, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	output, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}

// New creates and loads a state manager rooted at rootDir. An empty rootDir
// means the git root, or the working directory outside a repository.
func New(rootDir string) (*Manager, error) {
	if rootDir == "" {
		var err error
		rootDir, err = findGitRoot()
		if err != nil {
			rootDir, err = os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("could not get current working directory: %w", err)
			}
		}
	}

	stateDir := filepath.Join(rootDir, DirName)
	if err := os.MkdirAll(filepath.Join(stateDir, objectsDir), 0o755); err != nil {
		return nil, fmt.Errorf("could not create state directory: %w", err)
	}
	m := &Manager{
		statePath: filepath.Join(stateDir, stateFileName),
		StateDir:  stateDir,
	}
	if err := m.load(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manager) load() error {
	m.state = &State{CurrentIndex: -1}

	data, err := os.ReadFile(m.statePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("could not read state file: %w", err)
	}

	content := strings.ReplaceAll(string(data), "\r\n", "\n")
	blocks := strings.Split(content, "\n\n")
	if len(blocks) == 0 || strings.TrimSpace(blocks[0]) == "" {
		return nil
	}

	// First block is current index
	index, err := strconv.Atoi(strings.TrimSpace(blocks[0]))
	if err != nil {
		return fmt.Errorf("invalid state file: could not parse current index: %w", err)
	}
	m.state.CurrentIndex = index

	for _, block := range blocks[1:] {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		lines := strings.Split(block, "\n")

		ts, err := strconv.ParseInt(lines[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid state file: could not parse timestamp from '%s': %w", lines[0], err)
		}

		entry := HistoryEntry{Timestamp: ts}
		opLines := lines[1:]
		if len(opLines)%4 != 0 {
			return fmt.Errorf("invalid state file: incomplete operation record")
		}
		for i := 0; i < len(opLines); i += 4 {
			entry.Operations = append(entry.Operations, Operation{
				Action:     opLines[i],
				Path:       opLines[i+1],
				BeforeHash: opLines[i+2],
				AfterHash:  opLines[i+3],
			})
		}
		m.state.History = append(m.state.History, entry)
	}

	if m.state.CurrentIndex >= len(m.state.History) {
		return fmt.Errorf("invalid state file: index %d out of range", m.state.CurrentIndex)
	}
	return nil
}

func (m *Manager) save() error {
	blocks := []string{strconv.Itoa(m.state.CurrentIndex)}

	for _, entry := range m.state.History {
		var b strings.Builder
		fmt.Fprintf(&b, "%d", entry.Timestamp)
		for _, op := range entry.Operations {
			fmt.Fprintf(&b, "\n%s\n%s\n%s\n%s", op.Action, op.Path, op.BeforeHash, op.AfterHash)
		}
		blocks = append(blocks, b.String())
	}

	content := strings.Join(blocks, "\n\n") + "\n"
	if err := os.WriteFile(m.statePath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("could not write state file: %w", err)
	}
	return nil
}

// Store saves content in the object store and returns its hash.
func (m *Manager) Store(content string) (string, error) {
	hash := fs.Hash(content)
	p := m.objectPath(hash)
	if _, err := os.Stat(p); err == nil {
		return hash, nil
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("could not store object %s: %w", hash, err)
	}
	return hash, nil
}

// Load returns the content stored under hash.
func (m *Manager) Load(hash string) (string, error) {
	data, err := os.ReadFile(m.objectPath(hash))
	if err != nil {
		return "", fmt.Errorf("could not load object %s: %w", hash, err)
	}
	return string(data), nil
}

func (m *Manager) objectPath(hash string) string {
	return filepath.Join(m.StateDir, objectsDir, hash)
}

// CreateOperation stores both versions of a rewritten file and returns the
// operation describing the rewrite.
func (m *Manager) CreateOperation(path, before, after string) (Operation, error) {
	beforeHash, err := m.Store(before)
	if err != nil {
		return Operation{}, err
	}
	afterHash, err := m.Store(after)
	if err != nil {
		return Operation{}, err
	}
	return Operation{Action: ActionFix, Path: path, BeforeHash: beforeHash, AfterHash: afterHash}, nil
}

// Write adds a new set of operations to the history, dropping any undone
// entries after the current one.
func (m *Manager) Write(operations []Operation) error {
	if len(operations) == 0 {
		return nil
	}
	if m.state.CurrentIndex < len(m.state.History)-1 {
		m.state.History = m.state.History[:m.state.CurrentIndex+1]
	}

	sorted := append([]Operation(nil), operations...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Path < sorted[j].Path
	})

	m.state.History = append(m.state.History, HistoryEntry{
		Timestamp:  time.Now().UTC().Unix(),
		Operations: sorted,
	})
	m.state.CurrentIndex++
	return m.save()
}

// GetOperationsToUndo gets the last operations and moves the history pointer.
func (m *Manager) GetOperationsToUndo() ([]Operation, error) {
	if m.state.CurrentIndex < 0 {
		return nil, nil
	}
	ops := m.state.History[m.state.CurrentIndex].Operations
	m.state.CurrentIndex--
	return ops, m.save()
}

// GetOperationsToRedo gets the next operations and moves the history pointer.
func (m *Manager) GetOperationsToRedo() ([]Operation, error) {
	nextIndex := m.state.CurrentIndex + 1
	if nextIndex >= len(m.state.History) {
		return nil, nil
	}
	m.state.CurrentIndex = nextIndex
	return m.state.History[m.state.CurrentIndex].Operations, m.save()
}

// Revert puts the before-content of op back, as long as the file still
// holds the after-content.
func (m *Manager) Revert(op Operation) error {
	return m.restore(op.Path, op.AfterHash, op.BeforeHash)
}

// Reapply puts the after-content of op back, as long as the file still
// holds the before-content.
func (m *Manager) Reapply(op Operation) error {
	return m.restore(op.Path, op.BeforeHash, op.AfterHash)
}

func (m *Manager) restore(path, expectHash, targetHash string) error {
	current, err := fs.HashFile(path)
	if err != nil {
		return err
	}
	if current != expectHash {
		return fmt.Errorf("%s: %w", path, ErrContentMismatch)
	}
	content, err := m.Load(targetHash)
	if err != nil {
		return err
	}
	return fs.WriteFile(path, content)
}
