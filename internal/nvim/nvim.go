package nvim

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/neovim/go-client/nvim"
)

// ErrNoInstance means no Neovim address was found in the environment.
var ErrNoInstance = errors.New("no running Neovim instance (NVIM_LISTEN_ADDRESS and NVIM are unset)")

// Address returns the socket of the surrounding Neovim instance, if any.
func Address() string {
	if addr := os.Getenv("NVIM_LISTEN_ADDRESS"); addr != "" {
		return addr
	}
	return os.Getenv("NVIM")
}

// Manager handles the connection to a running Neovim instance.
type Manager struct {
	nvim *nvim.Nvim
}

// New connects to the Neovim instance at addr, or at Address() when addr
// is empty.
func New(addr string) (*Manager, error) {
	if addr == "" {
		addr = Address()
	}
	if addr == "" {
		return nil, ErrNoInstance
	}
	v, err := nvim.Dial(addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nvim at %s: %w", addr, err)
	}
	return &Manager{nvim: v}, nil
}

// Close disconnects from Neovim.
func (m *Manager) Close() {
	if m.nvim != nil {
		m.nvim.Close()
	}
}

// Reload runs :checktime on every loaded buffer showing one of paths, so
// the editor picks up the rewritten content. It returns the paths that had
// a buffer.
func (m *Manager) Reload(paths []string) ([]string, error) {
	wanted := make(map[string]string, len(paths))
	for _, p := range paths {
		wanted[canonical(p)] = p
	}

	buffers, err := m.nvim.Buffers()
	if err != nil {
		return nil, fmt.Errorf("failed to list buffers: %w", err)
	}

	var reloaded []string
	b := m.nvim.NewBatch()
	for _, buf := range buffers {
		name, err := m.nvim.BufferName(buf)
		if err != nil || name == "" {
			continue
		}
		p, ok := wanted[canonical(name)]
		if !ok {
			continue
		}
		b.Command(fmt.Sprintf("checktime %d", int(buf)))
		reloaded = append(reloaded, p)
	}
	if len(reloaded) == 0 {
		return nil, nil
	}
	if err := b.Execute(); err != nil {
		return nil, fmt.Errorf("failed to reload buffers: %w", err)
	}
	return reloaded, nil
}

func canonical(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}
	if resolved, err := filepath.EvalSymlinks(p); err == nil {
		p = resolved
	}
	return filepath.Clean(p)
}
