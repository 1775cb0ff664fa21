package verify

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// Kind is how a check locates its element.
type Kind string

const (
	// ByRole finds an element by ARIA role and accessible name.
	ByRole Kind = "role"
	// ByText finds the innermost element whose text contains Name.
	ByText Kind = "text"
	// ByLabel finds the form control associated with a label.
	ByLabel Kind = "label"
)

// Check is one assertion against the page.
type Check struct {
	Kind     Kind
	Role     string
	Name     string
	Disabled bool
	Fill     string
}

func (c Check) String() string {
	switch c.Kind {
	case ByRole:
		return fmt.Sprintf("%s %q", c.Role, c.Name)
	case ByLabel:
		return fmt.Sprintf("field labeled %q", c.Name)
	default:
		return fmt.Sprintf("text %q", c.Name)
	}
}

// SettingsChecks are the controls the settings page must render.
func SettingsChecks() []Check {
	return []Check{
		{Kind: ByRole, Role: "switch", Name: "Toggle dark mode"},
		{Kind: ByRole, Role: "switch", Name: "Notifications (coming soon)", Disabled: true},
		{Kind: ByText, Name: "Company Logo URL"},
		{Kind: ByLabel, Name: "Company Logo URL", Fill: "test-logo.png"},
	}
}

// Config controls the browser session.
type Config struct {
	URL            string
	Headless       bool
	Bin            string
	ScreenshotDir  string
	NavTimeout     time.Duration
	ElementTimeout time.Duration
}

// Result is the outcome of one check.
type Result struct {
	Check Check
	Err   error
}

// Report collects the results of a run.
type Report struct {
	Title       string
	Results     []Result
	Screenshots []string
}

// Failed returns the checks that did not pass.
func (r *Report) Failed() []Result {
	var failed []Result
	for _, res := range r.Results {
		if res.Err != nil {
			failed = append(failed, res)
		}
	}
	return failed
}

// ErrChecksFailed is returned when at least one check did not pass.
var ErrChecksFailed = errors.New("settings page checks failed")

// Checker drives a headless browser through a list of checks.
type Checker struct {
	cfg    Config
	logger *zap.Logger
}

// New creates a Checker. A nil logger disables logging.
func New(cfg Config, logger *zap.Logger) *Checker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.NavTimeout == 0 {
		cfg.NavTimeout = 30 * time.Second
	}
	if cfg.ElementTimeout == 0 {
		cfg.ElementTimeout = 5 * time.Second
	}
	return &Checker{cfg: cfg, logger: logger}
}

// Run launches a browser, opens the configured URL and runs checks in
// order. Every check runs even after a failure.
func (c *Checker) Run(ctx context.Context, checks []Check) (*Report, error) {
	l := launcher.New().Headless(c.cfg.Headless)
	if c.cfg.Bin != "" {
		l = l.Bin(c.cfg.Bin)
	}
	controlURL, err := l.Context(ctx).Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}
	defer l.Cleanup()

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}
	defer func() { _ = browser.Close() }()

	c.logger.Info("Navigating", zap.String("url", c.cfg.URL))
	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	if err := page.Timeout(c.cfg.NavTimeout).Navigate(c.cfg.URL); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", c.cfg.URL, err)
	}
	if err := page.Timeout(c.cfg.NavTimeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", c.cfg.URL, err)
	}

	report := &Report{}
	if info, err := page.Info(); err == nil {
		report.Title = info.Title
	}
	c.screenshot(page, report, "verification_debug.png")

	for _, check := range checks {
		err := c.runCheck(page, check)
		if err != nil {
			c.logger.Warn("Check failed", zap.Stringer("check", check), zap.Error(err))
		} else {
			c.logger.Debug("Check passed", zap.Stringer("check", check))
		}
		report.Results = append(report.Results, Result{Check: check, Err: err})
	}

	c.screenshot(page, report, "verification_settings.png")

	if len(report.Failed()) > 0 {
		return report, ErrChecksFailed
	}
	return report, nil
}

func (c *Checker) runCheck(page *rod.Page, check Check) error {
	el, err := page.Timeout(c.cfg.ElementTimeout).ElementByJS(rod.Eval(findElementJS, string(check.Kind), check.Role, check.Name))
	if err != nil {
		return fmt.Errorf("%s not found: %w", check, err)
	}
	el = el.CancelTimeout()

	// Pages may render the control hidden and reveal it later.
	waiting := el.Timeout(c.cfg.ElementTimeout)
	err = waiting.WaitVisible()
	waiting.CancelTimeout()
	if err != nil {
		return fmt.Errorf("%s is not visible: %w", check, err)
	}

	if check.Disabled {
		disabled, err := isDisabled(el)
		if err != nil {
			return fmt.Errorf("%s: %w", check, err)
		}
		if !disabled {
			return fmt.Errorf("%s is not disabled", check)
		}
	}

	if check.Fill != "" {
		if err := el.SelectAllText(); err != nil {
			return fmt.Errorf("%s: failed to select text: %w", check, err)
		}
		if err := el.Input(check.Fill); err != nil {
			return fmt.Errorf("%s: failed to fill: %w", check, err)
		}
	}
	return nil
}

func isDisabled(el *rod.Element) (bool, error) {
	disabled, err := el.Disabled()
	if err != nil {
		return false, err
	}
	if disabled {
		return true, nil
	}
	aria, err := el.Attribute("aria-disabled")
	if err != nil {
		return false, err
	}
	return aria != nil && strings.EqualFold(*aria, "true"), nil
}

func (c *Checker) screenshot(page *rod.Page, report *Report, name string) {
	if c.cfg.ScreenshotDir == "" {
		return
	}
	data, err := page.Screenshot(true, nil)
	if err != nil {
		c.logger.Warn("Screenshot failed", zap.String("name", name), zap.Error(err))
		return
	}
	if err := os.MkdirAll(c.cfg.ScreenshotDir, 0o755); err != nil {
		c.logger.Warn("Screenshot failed", zap.String("name", name), zap.Error(err))
		return
	}
	p := filepath.Join(c.cfg.ScreenshotDir, name)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		c.logger.Warn("Screenshot failed", zap.String("name", name), zap.Error(err))
		return
	}
	report.Screenshots = append(report.Screenshots, p)
}

// findElementJS resolves a check to an element, or null. Names match
// case-insensitively as substrings of the accessible name.
const findElementJS = `(kind, role, name) => {
	const norm = (s) => (s || '').replace(/\s+/g, ' ').trim().toLowerCase();
	const want = norm(name);
	const matches = (s) => norm(s).includes(want);

	const labelText = (el) => {
		if (el.getAttribute('aria-label')) return el.getAttribute('aria-label');
		const ids = el.getAttribute('aria-labelledby');
		if (ids) {
			return ids.split(/\s+/).map((id) => {
				const ref = document.getElementById(id);
				return ref ? ref.textContent : '';
			}).join(' ');
		}
		if (el.labels && el.labels.length) {
			return Array.from(el.labels).map((l) => l.textContent).join(' ');
		}
		return '';
	};

	if (kind === 'role') {
		const implicit = role === 'switch' ? ', input[type=checkbox][role=switch]' : '';
		const els = document.querySelectorAll('[role="' + role + '"]' + implicit);
		for (const el of els) {
			if (matches(labelText(el) || el.textContent)) return el;
		}
		return null;
	}

	if (kind === 'label') {
		for (const label of document.querySelectorAll('label')) {
			if (matches(label.textContent) && label.control) return label.control;
		}
		for (const el of document.querySelectorAll('input, textarea, select')) {
			if (matches(labelText(el))) return el;
		}
		return null;
	}

	let found = null;
	const walk = (el) => {
		for (const child of el.children) walk(child);
		if (!found && matches(el.textContent) && el !== document.body && el !== document.documentElement) found = el;
	};
	walk(document.body);
	return found;
}`
