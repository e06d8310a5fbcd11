package rod

import (
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultMaxPages is the number of pages a browser serves before it is
// replaced. A date index plus its articles is typically 20-40 pages.
const DefaultMaxPages = 75

// BrowserConfig describes how Chrome is launched.
type BrowserConfig struct {
	Headless  bool
	UserAgent string // passed as --user-agent; empty keeps Chrome's own
	MaxPages  int64  // pages per browser before recycling; <= 0 means DefaultMaxPages
}

// instance is one launched Chrome process.
type instance struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	served   int64 // pages opened over its lifetime
	open     int   // pages not yet released
}

// BrowserManager hands out pages from a Chrome process and replaces the
// process after MaxPages pages, since a long archive crawl grows Chrome's
// memory without bound. A replaced browser keeps running until every page
// opened on it has been released, so concurrent fetches are never cut off.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	cfg BrowserConfig

	mu          sync.Mutex
	current     *instance
	retired     map[*instance]struct{}
	generations int
	closed      bool
}

// NewBrowserManager launches the first browser.
// Close must be called when the BrowserManager is no longer needed.
func NewBrowserManager(cfg BrowserConfig) (*BrowserManager, error) {
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = DefaultMaxPages
	}

	bm := &BrowserManager{
		cfg:     cfg,
		retired: make(map[*instance]struct{}),
	}

	inst, err := bm.launch()
	if err != nil {
		return nil, err
	}
	bm.current = inst
	bm.generations = 1
	return bm, nil
}

// Page opens a blank page. The returned release func closes the page and
// must be called exactly once.
func (bm *BrowserManager) Page() (*rod.Page, func(), error) {
	inst, err := bm.acquire()
	if err != nil {
		return nil, nil, err
	}

	page, err := inst.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		bm.release(inst)
		return nil, nil, err
	}

	var once sync.Once
	return page, func() {
		once.Do(func() {
			_ = page.Close()
			bm.release(inst)
		})
	}, nil
}

// acquire reserves a page slot, recycling the browser first when it has
// served MaxPages pages. If a replacement cannot be launched the old
// browser keeps serving.
func (bm *BrowserManager) acquire() (*instance, error) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil, fmt.Errorf("browser manager is closed")
	}

	if bm.current.served >= bm.cfg.MaxPages {
		if next, err := bm.launch(); err == nil {
			old := bm.current
			bm.current = next
			bm.generations++
			if old.open == 0 {
				old.shutdown()
			} else {
				bm.retired[old] = struct{}{}
			}
		}
	}

	bm.current.served++
	bm.current.open++
	return bm.current, nil
}

func (bm *BrowserManager) release(inst *instance) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	inst.open--
	if _, ok := bm.retired[inst]; ok && inst.open == 0 {
		delete(bm.retired, inst)
		inst.shutdown()
	}
}

// Generations reports how many browsers have been launched, including the
// current one.
func (bm *BrowserManager) Generations() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	return bm.generations
}

// LauncherPID returns the process ID of the current browser's launcher, or
// 0 once the manager is closed.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.closed || bm.current == nil || bm.current.launcher == nil {
		return 0
	}
	return bm.current.launcher.PID()
}

// Close shuts down every browser, including retired ones with pages still
// open. Close is safe to call multiple times.
func (bm *BrowserManager) Close() error {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil
	}
	bm.closed = true

	for inst := range bm.retired {
		inst.shutdown()
	}
	clear(bm.retired)

	err := bm.current.shutdown()
	bm.current = nil
	return err
}

func (bm *BrowserManager) launch() (*instance, error) {
	l := newLauncher(bm.cfg)

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}
	return &instance{browser: browser, launcher: l}, nil
}

// newLauncher builds the Chrome command line. Background throttling is
// disabled so pages in parallel tabs load at full speed.
func newLauncher(cfg BrowserConfig) *launcher.Launcher {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Leakless(true).
		Headless(cfg.Headless)
	if cfg.UserAgent != "" {
		l = l.Set("user-agent", cfg.UserAgent)
	}
	return l
}

func (inst *instance) shutdown() error {
	var err error
	if inst.browser != nil {
		err = inst.browser.Close()
	}
	if inst.launcher != nil {
		inst.launcher.Kill()
	}
	return err
}
