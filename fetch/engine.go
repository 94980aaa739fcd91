package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/chromedp/chromedp"
	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/pressroom/core"
)

const (
	methodChromedp = "chromedp"

	defaultNavigationTimeout = 30 * time.Second
	defaultSelectorTimeout   = 10 * time.Second
	defaultSettleDelay       = 2 * time.Second
	defaultMinTextLength     = 100
	defaultUserAgent         = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	viewportWidth  = 1920
	viewportHeight = 1080
)

// Engine fetches batches of URLs with a shared headless Chrome process.
type Engine struct {
	navigationTimeout time.Duration
	selectorTimeout   time.Duration
	settleDelay       time.Duration
	minTextLength     int
	userAgent         string
	selectors         []string
	pool              *ants.Pool
	logger            *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithNavigationTimeout sets the per-URL navigation timeout.
// Default is 30 seconds.
func WithNavigationTimeout(d time.Duration) Option {
	return func(e *Engine) error {
		if d <= 0 {
			return fmt.Errorf("navigation timeout must be positive")
		}
		e.navigationTimeout = d
		return nil
	}
}

// WithSelectorTimeout sets how long to wait for a content selector to appear.
// Timing out here is non-fatal; extraction proceeds against whatever is
// present. Default is 10 seconds.
func WithSelectorTimeout(d time.Duration) Option {
	return func(e *Engine) error {
		if d <= 0 {
			return fmt.Errorf("selector timeout must be positive")
		}
		e.selectorTimeout = d
		return nil
	}
}

// WithSettleDelay sets the pause after each lazy-load scroll.
// Default is 2 seconds.
func WithSettleDelay(d time.Duration) Option {
	return func(e *Engine) error {
		if d < 0 {
			return fmt.Errorf("settle delay cannot be negative")
		}
		e.settleDelay = d
		return nil
	}
}

// WithMinTextLength sets the minimum cleaned-text length below which a fetch
// is rejected as insufficient_content. Default is 100 characters.
func WithMinTextLength(n int) Option {
	return func(e *Engine) error {
		if n < 0 {
			return fmt.Errorf("minimum text length cannot be negative")
		}
		e.minTextLength = n
		return nil
	}
}

// WithContentSelectors sets the prioritized main-content selector list used
// both for the readiness wait and for extraction.
func WithContentSelectors(selectors []string) Option {
	return func(e *Engine) error {
		if len(selectors) == 0 {
			return fmt.Errorf("at least one content selector is required")
		}
		e.selectors = selectors
		return nil
	}
}

// WithUserAgent sets the browser user agent string.
func WithUserAgent(ua string) Option {
	return func(e *Engine) error {
		if ua == "" {
			return fmt.Errorf("user agent cannot be empty")
		}
		e.userAgent = ua
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// NewEngine creates a fetch engine. The worker pool is sized to the batch
// cap, so all URLs of a valid batch run concurrently.
func NewEngine(opts ...Option) (*Engine, error) {
	pool, err := ants.NewPool(core.MaxBatchURLs)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		navigationTimeout: defaultNavigationTimeout,
		selectorTimeout:   defaultSelectorTimeout,
		settleDelay:       defaultSettleDelay,
		minTextLength:     defaultMinTextLength,
		userAgent:         defaultUserAgent,
		selectors:         DefaultContentSelectors,
		pool:              pool,
		logger:            slog.Default().With("component", "fetch-engine"),
	}

	for _, opt := range opts {
		if optErr := opt(e); optErr != nil {
			e.Release()
			return nil, optErr
		}
	}

	return e, nil
}

// Release releases the worker pool.
// The engine should not be used after calling Release.
func (e *Engine) Release() {
	if e.pool != nil {
		e.pool.Release()
	}
}

// FetchAll renders each URL and returns one FetchResult per URL, in input
// order. The shared browser process is started once for the batch and
// released exactly once on all exit paths; per-URL failures are captured in
// the corresponding result and never abort siblings.
//
// Returns an error only when the browser process itself cannot be started,
// which is fatal to the whole batch.
func (e *Engine) FetchAll(ctx context.Context, urls []string) ([]core.FetchResult, error) {
	if len(urls) == 0 {
		return nil, nil
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx,
		append(
			chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.Flag("disable-blink-features", "AutomationControlled"),
			chromedp.UserAgent(e.userAgent),
		)...,
	)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	// Start the browser before fanning out; failing here is an
	// infrastructure failure, not a per-URL one.
	if err := chromedp.Run(browserCtx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBrowserUnavailable, err)
	}

	e.logger.Info("fetching batch", "urls", len(urls))

	results := make([]core.FetchResult, len(urls))
	var wg sync.WaitGroup

	for i, url := range urls {
		wg.Add(1)
		if err := e.pool.Submit(func() {
			defer wg.Done()
			results[i] = e.fetchOne(browserCtx, url)
		}); err != nil {
			wg.Done()
			results[i] = e.failure(url, err)
		}
	}

	wg.Wait()

	return results, nil
}

// fetchOne renders a single URL in an isolated browser context and extracts
// its main text. It never returns an error: all failures, including panics
// from the automation layer, are folded into the result.
func (e *Engine) fetchOne(browserCtx context.Context, url string) (result core.FetchResult) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("fetch task panicked", "url", url, "panic", r)
			result = e.failure(url, fmt.Errorf("fetch panicked: %v", r))
		}
	}()

	// Isolated cookie/storage jar within the shared browser process
	tabCtx, cancel := chromedp.NewContext(browserCtx, chromedp.WithNewBrowserContext())
	defer cancel()

	navCtx, cancelNav := context.WithTimeout(tabCtx, e.navigationTimeout)
	defer cancelNav()
	if err := chromedp.Run(navCtx,
		chromedp.EmulateViewport(viewportWidth, viewportHeight),
		chromedp.Navigate(url),
	); err != nil {
		e.logger.Warn("navigation failed", "url", url, "err", err)
		return e.failure(url, fmt.Errorf("%w: %w", ErrNavigation, err))
	}

	// Wait for a content region to appear; timing out is non-fatal
	selCtx, cancelSel := context.WithTimeout(tabCtx, e.selectorTimeout)
	defer cancelSel()
	if err := chromedp.Run(selCtx,
		chromedp.WaitReady(e.waitSelector(), chromedp.ByQuery),
	); err != nil {
		e.logger.Debug("no content selector matched", "url", url, "err", err)
	}

	// Scroll to the midpoint and bottom to trigger lazy-loaded content
	var html string
	if err := chromedp.Run(tabCtx,
		chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight / 2)`, nil),
		chromedp.Sleep(e.settleDelay),
		chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
		chromedp.Sleep(e.settleDelay),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	); err != nil {
		e.logger.Warn("page read failed", "url", url, "err", err)
		return e.failure(url, err)
	}

	text, err := ExtractMainText(html, e.selectors)
	if err != nil {
		return e.failure(url, err)
	}

	if !sufficientText(text, e.minTextLength) {
		e.logger.Warn("extracted text too short", "url", url, "length", utf8.RuneCountInString(text))
		return e.failure(url, ErrInsufficientContent)
	}

	e.logger.Info("fetched", "url", url, "length", utf8.RuneCountInString(text))

	return core.FetchResult{
		URL:     url,
		Success: true,
		Text:    text,
		Method:  methodChromedp,
	}
}

// waitSelector is the readiness query: the content selectors plus body, so
// plain pages without an article container return as soon as the body exists
// instead of sitting out the full selector timeout.
func (e *Engine) waitSelector() string {
	return strings.Join(e.selectors, ", ") + ", body"
}

// sufficientText reports whether cleaned text meets the minimum length.
// Length is counted in characters, not bytes, so multi-byte scripts are not
// over-counted.
func sufficientText(text string, minLength int) bool {
	return utf8.RuneCountInString(text) >= minLength
}

// failure builds a failed FetchResult for a URL.
func (e *Engine) failure(url string, reason error) core.FetchResult {
	return core.FetchResult{
		URL:    url,
		Method: methodChromedp,
		Err:    reason.Error(),
	}
}
