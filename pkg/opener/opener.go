// Package opener opens profile pages in a web browser.
//
// Opening is fire-and-forget: failures are logged and never reported back to
// the caller, which marks the people visited regardless.
package opener

import (
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"
)

// Browser choices accepted by New.
const (
	KindSafari  = "safari"
	KindDefault = "default"
	KindNone    = "none"
)

// Opener opens an ordered list of URLs as tabs of one new browser window.
type Opener interface {
	Open(urls []string)
}

// CommandRunner runs an external program. A non-empty stdin is fed to it.
type CommandRunner func(name string, args []string, stdin string) error

func execRunner(name string, args []string, stdin string) error {
	cmd := exec.Command(name, args...) //nolint:noctx
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	return cmd.Run()
}

// New returns the opener for kind. Safari is only available on macOS; other
// systems fall back to the default browser.
func New(kind string, logger *slog.Logger) (Opener, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	switch strings.ToLower(kind) {
	case KindSafari:
		if runtime.GOOS == "darwin" {
			return &Safari{Logger: logger}, nil
		}
		logger.Debug("safari unavailable, using default browser", "os", runtime.GOOS)
		return &Browser{Logger: logger}, nil
	case KindDefault, "":
		return &Browser{Logger: logger}, nil
	case KindNone:
		return Nop{}, nil
	default:
		return nil, fmt.Errorf("unknown browser %q", kind)
	}
}

// Safari opens the URLs in a new Safari window through AppleScript.
type Safari struct {
	Logger *slog.Logger
	// Run defaults to executing the command.
	Run CommandRunner
}

func (s *Safari) Open(urls []string) {
	if len(urls) == 0 {
		return
	}
	run := s.Run
	if run == nil {
		run = execRunner
	}
	if err := run("osascript", []string{"-"}, SafariScript(urls)); err != nil {
		logOrDiscard(s.Logger).Warn("safari script failed", "urls", len(urls), "error", err)
	}
}

// SafariScript builds the AppleScript that opens a new document and one tab
// per URL, pausing between tabs so Safari keeps up.
func SafariScript(urls []string) string {
	if len(urls) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("tell application \"Safari\"\n")
	b.WriteString("make new document\n")
	b.WriteString("delay 0.4\n")
	fmt.Fprintf(&b, "open location %s\n", appleScriptString(urls[0]))
	b.WriteString("delay 0.5\n")
	for _, u := range urls[1:] {
		fmt.Fprintf(&b, "open location %s\n", appleScriptString(u))
		b.WriteString("delay 0.3\n")
	}
	b.WriteString("activate\n")
	b.WriteString("end tell")
	return b.String()
}

var appleScriptEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func appleScriptString(s string) string {
	return `"` + appleScriptEscaper.Replace(s) + `"`
}

// Browser hands each URL to the system's default browser.
type Browser struct {
	Logger *slog.Logger
	// GOOS defaults to runtime.GOOS.
	GOOS string
	// Run defaults to executing the command.
	Run CommandRunner
}

func (b *Browser) Open(urls []string) {
	logger := logOrDiscard(b.Logger)
	goos := b.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	run := b.Run
	if run == nil {
		run = execRunner
	}

	for _, u := range urls {
		name, args, ok := browserCommand(goos, u)
		if !ok {
			logger.Warn("no browser command for platform", "os", goos)
			return
		}
		if err := run(name, args, ""); err != nil {
			logger.Warn("open url failed", "url", u, "error", err)
		}
	}
}

func browserCommand(goos, url string) (string, []string, bool) {
	switch goos {
	case "darwin":
		return "open", []string{url}, true
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{url}, true
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}, true
	default:
		return "", nil, false
	}
}

// Nop ignores every request.
type Nop struct{}

func (Nop) Open([]string) {}

func logOrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l
}
