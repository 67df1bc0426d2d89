package opener

import (
	"bytes"
	"errors"
	"log/slog"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	name  string
	args  []string
	stdin string
}

func recorder(calls *[]call, err error) CommandRunner {
	return func(name string, args []string, stdin string) error {
		*calls = append(*calls, call{name, args, stdin})
		return err
	}
}

func TestSafariScript(t *testing.T) {
	got := SafariScript([]string{"https://example.com/in/a", `https://example.com/in/"b"`})
	want := `tell application "Safari"
make new document
delay 0.4
open location "https://example.com/in/a"
delay 0.5
open location "https://example.com/in/\"b\""
delay 0.3
activate
end tell`
	assert.Equal(t, want, got)
	assert.Empty(t, SafariScript(nil))
}

func TestSafariOpen(t *testing.T) {
	var calls []call
	s := &Safari{Run: recorder(&calls, nil)}

	s.Open(nil)
	assert.Empty(t, calls)

	s.Open([]string{"https://example.com/in/a"})
	require.Len(t, calls, 1)
	assert.Equal(t, "osascript", calls[0].name)
	assert.Equal(t, []string{"-"}, calls[0].args)
	assert.Contains(t, calls[0].stdin, `open location "https://example.com/in/a"`)
}

func TestSafariOpenLogsFailure(t *testing.T) {
	var calls []call
	var buf bytes.Buffer
	s := &Safari{
		Run:    recorder(&calls, errors.New("boom")),
		Logger: slog.New(slog.NewTextHandler(&buf, nil)),
	}

	s.Open([]string{"https://example.com/in/a"})
	assert.Contains(t, buf.String(), "safari script failed")
	assert.Contains(t, buf.String(), "boom")
}

func TestBrowserOpen(t *testing.T) {
	tests := []struct {
		goos string
		name string
		args []string
	}{
		{"darwin", "open", []string{"https://example.com"}},
		{"linux", "xdg-open", []string{"https://example.com"}},
		{"windows", "rundll32", []string{"url.dll,FileProtocolHandler", "https://example.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			var calls []call
			b := &Browser{GOOS: tt.goos, Run: recorder(&calls, nil)}
			b.Open([]string{"https://example.com"})
			require.Len(t, calls, 1)
			assert.Equal(t, tt.name, calls[0].name)
			assert.Equal(t, tt.args, calls[0].args)
		})
	}
}

func TestBrowserOpenEachURL(t *testing.T) {
	var calls []call
	b := &Browser{GOOS: "linux", Run: recorder(&calls, errors.New("no display"))}
	b.Open([]string{"a", "b", "c"})
	assert.Len(t, calls, 3)
}

func TestBrowserUnknownPlatform(t *testing.T) {
	var calls []call
	b := &Browser{GOOS: "plan9", Run: recorder(&calls, nil)}
	b.Open([]string{"a"})
	assert.Empty(t, calls)
}

func TestNew(t *testing.T) {
	o, err := New(KindNone, nil)
	require.NoError(t, err)
	assert.IsType(t, Nop{}, o)

	o, err = New(KindDefault, nil)
	require.NoError(t, err)
	assert.IsType(t, &Browser{}, o)

	o, err = New(KindSafari, nil)
	require.NoError(t, err)
	if runtime.GOOS == "darwin" {
		assert.IsType(t, &Safari{}, o)
	} else {
		assert.IsType(t, &Browser{}, o)
	}

	_, err = New("lynx", nil)
	assert.Error(t, err)
}
