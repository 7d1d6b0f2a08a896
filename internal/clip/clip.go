// Package clip makes recommendation text available outside the TUI.
// The OS clipboard is tried first, then the terminal's OSC52 escape
// sequence (reaches the local clipboard across SSH), and as a last
// resort the text is saved to a temp file whose path is shown to the
// user.
package clip

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	atotto "github.com/atotto/clipboard"
	osc52 "github.com/aymanbagabas/go-osc52/v2"
	"golang.org/x/term"
)

// Method names the mechanism that ended up carrying the text.
type Method string

const (
	MethodNative Method = "native" // OS clipboard via github.com/atotto/clipboard
	MethodOSC52  Method = "osc52"  // terminal clipboard via OSC52 escape sequence
	MethodFile   Method = "file"   // temp file fallback
)

// Result reports where the copied text went.
type Result struct {
	Method Method
	Detail string // file path, only set for MethodFile
}

// Describe returns the toast line for this outcome.
func (r Result) Describe() string {
	switch r.Method {
	case MethodOSC52:
		return "Copied via terminal clipboard"
	case MethodFile:
		return "Saved to " + r.Detail
	default:
		return "Copied to clipboard"
	}
}

// backend is one step of the fallback chain. detail is surfaced to the
// user via Result.
type backend struct {
	method Method
	copy   func(text string) (detail string, err error)
}

// Ordered fallback chain. A var so tests can substitute backends.
var backends = []backend{
	{MethodNative, copyNative},
	{MethodOSC52, copyOSC52},
	{MethodFile, copyFile},
}

// Copy places text with the first backend that succeeds. Blank text is
// rejected: an empty recommendation panel has nothing worth copying.
func Copy(text string) (Result, error) {
	if strings.TrimSpace(text) == "" {
		return Result{}, errors.New("nothing to copy")
	}

	var lastErr error
	for _, b := range backends {
		detail, err := b.copy(text)
		if err == nil {
			return Result{Method: b.method, Detail: detail}, nil
		}
		lastErr = err
	}
	return Result{}, lastErr
}

func copyNative(text string) (string, error) {
	return "", atotto.WriteAll(text)
}

// Terminals can have strict OSC52 payload limits; stay well under them.
const osc52LimitBytes = 100_000

func copyOSC52(text string) (string, error) {
	if len(text) > osc52LimitBytes {
		return "", fmt.Errorf("text too large for OSC52 (%d bytes > %d)", len(text), osc52LimitBytes)
	}
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return "", errors.New("stderr is not a terminal")
	}

	seq := osc52.New(text).Limit(osc52LimitBytes)
	if os.Getenv("TMUX") != "" {
		seq = seq.Tmux()
	} else if os.Getenv("STY") != "" {
		seq = seq.Screen()
	}

	// Stderr so the sequence doesn't interfere with the stdout renderer.
	_, err := seq.WriteTo(os.Stderr)
	return "", err
}

// copyFile writes the text to a markdown temp file, since
// recommendations arrive as markdown.
func copyFile(text string) (string, error) {
	f, err := os.CreateTemp("", fmt.Sprintf("bookscout-recommendation-%d-*.md", time.Now().UnixNano()))
	if err != nil {
		return "", err
	}
	path := f.Name()

	if _, err := f.WriteString(text); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return path, nil
}
