package notify

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type message struct {
	title, body string
}

// recorder is a Sink that remembers what it was sent.
type recorder struct {
	got []message
}

func (r *recorder) Notify(title, body string) {
	r.got = append(r.got, message{title, body})
}

// ---------------------------------------------------------------------------
// Multi
// ---------------------------------------------------------------------------

func TestMulti_FansOut(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	m := NewMulti(nil, a, nil, b)

	m.Notify("typescript compiled", "src/app.ts -> jsbuild/app.js")

	require.Len(t, a.got, 1)
	require.Len(t, b.got, 1)
	assert.Equal(t, "typescript compiled", a.got[0].title)
	assert.Equal(t, "src/app.ts -> jsbuild/app.js", b.got[0].body)
}

func TestMulti_RecoversPanickingSink(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	after := &recorder{}
	m := NewMulti(logger, Func(func(string, string) { panic("no display") }), after)

	require.NotPanics(t, func() { m.Notify("less failed", "a.less") })
	assert.Len(t, after.got, 1, "sinks after the panicking one still run")
	assert.Contains(t, logs.String(), "notification sink panicked")
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() { Nop{}.Notify("t", "m") })
}

// ---------------------------------------------------------------------------
// Console
// ---------------------------------------------------------------------------

func fixedConsole(buf *bytes.Buffer) *Console {
	c := NewConsole(buf, true)
	c.nowFunc = func() time.Time { return time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC) }

	return c
}

func TestConsole_SingleLine(t *testing.T) {
	var buf bytes.Buffer
	fixedConsole(&buf).Notify("typescript compiled", "src/app.ts -> jsbuild/app.js")

	assert.Equal(t, "[15:04:05] typescript compiled: src/app.ts -> jsbuild/app.js\n", buf.String())
}

func TestConsole_MultiLineIndents(t *testing.T) {
	var buf bytes.Buffer
	fixedConsole(&buf).Notify("typescript failed", "src/app.ts\nerror TS1005\nerror TS2304\n")

	assert.Equal(t,
		"[15:04:05] typescript failed: src/app.ts\n  error TS1005\n  error TS2304\n",
		buf.String(),
	)
}

func TestConsole_NoColorHasNoEscapes(t *testing.T) {
	var buf bytes.Buffer
	fixedConsole(&buf).Notify("less failed", "a.less")

	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestConsole_ColorWhenEnabled(t *testing.T) {
	var buf bytes.Buffer
	c := fixedConsole(&buf)
	c.failed.EnableColor()

	c.Notify("less failed", "a.less")

	assert.Contains(t, buf.String(), "\x1b[")
}

// ---------------------------------------------------------------------------
// Desktop
// ---------------------------------------------------------------------------

func TestDesktop_SwallowsErrors(t *testing.T) {
	var logs bytes.Buffer
	d := NewDesktop(slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})))

	var gotTitle string
	d.send = func(title, _ string, _ any) error {
		gotTitle = title
		return errors.New("notify-send: not found")
	}

	require.NotPanics(t, func() { d.Notify("site failed", "templates/index.jinja") })
	assert.Equal(t, "site failed", gotTitle)
	assert.Contains(t, logs.String(), "desktop notification failed")
}
