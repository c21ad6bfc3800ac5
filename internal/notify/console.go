package notify

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
)

// Console prints notifications as timestamped status lines. Titles ending
// in "failed" are printed in red, everything else in green.
type Console struct {
	out     io.Writer
	ok      *color.Color
	failed  *color.Color
	dim     *color.Color
	nowFunc func() time.Time
}

// NewConsole creates a Console writing to out. noColor disables escape
// sequences regardless of the terminal.
func NewConsole(out io.Writer, noColor bool) *Console {
	c := &Console{
		out:     out,
		ok:      color.New(color.FgGreen, color.Bold),
		failed:  color.New(color.FgRed, color.Bold),
		dim:     color.New(color.Faint),
		nowFunc: time.Now,
	}

	if noColor {
		c.ok.DisableColor()
		c.failed.DisableColor()
		c.dim.DisableColor()
	}

	return c
}

// Notify writes "[15:04:05] title: message". Multi-line messages continue
// indented on the following lines.
func (c *Console) Notify(title, message string) {
	style := c.ok
	if strings.HasSuffix(title, "failed") {
		style = c.failed
	}

	first, rest, _ := strings.Cut(message, "\n")

	fmt.Fprintf(c.out, "%s %s %s\n",
		c.dim.Sprintf("[%s]", c.nowFunc().Format("15:04:05")),
		style.Sprint(title+":"),
		first,
	)

	for _, line := range strings.Split(strings.TrimRight(rest, "\n"), "\n") {
		if line != "" {
			fmt.Fprintf(c.out, "  %s\n", line)
		}
	}
}
