package contract

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

const timestampFormat = "2006-01-02 15:04:05.000"

// TestLogger receives progress events from the Runner.
type TestLogger interface {
	TestStarted(id TestID)
	TestError(id TestID, err error)
	TestFinished(id TestID, failed bool, debugOutput CapturedOutput)
	TestSkipped(id TestID, reason string)
}

type nullTestLogger struct{}

func (n nullTestLogger) TestStarted(TestID)                        {}
func (n nullTestLogger) TestError(TestID, error)                   {}
func (n nullTestLogger) TestFinished(TestID, bool, CapturedOutput) {}
func (n nullTestLogger) TestSkipped(TestID, string)                {}

// CapturedMessage is one line of debug output.
type CapturedMessage struct {
	Time    time.Time
	Message string
}

// CapturedOutput is the debug output of one test.
type CapturedOutput []CapturedMessage

// CapturingLogger buffers debug output until the test finishes.
type CapturingLogger struct {
	output []CapturedMessage
	lock   sync.Mutex
}

func (l *CapturingLogger) Printf(message string, args ...any) {
	l.lock.Lock()
	l.output = append(l.output, CapturedMessage{Time: time.Now(), Message: fmt.Sprintf(message, args...)})
	l.lock.Unlock()
}

func (l *CapturingLogger) Output() CapturedOutput {
	l.lock.Lock()
	ret := append([]CapturedMessage(nil), l.output...)
	l.lock.Unlock()
	return ret
}

// Dump writes the output with a prefix on every line.
func (output CapturedOutput) Dump(dest io.Writer, prefix string) {
	for _, m := range output {
		fmt.Fprintf(dest, "%s[%s] %s\n",
			prefix,
			m.Time.Format(timestampFormat),
			m.Message,
		)
	}
}

var (
	passColor = color.New(color.FgGreen)
	failColor = color.New(color.FgRed, color.Bold)
	skipColor = color.New(color.FgYellow)
	nameColor = color.New(color.Bold)
)

// ConsoleTestLogger prints progress in the style of go test -v.
type ConsoleTestLogger struct {
	Out                  io.Writer
	DebugOutputOnFailure bool
	DebugOutputOnSuccess bool
}

func (c *ConsoleTestLogger) TestStarted(id TestID) {
	if len(id.Path) == 1 {
		nameColor.Fprintf(c.Out, "%s\n", id)
	}
}

func (c *ConsoleTestLogger) TestError(id TestID, err error) {
	for _, line := range strings.Split(err.Error(), "\n") {
		fmt.Fprintf(c.Out, "      %s\n", line)
	}
}

func (c *ConsoleTestLogger) TestFinished(id TestID, failed bool, debugOutput CapturedOutput) {
	if len(id.Path) > 1 {
		if failed {
			failColor.Fprint(c.Out, "  FAIL ")
		} else {
			passColor.Fprint(c.Out, "  PASS ")
		}
		fmt.Fprintf(c.Out, "%s\n", id.Path[len(id.Path)-1])
	}
	if len(debugOutput) > 0 &&
		((failed && c.DebugOutputOnFailure) || (!failed && c.DebugOutputOnSuccess)) {
		debugOutput.Dump(c.Out, "    DEBUG ")
	}
}

func (c *ConsoleTestLogger) TestSkipped(id TestID, reason string) {
	skipColor.Fprint(c.Out, "  SKIP ")
	if reason == "" {
		fmt.Fprintf(c.Out, "%s\n", id)
	} else {
		fmt.Fprintf(c.Out, "%s (%s)\n", id, reason)
	}
}

// PrintResults writes the summary of a run.
func PrintResults(out io.Writer, results Results) {
	fmt.Fprintln(out)
	if results.OK() {
		passColor.Fprintf(out, "All %d tests passed\n", results.Passed())
		return
	}
	failColor.Fprintf(out, "%d failed, %d passed\n", len(results.Failures), results.Passed())
	for _, f := range results.Failures {
		fmt.Fprintf(out, "  FAILED: %s\n", f.TestID)
	}
}
