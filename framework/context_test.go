package framework

import (
	"strings"
	"testing"

	"github.com/shiva-pdv/api-contract-tests/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTestLogger struct {
	events []string
}

func (r *recordingTestLogger) TestStarted(id TestID) {
	r.events = append(r.events, "start "+id.String())
}

func (r *recordingTestLogger) TestError(id TestID, err error) {
	r.events = append(r.events, "error "+id.String()+": "+strings.Split(err.Error(), "\n")[0])
}

func (r *recordingTestLogger) TestFinished(id TestID, failed bool, debugOutput logging.CapturedOutput) {
	status := "passed"
	if failed {
		status = "failed"
	}
	r.events = append(r.events, "finish "+id.String()+" "+status)
}

func (r *recordingTestLogger) TestSkipped(id TestID, reason string) {
	r.events = append(r.events, "skip "+id.String()+" ("+reason+")")
}

func TestRunRecordsPassAndFail(t *testing.T) {
	logger := &recordingTestLogger{}
	results := Run(nil, logger, func(c *Context) {
		c.Run("good", func(c *Context) {})
		c.Run("bad", func(c *Context) {
			c.Errorf("expected %d", 1)
		})
	})

	assert.False(t, results.OK())
	require.Len(t, results.Tests, 2)
	require.Len(t, results.Failures, 1)
	assert.Equal(t, "bad", results.Failures[0].TestID.String())
	assert.Equal(t, []string{
		"start good",
		"finish good passed",
		"start bad",
		"error bad: expected 1",
		"finish bad failed",
	}, logger.events)

	passed, failed, skipped := results.Counts()
	assert.Equal(t, 1, passed)
	assert.Equal(t, 1, failed)
	assert.Equal(t, 0, skipped)
}

func TestFailNowStopsTest(t *testing.T) {
	reached := false
	results := Run(nil, nil, func(c *Context) {
		c.Run("stops", func(c *Context) {
			c.Errorf("first")
			c.FailNow()
			reached = true
		})
		c.Run("still runs", func(c *Context) {})
	})

	assert.False(t, reached)
	assert.Len(t, results.Tests, 2)
	assert.Len(t, results.Failures, 1)
}

func TestFailNowWithoutMessage(t *testing.T) {
	results := Run(nil, nil, func(c *Context) {
		c.Run("silent", func(c *Context) { c.FailNow() })
	})

	require.Len(t, results.Failures, 1)
	require.Len(t, results.Failures[0].Errors, 1)
	assert.Equal(t, "test failed with no failure message", results.Failures[0].Errors[0].Error())
}

func TestUnexpectedPanicFailsTest(t *testing.T) {
	results := Run(nil, nil, func(c *Context) {
		c.Run("panics", func(c *Context) { panic("boom") })
	})

	require.Len(t, results.Failures, 1)
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "unexpected panic in test: boom")
}

func TestSkip(t *testing.T) {
	logger := &recordingTestLogger{}
	results := Run(nil, logger, func(c *Context) {
		c.Run("skipped", func(c *Context) { c.SkipWithReason("no data") })
	})

	assert.True(t, results.OK())
	require.Len(t, results.Tests, 1)
	assert.True(t, results.Tests[0].Skipped)
	assert.Contains(t, logger.events, "skip skipped (no data)")
}

func TestSubtestIDs(t *testing.T) {
	var ids []string
	Run(nil, nil, func(c *Context) {
		c.Run("products", func(c *Context) {
			c.Run("create", func(c *Context) { ids = append(ids, c.ID().String()) })
			c.Run("update", func(c *Context) { ids = append(ids, c.ID().String()) })
		})
	})
	assert.Equal(t, []string{"products/create", "products/update"}, ids)
}

func TestFilterExcludesTests(t *testing.T) {
	ran := map[string]bool{}
	filter := func(id TestID) bool { return id.String() != "b" }
	results := Run(filter, nil, func(c *Context) {
		c.Run("a", func(c *Context) { ran["a"] = true })
		c.Run("b", func(c *Context) { ran["b"] = true })
	})

	assert.Equal(t, map[string]bool{"a": true}, ran)
	assert.Len(t, results.Tests, 1)
}

func TestDeferRunsInReverseOrderEvenOnFailure(t *testing.T) {
	var order []string
	Run(nil, nil, func(c *Context) {
		c.Run("cleanup", func(c *Context) {
			c.Defer(func() { order = append(order, "first") })
			c.Defer(func() { order = append(order, "second") })
			c.FailNow()
		})
	})
	assert.Equal(t, []string{"second", "first"}, order)
}

func TestDebugOutputIsCapturedPerTest(t *testing.T) {
	var captured logging.CapturedOutput
	logger := &capturingTestLogger{onFinish: func(output logging.CapturedOutput) { captured = output }}
	Run(nil, logger, func(c *Context) {
		c.Run("debug", func(c *Context) {
			c.Debug("hello %s", "world")
			c.DebugLogger().Printf("second")
		})
	})

	require.Len(t, captured, 2)
	assert.Equal(t, "hello world", captured[0].Message)
	assert.Equal(t, "second", captured[1].Message)
}

type capturingTestLogger struct {
	nullTestLogger
	onFinish func(logging.CapturedOutput)
}

func (c *capturingTestLogger) TestFinished(id TestID, failed bool, debugOutput logging.CapturedOutput) {
	c.onFinish(debugOutput)
}

func TestRootFailureIsRecorded(t *testing.T) {
	results := Run(nil, nil, func(c *Context) {
		c.Errorf("setup failed")
		c.FailNow()
	})
	assert.False(t, results.OK())
	require.Len(t, results.Failures, 1)
	assert.Equal(t, "", results.Failures[0].TestID.String())
}
