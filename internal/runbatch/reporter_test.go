// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleReporter(t *testing.T) {
	var buf bytes.Buffer

	r := NewConsoleReporter[string, string](&buf)

	r.ReportFailure("A", "A", NewItemError(&runtimeException{msg: "test"}))
	assert.Equal(t, "A: FAILED: Exception type = RuntimeException, message = test\n", buf.String())

	buf.Reset()
	r.ReportSuccess("doi:10.5072/FK2/XYZ", "doi:10.5072/FK2/XYZ", `{"status":"OK"}`)
	assert.Equal(t, "doi:10.5072/FK2/XYZ: OK. {\"status\":\"OK\"}\n", buf.String())
}

type flushRecorder struct {
	bytes.Buffer
	flushes int
}

func (f *flushRecorder) Flush() error {
	f.flushes++
	return nil
}

func TestConsoleReporter_FlushesEveryLine(t *testing.T) {
	w := &flushRecorder{}
	r := NewConsoleReporter[string, int](w)

	r.ReportSuccess("a", "a", 1)
	r.ReportSuccess("b", "b", 2)

	assert.Equal(t, 2, w.flushes)
	assert.Equal(t, "a: OK. 1\nb: OK. 2\n", w.String())
}

func TestConsoleReporter_DefaultsToStderr(t *testing.T) {
	r := NewConsoleReporter[string, string](nil)
	require.NotNil(t, r.w)
}

func TestTee(t *testing.T) {
	first := NewCollector[string, string]()
	second := NewCollector[string, string]()

	r := Tee[string, string](first, second)
	r.ReportSuccess("a", "a", "ok")
	r.ReportFailure("b", "b", NewItemError(&runtimeException{msg: "x"}))

	for _, c := range []*Collector[string, string]{first, second} {
		outcomes := c.Outcomes()
		require.Len(t, outcomes, 2)
		assert.Equal(t, "a", outcomes[0].Label)
		assert.Equal(t, "ok", outcomes[0].Result)
		assert.Equal(t, "b", outcomes[1].Label)
		assert.Equal(t, "x", outcomes[1].Err.Message)
		assert.Equal(t, 1, c.Failures())
	}
}
