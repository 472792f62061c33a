package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/bloominghealth/internal/probe"
)

func TestPrintReport(t *testing.T) {
	report := probe.Report{
		RunID: "3f1c",
		Results: []probe.Result{
			{URL: "http://127.0.0.1:4000/api/hello", Status: 200, Snippet: "{\"message\":\n\"Hola desde el backend!\"}"},
			{URL: "http://[::1]:3001/", Err: "probe: get http://[::1]:3001/: connection refused"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, printReport(&buf, report))

	out := buf.String()
	assert.Contains(t, out, `{"message": "Hola desde el backend!"}`)
	assert.Contains(t, out, "connection refused")
	assert.Contains(t, out, "run 3f1c: 1/2 ok")
}

func TestCheckCommand_Args(t *testing.T) {
	assert.Equal(t, "check [target...]", checkCmd.Use)
	assert.NotEmpty(t, checkCmd.Long)
}
