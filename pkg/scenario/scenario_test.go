package scenario

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestBuiltinScenariosPass(t *testing.T) {
	report, err := Run(context.Background(), Options{})
	require.NoError(t, err)
	require.Len(t, report.Results, len(All()))

	for _, res := range report.Results {
		assert.True(t, res.Passed(), "scenario %s failed: %+v", res.Name, res.Checks)
		assert.NotEmpty(t, res.Checks, "scenario %s has no checks", res.Name)
	}
	assert.True(t, report.OK())
	assert.Equal(t, len(All()), report.Passed)
	assert.Zero(t, report.Failed)

	_, err = uuid.Parse(report.RunID)
	assert.NoError(t, err)
}

func TestScenarioOutcomesAndRendering(t *testing.T) {
	report, err := Run(context.Background(), Options{Names: []string{
		"non-object-return", "object-return", "function-return", "invalid-callable", "null-prototype",
	}})
	require.NoError(t, err)
	byName := map[string]Result{}
	for _, res := range report.Results {
		byName[res.Name] = res
	}

	assert.Equal(t, OutcomeFresh, byName["non-object-return"].Outcome)
	assert.Equal(t, "Person1 { name: 'alice' }", byName["non-object-return"].Value)
	assert.Equal(t, "{}", byName["non-object-return"].Prototype)

	assert.Equal(t, OutcomeResult, byName["object-return"].Outcome)
	assert.Equal(t, "{ name: 'hello, bob' }", byName["object-return"].Value)
	assert.Equal(t, "[Object: null prototype] {}", byName["object-return"].Prototype)

	assert.Equal(t, OutcomeResult, byName["function-return"].Outcome)
	assert.Equal(t, "[Function (anonymous)]", byName["function-return"].Value)

	assert.Equal(t, OutcomeError, byName["invalid-callable"].Outcome)
	assert.Equal(t, "construct: number is not a constructor", byName["invalid-callable"].Error)

	assert.Equal(t, "[Object: null prototype] { ok: true }", byName["null-prototype"].Value)
	assert.Equal(t, "null", byName["null-prototype"].Prototype)
}

func TestPrototypeScenariosRendering(t *testing.T) {
	report, err := Run(context.Background(), Options{Names: []string{
		"prototype-chain", "array-prototype", "intrinsic-constructors",
	}})
	require.NoError(t, err)
	require.Len(t, report.Results, 3)
	for _, res := range report.Results {
		assert.True(t, res.Passed(), "scenario %s failed: %+v", res.Name, res.Checks)
	}

	assert.Equal(t, "Dog { name: 'rex' }", report.Results[0].Value)
	assert.Equal(t, OutcomeFresh, report.Results[1].Outcome)
	assert.Equal(t, "[ 1, 2 ]", report.Results[1].Prototype)
	assert.Equal(t, OutcomeResult, report.Results[2].Outcome)
	assert.Equal(t, "[ 1, 2 ]", report.Results[2].Value)
}

func TestRunKeepsRequestedOrder(t *testing.T) {
	report, err := Run(context.Background(), Options{Names: []string{"invalid-callable", "object-return"}})
	require.NoError(t, err)
	require.Len(t, report.Results, 2)
	assert.Equal(t, "invalid-callable", report.Results[0].Name)
	assert.Equal(t, "object-return", report.Results[1].Name)
}

func TestRunRejectsUnknownScenario(t *testing.T) {
	_, err := Run(context.Background(), Options{Names: []string{"nope"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"nope"`)
}

func TestRunStopsWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report, err := Run(ctx, Options{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, report.Results)
}

func TestRunLogsWithRunID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	report, err := Run(context.Background(), Options{Names: []string{"object-return"}, Logger: logger})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"run_id":"`+report.RunID+`"`)
	assert.Contains(t, out, `"msg":"scenario finished"`)
	assert.Contains(t, out, `"outcome":"result"`)
}

func TestFailedCheckIsReported(t *testing.T) {
	rec := &Recorder{result: Result{Name: "manual"}}
	rec.Check("holds", true, "ignored %d", 1)
	rec.Check("breaks", false, "want %d", 2)
	assert.False(t, rec.result.Passed())
	assert.Equal(t, "", rec.result.Checks[0].Detail)
	assert.Equal(t, "want 2", rec.result.Checks[1].Detail)

	report := &Report{Failed: 1, Results: []Result{rec.result}}
	assert.False(t, report.OK())

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, report, FormatText))
	assert.Contains(t, buf.String(), "FAIL manual: breaks (want 2)")
}

func TestEncodeFormats(t *testing.T) {
	report, err := Run(context.Background(), Options{Names: []string{"non-object-return", "invalid-callable"}})
	require.NoError(t, err)

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, report, FormatYAML))
		var decoded Report
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, report.RunID, decoded.RunID)
		require.Len(t, decoded.Results, 2)
		assert.Equal(t, "Person1 { name: 'alice' }", decoded.Results[0].Value)
		assert.Contains(t, buf.String(), "run_id: ")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, report, FormatJSON))
		var decoded map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, report.RunID, decoded["run_id"])
		assert.EqualValues(t, 2, decoded["passed"])
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, report, FormatText))
		out := buf.String()
		assert.Contains(t, out, "SCENARIO")
		assert.Contains(t, out, "non-object-return")
		assert.Contains(t, out, "construct: number is not a constructor")
		assert.Contains(t, out, "2/2")
		assert.NotContains(t, out, "FAIL")
	})

	t.Run("unknown", func(t *testing.T) {
		assert.Error(t, Encode(&bytes.Buffer{}, report, "xml"))
		assert.Error(t, Encode(&bytes.Buffer{}, nil, FormatJSON))
	})
}

func TestSchemaDescribesReport(t *testing.T) {
	data, err := Schema()
	require.NoError(t, err)
	var schema map[string]any
	require.NoError(t, json.Unmarshal(data, &schema))

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok, "schema has no properties: %s", data)
	for _, key := range []string{"run_id", "started_at", "passed", "failed", "results"} {
		assert.Contains(t, props, key)
	}
	assert.True(t, strings.Contains(string(data), `"outcome"`))
}

func TestSelectAndLookup(t *testing.T) {
	all, err := Select(nil)
	require.NoError(t, err)
	assert.Equal(t, len(All()), len(all))

	sc, ok := Lookup("function-return")
	require.True(t, ok)
	assert.NotEmpty(t, sc.Description)

	_, ok = Lookup("missing")
	assert.False(t, ok)
}
