package scenario

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"
)

// Report encodings.
const (
	FormatText = "text"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Formats lists the accepted encodings.
var Formats = []string{FormatText, FormatYAML, FormatJSON}

// Encode writes report to w in the given format.
func Encode(w io.Writer, report *Report, format string) error {
	if report == nil {
		return fmt.Errorf("scenario: nil report")
	}
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatText, "":
		data = encodeTable(report)
	case FormatYAML:
		data, err = encodeYAML(report)
	case FormatJSON:
		data, err = json.MarshalIndent(report, "", "  ")
		if err == nil {
			data = append(data, '\n')
		}
	default:
		return fmt.Errorf("scenario: unknown format %q", format)
	}
	if err != nil {
		return fmt.Errorf("scenario: encode %s: %w", format, err)
	}
	_, err = w.Write(data)
	return err
}

func encodeYAML(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoder close: %w", err)
	}
	return buf.Bytes(), nil
}

func encodeTable(report *Report) []byte {
	var buf bytes.Buffer
	t := table.NewWriter()
	t.SetOutputMirror(&buf)
	t.AppendHeader(table.Row{"Scenario", "Outcome", "Value", "Prototype", "Checks"})
	for _, res := range report.Results {
		value := res.Value
		if res.Error != "" {
			value = res.Error
		}
		t.AppendRow(table.Row{res.Name, res.Outcome, oneLine(value), oneLine(res.Prototype), checkSummary(res)})
	}
	t.AppendFooter(table.Row{"", "", "", "passed", fmt.Sprintf("%d/%d", report.Passed, report.Passed+report.Failed)})
	style := table.StyleLight
	style.Options.DrawBorder = false
	t.SetStyle(style)
	t.Render()

	for _, res := range report.Results {
		for _, c := range res.Checks {
			if !c.Pass {
				fmt.Fprintf(&buf, "FAIL %s: %s", res.Name, c.Name)
				if c.Detail != "" {
					fmt.Fprintf(&buf, " (%s)", c.Detail)
				}
				buf.WriteByte('\n')
			}
		}
	}
	return buf.Bytes()
}

func checkSummary(res Result) string {
	passed := 0
	for _, c := range res.Checks {
		if c.Pass {
			passed++
		}
	}
	return fmt.Sprintf("%d/%d", passed, len(res.Checks))
}

func oneLine(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}

// Schema returns the JSON schema of Report.
func Schema() ([]byte, error) {
	reflector := jsonschema.Reflector{ExpandedStruct: true}
	schema := reflector.Reflect(&Report{})
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("scenario: marshal schema: %w", err)
	}
	return data, nil
}
