package schema

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gerhard-ee/dbtschema/internal/profile"
)

// repairs adjust the encoder output to the layout dbt projects use
var repairs = []struct {
	old, new string
}{
	// spacing for readability
	{"\nmodels:\n", "\n\nmodels:\n"},
	{"\n  - name:", "\n\n\n  - name:"},
	// empty descriptions
	{"description: \"\"\n", "description: ''\n"},
	// quoted zeros
	{"- \"0\"", "- 0"},
	// empty strings in lists
	{"- \"\"\n", "- ''\n"},
}

// Render serializes the document and applies the textual repairs
func Render(doc *profile.Document) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return "", fmt.Errorf("encode schema: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode schema: %w", err)
	}

	return Repair(buf.String()), nil
}

// Repair applies the textual repairs in order
func Repair(text string) string {
	for _, r := range repairs {
		text = strings.ReplaceAll(text, r.old, r.new)
	}
	return text
}
