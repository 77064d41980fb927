package prompt

import (
	"encoding/json"
	"fmt"
	"strings"
)

// GetDetectionPrompt asks the model for the sensitive substrings of text as a JSON array of strings.
func GetDetectionPrompt(text string) string {
	return `Analyze the following text and extract only those pieces of information that are sensitive or private. ` +
		`Sensitive data includes API keys, passwords, tokens, or any other information that could compromise security if exposed. ` +
		`Do not include any data that is not sensitive. ` +
		`Do not extract already obfuscated tokens which follow the template '__SECRET_d__' (for example, '__SECRET_3__'). ` +
		`Return the result as a JSON array of strings, where each string is exactly the sensitive data as it appears in the text. ` +
		`If no sensitive data is found, return an empty JSON array.` + "\n\n" +
		fmt.Sprintf("Text: '''%s'''", text)
}

// StripFences removes a surrounding markdown code fence (```json ... ```), if any.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) > 0 && strings.HasPrefix(lines[0], "```") {
		lines = lines[1:]
	}
	if n := len(lines); n > 0 && strings.HasPrefix(strings.TrimSpace(lines[n-1]), "```") {
		lines = lines[:n-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// ParseJSONList decodes the model reply into a list of strings.
func ParseJSONList(reply string) ([]string, error) {
	var out []string
	if err := json.Unmarshal([]byte(StripFences(reply)), &out); err != nil {
		return nil, fmt.Errorf("model reply is not a JSON string array: %w", err)
	}
	return out, nil
}
