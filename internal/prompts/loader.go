// Package prompts embeds the LLM prompt catalogs used for email drafting.
// Each JSON file maps prompt names to template text, kept out of the Go
// source so wording can change without touching code.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

//go:embed *.json
var files embed.FS

var (
	mu      sync.Mutex
	catalog = make(map[string]map[string]string)
)

// Get returns the named prompt from a catalog file such as "drafting.json".
func Get(file, name string) (string, error) {
	prompts, err := load(file)
	if err != nil {
		return "", err
	}
	prompt, ok := prompts[name]
	if !ok {
		return "", fmt.Errorf("prompt %q not found in %s", name, file)
	}
	return prompt, nil
}

// MustGet is Get for prompts the program cannot run without.
func MustGet(file, name string) string {
	prompt, err := Get(file, name)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return prompt
}

// Format substitutes {{.Key}} placeholders in a prompt template with the
// supplied values. Placeholders without a value are left in place.
func Format(template string, vars map[string]string) string {
	for key, value := range vars {
		template = strings.ReplaceAll(template, "{{."+key+"}}", value)
	}
	return template
}

func load(file string) (map[string]string, error) {
	mu.Lock()
	defer mu.Unlock()

	if prompts, ok := catalog[file]; ok {
		return prompts, nil
	}

	raw, err := files.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", file, err)
	}
	var prompts map[string]string
	if err := json.Unmarshal(raw, &prompts); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", file, err)
	}

	catalog[file] = prompts
	return prompts, nil
}
