// Package snake asks for whatever a command was not given on the command line.
package snake

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

type backendChoice struct {
	ID      string
	Kind    string
	Default bool
}

// PickBackend lets the user choose one of ids, starting on def.
func PickBackend(cmd *cobra.Command, ids []string, def string) (string, error) {
	if len(ids) == 0 {
		return "", errors.New("no backends to choose from")
	}
	choices := make([]backendChoice, 0, len(ids))
	cursor := 0
	for i, id := range ids {
		kind, _, _ := strings.Cut(id, ":")
		choices = append(choices, backendChoice{ID: id, Kind: kind, Default: id == def})
		if id == def {
			cursor = i
		}
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}?",
		Active:   "➜  {{ .ID | bold }} {{ .Kind | green }}{{ if .Default }} {{ \"default\" | faint }}{{ end }}",
		Inactive: "   {{ .ID }} {{ .Kind | cyan }}{{ if .Default }} {{ \"default\" | faint }}{{ end }}",
		Selected: "{{ .ID | bold }}",
	}

	prompt := promptui.Select{
		HideHelp:  true,
		Label:     "Backend",
		Items:     choices,
		Templates: templates,
		Size:      10,
		CursorPos: cursor,
		Searcher: func(input string, index int) bool {
			return matches(input, choices[index].ID)
		},
		Stdin:  io.NopCloser(cmd.InOrStdin()),
		Stdout: NopCloser(cmd.OutOrStdout()),
	}

	i, _, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}
	return choices[i].ID, nil
}

// PromptText asks for one non-empty line.
func PromptText(cmd *cobra.Command, label string) (string, error) {
	templates := &promptui.PromptTemplates{
		Prompt:  "{{ . }}: ",
		Valid:   "{{ . | green }}: ",
		Invalid: "{{ . | red }}: ",
		Success: "{{ . | bold }}: ",
	}

	prompt := promptui.Prompt{
		Label:     label,
		Templates: templates,
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return errors.New("empty")
			}
			return nil
		},
		Stdin:  io.NopCloser(cmd.InOrStdin()),
		Stdout: NopCloser(cmd.OutOrStdout()),
	}

	result, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}
	return strings.TrimSpace(result), nil
}

func matches(input, id string) bool {
	name := strings.ReplaceAll(strings.ToLower(id), " ", "")
	input = strings.ReplaceAll(strings.ToLower(input), " ", "")
	return strings.Contains(name, input)
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// NopCloser returns a WriteCloser with a no-op Close method wrapping
// the provided Writer w.
func NopCloser(w io.Writer) io.WriteCloser {
	return nopCloser{w}
}
