package interactive

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/sahilm/fuzzy"
	"github.com/trebuchet-org/creg/internal/domain/config"
	"github.com/trebuchet-org/creg/internal/domain/models"
	"github.com/trebuchet-org/creg/internal/usecase"
)

// SelectorAdapter handles interactive selection
type SelectorAdapter struct {
	config *config.RuntimeConfig
}

// NewSelectorAdapter creates a new selector adapter
func NewSelectorAdapter(cfg *config.RuntimeConfig) *SelectorAdapter {
	return &SelectorAdapter{config: cfg}
}

// SelectContract lets the user pick one record with a fuzzy-searchable list
func (s *SelectorAdapter) SelectContract(ctx context.Context, records []*models.ContractRecord, prompt string) (*models.ContractRecord, error) {
	if s.config.NonInteractive {
		return nil, errors.New("interactive selection not available in non-interactive mode")
	}

	if len(records) == 0 {
		return nil, errors.New("no contracts provided for selection")
	}

	if len(records) == 1 {
		return records[0], nil
	}

	options := formatRecordOptions(records)

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . | faint }}",
		Selected: "✓ {{ . | green }}",
		Help:     color.New(color.FgYellow).Sprint("Use arrow keys to navigate, Enter to select"),
	}

	promptSelect := promptui.Select{
		Label:             prompt,
		Items:             options,
		Templates:         templates,
		Size:              10,
		StartInSearchMode: true,
		Searcher:          createFuzzySearchFunc(records),
	}

	index, _, err := promptSelect.Run()
	if err != nil {
		return nil, fmt.Errorf("selection cancelled: %w", err)
	}

	return records[index], nil
}

// formatRecordOptions renders "name (address)" or "name [submitted]"
func formatRecordOptions(records []*models.ContractRecord) []string {
	options := make([]string, len(records))
	for i, record := range records {
		name := color.New(color.FgWhite, color.Bold).Sprint(record.Name)
		if record.IsResolved() {
			options[i] = fmt.Sprintf("%s (%s)", name, color.New(color.FgBlue).Sprint(record.ContractAddress))
		} else {
			options[i] = fmt.Sprintf("%s %s", name, color.New(color.FgYellow).Sprint("[submitted]"))
		}
	}
	return options
}

// createFuzzySearchFunc matches against the plain record name, ignoring the color codes in the options
func createFuzzySearchFunc(records []*models.ContractRecord) func(input string, index int) bool {
	return func(input string, index int) bool {
		if input == "" {
			return true
		}

		input = strings.ToLower(input)
		item := strings.ToLower(records[index].Name + " " + records[index].ContractAddress)

		if strings.Contains(item, input) {
			return true
		}

		return len(fuzzy.Find(input, []string{item})) > 0
	}
}

var _ usecase.ContractSelector = (*SelectorAdapter)(nil)
