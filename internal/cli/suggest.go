package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/sahilm/fuzzy"
	"github.com/trebuchet-org/creg/internal/app"
	"github.com/trebuchet-org/creg/internal/domain"
	"github.com/trebuchet-org/creg/internal/domain/models"
	"github.com/trebuchet-org/creg/internal/usecase"
)

const maxSuggestions = 3

// suggestNames returns the registered names closest to name, best match first.
// Names that contain each other count as matches when the fuzzy search finds nothing.
func suggestNames(name string, names []string) []string {
	suggestions := lo.Map(fuzzy.Find(name, names), func(m fuzzy.Match, _ int) string {
		return m.Str
	})
	if len(suggestions) == 0 {
		lower := strings.ToLower(name)
		suggestions = lo.Filter(names, func(candidate string, _ int) bool {
			c := strings.ToLower(candidate)
			return strings.Contains(c, lower) || strings.Contains(lower, c)
		})
	}
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}

// withSuggestions extends unknown-contract errors with similar registered names
func withSuggestions(ctx context.Context, a *app.App, name string, err error) error {
	if !errors.Is(err, domain.ErrUnknownContract) {
		return err
	}

	list, listErr := a.ListContracts.Run(ctx, usecase.ListContractsParams{})
	if listErr != nil || len(list.Records) == 0 {
		return err
	}

	names := lo.Map(list.Records, func(r *models.ContractRecord, _ int) string { return r.Name })
	suggestions := suggestNames(name, names)
	if len(suggestions) == 0 {
		return err
	}
	return fmt.Errorf("%w (did you mean %s?)", err, strings.Join(suggestions, ", "))
}
