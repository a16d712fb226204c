package interactive

import (
	"context"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/creg/internal/domain/config"
	"github.com/trebuchet-org/creg/internal/domain/models"
)

func records() []*models.ContractRecord {
	return []*models.ContractRecord{
		{Name: "Counter", TransactionHash: "0x01", ContractAddress: "0x00000000000000000000000000000000000000c1"},
		{Name: "TokenV2", TransactionHash: "0x02"},
	}
}

func TestSelectContractShortcuts(t *testing.T) {
	ctx := context.Background()

	t.Run("non-interactive", func(t *testing.T) {
		s := NewSelectorAdapter(&config.RuntimeConfig{NonInteractive: true})
		_, err := s.SelectContract(ctx, records(), "Select")
		assert.ErrorContains(t, err, "non-interactive")
	})

	t.Run("empty", func(t *testing.T) {
		s := NewSelectorAdapter(&config.RuntimeConfig{})
		_, err := s.SelectContract(ctx, nil, "Select")
		assert.Error(t, err)
	})

	t.Run("single record", func(t *testing.T) {
		s := NewSelectorAdapter(&config.RuntimeConfig{})
		only := records()[:1]
		got, err := s.SelectContract(ctx, only, "Select")
		require.NoError(t, err)
		assert.Same(t, only[0], got)
	})
}

func TestFormatRecordOptions(t *testing.T) {
	color.NoColor = true
	options := formatRecordOptions(records())
	assert.Equal(t, []string{
		"Counter (0x00000000000000000000000000000000000000c1)",
		"TokenV2 [submitted]",
	}, options)
}

func TestFuzzySearch(t *testing.T) {
	search := createFuzzySearchFunc(records())

	assert.True(t, search("", 0))
	assert.True(t, search("count", 0))
	assert.False(t, search("count", 1))
	assert.True(t, search("tkv2", 1))
	assert.True(t, search("c1", 0))
}
