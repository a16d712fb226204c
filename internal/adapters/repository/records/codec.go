package records

import (
	"encoding/json"
	"fmt"

	"github.com/trebuchet-org/creg/internal/domain"
	"github.com/trebuchet-org/creg/internal/domain/models"
)

func encodeRecord(record *models.ContractRecord) ([]byte, error) {
	if err := record.Validate(); err != nil {
		return nil, err
	}
	return json.MarshalIndent(record, "", "  ")
}

func decodeRecord(name string, data []byte) (*models.ContractRecord, error) {
	var record models.ContractRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("%w: failed to decode record %s: %v", domain.ErrInvalidRecord, name, err)
	}
	if record.Name != name {
		return nil, fmt.Errorf("%w: record stored under %s is named %s", domain.ErrInvalidRecord, name, record.Name)
	}
	return &record, nil
}
