package models

// Receipt status values as reported by the ledger
const (
	ReceiptStatusFailed     uint64 = 0
	ReceiptStatusSuccessful uint64 = 1
)

// Receipt is the ledger's confirmation that a transaction was included
type Receipt struct {
	TransactionHash string `json:"transactionHash" yaml:"transactionHash"`
	ContractAddress string `json:"contractAddress,omitempty" yaml:"contractAddress,omitempty"`
	BlockNumber     uint64 `json:"blockNumber" yaml:"blockNumber"`
	Status          uint64 `json:"status" yaml:"status"`
}

func (r *Receipt) Succeeded() bool {
	return r.Status == ReceiptStatusSuccessful
}

// DeployRequest describes a contract creation transaction
type DeployRequest struct {
	ABI             string
	Bytecode        string
	From            string
	GasLimit        uint64
	ConstructorArgs []string
}

// DecodedValue is one return value of a read-only contract call
type DecodedValue struct {
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	Type  string `json:"type" yaml:"type"`
	Value any    `json:"value" yaml:"value"`
}
