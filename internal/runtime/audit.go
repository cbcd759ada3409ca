package runtime

import (
	"fmt"

	"github.com/aretw0/caesartm/pkg/domain"
)

// AuditReport is the outcome of an encode/decode round-trip.
type AuditReport struct {
	Key        int               `json:"key"`
	InverseKey int               `json:"inverse_key"`
	Input      string            `json:"input"`
	Encoded    string            `json:"encoded"`
	Decoded    string            `json:"decoded"`
	Reversible bool              `json:"reversible"`
	Forward    []domain.Snapshot `json:"forward"`
	Inverse    []domain.Snapshot `json:"inverse"`
}

// Audit runs text through a machine keyed with key and feeds the result to a
// second, independent machine keyed with the inverse. The two machines share
// nothing but the intermediate string.
func Audit(key int, text string, opts ...MachineOption) (*AuditReport, error) {
	forward := NewMachine(key, opts...)
	forward.Load(text)
	encoded, err := forward.Run()
	if err != nil {
		return nil, fmt.Errorf("forward run failed: %w", err)
	}

	inverseKey := domain.InverseKey(key)
	inverse := NewMachine(inverseKey, opts...)
	inverse.Load(encoded)
	decoded, err := inverse.Run()
	if err != nil {
		return nil, fmt.Errorf("inverse run failed: %w", err)
	}

	return &AuditReport{
		Key:        key,
		InverseKey: inverseKey,
		Input:      text,
		Encoded:    encoded,
		Decoded:    decoded,
		Reversible: decoded == text,
		Forward:    forward.History(),
		Inverse:    inverse.History(),
	}, nil
}
