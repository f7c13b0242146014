package document_repo

import (
	"encoding/json"
	"fmt"

	"milkledger/internal/domain/registers/milkquality"
)

// encodeBundle stores a serial-and-batch bundle as JSONB; empty bundles are NULL.
func encodeBundle(bundle []milkquality.BundleEntry) ([]byte, error) {
	if len(bundle) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(bundle)
	if err != nil {
		return nil, fmt.Errorf("marshal bundle: %w", err)
	}
	return b, nil
}

func decodeBundle(raw []byte) ([]milkquality.BundleEntry, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var bundle []milkquality.BundleEntry
	if err := json.Unmarshal(raw, &bundle); err != nil {
		return nil, fmt.Errorf("unmarshal bundle: %w", err)
	}
	return bundle, nil
}
