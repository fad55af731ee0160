package eventquery

import (
	"encoding/json"
	"fmt"

	"github.com/PaesslerAG/jsonpath"
)

// Query runs a JSONPath expression against records, the way a caller
// of the teacher's web API might have filtered a ProcessRow listing
// client-side. Records are marshaled through their JSON tags first, so
// an expression like `$[?(@.opCode=="Exec")].primaryPath` addresses
// the same field names ReadAll/MarshalJSON produce. String literals in
// filter expressions must be double-quoted; the jsonpath parser rejects
// single-quoted multi-character literals.
func Query(records []Record, expr string) (interface{}, error) {
	raw, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("eventquery: marshal records: %w", err)
	}

	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("eventquery: unmarshal records: %w", err)
	}

	result, err := jsonpath.Get(expr, doc)
	if err != nil {
		return nil, fmt.Errorf("eventquery: evaluate %q: %w", expr, err)
	}
	return result, nil
}

// Blocking filters records to those whose RequestedAccess was blocked,
// a convenience over Query for the common "what did the policy deny"
// question.
func Blocking(records []Record, blockedStatus string) []Record {
	var out []Record
	for _, r := range records {
		if r.Status == blockedStatus {
			out = append(out, r)
		}
	}
	return out
}
