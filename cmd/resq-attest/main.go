// resq-attest produces a ledger attestation for a record id and an
// optional JSON payload and prints it. Debug tool; the attestation
// carries no real chain semantics.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/PR0XCITY/ResQ-Connect/internal/ledger"
	"github.com/PR0XCITY/ResQ-Connect/internal/logging"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: resq-attest <record-id> [json-payload]")
		os.Exit(2)
	}

	recordID := os.Args[1]
	var payload any
	if len(os.Args) > 2 {
		if err := json.Unmarshal([]byte(os.Args[2]), &payload); err != nil {
			logging.Fatalf("invalid payload: %v", err)
		}
	}

	att, err := ledger.New().Attest(recordID, payload)
	if err != nil {
		logging.Fatalf("attestation failed: %v", err)
	}

	out, _ := json.MarshalIndent(att, "", "  ")
	fmt.Println(string(out))
}
