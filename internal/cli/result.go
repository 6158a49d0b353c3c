package cli

import (
	"encoding/json"
	"fmt"
)

type checkResult struct {
	Type   string   `json:"type"`
	Errors []string `json:"errors"`
}

// printCheckResult renders one of swarmapi.CheckSwarm/CheckProjection's
// JSON results to the terminal and returns an error if the check itself
// failed to decode (never for a well-formedness violation, which is
// reported rather than treated as a CLI failure).
func printCheckResult(resultJSON string) error {
	var r checkResult
	if err := json.Unmarshal([]byte(resultJSON), &r); err != nil {
		return fmt.Errorf("decode result: %w", err)
	}

	if r.Type == "OK" {
		printSuccess("well-formed")
		return nil
	}

	printError("%d violation(s)", len(r.Errors))
	for _, e := range r.Errors {
		printDetail("%s", e)
	}
	return nil
}
