// Command sandbox-eventquery reads the framed records a report.Channel
// wrote and either dumps them as JSON or filters them with a JSONPath
// expression.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/scalebuild/sandboxcore/eventquery"
)

func main() {
	var (
		reportPath = flag.String("report", "", "path to the report channel file to read")
		query      = flag.String("query", "", "optional JSONPath expression to filter records")
	)
	flag.Parse()

	if *reportPath == "" {
		log.Fatalf("sandbox-eventquery: -report is required")
	}

	records, err := eventquery.ReadFile(*reportPath)
	if err != nil {
		log.Fatalf("sandbox-eventquery: %v", err)
	}

	if *query == "" {
		raw, err := eventquery.MarshalJSON(records)
		if err != nil {
			log.Fatalf("sandbox-eventquery: %v", err)
		}
		fmt.Println(string(raw))
		return
	}

	result, err := eventquery.Query(records, *query)
	if err != nil {
		log.Fatalf("sandbox-eventquery: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		log.Fatalf("sandbox-eventquery: encode result: %v", err)
	}
}
