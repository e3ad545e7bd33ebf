package main

import (
	"encoding/json"
	"fmt"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pior/sentinel"
)

// print writes text, or value as JSON with --json.
func (o *options) print(cmd *cobra.Command, text string, value any) error {
	if o.json {
		return writeJSON(cmd, value)
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), text)
	return err
}

func (o *options) printRecords(cmd *cobra.Command, records []sentinel.Record) error {
	if o.json {
		if records == nil {
			records = []sentinel.Record{}
		}
		return writeJSON(cmd, records)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for i, record := range records {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%d) %s\n", i+1, record.Name())
		for _, key := range sortedKeys(record) {
			fmt.Fprintf(w, "\t%s\t%s\n", key, record[key])
		}
	}
	return w.Flush()
}

func writeJSON(cmd *cobra.Command, value any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

// sortedKeys returns the record keys but the name, which heads the record.
func sortedKeys(record sentinel.Record) []string {
	keys := make([]string, 0, len(record))
	for key := range record {
		if key != sentinel.FieldName {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)
	return keys
}
