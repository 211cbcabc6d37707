package main

import (
	"encoding/json"
	"io"
	"text/tabwriter"
)

// print writes v as indented JSON in -json mode, otherwise calls human.
func (a *app) print(v any, human func(io.Writer)) error {
	if a.jsonMode {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	human(a.out)
	return nil
}

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}
