package app

import (
	"fmt"
	"sort"
	"strings"

	"fragsort/internal/model"
)

// GenerateReport renders a run as plain text for the console, the web
// view and the TUI report pane. verbose adds the out-degree of every
// fragment and per-stage timings.
func GenerateReport(res *Result, verbose bool) string {
	var b strings.Builder
	a := res.Assembly

	fmt.Fprintf(&b, "fragsort %s  run %s\n", res.Version, res.RunID)
	if res.Source != "" {
		fmt.Fprintf(&b, "Source: %s\n", res.Source)
	}
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	fmt.Fprintf(&b, "Input fragments:  %d\n", a.Input)
	fmt.Fprintf(&b, "Overlap (K):      %d\n", a.Overlap)
	fmt.Fprintf(&b, "Graph:            %d nodes, %d edges\n", a.GraphNodes, a.GraphEdges)
	if a.Start != "" {
		fmt.Fprintf(&b, "Start fragment:   %s\n", a.Start)
	}
	fmt.Fprintf(&b, "Total pieces:     %d\n", a.Chain.Len())
	fmt.Fprintf(&b, "Sequence is valid: %t\n", a.Validation.Valid)

	if a.Validation.Valid {
		b.WriteString("The sequence is fully valid.\n")
	} else {
		i := a.Validation.FailIndex
		fmt.Fprintf(&b, "Error at index %d: %s -> %s\n", i, a.Chain[i], a.Chain[i+1])
	}

	b.WriteString("\nFinal sequence:\n")
	for i, f := range a.Chain {
		marker := model.IconOK
		switch {
		case i == 0 && a.Chain.Len() > 1:
			marker = model.IconHead
		case i == a.Chain.Len()-1 && a.Chain.Len() > 1:
			marker = model.IconTail
		}
		link := ""
		if !a.Validation.Valid && i == a.Validation.FailIndex {
			link = " " + model.IconBroken
		}
		fmt.Fprintf(&b, "  %4d. %s %s%s\n", i+1, marker, f, link)
	}

	if a.Validation.Valid && a.Merged != "" {
		fmt.Fprintf(&b, "\nMerged value (%d chars):\n  %s\n", len(a.Merged), a.Merged)
	}

	if len(a.Excluded) > 0 {
		fmt.Fprintf(&b, "\nExcluded isolated pieces (%d):\n", len(a.Excluded))
		for _, f := range a.Excluded {
			fmt.Fprintf(&b, "  %s %s\n", model.IconExcluded, f)
		}
	}

	b.WriteString("\nSearch:\n")
	fmt.Fprintf(&b, "  States explored: %d\n", a.Search.StatesExplored)
	fmt.Fprintf(&b, "  Peak frontier:   %d\n", a.Search.MaxFrontier)
	if a.Search.Truncated {
		reason := "state limit"
		if a.Search.TimedOut {
			reason = "deadline"
		} else if a.Search.StatesDropped > 0 {
			reason = fmt.Sprintf("frontier limit, %d states dropped", a.Search.StatesDropped)
		}
		fmt.Fprintf(&b, "  Stopped early:   %s\n", reason)
	}

	b.WriteString("\nResources:\n")
	fmt.Fprintf(&b, "  Elapsed:  %s\n", res.Elapsed)
	fmt.Fprintf(&b, "  Heap:     %.2f MiB\n", float64(res.HeapAlloc)/(1<<20))

	if verbose {
		b.WriteString("\nStage timings:\n")
		for _, st := range a.Timings {
			fmt.Fprintf(&b, "  %-9s %s\n", st.Stage, st.Duration)
		}

		b.WriteString("\nOut-degree per fragment:\n")
		keys := make([]string, 0, len(a.OutDegree))
		for k := range a.OutDegree {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "  %s  %d\n", k, a.OutDegree[k])
		}
	}

	b.WriteString("\n")
	switch {
	case res.Saved:
		fmt.Fprintf(&b, "Sorted sequence saved to %s\n", res.OutputPath)
	case !a.Validation.Valid:
		b.WriteString("The sequence is invalid. Not saving to file.\n")
	}
	return b.String()
}
