package model

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ContextLine is one numbered line of a source file.
type ContextLine struct {
	Number int    `json:"number"`
	Text   string `json:"text"`
	Target bool   `json:"target"`
}

// LineContext is a line of a fragment file together with its neighbours,
// shown when the loader rejects that line.
type LineContext struct {
	Path     string        `json:"path"`
	Lines    []ContextLine `json:"lines"`
	ErrorMsg string        `json:"error,omitempty"`
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// GetLineContext reads filePath and returns lineNumber with up to radius
// lines on either side.
func GetLineContext(filePath string, lineNumber, radius int) LineContext {
	filePath = ExpandHome(filePath)
	result := LineContext{Path: filePath}

	file, err := os.Open(filePath)
	if err != nil {
		result.ErrorMsg = fmt.Sprintf("Could not read file: %v", err)
		return result
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		result.ErrorMsg = fmt.Sprintf("Error reading file: %v", err)
		return result
	}

	if lineNumber < 1 || lineNumber > len(lines) {
		result.ErrorMsg = fmt.Sprintf("Line %d out of range (file has %d lines)", lineNumber, len(lines))
		return result
	}

	from := max(lineNumber-radius, 1)
	to := min(lineNumber+radius, len(lines))
	for n := from; n <= to; n++ {
		result.Lines = append(result.Lines, ContextLine{
			Number: n,
			Text:   lines[n-1],
			Target: n == lineNumber,
		})
	}
	return result
}

// String renders the context with a marker on the target line.
func (lc LineContext) String() string {
	if lc.ErrorMsg != "" {
		return lc.ErrorMsg
	}
	var b strings.Builder
	for _, l := range lc.Lines {
		marker := " "
		if l.Target {
			marker = "»"
		}
		fmt.Fprintf(&b, "%s %4d  %s\n", marker, l.Number, l.Text)
	}
	return strings.TrimSuffix(b.String(), "\n")
}
