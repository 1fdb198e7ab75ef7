package source

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"fragsort/internal/model"
)

var (
	// ErrMalformedFragment marks a line that fails the length or character checks.
	ErrMalformedFragment = errors.New("malformed fragment")
	// ErrNoFragments is returned when the source holds no fragments at all.
	ErrNoFragments = errors.New("no fragments in input")
	// ErrSourceUnavailable wraps failures to open the fragment source.
	ErrSourceUnavailable = errors.New("fragment source unavailable")
)

// DefaultPattern accepts digits and ASCII letters.
const DefaultPattern = `^[0-9A-Za-z]+$`

// Rules describes what a well-formed line looks like.
type Rules struct {
	// Length is the required fragment length; 0 takes it from the first line.
	Length int
	// Pattern is the character class every fragment must match. Nil skips the check.
	Pattern *regexp.Regexp
	// Overlap is the minimum fragment length; 0 skips the check.
	Overlap int
}

// LineError reports the first rejected line.
type LineError struct {
	Line   int
	Value  string
	Reason string
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d %q: %s", e.Line, e.Value, e.Reason)
}

func (e *LineError) Unwrap() error { return ErrMalformedFragment }

// Load reads one fragment per line from r. Surrounding whitespace is
// trimmed and blank lines are skipped. Loading stops at the first line
// that breaks rules.
func Load(r io.Reader, rules Rules) ([]model.Fragment, error) {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	length := rules.Length
	var out []model.Fragment
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if length == 0 {
			length = len(line)
			if length < rules.Overlap {
				return nil, &LineError{
					Line:   lineNum,
					Value:  line,
					Reason: fmt.Sprintf("length %d is shorter than overlap %d", length, rules.Overlap),
				}
			}
		}
		if len(line) != length {
			return nil, &LineError{
				Line:   lineNum,
				Value:  line,
				Reason: fmt.Sprintf("length %d, want %d", len(line), length),
			}
		}
		if rules.Pattern != nil && !rules.Pattern.MatchString(line) {
			return nil, &LineError{
				Line:   lineNum,
				Value:  line,
				Reason: fmt.Sprintf("does not match %s", rules.Pattern),
			}
		}
		out = append(out, model.Fragment(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading fragments: %w", err)
	}
	if len(out) == 0 {
		return nil, ErrNoFragments
	}
	return out, nil
}

// LoadFile opens path (a leading ~/ is expanded) and loads it with Load.
func LoadFile(path string, rules Rules) ([]model.Fragment, error) {
	f, err := os.Open(model.ExpandHome(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	defer f.Close()

	frags, err := Load(f, rules)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return frags, nil
}

// ParseLines loads fragments from an in-memory string, as posted to the web API.
func ParseLines(text string, rules Rules) ([]model.Fragment, error) {
	return Load(strings.NewReader(text), rules)
}
