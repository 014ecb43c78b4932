package datasets

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/neurlang/poolbench/sdr"
	"github.com/pkg/errors"
)

// ReadText reads one sample per line: a label, whitespace, then the pattern as '0'/'1'.
// Blank lines and lines starting with '#' are skipped.
func ReadText(r io.Reader) (*Dataset, error) {
	var patterns []sdr.Vector
	var labels []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || text[0] == '#' {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < 2 {
			return nil, errors.Errorf("datasets: line %d: want label and pattern", line)
		}
		v, err := sdr.FromString(strings.Join(fields[1:], ""))
		if err != nil {
			return nil, errors.Wrapf(err, "datasets: line %d", line)
		}
		if len(patterns) > 0 && v.Len() != patterns[0].Len() {
			return nil, errors.Errorf("datasets: line %d: pattern length %d, want %d", line, v.Len(), patterns[0].Len())
		}
		patterns = append(patterns, v)
		labels = append(labels, fields[0])
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "datasets: read")
	}
	return New(patterns, labels)
}

// ReadTextFile reads a dataset file in ReadText format
func ReadTextFile(name string) (*Dataset, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	d, err := ReadText(file)
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	return d, nil
}

// WriteText writes the dataset in ReadText format
func (d *Dataset) WriteText(w io.Writer) error {
	for i, p := range d.Patterns {
		if _, err := fmt.Fprintf(w, "%s %s\n", d.Labels[i], p.String()); err != nil {
			return err
		}
	}
	return nil
}
