package models

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrNoSource      = errors.New("please select a source folder")
	ErrNoDestination = errors.New("please select a destination folder")
	ErrNoSerials     = errors.New("please enter a list of serials to search for")
)

// Job describes one search-and-copy run
type Job struct {
	Source      string   `yaml:"source"`
	Destination string   `yaml:"destination"`
	Serials     []string `yaml:"serials"`
}

// ParseSerials splits pasted text into one serial per line. Lines may end
// in \n, \r\n or a lone \r and are trimmed; blank lines are kept so that
// progress counts every line.
func ParseSerials(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return nil
	}

	lines := strings.Split(text, "\n")
	serials := make([]string, len(lines))
	for i, line := range lines {
		serials[i] = strings.TrimSpace(line)
	}
	return serials
}

// SearchableCount returns the number of non-blank serials.
func (j Job) SearchableCount() int {
	n := 0
	for _, s := range j.Serials {
		if strings.TrimSpace(s) != "" {
			n++
		}
	}
	return n
}

// Validate checks the job in the order the user is prompted: source,
// destination, serials.
func (j Job) Validate() error {
	if strings.TrimSpace(j.Source) == "" {
		return ErrNoSource
	}
	if strings.TrimSpace(j.Destination) == "" {
		return ErrNoDestination
	}
	if j.SearchableCount() == 0 {
		return ErrNoSerials
	}
	if err := requireDir(j.Source); err != nil {
		return fmt.Errorf("source folder: %w", err)
	}
	if err := requireDir(j.Destination); err != nil {
		return fmt.Errorf("destination folder: %w", err)
	}
	return nil
}

// DestinationInsideSource reports whether the destination lives under the
// source tree, in which case the walk must skip it.
func (j Job) DestinationInsideSource() bool {
	src, err := filepath.Abs(j.Source)
	if err != nil {
		return false
	}
	dst, err := filepath.Abs(j.Destination)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(src, dst)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func requireDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}
