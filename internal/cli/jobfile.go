package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"image-finder/internal/models"
)

// LoadJobFile reads a YAML job:
//
//	source: /photos
//	destination: /out
//	serials:
//	  - A100
//	  - B200
func LoadJobFile(path string) (models.Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Job{}, fmt.Errorf("read job file: %w", err)
	}
	var job models.Job
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&job); err != nil && err != io.EOF {
		return models.Job{}, fmt.Errorf("parse job file %s: %w", path, err)
	}
	for i, s := range job.Serials {
		job.Serials[i] = strings.TrimSpace(s)
	}
	return job, nil
}

// ReadSerials reads one serial per line from path, or stdin when path is "-".
func ReadSerials(path string, stdin io.Reader) ([]string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read serials: %w", err)
	}
	return models.ParseSerials(string(data)), nil
}
