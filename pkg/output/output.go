// Package output manages the per-run artifact directories, keyed by the run
// name the planner produced.
package output

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/runlab/sweeprun/pkg/settings"
)

// TmpRunName is the reserved run name whose directory is wiped and reused.
const TmpRunName = "tmp"

// SettingsFileName is the settings snapshot written into every run directory.
const SettingsFileName = "settings.yaml"

// ResultsFileName collects appended result entries for one run.
const ResultsFileName = "results.yaml"

// Writer creates run directories and persists run artifacts under a common
// output root.
type Writer struct {
	root string
	log  *logrus.Logger
}

// NewWriter creates a writer rooted at dir.
func NewWriter(root string, log *logrus.Logger) *Writer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Writer{root: root, log: log}
}

// RunDir returns the directory for a run name.
func (w *Writer) RunDir(runName string) string {
	return filepath.Join(w.root, runName)
}

// InitRunDirectory creates the output directory for one run and writes the
// settings snapshot into it. The reserved name "tmp" silently replaces a
// previous tmp directory; any other existing directory is an error, so a
// sweep never overwrites earlier results.
func (w *Writer) InitRunDirectory(runName string, snapshot settings.Settings) (string, error) {
	if runName == "" {
		return "", fmt.Errorf("empty run name")
	}
	dir := w.RunDir(runName)

	if _, err := os.Stat(dir); err == nil {
		if runName != TmpRunName {
			return "", fmt.Errorf("run directory already exists: %s", dir)
		}
		w.log.WithField("dir", dir).Warn("Removing previous temporary run directory")
		if err := os.RemoveAll(dir); err != nil {
			return "", fmt.Errorf("removing previous tmp directory: %w", err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("checking run directory: %w", err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating run directory: %w", err)
	}
	w.log.WithField("dir", dir).Debug("Run output directory created")

	data, err := yaml.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("marshaling settings snapshot: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, SettingsFileName), data, 0644); err != nil {
		return "", fmt.Errorf("writing settings snapshot: %w", err)
	}
	return dir, nil
}

// SaveResults appends result entries to the run's results file, creating it
// if necessary.
func (w *Writer) SaveResults(runName string, results map[string]interface{}) error {
	path := filepath.Join(w.RunDir(runName), ResultsFileName)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening results file: %w", err)
	}
	defer f.Close()

	data, err := yaml.Marshal(results)
	if err != nil {
		return fmt.Errorf("marshaling results: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("writing results: %w", err)
	}
	w.log.WithFields(logrus.Fields{"run_name": runName, "count": len(results)}).Debug("Results saved")
	return nil
}
