package wizard

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"gopkg.in/yaml.v3"

	"github.com/imamik/kubeprox/internal/config"
)

// confirmOverwrite is replaced in tests.
var confirmOverwrite = promptOverwrite

// WriteConfig writes cfg as YAML with a usage header. The file carries the
// node password, so it is readable by the owner only.
func WriteConfig(cfg *config.Config, outputPath string) error {
	var doc yaml.Node
	if err := doc.Encode(cfg); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	doc.HeadComment = header(outputPath, time.Now())

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(outputPath, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

func header(outputPath string, at time.Time) string {
	lines := []string{
		"kubeprox cluster configuration",
		"Generated by kubeprox init at " + at.Format(time.RFC3339),
		"",
		"Usage:",
		"  kubeprox plan -c " + outputPath,
		"  kubeprox render -c " + outputPath,
		"  kubeprox apply -c " + outputPath,
	}
	for i, l := range lines {
		lines[i] = strings.TrimRight("# "+l, " ")
	}
	return strings.Join(lines, "\n")
}

// FileExists reports whether path exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ConfirmOverwrite asks whether an existing file may be replaced.
func ConfirmOverwrite(path string) (bool, error) {
	return confirmOverwrite(path)
}

func promptOverwrite(path string) (bool, error) {
	var overwrite bool
	err := huh.NewConfirm().
		Title(fmt.Sprintf("%s already exists. Overwrite?", path)).
		Affirmative("Overwrite").
		Negative("Keep").
		Value(&overwrite).
		Run()
	if err != nil {
		return false, err
	}
	return overwrite, nil
}
