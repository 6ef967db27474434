package yaml

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/mokita-j/tainted-storage/issue"
)

// WriteReport writes findings to w as YAML.
func WriteReport(w io.Writer, findings []issue.Finding) error {
	raw, err := yaml.Marshal(findings)
	if err != nil {
		return err
	}
	_, err = w.Write(raw)
	return err
}
