package json

import (
	"encoding/json"
	"io"

	"github.com/mokita-j/tainted-storage/issue"
)

// WriteReport writes findings to w as indented JSON.
func WriteReport(w io.Writer, findings []issue.Finding) error {
	raw, err := json.MarshalIndent(findings, "", "\t")
	if err != nil {
		return err
	}

	_, err = w.Write(raw)
	return err
}
