// (c) Copyright 2016 Hewlett Packard Enterprise Development LP
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package report dispatches a batch of tainted-storage findings to a
// format-specific renderer, mirroring gosec's report/formatter.go split
// into report/{json,yaml,text} packages.
package report

import (
	"fmt"
	"io"

	"github.com/mokita-j/tainted-storage/issue"
	"github.com/mokita-j/tainted-storage/report/json"
	"github.com/mokita-j/tainted-storage/report/text"
	"github.com/mokita-j/tainted-storage/report/yaml"
)

// Format enumerates the output format for reported findings.
type Format int

const (
	// ReportText is the default format that writes to stdout.
	ReportText Format = iota
	// ReportJSON set the output format to json.
	ReportJSON
	// ReportYAML set the output format to yaml.
	ReportYAML
)

// CreateReport writes findings to w in the given format. The formats
// currently accepted are: json, yaml and text (also used for an empty
// format string); any other format string returns an error.
func CreateReport(w io.Writer, format string, enableColor bool, findings []issue.Finding) error {
	switch format {
	case "json":
		return json.WriteReport(w, findings)
	case "yaml":
		return yaml.WriteReport(w, findings)
	case "text":
		return text.WriteReport(w, findings, enableColor)
	case "":
		return text.WriteReport(w, findings, enableColor)
	default:
		return fmt.Errorf("report: unknown format %q", format)
	}
}
