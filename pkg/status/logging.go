// Copyright 2025 walteh LLC
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
package status

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent file entries
	nameWidth   = 35 // Base width for filename
	langWidth   = 12 // Width for language id
	statusWidth = 10 // Width for status text
)

// 🎯 FormatFileLine formats a file outcome as one aligned console line
func FormatFileLine(info FileInfo) string {
	var prefix string
	switch info.Status {
	case StatusModified:
		prefix = color.YellowString("⟳")
	case StatusSkipped:
		prefix = color.HiBlackString("-")
	case StatusFailed:
		prefix = color.RedString("✗")
	default:
		prefix = color.GreenString("✓")
	}

	namePart := fmt.Sprintf("%-*s", nameWidth, info.Path)
	langPart := fmt.Sprintf("%-*s", langWidth, info.LanguageID)
	statusPart := fmt.Sprintf("%-*s", statusWidth, info.Status.String())

	line := fmt.Sprintf("%s%s %s %s %s",
		strings.Repeat(" ", fileIndent),
		prefix,
		namePart,
		langPart,
		statusPart,
	)
	if info.Status == StatusModified {
		line += " " + replacements(info.Replacements)
	}
	if info.Error != nil && info.Status == StatusFailed {
		line += " " + color.RedString(info.Error.Error())
	}
	return strings.TrimRight(line, " ")
}
