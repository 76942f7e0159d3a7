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

package view

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/walteh/regexrules/pkg/state"
	"gitlab.com/tozd/go/errors"
)

// ErrNothingToPick is returned when a picker is given no options
var ErrNothingToPick = errors.Base("nothing to pick")

// 📚 Catalog lists the names available for invocation
type Catalog interface {
	RuleNames() []string
	RulesetNames() []string
}

// 📈 Usage orders names and reports how often each was used.
// *state.Manager satisfies it.
type Usage interface {
	Sort(names []string) []string
	Usage(name string) (state.Usage, bool)
}

// 🌳 BuildTree returns the two category nodes, "Rules" and "Rulesets", with
// their leaves in the usage order
func BuildTree(cat Catalog, usage Usage) pterm.TreeNode {
	return pterm.TreeNode{
		Text: "regexrules",
		Children: []pterm.TreeNode{
			category("Rules", cat.RuleNames(), usage),
			category("Rulesets", cat.RulesetNames(), usage),
		},
	}
}

func category(title string, names []string, usage Usage) pterm.TreeNode {
	node := pterm.TreeNode{Text: fmt.Sprintf("%s (%d)", title, len(names))}
	for _, name := range usage.Sort(names) {
		node.Children = append(node.Children, pterm.TreeNode{Text: leaf(name, usage)})
	}
	return node
}

func leaf(name string, usage Usage) string {
	u, ok := usage.Usage(name)
	if !ok || u.Count == 0 {
		return name
	}
	if u.Count == 1 {
		return name + " (1 use)"
	}
	return name + " (" + strconv.Itoa(u.Count) + " uses)"
}

// 🖼️ RenderTree writes the catalog tree to w
func RenderTree(w io.Writer, cat Catalog, usage Usage) error {
	out, err := pterm.DefaultTree.WithRoot(BuildTree(cat, usage)).Srender()
	if err != nil {
		return errors.Errorf("rendering tree: %w", err)
	}
	if _, err := io.WriteString(w, out); err != nil {
		return errors.Errorf("writing tree: %w", err)
	}
	return nil
}

// 👆 Picker asks the user to choose one of options
type Picker interface {
	Pick(ctx context.Context, title string, options []string) (string, error)
}

// InteractivePicker is a terminal select list
type InteractivePicker struct {
	MaxHeight int
}

// Pick shows the select list and blocks until the user chooses
func (p InteractivePicker) Pick(ctx context.Context, title string, options []string) (string, error) {
	if len(options) == 0 {
		return "", errors.WithStack(ErrNothingToPick)
	}

	sel := pterm.DefaultInteractiveSelect.
		WithOptions(options).
		WithDefaultText(title)
	if p.MaxHeight > 0 {
		sel = sel.WithMaxHeight(p.MaxHeight)
	}

	choice, err := sel.Show()
	if err != nil {
		return "", errors.Errorf("showing picker: %w", err)
	}
	return choice, nil
}

// 🎯 Choose offers names in usage order and returns the one picked
func Choose(ctx context.Context, p Picker, title string, names []string, usage Usage) (string, error) {
	if len(names) == 0 {
		return "", errors.WithStack(ErrNothingToPick)
	}
	return p.Pick(ctx, title, usage.Sort(names))
}
