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

package operation

import (
	"context"

	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🏃 Runner fans work out over a bounded number of goroutines
type Runner struct {
	limit int
}

// 🏗️ NewRunner creates a runner. A limit below one means no bound.
func NewRunner(limit int) *Runner {
	return &Runner{limit: limit}
}

// 🏃 Run calls fn once per item. The first error cancels the context handed to
// the remaining calls and is returned once every started call has finished.
func (r *Runner) Run(ctx context.Context, items []string, fn func(ctx context.Context, item string) error) error {
	g, gctx := errgroup.WithContext(ctx)
	if r.limit > 0 {
		g.SetLimit(r.limit)
	}

	for _, item := range items {
		item := item
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, item)
		})
	}

	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return errors.Errorf("operation cancelled: %w", ctx.Err())
		}
		return err
	}
	return nil
}
