// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"context"

	"github.com/questkit/questc/pkg/checker"
	"github.com/questkit/questc/pkg/types"
)

// FailingChecker is a checker.Checker whose every call fails with Err, the
// way a crashed checker process does.
type FailingChecker struct {
	Err error
}

var _ checker.Checker = (*FailingChecker)(nil)

// Elaborate returns Err.
func (c *FailingChecker) Elaborate(context.Context, checker.Request) (*checker.Response, error) {
	return nil, c.Err
}

// Lookup returns Err.
func (c *FailingChecker) Lookup(context.Context, types.Name) (string, bool, error) {
	return "", false, c.Err
}

// PrettyPrint returns Err.
func (c *FailingChecker) PrettyPrint(context.Context, types.Name) (string, error) {
	return "", c.Err
}
