// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/questkit/questc/cmd/questc"

func main() {
	cmd.Execute()
}
