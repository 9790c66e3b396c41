// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/tilekit/tilekit/cmd/tilekit"

func main() {
	cmd.Execute()
}
