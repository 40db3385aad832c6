// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/elmforge/elmforge/cmd/elmforge"

func main() {
	cmd.Execute()
}
