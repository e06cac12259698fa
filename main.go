// SPDX-License-Identifier: MPL-2.0

// Command addonhelper installs Minecraft Bedrock add-ons on a dedicated server.
package main

import cmd "github.com/addonhelper/addonhelper/cmd/addonhelper"

func main() {
	cmd.Execute()
}
