/*
Copyright © 2025 the DeviceCode authors
SPDX-License-Identifier: Apache-2.0
*/
package main

import "github.com/hwcatalog/devicecode/pkg/cli"

func main() {
	cli.Execute()
}
