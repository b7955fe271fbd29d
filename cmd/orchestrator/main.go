// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

package main

import (
	"github.com/kostasense/software-back-sub000/orchestrator"
)

func main() {
	orchestrator.Run()
}
