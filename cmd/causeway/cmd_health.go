// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/Causeway/pkg/ux"
)

// healthCmd checks orchestrator liveness.
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check whether the orchestrator is reachable",
	RunE:  runHealthCommand,
}

func runHealthCommand(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var resp struct {
		Status string `json:"status"`
	}
	if err := newAPIClient(serverURL).call(ctx, "GET", "/health", nil, &resp); err != nil {
		fmt.Println(ux.Errorf("orchestrator unreachable: %v", err))
		return err
	}
	fmt.Println(ux.Successf("orchestrator is %s at %s", resp.Status, serverURL))
	return nil
}
