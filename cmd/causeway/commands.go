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
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/Causeway/pkg/logging"
)

// --- Global Command Variables ---
var (
	serverURL  string
	jsonOutput bool
	logLevel   string

	logger = logging.Default()

	rootCmd = &cobra.Command{
		Use:   "causeway",
		Short: "A cli for the Causeway causal concept-graph service",
		Long: `Causeway turns text into an interactive causal concept graph.

The CLI talks to a running orchestrator: paste text or load the demo,
inspect the extracted graph, and step through simulations.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = logging.New(logging.Config{
				Level:   logging.ParseLevel(logLevel),
				Service: "cli",
			})
		},
	}
)

func init() {
	defaultServer := os.Getenv("CAUSEWAY_SERVER_URL")
	if defaultServer == "" {
		defaultServer = "http://localhost:12210"
	}
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultServer,
		"Orchestrator base URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false,
		"Output as JSON for scripting")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"Log level (debug, info, warn, error)")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(topicsCmd)
	rootCmd.AddCommand(documentsCmd)
	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(simulateCmd)
}
