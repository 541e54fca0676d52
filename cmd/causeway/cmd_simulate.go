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
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/Causeway/pkg/ux"
	"github.com/AleutianAI/Causeway/services/orchestrator/datatypes"
)

// simulateCmd fetches the simulation config for a relationship and,
// given an input value, runs one calculation step.
//
// # Examples
//
//	causeway simulate 9b1d...          # show the config only
//	causeway simulate 9b1d... 42.5     # calculate at input 42.5
var simulateCmd = &cobra.Command{
	Use:   "simulate [relationshipID] [inputValue]",
	Short: "Run a what-if simulation on one causal relationship",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runSimulateCommand,
}

func runSimulateCommand(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	client := newAPIClient(serverURL)

	var config datatypes.SimulationConfig
	if err := client.call(ctx, "GET", "/v1/simulations/"+args[0], nil, &config); err != nil {
		return err
	}

	if len(args) == 1 {
		if jsonOutput {
			return json.NewEncoder(os.Stdout).Encode(config)
		}
		printSimulationConfig(&config)
		return nil
	}

	input, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("input value must be a number, got %q", args[1])
	}

	var result datatypes.SimulationResult
	err = client.call(ctx, "POST", "/v1/simulations/calculate",
		map[string]any{"relationship_id": args[0], "input_value": input}, &result)
	if err != nil {
		return err
	}

	if jsonOutput {
		return json.NewEncoder(os.Stdout).Encode(result)
	}
	printSimulationConfig(&config)
	fmt.Println()
	fmt.Println(ux.KeyValue("input", fmt.Sprintf("%v %s", result.InputValue, config.SourceConcept.Unit)))
	fmt.Println(ux.KeyValue("output", ux.Styles.Highlight.Render(
		fmt.Sprintf("%v %s", result.OutputValue, config.TargetConcept.Unit))))
	if result.Approximated {
		fmt.Println(ux.Warnf("linear approximation (no usable equation)"))
	}
	return nil
}

func printSimulationConfig(config *datatypes.SimulationConfig) {
	fmt.Println(ux.Title("Simulation"))
	fmt.Println("  " + ux.Edge(config.SourceConcept.Label, config.TargetConcept.Label,
		config.RelationshipType))
	if config.Equation != "" {
		fmt.Println(ux.KeyValue("equation", config.Equation))
	}
	if config.ScenarioContext != "" {
		fmt.Println(ux.KeyValue("scenario", config.ScenarioContext))
	}
}
