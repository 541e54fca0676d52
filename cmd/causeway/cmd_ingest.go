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
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/Causeway/pkg/ux"
	"github.com/AleutianAI/Causeway/services/orchestrator/datatypes"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var ingestTitle string

// =============================================================================
// COMMAND DEFINITIONS
// =============================================================================

// ingestCmd submits a text file (or stdin) for causal extraction.
//
// # Examples
//
//	causeway ingest notes.txt --title "Gas Laws"
//	cat article.txt | causeway ingest
var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Ingest a text file (or stdin) into a causal concept graph",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runIngestCommand,
}

// demoCmd loads the built-in demo document.
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Ingest the built-in physics and economics demo text",
	RunE:  runDemoCommand,
}

// topicsCmd builds a synthetic graph from topic names.
var topicsCmd = &cobra.Command{
	Use:   "topics [topic...]",
	Short: "Generate a concept graph from topic names without source text",
	Args:  cobra.RangeArgs(1, 10),
	RunE:  runTopicsCommand,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestTitle, "title", "t", "",
		"Document title (defaults to the file name)")
}

// =============================================================================
// COMMAND IMPLEMENTATIONS
// =============================================================================

func runIngestCommand(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	var text []byte
	var err error
	title := ingestTitle

	if len(args) == 1 {
		text, err = os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("cannot read %s: %w", args[0], err)
		}
		if title == "" {
			title = args[0]
		}
	} else {
		text, err = io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("cannot read stdin: %w", err)
		}
	}

	var summary datatypes.IngestSummary
	client := newAPIClient(serverURL)
	err = client.call(ctx, "POST", "/v1/documents/paste",
		map[string]string{"text": string(text), "title": title}, &summary)
	if err != nil {
		return err
	}

	printIngestSummary(&summary)
	return nil
}

func runDemoCommand(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	var summary datatypes.IngestSummary
	if err := newAPIClient(serverURL).call(ctx, "POST", "/v1/documents/demo", nil, &summary); err != nil {
		return err
	}
	printIngestSummary(&summary)
	return nil
}

func runTopicsCommand(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	var summary datatypes.IngestSummary
	err := newAPIClient(serverURL).call(ctx, "POST", "/v1/documents/topics",
		map[string][]string{"topics": args}, &summary)
	if err != nil {
		return err
	}
	printIngestSummary(&summary)
	return nil
}

func printIngestSummary(summary *datatypes.IngestSummary) {
	if jsonOutput {
		json.NewEncoder(os.Stdout).Encode(summary)
		return
	}
	fmt.Println(ux.Successf("ingested %q", summary.Title))
	fmt.Println(ux.KeyValue("document", summary.DocumentID))
	fmt.Println(ux.KeyValue("sentences", summary.TotalSentences))
	fmt.Println(ux.KeyValue("causal sentences", summary.CausalSentences))
	fmt.Println(ux.KeyValue("concepts", summary.ConceptsExtracted))
	fmt.Println(ux.KeyValue("relationships", summary.RelationshipsFound))
}
