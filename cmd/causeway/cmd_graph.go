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
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/Causeway/pkg/ux"
	"github.com/AleutianAI/Causeway/services/orchestrator/datatypes"
)

// documentsCmd lists recent documents.
var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "List recently ingested documents",
	RunE:  runDocumentsCommand,
}

// graphCmd prints the causal graph of one document.
//
// # Examples
//
//	causeway graph 4f7c...
//	causeway graph 4f7c... --json | jq .relationships
var graphCmd = &cobra.Command{
	Use:   "graph [documentID]",
	Short: "Show the causal concept graph of a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runGraphCommand,
}

func runDocumentsCommand(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var resp struct {
		Documents []datatypes.DocumentSummary `json:"documents"`
	}
	if err := newAPIClient(serverURL).call(ctx, "GET", "/v1/documents", nil, &resp); err != nil {
		return err
	}

	if jsonOutput {
		return json.NewEncoder(os.Stdout).Encode(resp.Documents)
	}
	if len(resp.Documents) == 0 {
		fmt.Println(ux.Styles.Muted.Render("no documents yet; try 'causeway demo'"))
		return nil
	}
	fmt.Println(ux.Title("Documents"))
	for _, doc := range resp.Documents {
		status := ux.Styles.Success.Render("processed")
		if !doc.Processed {
			status = ux.Styles.Warning.Render("pending")
		}
		fmt.Printf("  %s  %s  %s\n", doc.ID, doc.Title, status)
	}
	return nil
}

func runGraphCommand(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var graph datatypes.GraphData
	err := newAPIClient(serverURL).call(ctx, "GET", "/v1/documents/"+args[0]+"/graph", nil, &graph)
	if err != nil {
		return err
	}

	if jsonOutput {
		return json.NewEncoder(os.Stdout).Encode(graph)
	}

	labels := make(map[string]string, len(graph.Concepts))
	conceptLines := make([]string, 0, len(graph.Concepts))
	for _, node := range graph.Concepts {
		labels[node.ID] = node.Label
		line := node.Label
		if node.Unit != "" {
			line += " " + ux.Styles.Muted.Render("["+node.Unit+"]")
		}
		conceptLines = append(conceptLines, line)
	}

	fmt.Println(ux.Title(fmt.Sprintf("Concepts (%d)", len(graph.Concepts))))
	fmt.Println(ux.Bullets(conceptLines))

	fmt.Println(ux.Title(fmt.Sprintf("Relationships (%d)", len(graph.Relationships))))
	for _, edge := range graph.Relationships {
		line := "  " + ux.Edge(labels[edge.Source], labels[edge.Target], edge.RelationshipType)
		if edge.Equation != "" {
			line += "  " + ux.Styles.Muted.Render(edge.Equation)
		}
		fmt.Println(line)
		fmt.Println("    " + ux.Styles.Muted.Render("id: "+edge.ID))
	}
	return nil
}
