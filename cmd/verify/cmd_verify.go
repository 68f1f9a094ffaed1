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
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/AleutianVerify/config"
	"github.com/AleutianAI/AleutianVerify/datatypes"
	"github.com/AleutianAI/AleutianVerify/pipeline"
	"github.com/AleutianAI/AleutianVerify/pkg/logging"
	"github.com/AleutianAI/AleutianVerify/rerank"
)

var (
	flagConfig  string
	flagRequest string
	flagOffline bool
	flagQuiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a generated answer against its retrieval context",
	Long: `verify runs the answer verification pipeline over a single request:
rerank the retrieved candidates, classify the answer's claims, execute
the tiered validator set under the request's time budget, and decide
whether the answer survives or is replaced by a safe refusal.

The request is a JSON document read from --request (or stdin with "-").
The result is written to stdout as JSON.`,
	SilenceUsage: true,
	RunE:         runVerify,
}

func init() {
	rootCmd.Flags().StringVarP(&flagConfig, "config", "c", "", "path to a YAML config file (defaults apply when omitted)")
	rootCmd.Flags().StringVarP(&flagRequest, "request", "r", "-", `path to the JSON request, or "-" for stdin`)
	rootCmd.Flags().BoolVar(&flagOffline, "offline", false, "use the network-free lexical relevance model")
	rootCmd.Flags().BoolVarP(&flagQuiet, "quiet", "q", false, "suppress log output on stderr")
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	logger := logging.New(logging.Config{Service: "verify", Quiet: flagQuiet})
	defer logger.Close()

	model := selectModel(cfg, logger)

	p, err := pipeline.New(cfg, model, logger)
	if err != nil {
		return err
	}

	req, err := readRequest(flagRequest)
	if err != nil {
		return err
	}

	result, err := p.Process(cmd.Context(), req)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// selectModel picks the relevance model. A missing or unreachable
// embedding endpoint is not fatal: the reranker degrades to
// pass-through, which the pipeline tolerates.
func selectModel(cfg *config.Config, logger *logging.Logger) rerank.RelevanceModel {
	if flagOffline {
		return rerank.NewLexicalModel()
	}
	model, err := rerank.SharedModel(cfg.Model)
	if err != nil {
		logger.Warn("relevance model unavailable, reranking disabled", "error", err)
		return nil
	}
	return model
}

func readRequest(path string) (*datatypes.VerifyRequest, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read request: %w", err)
	}

	var req datatypes.VerifyRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("parse request: %w", err)
	}
	return &req, nil
}
