package ctl

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"inferd/pkg/types"
)

func defaultServer() string {
	if v := os.Getenv("INFERD_SERVER"); v != "" {
		return v
	}
	return "http://127.0.0.1:8080"
}

// buildRootCmd constructs the cobra command tree over a Client.
func buildRootCmd() *cobra.Command {
	var server string
	root := &cobra.Command{
		Use:           "inferctl",
		Short:         "Developer utilities for a running inferd gateway",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&server, "server", defaultServer(), "Gateway base URL (defaults INFERD_SERVER or http://127.0.0.1:8080)")

	models := &cobra.Command{
		Use:     "models",
		Short:   "List loaded models",
		Example: "  inferctl models",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := NewClient(server).Models(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, list)
		},
	}

	metadata := &cobra.Command{
		Use:     "metadata <model>",
		Short:   "Show one model's metadata",
		Args:    cobra.ExactArgs(1),
		Example: "  inferctl metadata echo",
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, err := NewClient(server).Metadata(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, meta)
		},
	}

	var reqFile string
	var reqBody string
	infer := &cobra.Command{
		Use:     "infer <model>",
		Short:   "Send an inference request",
		Args:    cobra.ExactArgs(1),
		Example: "  inferctl infer echo -d '{\"inputs\":[{\"name\":\"x\",\"datatype\":\"INT32\",\"shape\":[1],\"data\":[42]}]}'",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := readRequest(reqFile, reqBody)
			if err != nil {
				return err
			}
			resp, err := NewClient(server).Infer(cmd.Context(), args[0], req)
			if err != nil {
				return err
			}
			return printJSON(cmd, resp)
		},
	}
	infer.Flags().StringVarP(&reqFile, "file", "f", "", "Read the request JSON from a file ('-' for stdin)")
	infer.Flags().StringVarP(&reqBody, "data", "d", "", "Inline request JSON")

	ready := &cobra.Command{
		Use:   "ready",
		Short: "Check gateway readiness",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !NewClient(server).Ready(cmd.Context()) {
				return fmt.Errorf("gateway at %s is not ready", server)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ready")
			return nil
		},
	}

	root.AddCommand(models, metadata, infer, ready)
	return root
}

// Execute runs the CLI and returns its exit code.
func Execute() int {
	if err := buildRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}

func readRequest(file, inline string) (*types.InferenceRequest, error) {
	var b []byte
	switch {
	case inline != "":
		b = []byte(inline)
	case file == "-":
		var err error
		b, err = readAllStdin()
		if err != nil {
			return nil, err
		}
	case file != "":
		var err error
		b, err = os.ReadFile(file)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("provide the request with -d or -f")
	}
	var req types.InferenceRequest
	if err := json.Unmarshal(b, &req); err != nil {
		return nil, fmt.Errorf("parse request: %w", err)
	}
	return &req, nil
}

func readAllStdin() ([]byte, error) {
	b, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return b, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
