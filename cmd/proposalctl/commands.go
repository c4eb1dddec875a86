package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"proposal-ai-api/internal/application/proposal"
	"proposal-ai-api/internal/application/usage"
	"proposal-ai-api/internal/config"
	"proposal-ai-api/internal/infrastructure/eino/callback"
	"proposal-ai-api/internal/wire"
	"proposal-ai-api/pkg/errors"
)

func regionsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "regions",
		Short: "List pricing regions",
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, err := newGenerator(opts)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), opts.output, gen.Regions())
		},
	}
}

func generateCmd(opts *rootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a proposal from a JSON or YAML request file",
		RunE: func(cmd *cobra.Command, args []string) error {
			draft, err := readDraft(file)
			if err != nil {
				return err
			}

			gen, err := newGenerator(opts)
			if err != nil {
				return err
			}
			callback.Init(usage.NewLogRecorder())

			result, err := gen.Generate(context.Background(), draft)
			if err != nil {
				return describeError(err)
			}
			return writeOutput(cmd.OutOrStdout(), opts.output, result)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Request file (.json, .yaml or .yml); - reads JSON from stdin")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newGenerator(opts *rootOptions) (*proposal.Generator, error) {
	cfg, err := config.LoadFrom(opts.configDir)
	if err != nil {
		return nil, err
	}
	return wire.InitializeGenerator(cfg)
}

// readDraft 按扩展名解析请求文件
func readDraft(path string) (proposal.Draft, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return proposal.Draft{}, fmt.Errorf("read request file: %w", err)
	}
	return decodeDraft(data, filepath.Ext(path))
}

func decodeDraft(data []byte, ext string) (proposal.Draft, error) {
	var draft proposal.Draft
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &draft); err != nil {
			return proposal.Draft{}, fmt.Errorf("parse yaml request: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &draft); err != nil {
			return proposal.Draft{}, fmt.Errorf("parse json request: %w", err)
		}
	}
	return draft, nil
}

// describeError 展开校验错误的字段明细
func describeError(err error) error {
	appErr := errors.AsAppError(err)
	if len(appErr.Details) == 0 {
		return fmt.Errorf("%s (status %d)", appErr.Message, appErr.HTTPStatus)
	}
	lines := make([]string, 0, len(appErr.Details)+1)
	lines = append(lines, appErr.Message+":")
	for _, v := range appErr.Details {
		lines = append(lines, fmt.Sprintf("  - %s: %s", v.Field, v.Message))
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}

func writeOutput(w io.Writer, format string, v any) error {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		// 经 JSON 中转以沿用 json 字段名
		raw, err := json.Marshal(v)
		if err != nil {
			return err
		}
		var generic any
		if err := json.Unmarshal(raw, &generic); err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(generic)
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}
