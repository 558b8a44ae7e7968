package main

import (
	"bytes"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/wsforge/fabric/jsonmodel"
	"github.com/wsforge/fabric/xmlmodel"
)

func newFormatCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "format [file]",
		Short: "Pretty-print an XML document or reprint a JSON document compactly (reads stdin if no file given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			var data []byte
			var err error
			if path == "" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = readInput(path)
			}
			if err != nil {
				return err
			}

			if asJSON || looksLikeJSON(data) {
				v, err := jsonmodel.Parse(data)
				if err != nil {
					return fmt.Errorf("parse json: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), jsonmodel.Print(v))
				return nil
			}

			msg := xmlmodel.Parse(data, xmlmodel.WithWhitespaceMode(xmlmodel.WhitespaceCollapseMode))
			if msg.HasError() {
				return fmt.Errorf("parse xml: %s", msg.Err.Error())
			}
			msg.Condensed = false
			cmd.OutOrStdout().Write(xmlmodel.Print(msg))
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "force JSON parsing instead of auto-detecting")
	return cmd
}

func looksLikeJSON(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[')
}
