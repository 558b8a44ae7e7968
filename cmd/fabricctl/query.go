package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wsforge/fabric/xmlmodel"
)

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <path> [file]",
		Short: "Walk a slash-separated element path and print every match's text",
		Long: "Walks an XML document one path segment at a time (e.g. " +
			"'Envelope/Body/GetQuote/Symbol'), printing the value of every " +
			"element reached by the final segment.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			file := ""
			if len(args) == 2 {
				file = args[1]
			}
			data, err := readInput(file)
			if err != nil {
				return err
			}
			msg := xmlmodel.Parse(data)
			if msg.HasError() {
				return fmt.Errorf("parse xml: %s", msg.Err.Error())
			}
			if msg.Root == nil {
				return fmt.Errorf("empty document")
			}

			matches := queryPath(msg.Root, strings.Split(strings.Trim(path, "/"), "/"))
			if len(matches) == 0 {
				return fmt.Errorf("no match for %q", path)
			}
			for _, e := range matches {
				fmt.Fprintln(cmd.OutOrStdout(), e.Value)
			}
			return nil
		},
	}
	return cmd
}

// queryPath resolves every segment but the last via FindFirst (the
// first-match-wins discipline the WSDL validator also uses, per
// DESIGN NOTES §9), then returns every element FindAll reaches on the
// final segment.
func queryPath(root *xmlmodel.Element, segments []string) []*xmlmodel.Element {
	cur := root
	if len(segments) == 0 || segments[0] == "" {
		return []*xmlmodel.Element{root}
	}
	if cur.Name != segments[0] {
		return nil
	}
	if len(segments) == 1 {
		return []*xmlmodel.Element{root}
	}
	for _, seg := range segments[1 : len(segments)-1] {
		cur = cur.FindFirst(seg)
		if cur == nil {
			return nil
		}
	}
	last := segments[len(segments)-1]
	return cur.FindAll(last)
}
