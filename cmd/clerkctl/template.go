package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Manage templates",
}

var templateListCmd = &cobra.Command{
	Use:   "get NAME...",
	Short: "Fetch one or more templates by name",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := call(cmd, "get_templates", map[string]interface{}{"names": args})
		if err != nil {
			return err
		}
		return printJSON(resp.Data)
	},
}

func init() {
	templateCmd.AddCommand(templateListCmd)
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
