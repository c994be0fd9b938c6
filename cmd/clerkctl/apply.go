package main

import (
	"fmt"
	"os"

	"github.com/azrael-sim/clerk/pkg/types"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply a manifest of templates",
	Long: `Apply a YAML manifest of templates to a Clerk node.

Example:
  clerkctl apply -f templates.yaml`,
	RunE: runApply,
}

func init() {
	applyCmd.Flags().StringP("file", "f", "", "YAML manifest to apply (required)")
	_ = applyCmd.MarkFlagRequired("file")
}

// manifest is a bulk-import file: a flat list of templates, one
// manifest per apply, matching add_templates' request shape.
type manifest struct {
	Templates []types.Template `yaml:"templates"`
}

func runApply(cmd *cobra.Command, args []string) error {
	filename, _ := cmd.Flags().GetString("file")

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}

	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("parse manifest: %w", err)
	}
	if len(m.Templates) == 0 {
		return fmt.Errorf("manifest has no templates")
	}

	resp, err := call(cmd, "add_templates", map[string]interface{}{"templates": m.Templates})
	if err != nil {
		return err
	}

	results, _ := resp.Data.(map[string]interface{})
	for _, t := range m.Templates {
		if added, _ := results[t.AID].(bool); added {
			fmt.Printf("✓ template added: %s\n", t.AID)
		} else {
			fmt.Printf("· template already present: %s\n", t.AID)
		}
	}
	return nil
}
