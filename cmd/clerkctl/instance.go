package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var instanceCmd = &cobra.Command{
	Use:   "instance",
	Short: "Manage spawned instances",
}

var instanceSpawnCmd = &cobra.Command{
	Use:   "spawn TEMPLATE_ID",
	Short: "Spawn a new instance from a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := call(cmd, "spawn", map[string]interface{}{
			"items": []map[string]interface{}{
				{"templateID": args[0]},
			},
		})
		if err != nil {
			return err
		}
		return printJSON(resp.Data)
	},
}

var instanceStateCmd = &cobra.Command{
	Use:   "state OBJID...",
	Short: "Fetch rigid-body and fragment state for one or more object IDs",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		objIDs := make([]uint64, len(args))
		for i, a := range args {
			id, err := strconv.ParseUint(a, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid objID %q: %w", a, err)
			}
			objIDs[i] = id
		}
		resp, err := call(cmd, "get_object_states", map[string]interface{}{"objIDs": objIDs})
		if err != nil {
			return err
		}
		return printJSON(resp.Data)
	},
}

var instanceRemoveCmd = &cobra.Command{
	Use:   "remove OBJID...",
	Short: "Remove one or more instances",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, a := range args {
			id, err := strconv.ParseUint(a, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid objID %q: %w", a, err)
			}
			if _, err := call(cmd, "remove", map[string]interface{}{"objID": id}); err != nil {
				return err
			}
			fmt.Printf("removed %d\n", id)
		}
		return nil
	},
}

func init() {
	instanceCmd.AddCommand(instanceSpawnCmd)
	instanceCmd.AddCommand(instanceStateCmd)
	instanceCmd.AddCommand(instanceRemoveCmd)
}
