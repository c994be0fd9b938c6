package main

import (
	"fmt"

	"github.com/azrael-sim/clerk/pkg/wire"
	"github.com/spf13/cobra"
)

func dial(cmd *cobra.Command) (*wire.Client, error) {
	addr, _ := cmd.Flags().GetString("addr")
	c, err := wire.Dial(addr)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", addr, err)
	}
	return c, nil
}

func call(cmd *cobra.Command, command string, data interface{}) (wire.ClientResponse, error) {
	c, err := dial(cmd)
	if err != nil {
		return wire.ClientResponse{}, err
	}
	defer c.Close()

	resp, err := c.Call(command, data)
	if err != nil {
		return wire.ClientResponse{}, err
	}
	if !resp.OK {
		return resp, fmt.Errorf("clerk: %v", resp.Msg)
	}
	return resp, nil
}
