package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newPingCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the Sentinel answers PING",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := opts.newClient()
			defer client.Close()

			ctx, cancel := opts.commandContext(cmd)
			defer cancel()

			if !client.Ping(ctx) {
				return fmt.Errorf("no PONG from %s", client.Addr())
			}
			return opts.print(cmd, "PONG", map[string]bool{"pong": true})
		},
	}
}

func newMastersCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "masters",
		Short: "List the monitored masters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := opts.newClient()
			defer client.Close()

			ctx, cancel := opts.commandContext(cmd)
			defer cancel()

			masters, err := client.Masters(ctx)
			if err != nil {
				return err
			}
			return opts.printRecords(cmd, masters)
		},
	}
}

func newSlavesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "slaves <master>",
		Aliases: []string{"replicas"},
		Short:   "List the replicas of a master",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := opts.newClient()
			defer client.Close()

			ctx, cancel := opts.commandContext(cmd)
			defer cancel()

			replicas, err := client.Slaves(ctx, args[0])
			if err != nil {
				return err
			}
			return opts.printRecords(cmd, replicas)
		},
	}
}

func newMasterAddrCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "master-addr <master>",
		Short: "Resolve the address of a master",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := opts.newClient()
			defer client.Close()

			ctx, cancel := opts.commandContext(cmd)
			defer cancel()

			addr, err := client.GetMasterAddrByName(ctx, args[0])
			if err != nil {
				return err
			}

			text := addr.String()
			if !addr.Found {
				text = "(nil)"
			}
			return opts.print(cmd, text, addr)
		},
	}
}

func newIsMasterDownCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "is-master-down <ip> <port>",
		Short: "Ask whether the Sentinel considers a master down",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			port, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid port %q: %w", args[1], err)
			}

			client := opts.newClient()
			defer client.Close()

			ctx, cancel := opts.commandContext(cmd)
			defer cancel()

			reply, err := client.IsMasterDownByAddr(ctx, args[0], port)
			if err != nil {
				return err
			}

			text := fmt.Sprintf("down=%v leader=%s", reply.IsDown(), reply.Leader)
			if reply.HasEpoch {
				text += " epoch=" + strconv.FormatInt(reply.LeaderEpoch, 10)
			}
			return opts.print(cmd, text, reply)
		},
	}
}

func newResetCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "reset <pattern>",
		Short: "Reset the masters matching a glob pattern",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := opts.newClient()
			defer client.Close()

			ctx, cancel := opts.commandContext(cmd)
			defer cancel()

			n, err := client.Reset(ctx, args[0])
			if err != nil {
				return err
			}
			return opts.print(cmd, strconv.FormatInt(n, 10), map[string]int64{"reset": n})
		},
	}
}
