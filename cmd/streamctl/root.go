package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	keyURL     = "url"
	keyTimeout = "timeout"

	defaultURL = "http://localhost:8080"
)

func newRootCmd(v *viper.Viper) *cobra.Command {
	root := &cobra.Command{
		Use:           "streamctl",
		Short:         "Manage the custom stream registry of a running Kitsune api",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	v.SetEnvPrefix("kitsune")
	v.AutomaticEnv()
	v.SetDefault(keyURL, defaultURL)
	v.SetDefault(keyTimeout, 30*time.Second)

	root.PersistentFlags().String(keyURL, defaultURL, "Base url of the Kitsune api (env KITSUNE_URL)")
	lo.Must0(v.BindPFlag(keyURL, root.PersistentFlags().Lookup(keyURL)))
	root.PersistentFlags().Duration(keyTimeout, 30*time.Second, "Request timeout")
	lo.Must0(v.BindPFlag(keyTimeout, root.PersistentFlags().Lookup(keyTimeout)))

	clientFor := func() *adminClient {
		return newAdminClient(v.GetString(keyURL), v.GetDuration(keyTimeout))
	}

	root.AddCommand(
		newAddCmd(clientFor),
		newBulkAddCmd(clientFor),
		newRemoveCmd(clientFor),
		newStatsCmd(clientFor),
		newServersCmd(clientFor),
		newSearchCmd(clientFor),
	)
	return root
}

func printJSON(cmd *cobra.Command, value any) error {
	encoded, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
	return err
}
