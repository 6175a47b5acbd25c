package main

import (
	"fmt"
	"os"
	"strconv"

	"bazaarku/internal/metrics"

	"github.com/spf13/cobra"
)

const defaultConfigPath = "configs/config.yaml"

// newRootCmd builds the command tree. The returned cleanup releases the
// session store and log file once the command has finished.
func newRootCmd() (*cobra.Command, func()) {
	var (
		configPath  string
		metricsFile string
		a           *app
	)

	root := &cobra.Command{
		Use:           "bazaarku",
		Short:         "Command-line client for the BazaarKu marketplace",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if configPath == "" {
				configPath = os.Getenv("BAZAARKU_CONFIG")
			}
			if configPath == "" {
				configPath = defaultConfigPath
			}
			built, err := newApp(configPath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			*a = *built
			if metricsFile != "" {
				metrics.Register()
				a.metricsFile = metricsFile
			}
			return nil
		},
	}
	a = &app{}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default $BAZAARKU_CONFIG or "+defaultConfigPath+")")
	root.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")

	root.AddCommand(
		newLoginCmd(a),
		newSignupCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newEventsCmd(a),
		newEventCmd(a),
		newReviewCmd(a),
		newBoothsCmd(a),
		newAdminCmd(a),
		newExportCmd(a),
	)
	return root, a.Close
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}
