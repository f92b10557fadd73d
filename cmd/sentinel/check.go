package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/sentinel/monitor"
	"github.com/jonwraymond/sentinel/probe"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check URL",
		Short: "Run a single health check and print the result",
		Long:  "Probe one URL once, print the classified result as JSON, and exit non-zero unless the endpoint is up.",
		Args:  cobra.ExactArgs(1),
		RunE:  runCheck,
	}

	cmd.Flags().Int("expect", 200, "expected HTTP status code")
	cmd.Flags().Duration("timeout", 10*time.Second, "probe timeout")
	cmd.Flags().String("method", "GET", "HTTP method (GET or HEAD)")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	expect, _ := cmd.Flags().GetInt("expect")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	method, _ := cmd.Flags().GetString("method")

	target := monitor.Target{
		Name:           "check",
		URL:            args[0],
		Interval:       monitor.MinInterval,
		ExpectedStatus: expect,
		Timeout:        timeout,
		Enabled:        true,
	}
	if err := target.Validate(); err != nil {
		return err
	}

	checker := probe.NewChecker(probe.CheckerConfig{Method: method})
	result := checker.Check(context.Background(), target)

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))

	if !result.IsHealthy() {
		return fmt.Errorf("%s is %s", args[0], result.Status)
	}
	return nil
}
