package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	apiFlag     string
	timeoutFlag time.Duration
	rootCmd     = &cobra.Command{
		Use:          "tempctl",
		Short:        "CLI client for the temperature history API",
		SilenceUsage: true,
	}
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&apiFlag, "api", "a", "http://localhost:8080", "Temperature service base URL")
	rootCmd.PersistentFlags().DurationVar(&timeoutFlag, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(
		permissionsCmd(),
		validateCmd(),
		recordCmd(),
		historyCmd(),
		deleteCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func permissionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "permissions",
		Short: "Show platform availability and granted permissions",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newAPI(apiFlag, timeoutFlag)
			if err != nil {
				return err
			}
			return c.runPermissions(cmd.Context(), os.Stdout)
		},
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <text>",
		Short: "Check whether a text is a plausible body temperature in °C",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newAPI(apiFlag, timeoutFlag)
			if err != nil {
				return err
			}
			return c.runValidate(cmd.Context(), args[0], os.Stdout)
		},
	}
}

func recordCmd() *cobra.Command {
	var in recordInput
	cmd := &cobra.Command{
		Use:   "record <value>",
		Short: "Record a body temperature reading",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newAPI(apiFlag, timeoutFlag)
			if err != nil {
				return err
			}
			in.Value = args[0]
			return c.runRecord(cmd.Context(), in, os.Stdout)
		},
	}
	cmd.Flags().StringVarP(&in.Unit, "unit", "u", "C", "Unit of the value (C or F)")
	cmd.Flags().StringVarP(&in.Name, "name", "n", "", "Display name of who takes the reading")
	cmd.Flags().StringVarP(&in.Role, "role", "r", "", "Role of who takes the reading (PATIENT, DOCTOR, NURSE, CAREGIVER, SELF, OTHER)")
	cmd.Flags().StringVar(&in.SubjectID, "subject-id", "", "Stable id of who takes the reading")
	return cmd
}

func historyCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List readings, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			if days <= 0 {
				return fmt.Errorf("--days must be positive")
			}
			c, err := newAPI(apiFlag, timeoutFlag)
			if err != nil {
				return err
			}
			to := time.Now()
			return c.runHistory(cmd.Context(), to.AddDate(0, 0, -days), to, os.Stdout)
		},
	}
	cmd.Flags().IntVarP(&days, "days", "d", 30, "How many days back to load")
	return cmd
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <record-id>",
		Short: "Delete a reading by platform record id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newAPI(apiFlag, timeoutFlag)
			if err != nil {
				return err
			}
			return c.runDelete(cmd.Context(), args[0], os.Stdout)
		},
	}
}
