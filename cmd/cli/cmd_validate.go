package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aryan0dhankhar/shopcart/internal/validation"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a value against the input rules without touching any data",
		// no storage needed
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	}

	checks := []struct {
		use, short string
		check      func(string) error
	}{
		{"id VALUE", "Validate an Ecuadorian cédula", validation.NationalID},
		{"phone VALUE", "Validate a 10 digit phone number", validation.Phone},
		{"email VALUE", "Validate an email address", validation.Email},
		{"password VALUE", "Validate password strength", validation.Password},
	}
	for _, c := range checks {
		check := c.check
		cmd.AddCommand(&cobra.Command{
			Use:   c.use,
			Short: c.short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := check(args[0]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "valid")
				return nil
			},
		})
	}
	return cmd
}
