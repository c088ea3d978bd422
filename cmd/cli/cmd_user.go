package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aryan0dhankhar/shopcart/internal/domain"
	"github.com/aryan0dhankhar/shopcart/internal/service"
	"github.com/aryan0dhankhar/shopcart/internal/validation"
)

func newUserCmd(a func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}

	var role, birthDate string
	add := &cobra.Command{
		Use:   "add ID PASSWORD NAME PHONE EMAIL",
		Short: "Create a user account",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := domain.ParseRole(role)
			if err != nil {
				return err
			}
			reg := service.Registration{
				ID:       args[0],
				Password: args[1],
				Role:     r,
				Name:     args[2],
				Phone:    args[3],
				Email:    args[4],
			}
			if birthDate != "" {
				if reg.BirthDate, err = validation.ParseDate(birthDate); err != nil {
					return err
				}
			}
			u, err := a().users.CreateUser(reg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s user %s\n", u.Role, u.ID)
			return nil
		},
	}
	add.Flags().StringVar(&role, "role", string(domain.RoleUser), "ADMIN or USER")
	add.Flags().StringVar(&birthDate, "birth-date", "", "birth date as YYYY-MM-DD")

	var listRole string
	list := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				users []*domain.User
				err   error
			)
			if listRole != "" {
				r, perr := domain.ParseRole(listRole)
				if perr != nil {
					return perr
				}
				users, err = a().users.ListByRole(r)
			} else {
				users, err = a().users.List()
			}
			if err != nil {
				return err
			}
			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tROLE\tNAME\tPHONE\tEMAIL")
			for _, u := range users {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", u.ID, u.Role, u.Name, u.Phone, u.Email)
			}
			return tw.Flush()
		},
	}
	list.Flags().StringVar(&listRole, "role", "", "only list users with this role")

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a user and their security answers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a().users.Delete(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted user %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(add, list, del)
	return cmd
}
