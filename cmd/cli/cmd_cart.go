package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aryan0dhankhar/shopcart/internal/domain"
	"github.com/aryan0dhankhar/shopcart/internal/service"
	"github.com/aryan0dhankhar/shopcart/internal/validation"
)

func newCartCmd(a func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Work with shopping carts",
	}

	open := &cobra.Command{
		Use:   "open OWNER",
		Short: "Open an empty cart for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validation.NationalID(args[0]); err != nil {
				return err
			}
			c, err := a().carts.Open(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "opened cart %d\n", c.Code)
			return nil
		},
	}

	add := &cobra.Command{
		Use:   "add CART PRODUCT QUANTITY",
		Short: "Add units of a product to a cart",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := validation.ParseCode(args[0])
			if err != nil {
				return err
			}
			product, err := validation.ParseCode(args[1])
			if err != nil {
				return err
			}
			qty, err := validation.ParseQuantity(args[2])
			if err != nil {
				return err
			}
			c, err := a().carts.AddItem(code, product, qty)
			if err != nil {
				return err
			}
			return printCart(cmd, c)
		},
	}

	remove := &cobra.Command{
		Use:   "remove CART PRODUCT",
		Short: "Remove a product from a cart",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := validation.ParseCode(args[0])
			if err != nil {
				return err
			}
			product, err := validation.ParseCode(args[1])
			if err != nil {
				return err
			}
			c, err := a().carts.RemoveItem(code, product)
			if err != nil {
				return err
			}
			return printCart(cmd, c)
		},
	}

	show := &cobra.Command{
		Use:   "show CART",
		Short: "Show a cart with its totals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := validation.ParseCode(args[0])
			if err != nil {
				return err
			}
			c, err := a().carts.Get(code)
			if err != nil {
				return err
			}
			return printCart(cmd, c)
		},
	}

	var owner string
	list := &cobra.Command{
		Use:   "list",
		Short: "List carts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				carts []*domain.Cart
				err   error
			)
			if owner != "" {
				carts, err = a().carts.ListByOwner(owner)
			} else {
				carts, err = a().carts.List()
			}
			if err != nil {
				return err
			}
			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "CODE\tOWNER\tITEMS\tTOTAL")
			for _, c := range carts {
				t := service.TotalsOf(c)
				fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", c.Code, c.OwnerID, t.Items, t.Total.StringFixed(2))
			}
			return tw.Flush()
		},
	}
	list.Flags().StringVar(&owner, "owner", "", "only list carts of this user")

	add.Flags().SetInterspersed(false)

	cmd.AddCommand(open, add, remove, show, list)
	return cmd
}

func printCart(cmd *cobra.Command, c *domain.Cart) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "cart %d (owner %s)\n", c.Code, c.OwnerID)
	tw := newTable(out)
	fmt.Fprintln(tw, "PRODUCT\tNAME\tPRICE\tQTY\tSUBTOTAL")
	for _, it := range c.Items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n",
			it.Product.Code, it.Product.Name, it.Product.Price.StringFixed(2), it.Quantity, it.Subtotal().StringFixed(2))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	t := service.TotalsOf(c)
	fmt.Fprintf(out, "subtotal %s\ntax %s\ntotal %s\n", t.Subtotal.StringFixed(2), t.Tax.StringFixed(2), t.Total.StringFixed(2))
	return nil
}
