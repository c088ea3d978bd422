package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aryan0dhankhar/shopcart/internal/domain"
	"github.com/aryan0dhankhar/shopcart/internal/validation"
)

func newProductCmd(a func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Manage the product catalog",
	}

	add := &cobra.Command{
		Use:   "add CODE NAME PRICE [STOCK]",
		Short: "Add a product",
		Args:  cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := validation.ParseCode(args[0])
			if err != nil {
				return err
			}
			price, err := validation.ParsePrice(args[2])
			if err != nil {
				return err
			}
			var stock *int
			if len(args) == 4 {
				if stock, err = validation.ParseStock(args[3]); err != nil {
					return err
				}
			}
			p, err := a().products.Create(domain.Product{Code: code, Name: args[1], Price: price, Stock: stock})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added product %d\n", p.Code)
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := a().products.List()
			if err != nil {
				return err
			}
			return printProducts(cmd, products)
		},
	}

	search := &cobra.Command{
		Use:   "search QUERY",
		Short: "Find products whose name contains QUERY",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := a().products.Search(args[0])
			if err != nil {
				return err
			}
			return printProducts(cmd, products)
		},
	}

	update := &cobra.Command{
		Use:   "update CODE NAME PRICE",
		Short: "Rename and reprice a product",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := validation.ParseCode(args[0])
			if err != nil {
				return err
			}
			price, err := validation.ParsePrice(args[2])
			if err != nil {
				return err
			}
			if _, err := a().products.Update(code, args[1], price); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated product %d\n", code)
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete CODE",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := validation.ParseCode(args[0])
			if err != nil {
				return err
			}
			if err := a().products.Delete(code); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted product %d\n", code)
			return nil
		},
	}

	// negative prices must reach the parser, not the flag parser
	add.Flags().SetInterspersed(false)
	update.Flags().SetInterspersed(false)

	cmd.AddCommand(add, list, search, update, del)
	return cmd
}

func printProducts(cmd *cobra.Command, products []*domain.Product) error {
	tw := newTable(cmd.OutOrStdout())
	fmt.Fprintln(tw, "CODE\tNAME\tPRICE\tSTOCK")
	for _, p := range products {
		stock := "-"
		if p.Stock != nil {
			stock = fmt.Sprint(*p.Stock)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", p.Code, p.Name, p.Price.StringFixed(2), stock)
	}
	return tw.Flush()
}
