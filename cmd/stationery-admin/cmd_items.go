package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/campusprint/stationery-admin/internal/core/domain"
)

func itemIDArg(args []string) (int64, error) {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid item id %q", domain.ErrInvalidInput, args[0])
	}
	return id, nil
}

func (c *cli) itemsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "items",
		Aliases: []string{"item", "inventory"},
		Short:   "Manage the item catalog",
	}

	var query string
	list := &cobra.Command{
		Use:   "list",
		Short: "List catalog items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.signedIn(cmd.Context())
			if err != nil {
				return err
			}
			if _, err := a.inventory.Refresh(cmd.Context()); err != nil {
				return err
			}
			renderItems(cmd.OutOrStdout(), a.inventory.Search(query))
			return nil
		},
	}
	list.Flags().StringVarP(&query, "query", "q", "", "Only items whose name contains this")

	var (
		name, price string
		outOfStock  bool
	)
	add := &cobra.Command{
		Use:   "add",
		Short: "Add an item to the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.signedIn(cmd.Context())
			if err != nil {
				return err
			}
			inStock := !outOfStock
			in := domain.ItemInput{InStock: &inStock}
			if cmd.Flags().Changed("name") {
				in.Item = &name
			}
			if cmd.Flags().Changed("price") {
				in.Price = &price
			}
			it, err := a.inventory.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created item %d\n", it.ID)
			renderItems(cmd.OutOrStdout(), []domain.Item{*it})
			return nil
		},
	}
	add.Flags().StringVar(&name, "name", "", "Item name (at most 25 characters)")
	add.Flags().StringVar(&price, "price", "", "Unit price, e.g. 12.50")
	add.Flags().BoolVar(&outOfStock, "out-of-stock", false, "Create the item as out of stock")

	var (
		newName, newPrice string
		inStock           bool
	)
	update := &cobra.Command{
		Use:   "update <item-id>",
		Short: "Change an item's name, price or stock flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := itemIDArg(args)
			if err != nil {
				return err
			}
			var in domain.ItemInput
			f := cmd.Flags()
			if f.Changed("name") {
				in.Item = &newName
			}
			if f.Changed("price") {
				in.Price = &newPrice
			}
			if f.Changed("in-stock") {
				in.InStock = &inStock
			}
			a, err := c.signedIn(cmd.Context())
			if err != nil {
				return err
			}
			it, err := a.inventory.Update(cmd.Context(), id, in)
			if err != nil {
				return err
			}
			renderItems(cmd.OutOrStdout(), []domain.Item{*it})
			return nil
		},
	}
	update.Flags().StringVar(&newName, "name", "", "New name")
	update.Flags().StringVar(&newPrice, "price", "", "New unit price")
	update.Flags().BoolVar(&inStock, "in-stock", true, "Stock flag, e.g. --in-stock=false")

	remove := &cobra.Command{
		Use:     "rm <item-id>",
		Aliases: []string{"delete"},
		Short:   "Delete an item; past orders keep their history",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := itemIDArg(args)
			if err != nil {
				return err
			}
			a, err := c.signedIn(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.inventory.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted item %d\n", id)
			return nil
		},
	}

	toggle := &cobra.Command{
		Use:   "toggle <item-id>",
		Short: "Flip an item between in stock and out of stock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := itemIDArg(args)
			if err != nil {
				return err
			}
			a, err := c.signedIn(cmd.Context())
			if err != nil {
				return err
			}
			res, err := a.inventory.ToggleStock(cmd.Context(), id)
			if err != nil {
				return err
			}
			state := "in stock"
			if !res.InStock {
				state = "out of stock"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Item %d is now %s\n", res.ItemID, state)
			return nil
		},
	}

	cmd.AddCommand(list, add, update, remove, toggle)
	return cmd
}
