package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/tripledger/internal/cli"
)

var flagSpending bool

var balancesCmd = &cobra.Command{
	Use:   "balances <trip-id>",
	Short: "Show each member's paid, owed and net amounts",
	Args:  cobra.ExactArgs(1),
	RunE:  runBalances,
}

var settleCmd = &cobra.Command{
	Use:   "settle <trip-id>",
	Short: "Show balances and the transfers that would settle them",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettle,
}

func init() {
	settleCmd.Flags().BoolVar(&flagSpending, "spending", false, "Also break expenses down by member and category")
	rootCmd.AddCommand(balancesCmd, settleCmd)
}

func runBalances(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	trip, err := a.trip(ctx, args[0])
	if err != nil {
		return err
	}
	sheet, err := a.reconciler.Balances(ctx, trip.ID)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(trip.Name))
	fmt.Println()
	fmt.Print(cli.RenderBalances(a.reconciler.Calculator(), sheet))
	return nil
}

func runSettle(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	trip, err := a.trip(ctx, args[0])
	if err != nil {
		return err
	}
	settlement, err := a.reconciler.Settlement(ctx, trip.ID)
	if err != nil {
		return err
	}

	calc := a.reconciler.Calculator()
	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("SETTLE UP  %s", trip.Name)))
	fmt.Println()
	fmt.Print(cli.RenderBalances(calc, settlement.Balances))
	fmt.Println()
	fmt.Print(cli.RenderSettlement(calc, settlement))
	if flagSpending {
		fmt.Println()
		fmt.Print(cli.RenderSpending(calc, settlement.Spending))
	}
	return nil
}
