package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmynk/tripledger/internal/cli"
	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/reconcile"
)

var (
	flagStatus string
	flagHard   bool
	flagActor  string
)

var transfersCmd = &cobra.Command{
	Use:   "transfers <trip-id>",
	Short: "List stored transfers of a trip",
	Args:  cobra.ExactArgs(1),
	RunE:  runTransfers,
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile <trip-id>",
	Short: "Rebuild the pending transfers of a trip",
	Long: "Replace the trip's pending transfers with a freshly computed set. " +
		"Completed transfers are kept unless --hard is given, in which case they are " +
		"deleted and the ledger is rebuilt from expenses alone.",
	Args: cobra.ExactArgs(1),
	RunE: runReconcile,
}

var completeCmd = &cobra.Command{
	Use:   "complete <transfer-id>",
	Short: "Mark a pending transfer as received",
	Args:  cobra.ExactArgs(1),
	RunE:  runComplete,
}

func init() {
	transfersCmd.Flags().StringVar(&flagStatus, "status", "", "Only show pending or completed transfers")
	reconcileCmd.Flags().BoolVar(&flagHard, "hard", false, "Also delete completed transfers")
	reconcileCmd.Flags().StringVar(&flagActor, "as", "", "Username recorded as creator (default: config actor)")
	completeCmd.Flags().StringVar(&flagActor, "as", "", "Receiving username (default: config actor)")
	rootCmd.AddCommand(transfersCmd, reconcileCmd, completeCmd)
}

func runTransfers(cmd *cobra.Command, args []string) error {
	var status models.TransferStatus
	switch strings.ToLower(flagStatus) {
	case "":
	case string(models.TransferPending), string(models.TransferCompleted):
		status = models.TransferStatus(strings.ToLower(flagStatus))
	default:
		return fmt.Errorf("invalid status %q: must be pending or completed", flagStatus)
	}

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

	var transfers []*models.Transfer
	if status == "" {
		transfers, err = a.store.ListTransfersByTrip(ctx, trip.ID)
	} else {
		transfers, err = a.store.ListTransfersByStatus(ctx, trip.ID, status)
	}
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Print(cli.RenderTransfers(transfers))
	return nil
}

func runReconcile(cmd *cobra.Command, args []string) error {
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

	res, err := a.reconciler.Reconcile(ctx, trip.ID, a.actor(flagActor), reconcile.Options{ResetCompleted: flagHard})
	if err != nil {
		return err
	}

	mode := "Soft reset: completed transfers preserved"
	if flagHard {
		mode = "Hard reset: completed transfers cleared"
	}
	fmt.Println()
	fmt.Println(cli.RenderMuted(fmt.Sprintf("%s. %d pending transfers created for %s.", mode, res.Created, trip.Name)))
	return nil
}

func runComplete(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.Close()

	actor := a.actor(flagActor)
	if actor == "" {
		return fmt.Errorf("no receiver given: pass --as or set output.actor in %s", flagConfig)
	}

	ctx := cmd.Context()
	transfer, err := a.reconciler.Complete(ctx, args[0], actor)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Print(cli.RenderTransfers([]*models.Transfer{transfer}))
	if a.reconciler.IsDirty(transfer.TripID) {
		fmt.Println(cli.RenderWarning("pending transfers could not be rebuilt; run `ledgerctl reconcile " + transfer.TripID + "`"))
	}
	return nil
}
