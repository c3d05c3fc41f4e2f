package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/taller/internal/task"
)

func (a *App) instrumentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "instrument",
		Aliases: []string{"inst"},
		Short:   "Manage the instrument inventory",
	}
	cmd.AddCommand(a.instrumentAddCmd())
	cmd.AddCommand(a.instrumentListCmd())
	cmd.AddCommand(a.instrumentStatusCmd())
	return cmd
}

func (a *App) instrumentAddCmd() *cobra.Command {
	var (
		serial string
		notes  string
		client int64
	)

	cmd := &cobra.Command{
		Use:     "add [name]",
		Short:   "Register an instrument entering the workshop",
		Example: `  taller instrument add "Fender Stratocaster" --serial=SN1234 --client=3`,
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			var clientID *int64
			if client > 0 {
				clientID = &client
			}

			inst, err := task.NewInstrument(args[0], serial, notes, clientID)
			if err != nil {
				return err
			}
			if err := a.repo.CreateInstrument(context.Background(), inst); err != nil {
				return fmt.Errorf("creating instrument: %w", err)
			}

			fmt.Printf("Registered instrument #%d: %s\n", inst.ID, inst.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&serial, "serial", "", "Serial number")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")
	cmd.Flags().Int64Var(&client, "client", 0, "Owning client ID")

	return cmd
}

func (a *App) instrumentListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all instruments",
		RunE: func(_ *cobra.Command, _ []string) error {
			instruments, err := a.repo.ListInstruments(context.Background())
			if err != nil {
				return fmt.Errorf("listing instruments: %w", err)
			}
			if len(instruments) == 0 {
				fmt.Println("No instruments registered.")
				return nil
			}

			for _, inst := range instruments {
				line := fmt.Sprintf("  #%d %s", inst.ID, inst.Name)
				if inst.Serial != "" {
					line += " (" + inst.Serial + ")"
				}
				line += " — " + string(inst.Status)
				switch inst.Status {
				case task.InstrumentReady:
					colorDone.Println(line)
				case task.InstrumentDelivered:
					colorMuted.Println(line)
				default:
					fmt.Println(line)
				}
			}
			return nil
		},
	}
}

func (a *App) instrumentStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "status [instrument-id] [status]",
		Short:   "Update an instrument's workshop status",
		Example: `  taller instrument status 4 ready`,
		Args:    cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			status, err := task.ParseInstrumentStatus(args[1])
			if err != nil {
				return fmt.Errorf("status must be 'in_workshop', 'ready' or 'delivered'")
			}
			if err := a.repo.UpdateInstrumentStatus(context.Background(), id, status); err != nil {
				return fmt.Errorf("updating instrument: %w", err)
			}
			fmt.Printf("Instrument #%d is now %s\n", id, status)
			return nil
		},
	}
}

func (a *App) clientCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Manage clients",
	}
	cmd.AddCommand(a.clientAddCmd())
	cmd.AddCommand(a.clientListCmd())
	return cmd
}

func (a *App) clientAddCmd() *cobra.Command {
	var (
		email string
		phone string
	)

	cmd := &cobra.Command{
		Use:     "add [name]",
		Short:   "Register a client",
		Example: `  taller client add "Ana Reyes" --email=ana@example.com`,
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c, err := task.NewClient(args[0], email, phone)
			if err != nil {
				return err
			}
			if err := a.repo.CreateClient(context.Background(), c); err != nil {
				return fmt.Errorf("creating client: %w", err)
			}

			fmt.Printf("Registered client #%d: %s\n", c.ID, c.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Contact email")
	cmd.Flags().StringVar(&phone, "phone", "", "Contact phone")

	return cmd
}

func (a *App) clientListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all clients",
		RunE: func(_ *cobra.Command, _ []string) error {
			clients, err := a.repo.ListClients(context.Background())
			if err != nil {
				return fmt.Errorf("listing clients: %w", err)
			}
			if len(clients) == 0 {
				fmt.Println("No clients registered.")
				return nil
			}

			for _, c := range clients {
				line := fmt.Sprintf("  #%d %s", c.ID, c.Name)
				if c.Email != "" {
					line += " <" + c.Email + ">"
				}
				if c.Phone != "" {
					line += " " + c.Phone
				}
				fmt.Println(line)
			}
			return nil
		},
	}
}
