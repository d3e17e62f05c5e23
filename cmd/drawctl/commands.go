package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"luckydraw/internal/config"
	"luckydraw/internal/ingest"
	"luckydraw/internal/models"
	"luckydraw/internal/services"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "drawctl",
		Short:        "Run lotto and raffle draws against a participant CSV",
		SilenceUsage: true,
	}
	root.PersistentFlags().String("config", "config.yaml", "path to the YAML config file")
	root.PersistentFlags().StringP("file", "f", "", "participant CSV (username,ticket)")
	root.MarkPersistentFlagRequired("file")

	root.AddCommand(lottoCmd(), raffleCmd())
	return root
}

func lottoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lotto",
		Short: "Draw (or supply) winning numbers and list every winning ticket",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := loadEngine(cmd, models.ModeLotto)
			if err != nil {
				return err
			}
			numbers, _ := cmd.Flags().GetString("numbers")
			rounds, _ := cmd.Flags().GetInt("rounds")
			return runLotto(cmd.OutOrStdout(), engine, numbers, rounds)
		},
	}
	cmd.Flags().String("numbers", "", "comma separated winning numbers instead of a random draw")
	cmd.Flags().Int("rounds", 1, "number of random draws")
	return cmd
}

func raffleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "raffle",
		Short: "Draw raffle winners, one ticket per prize",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := loadEngine(cmd, models.ModeRaffle)
			if err != nil {
				return err
			}
			prizes, _ := cmd.Flags().GetStringSlice("prize")
			return runRaffle(cmd.OutOrStdout(), engine, prizes)
		},
	}
	cmd.Flags().StringSlice("prize", nil, "prize to draw; repeat for several draws")
	cmd.MarkFlagRequired("prize")
	return cmd
}

func loadEngine(cmd *cobra.Command, mode models.Mode) (*services.DrawEngine, error) {
	configPath, _ := cmd.Flags().GetString("config")
	file, _ := cmd.Flags().GetString("file")

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	prizes, err := cfg.PrizeTable()
	if err != nil {
		return nil, err
	}
	engine, err := services.NewDrawEngine(cfg.Engine, services.WithPrizeTable(prizes))
	if err != nil {
		return nil, err
	}

	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pool, stats, err := ingest.ParseParticipants(f, ingest.Options{
		Mode:         mode,
		TicketPrefix: cfg.Engine.TicketPrefix,
		BallCount:    cfg.Engine.BallCount,
		PickCount:    cfg.Engine.PickCount,
	})
	if err != nil {
		return nil, err
	}
	engine.LoadPool(pool, false)
	fmt.Fprintf(cmd.ErrOrStderr(), "loaded %d participants, %d tickets, skipped %d rows\n",
		stats.Participants, stats.Tickets, stats.Skipped)
	return engine, nil
}

func runLotto(w io.Writer, engine *services.DrawEngine, numbers string, rounds int) error {
	if numbers != "" {
		drawn, err := parseNumbers(numbers)
		if err != nil {
			return err
		}
		winners, err := engine.MatchAndRecordWinners(drawn, nil)
		if err != nil {
			return err
		}
		printLottoRound(w, drawn, winners)
	} else {
		for i := 0; i < rounds; i++ {
			res, winners, err := engine.DrawAndMatch()
			if err != nil {
				return err
			}
			printLottoRound(w, res.Numbers, winners)
		}
	}

	prizes := engine.PrizeTable()
	counts := engine.TierCounts()
	for _, key := range prizes.Keys() {
		tier := prizes[key]
		fmt.Fprintf(w, "%s %s: %d winners\n", tier.Icon, tier.Label, counts[key])
	}
	return nil
}

func printLottoRound(w io.Writer, drawn []int, winners []models.WinnerRecord) {
	fmt.Fprintf(w, "drawn: %s\n", formatNumbers(drawn))
	for _, rec := range winners {
		fmt.Fprintf(w, "  %-20s %-20s matched %d  %s\n",
			rec.Participant, formatNumbers(rec.Ticket.Numbers), *rec.MatchCount, rec.PrizeName)
	}
}

func runRaffle(w io.Writer, engine *services.DrawEngine, prizes []string) error {
	width := engine.DigitCount()
	for _, prize := range prizes {
		if _, err := engine.DrawSingleWinner(prize); err != nil {
			return fmt.Errorf("drawing %q: %w", prize, err)
		}
		rec, err := engine.Confirm()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%-20s %s  %s\n", prize, padTicket(rec.Ticket.Code, width), rec.Participant)
	}
	fmt.Fprintf(w, "%d tickets remain\n", engine.RemainingTicketCount())
	return nil
}

func parseNumbers(s string) ([]int, error) {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '.' || r == ' ' })
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("bad number %q: %w", p, err)
		}
		out = append(out, n)
	}
	return out, nil
}

func formatNumbers(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = fmt.Sprintf("%02d", n)
	}
	return strings.Join(parts, " ")
}

// padTicket left-pads numeric codes with zeros to the slot reel width.
func padTicket(code string, width int) string {
	if _, err := strconv.Atoi(code); err != nil || len(code) >= width {
		return code
	}
	return strings.Repeat("0", width-len(code)) + code
}
