package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// WriteStatsCSV writes the per-player stats projection as CSV. It is a pure
// read-only formatting of the same derived values PlayerStats returns.
func (s *Store) WriteStatsCSV(w io.Writer) error {
	players := s.Players()

	cw := csv.NewWriter(w)
	header := []string{"Name", "Nickname", "Games", "Total Spent", "Total Paid", "Discounts", "Pending"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("export csv: %w", err)
	}

	for _, p := range players {
		stats, err := s.PlayerStats(p.ID)
		if err != nil {
			return err
		}
		row := []string{
			p.Name,
			p.Nickname,
			strconv.Itoa(stats.Games),
			stats.TotalSpent.String(),
			stats.TotalPaid.String(),
			stats.TotalDiscounted.String(),
			stats.Pending.String(),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("export csv: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
