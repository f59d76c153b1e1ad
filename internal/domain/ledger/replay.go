package ledger

import "github.com/jhoicas/Facturacion-api/internal/domain/entity"

// ReplayResult resultado de reconstruir el stock desde el kardex.
type ReplayResult struct {
	Replayed   int64
	Current    int64
	Entries    int
	Consistent bool
	// BrokenAt primer registro cuyo NewStock no coincide con la suma acumulada (vacío si ninguno).
	BrokenAt string
}

// Replay suma Change desde 0 en orden cronológico y lo compara con el stock actual.
func Replay(logs []*entity.InventoryLog, current int64) ReplayResult {
	res := ReplayResult{Current: current, Entries: len(logs)}
	for _, l := range logs {
		res.Replayed += l.Change
		if res.BrokenAt == "" && l.NewStock != res.Replayed {
			res.BrokenAt = l.ID
		}
	}
	res.Consistent = res.Replayed == current && res.BrokenAt == ""
	return res
}
