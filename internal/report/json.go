package report

import (
	"time"

	"github.com/JonMunkholm/sigem/internal/core"
)

type jsonReport struct {
	ID       string                 `json:"id"`
	Source   string                 `json:"source"`
	LoadedAt time.Time              `json:"loaded_at"`
	Keyword  string                 `json:"keyword"`
	Summary  core.Summary           `json:"summary"`
	Skipped  int                    `json:"skipped"`
	Regions  []core.RegionAggregate `json:"regions"`
}
