package registry

import (
	"github.com/lixenwraith/evolution/genetic"
	"github.com/lixenwraith/evolution/genetic/persistence"
)

// RestoreFunc rebuilds a persisted population for one encoding and objective
type RestoreFunc func(dto persistence.PopulationDTO) (*genetic.Population, error)

// RunConfig defines one named evolution run
// Each run needs its own engine: engines and their random sources are not shared
type RunConfig struct {
	// Name doubles as the snapshot file name, no path separators
	Name    string
	Engine  *genetic.Engine
	Initial *genetic.Population
	// Stop is stateful and belongs to this run alone
	Stop    genetic.StoppingCondition
	// Restore resumes from a saved snapshot when present, nil always starts from Initial
	Restore RestoreFunc
}

// Stats holds run statistics
type Stats struct {
	State genetic.State
	// Generation includes generations evolved before a resumed snapshot
	Generation   int
	BestFitness  float64
	WorstFitness float64
	AvgFitness   float64
	Resumed      bool
}
