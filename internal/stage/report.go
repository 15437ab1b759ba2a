package stage

import (
	"time"

	"github.com/stemsplit/bundle/internal/platform"
)

// Outcome is the terminal state of one asset class in a run.
type Outcome string

const (
	// OutcomeStaged means the asset was (re)acquired and committed
	OutcomeStaged Outcome = "staged"
	// OutcomeSkipped means the asset was already present
	OutcomeSkipped Outcome = "skipped"
	// OutcomeNotRequested means the run was told to leave the asset alone
	OutcomeNotRequested Outcome = "not-requested"
)

// AssetResult describes what a run did for one asset class.
type AssetResult struct {
	Asset    string
	Outcome  Outcome
	Paths    []string      // final paths of the asset's files
	Bytes    int64         // bytes downloaded, zero unless staged
	Duration time.Duration // time spent on the asset
}

// Report is the result of a staging run.
type Report struct {
	RunID    string
	Root     string
	Platform platform.Key
	Assets   []AssetResult
}
