package scoring

import (
	"math"
	"sort"

	"github.com/yourusername/longball/internal/config"
	"github.com/yourusername/longball/internal/models"
)

// Categorizer selects the day's top picks and splits them into tiers.
type Categorizer struct {
	topN            int
	lockQuantile    float64
	hotPickQuantile float64
}

// NewCategorizer creates a categorizer from tier configuration.
func NewCategorizer(cfg config.TiersConfig) *Categorizer {
	return &Categorizer{
		topN:            cfg.TopN,
		lockQuantile:    cfg.LockQuantile,
		hotPickQuantile: cfg.HotPickQuantile,
	}
}

// Categorize ranks the slate, keeps the top N, and assigns a tier to
// each kept prediction. The input slice is reordered in place; the
// returned slice aliases its head. Tiers are monotonic in rank: every
// lock outranks every hot pick, which outranks every sleeper.
func (c *Categorizer) Categorize(predictions []models.Prediction) []models.Prediction {
	if len(predictions) == 0 {
		return nil
	}

	RankPredictions(predictions)

	top := predictions
	if len(top) > c.topN {
		top = top[:c.topN]
	}

	lockCount, hotCount := c.tierCounts(top)
	for i := range top {
		switch {
		case i < lockCount:
			top[i].Category = models.CategoryLock
		case i < lockCount+hotCount:
			top[i].Category = models.CategoryHotPick
		default:
			top[i].Category = models.CategorySleeper
		}
	}
	return top
}

// tierCounts sizes the lock and hot-pick tiers. With five or more picks
// the split follows probability quantiles over the kept slate; tiny
// slates get fixed minimum tiers so every day has at least one lock.
func (c *Categorizer) tierCounts(top []models.Prediction) (locks, hots int) {
	n := len(top)
	if n < 5 {
		locks = maxInt(1, n/5)
		hots = maxInt(1, n/3)
		if locks+hots > n {
			hots = n - locks
		}
		return locks, hots
	}

	lockCut := quantile(top, c.lockQuantile)
	hotCut := quantile(top, c.hotPickQuantile)
	for _, p := range top {
		switch {
		case p.Probability >= lockCut:
			locks++
		case p.Probability >= hotCut:
			hots++
		}
	}
	return locks, hots
}

// quantile returns the q-th probability quantile of a ranked slate,
// using nearest-rank on the ascending distribution.
func quantile(top []models.Prediction, q float64) float64 {
	probs := make([]float64, len(top))
	for i, p := range top {
		probs[i] = p.Probability
	}
	sort.Float64s(probs)

	idx := int(math.Ceil(q*float64(len(probs)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(probs) {
		idx = len(probs) - 1
	}
	return probs[idx]
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
