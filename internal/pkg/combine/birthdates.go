package combine

import (
	"math/rand"
	"time"

	"github.com/dkoromyslov/tennispipe/internal/pkg/models"
)

// DefaultBirthdateSeed keeps repeated runs over the same roster
// byte-identical unless the config overrides it.
const DefaultBirthdateSeed = 42

// Synthetic birthdates are drawn from [1970-01-01, 2005-12-31).
var (
	birthdateMin = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	birthdateMax = time.Date(2005, 12, 31, 0, 0, 0, 0, time.UTC)
)

// AssignBirthdates fills in a placeholder birthdate for every roster entry.
//
// The source exposes no biographical data, so ages are computed from these
// synthetic dates. They are NOT real: treat any age feature downstream as a
// stand-in until a proper players endpoint is wired up. Draws come from the
// caller's generator in roster order, so a fixed seed plus a fixed roster
// yields identical dates on every run.
func AssignBirthdates(roster []models.ParticipantRecord, rng *rand.Rand) {
	lo := birthdateMin.Unix()
	hi := birthdateMax.Unix()
	for i := range roster {
		ts := lo + rng.Int63n(hi-lo)
		roster[i].Birthdate = time.Unix(ts, 0).UTC().Truncate(24 * time.Hour)
	}
}
