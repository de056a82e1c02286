package seed

import (
	"fmt"
	"math/rand"
)

// Resolution bounds for generated photos. Roughly half of them clear the
// default bonus threshold.
const (
	minDimension = 320
	maxDimension = 1600
)

// generateContributions builds synthetic photo contributions spread across
// the configured number of users.
func generateContributions(config *Config) []contribution {
	out := make([]contribution, config.NumContributions)
	for i := range out {
		userID := int64(rand.Intn(config.NumUsers) + 1)
		out[i] = contribution{
			UserID: userID,
			Name:   fmt.Sprintf("Usuario %d", userID),
			Width:  minDimension + rand.Intn(maxDimension-minDimension),
			Height: minDimension + rand.Intn(maxDimension-minDimension),
		}
	}
	return out
}
