package job

import "github.com/honeycarbs/jobscout/internal/domain"

// NoActiveProvider is returned by SelectActive when the system runs in demo mode
const NoActiveProvider = ""

// SelectActive returns the name of the first enabled provider in declaration order
func SelectActive(configs []domain.ProviderConfig) string {
	for _, cfg := range configs {
		if cfg.Enabled {
			return cfg.Name
		}
	}
	return NoActiveProvider
}
