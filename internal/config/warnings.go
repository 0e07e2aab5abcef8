package config

// Placeholder values shipped in .env.example
const (
	exampleDBPassword = "change_this_secure_password"
	exampleAPIKey     = "generate_with_openssl_rand_hex_32"
	productionEnv     = "prod"
)

// Warnings lists settings that load fine but should not reach production
func (c *Config) Warnings() []string {
	var warnings []string

	if c.APIKey == exampleAPIKey {
		warnings = append(warnings, WarnExampleAPIKey)
	}
	if c.StorageEngine == StoragePostgres && c.DBPassword == exampleDBPassword {
		warnings = append(warnings, WarnExampleDBPassword)
	}
	if c.Environment == productionEnv {
		if c.CooldownDevMode {
			warnings = append(warnings, WarnDevModeInProd)
		}
		if c.StorageEngine == StorageMemory {
			warnings = append(warnings, WarnMemoryInProd)
		}
	}
	if c.JournalPath == "" {
		warnings = append(warnings, WarnJournalDisabled)
	}

	return warnings
}
