package catalog

// Schema registered with the document validator
const SchemaName = "catalog.schema.json"

// Error message constants
const (
	ErrMsgReadFile        = "failed to read catalog file: %w"
	ErrMsgParseYAML       = "failed to parse catalog YAML: %w"
	ErrMsgSchema          = "catalog schema check failed: %w"
	ErrMsgStructValidate  = "%w: catalog validation failed: %v"
	ErrMsgDuplicateID     = "%w: duplicate %s id %q"
	ErrMsgRewardRange     = "%w: crime %q money_reward_min exceeds money_reward_max"
	ErrMsgNegativeAmount  = "%w: %s %q has negative %s"
	ErrMsgUnknownLocation = "%w: mission %q references unknown location %q"
	ErrMsgUnknownItem     = "%w: mission %q rewards unknown item %q"
	ErrMsgMissingDefault  = "%w: default location %q is not defined"
	ErrMsgBoosterType     = "%w: booster %q needs booster_type"
)

// Log messages
const (
	LogMsgCatalogLoaded = "Catalog loaded"
)
