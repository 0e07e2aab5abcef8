package encounter

import "time"

// Battle defaults used when the config leaves a tunable unset
const (
	DefaultAttackEnergyCost = 25
	DefaultStealFraction    = 0.10
	DefaultBaseExperience   = 20
	DefaultHospitalBase     = 30 * time.Minute
	DefaultHospitalPerPoint = time.Minute
	DefaultHospitalMax      = 24 * time.Hour

	// ExperiencePerLoserLevel is added to the winner's experience for each level of the loser
	ExperiencePerLoserLevel = 10
	// DamageScale is the defense divisor base: damage = power*100/(100+defense)
	DamageScale = 100
)

// Error messages
const (
	ErrMsgCrimeFailed    = "failed to commit crime %s: %w"
	ErrMsgMissionFailed  = "failed to complete mission %s: %w"
	ErrMsgTrainFailed    = "failed to train at %s: %w"
	ErrMsgAttackFailed   = "failed to resolve battle: %w"
	ErrMsgInvalidStatFmt = "%w: unknown stat %q"
	ErrMsgInvalidEnergy  = "%w: energy must be at least 1"
	ErrMsgSelfAttack     = "cannot attack yourself"
	ErrMsgWrongLocation  = "mission is only available at %s"
)

// Log messages
const (
	LogMsgCrimeCommitted   = "Crime committed"
	LogMsgMissionCompleted = "Mission completed"
	LogMsgGymTrained       = "Gym session completed"
	LogMsgBattleResolved   = "Battle resolved"
	LogMsgBountyClaimed    = "Bounty claimed"
	LogMsgReevaluateFailed = "Achievement evaluation failed"
)

// Span names
const (
	spanCrime   = "encounter.CommitCrime"
	spanMission = "encounter.CompleteMission"
	spanGym     = "encounter.Train"
	spanBattle  = "encounter.Attack"
)
