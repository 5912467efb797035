package game

const (
	AlertMax               = 100.0 // alert gauge ceiling
	AlertDetectAt          = 80.0  // detection latch threshold
	MissionDuration        = 1800.0
	TimeBonusFraction      = 0.75 // completion before this share of MissionDuration earns the time bonus
	BotnetIncomeInterval   = 60.0
	ToolDecayInterval      = 300.0
	AlertDecayInterval     = 30.0
	PayloadInterval        = 60.0
	AutosaveInterval       = 300.0
	PayloadLifetime        = 86400.0 // 24h of session time
	RandomEventChance      = 0.05
	FactionEventChance     = 0.3
	FactionEventDiscount   = 0.7
	TemporaryBonusValue    = 0.2
	TemporaryBonusDuration = 300.0
	RansomDeadline         = 300.0
	RansomMinimum          = 100
	RansomMaxPayChance     = 0.7
	BotnetAttackMinimum    = 3
	BotnetCreditsPerNode   = 50
	BotnetDamagePerNode    = 100
	MinerCreditsPerCycle   = 200
	LevelMilestoneEvery    = 5
	LevelMilestoneCredits  = 500
	TickHz                 = 1.0 // host loop rate
	Dt                     = 1.0 / TickHz
)

// Tool names referenced by handlers and bonus calculations.
const (
	ToolVPN          = "vpn"
	ToolCleaner      = "cleaner"
	ToolRootkit      = "rootkit"
	ToolExploitKit   = "exploit_kit"
	ToolDecryptor    = "decryptor"
	ToolCryptolocker = "cryptolocker"
	ToolKeylogger    = "keylogger"
)

// Hardware slots on a player rig.
const (
	HardwareCPU     = "cpu"
	HardwareRAM     = "ram"
	HardwareNetwork = "network"
	HardwareCooling = "cooling"
)
