package game

import "fmt"

// TargetTemplate defines how targets of one type are synthesized.
type TargetTemplate struct {
	Type            TargetType
	NamePrefixes    []string
	NameSuffixes    []string
	Ports           []int
	Security        SecurityLevel
	Vulnerabilities []string
}

// TargetTemplateRegistry holds the per-type templates.
var TargetTemplateRegistry = map[TargetType]TargetTemplate{
	TargetCorporate: {
		Type:            TargetCorporate,
		NamePrefixes:    []string{"Global", "Mega", "Tech", "Cyber", "Data"},
		NameSuffixes:    []string{"Corp", "Industries", "Systems", "Solutions", "Tech"},
		Ports:           []int{80, 443, 22, 3389},
		Security:        SecurityMedium,
		Vulnerabilities: []string{"SQL Injection", "Weak Password", "Default Password", "Service Misconfiguration"},
	},
	TargetBank: {
		Type:            TargetBank,
		NamePrefixes:    []string{"First", "Global", "Secure", "Digital", "World"},
		NameSuffixes:    []string{"Bank", "Financial", "Trust", "Banking", "Capital"},
		Ports:           []int{443, 8443, 22},
		Security:        SecurityHigh,
		Vulnerabilities: []string{"Zero Day Exploit", "Memory Leak", "API Misconfiguration", "Weak Backup Protocol"},
	},
	TargetResearch: {
		Type:            TargetResearch,
		NamePrefixes:    []string{"Advanced", "Future", "Quantum", "Bio", "Nano"},
		NameSuffixes:    []string{"Labs", "Research", "Science", "Institute", "Technologies"},
		Ports:           []int{80, 443, 22, 8080},
		Security:        SecurityMedium,
		Vulnerabilities: []string{"Container Escape", "API Misconfiguration", "Backup System Flaw", "Service Misconfiguration"},
	},
	TargetInfrastructure: {
		Type:            TargetInfrastructure,
		NamePrefixes:    []string{"Power", "Grid", "Network", "City", "Smart"},
		NameSuffixes:    []string{"Grid", "Systems", "Control", "Infrastructure", "Network"},
		Ports:           []int{80, 443, 22, 502},
		Security:        SecurityExtreme,
		Vulnerabilities: []string{"SCADA Exploit", "Control System Bypass", "Default Password", "Service Misconfiguration"},
	},
	TargetGovernment: {
		Type:            TargetGovernment,
		NamePrefixes:    []string{"Gov", "State", "Federal", "National", "Central"},
		NameSuffixes:    []string{"Agency", "Department", "Office", "Bureau", "Authority"},
		Ports:           []int{443, 8443, 22, 1433},
		Security:        SecurityExtreme,
		Vulnerabilities: []string{"Zero Day Exploit", "Admin Access Exploit", "SMB Exploit", "SNMP Exploit"},
	},
}

// GetTargetTemplate retrieves a template by type.
func GetTargetTemplate(t TargetType) (*TargetTemplate, error) {
	tpl, ok := TargetTemplateRegistry[t]
	if !ok {
		return nil, fmt.Errorf("target template not found: %s", t)
	}
	return &tpl, nil
}

// WeightedTargetType pairs a target type with its selection weight.
type WeightedTargetType struct {
	Type   TargetType
	Weight int
}

// TargetTable is the weighted type pool for one mission prefix.
type TargetTable struct {
	Prefix  string
	Entries []WeightedTargetType
}

// TargetTableRegistry maps mission prefixes to their preferred target types.
var TargetTableRegistry = map[string]TargetTable{
	"INF": {Prefix: "INF", Entries: []WeightedTargetType{{TargetCorporate, 1}, {TargetResearch, 1}}},
	"DAT": {Prefix: "DAT", Entries: []WeightedTargetType{{TargetBank, 1}, {TargetResearch, 1}}},
	"RAN": {Prefix: "RAN", Entries: []WeightedTargetType{{TargetCorporate, 1}, {TargetInfrastructure, 1}}},
	"BOT": {Prefix: "BOT", Entries: []WeightedTargetType{{TargetCorporate, 1}, {TargetInfrastructure, 1}}},
	"SAB": {Prefix: "SAB", Entries: []WeightedTargetType{{TargetInfrastructure, 1}, {TargetGovernment, 1}}},
}

// defaultTargetTable is used for unknown prefixes and for secondary targets.
var defaultTargetTable = TargetTable{
	Prefix: "ANY",
	Entries: []WeightedTargetType{
		{TargetCorporate, 1},
		{TargetBank, 1},
		{TargetResearch, 1},
		{TargetInfrastructure, 1},
		{TargetGovernment, 1},
	},
}

// TargetTableFor returns the table for a mission prefix, falling back to all types.
func TargetTableFor(prefix string) TargetTable {
	if table, ok := TargetTableRegistry[prefix]; ok {
		return table
	}
	return defaultTargetTable
}

// SelectType draws a type proportionally to the entry weights.
func (t TargetTable) SelectType(rng RNG) (TargetType, error) {
	total := 0
	for _, e := range t.Entries {
		if e.Weight > 0 {
			total += e.Weight
		}
	}
	if total == 0 {
		return "", fmt.Errorf("target table %s has no weighted entries", t.Prefix)
	}
	roll := rng.Intn(total)
	acc := 0
	for _, e := range t.Entries {
		if e.Weight <= 0 {
			continue
		}
		acc += e.Weight
		if roll < acc {
			return e.Type, nil
		}
	}
	return t.Entries[len(t.Entries)-1].Type, nil
}

// LootTemplate lists the files and databases seeded on a new target.
type LootTemplate struct {
	Files     []LootItem
	Databases []LootItem
}

var lootTemplates = map[TargetType]LootTemplate{
	TargetCorporate: {
		Databases: []LootItem{
			{"users.db", "2.3GB", 1500, true},
			{"financial.db", "1.8GB", 2500, true},
			{"emails.db", "3.1GB", 1000, false},
		},
		Files: []LootItem{
			{"passwords.txt", "156KB", 800, false},
			{"contracts.pdf", "2.1GB", 1200, true},
			{"employee_data.xlsx", "250MB", 1500, false},
		},
	},
	TargetBank: {
		Databases: []LootItem{
			{"transactions.db", "5.0GB", 5000, true},
			{"accounts.db", "3.2GB", 4000, true},
			{"audit_logs.db", "1.5GB", 2000, true},
		},
		Files: []LootItem{
			{"swift_codes.txt", "50KB", 3000, true},
			{"trading_algo.py", "1.2MB", 5000, true},
		},
	},
	TargetResearch: {
		Databases: []LootItem{
			{"research_data.db", "8.5GB", 5000, true},
			{"experiments.db", "3.2GB", 2500, true},
			{"prototypes.db", "2.1GB", 4000, true},
		},
		Files: []LootItem{
			{"research_notes.pdf", "450MB", 3000, true},
			{"prototype_specs.dwg", "250MB", 4000, true},
			{"test_results.xlsx", "180MB", 2000, false},
		},
	},
	TargetInfrastructure: {
		Databases: []LootItem{
			{"network_config.db", "1.2GB", 2000, true},
			{"monitoring.db", "4.5GB", 1500, false},
			{"security_logs.db", "3.0GB", 1800, true},
		},
		Files: []LootItem{
			{"access_codes.txt", "42KB", 2500, true},
			{"network_map.pdf", "15MB", 1000, false},
			{"security_policy.doc", "2.5MB", 800, false},
		},
	},
}

var defaultLootTemplate = LootTemplate{
	Databases: []LootItem{
		{"system.db", "1.0GB", 500, false},
		{"backup.db", "2.0GB", 800, true},
	},
	Files: []LootItem{
		{"config.txt", "128KB", 200, false},
		{"logs.txt", "500MB", 300, false},
	},
}

func lootTemplateFor(t TargetType) LootTemplate {
	if tpl, ok := lootTemplates[t]; ok {
		return tpl
	}
	return defaultLootTemplate
}
