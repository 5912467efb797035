package game

import (
	"fmt"
	"strings"
)

// PayloadSpec describes a payload's passive effects per payload cycle.
type PayloadSpec struct {
	DataRate      int
	CreditRate    int
	DetectionRate float64
	Description   string
}

var payloadCatalog = map[string]PayloadSpec{
	"keylogger": {DataRate: 100, DetectionRate: 5, Description: "Capture les frappes clavier"},
	"backdoor":  {DataRate: 50, DetectionRate: 2, Description: "Installe une porte dérobée"},
	"miner":     {CreditRate: MinerCreditsPerCycle, DetectionRate: 8, Description: "Installe un mineur de crypto"},
	"trojan":    {DataRate: 150, DetectionRate: 10, Description: "Installe un cheval de Troie"},
}

var payloadOrder = []string{"keylogger", "backdoor", "miner", "trojan"}

// exploitEffect is the extra outcome of a successful exploit.
type exploitEffect struct {
	alert  float64
	loot   *StolenData
	credit int
	system string
}

var exploitEffects = map[string]exploitEffect{
	"SQL Injection":            {loot: &StolenData{Kind: lootDatabase, Value: 1000, Label: "Base de données compromise"}},
	"Weak Password":            {alert: -5},
	"Default Password":         {alert: -10},
	"Zero Day Exploit":         {alert: 30},
	"Memory Leak":              {credit: 500},
	"SCADA Exploit":            {system: "production"},
	"RDP Exploit":              {alert: 20},
	"Service Misconfiguration": {alert: -8},
	"Container Escape":         {alert: 25},
	"API Misconfiguration":     {loot: &StolenData{Kind: "api", Value: 800, Label: "Données API"}},
	"Backup System Flaw":       {loot: &StolenData{Kind: "backup", Value: 1200, Label: "Données de backup"}},
	"Admin Access Exploit":     {alert: 35},
	"SMB Exploit":              {loot: &StolenData{Kind: "files", Value: 600, Label: "Fichiers partagés"}},
	"Weak Backup Protocol":     {loot: &StolenData{Kind: "backup", Value: 900, Label: "Données de sauvegarde"}},
	"SNMP Exploit":             {alert: 15},
	"Control System Bypass":    {system: "control"},
}

var modifyAlert = map[string]float64{
	"production": 35,
	"security":   25,
	"network":    20,
}

func (s *Session) cmdCrack([]string) []string {
	if s.currentCompromised() {
		return []string{"Système déjà compromis"}
	}
	p := 0.7 - 0.1*float64(s.current.Security) + s.ToolBonus("crack")
	s.useTool(ToolRootkit, UsageNormal)
	if chance(s.rng, p) {
		s.markCompromised()
		s.UpdateAlertLevel(20)
		return []string{
			"Cracking réussi !",
			"Système compromis",
			"Utilisez 'help' pour voir les commandes disponibles",
		}
	}
	s.UpdateAlertLevel(30)
	return []string{
		"Échec du cracking",
		"La sécurité a été alertée",
		"Essayez une autre approche ou changez de cible",
	}
}

func (s *Session) cmdExploit(args []string) []string {
	t := s.current
	if len(args) == 0 {
		out := []string{"Vulnérabilités détectées:"}
		for _, v := range t.Vulnerabilities {
			out = append(out, "- "+v)
		}
		return append(out, "", "Usage: exploit <vulnerability>")
	}
	vuln := strings.Join(args, " ")
	if !t.HasVulnerability(vuln) {
		return []string{"Vulnérabilité non trouvée"}
	}

	p := 0.6 - 0.1*float64(t.Security) + s.ToolBonus("exploit")
	s.useTool(ToolExploitKit, UsageNormal)
	if !chance(s.rng, p) {
		s.UpdateAlertLevel(25)
		return []string{
			"Échec de l'exploitation",
			"La sécurité a été alertée",
			"Essayez une autre vulnérabilité",
		}
	}

	s.markCompromised()
	s.UpdateAlertLevel(15)
	eff := exploitEffects[vuln]
	if eff.alert != 0 {
		s.UpdateAlertLevel(eff.alert)
	}
	if eff.loot != nil {
		s.stolen = append(s.stolen, *eff.loot)
	}
	if eff.credit > 0 {
		s.Profile.AddCredits(eff.credit)
	}
	if eff.system != "" {
		t.MarkModified(eff.system, nil)
	}
	return []string{
		fmt.Sprintf("Exploitation de %s réussie !", vuln),
		"Système compromis",
		"Utilisez 'help' pour voir les commandes disponibles",
	}
}

func (s *Session) cmdInject(args []string) []string {
	if len(args) == 0 {
		out := []string{"Usage: inject <payload>", "Payloads disponibles:"}
		for _, name := range payloadOrder {
			out = append(out, fmt.Sprintf("- %-9s : %s", name, payloadCatalog[name].Description))
		}
		return out
	}
	payload := strings.ToLower(args[0])
	if _, ok := payloadCatalog[payload]; !ok {
		return []string{"Payload invalide"}
	}
	id := s.current.ID
	if _, active := s.payloads[id][payload]; active {
		return []string{"Ce payload est déjà actif sur cette cible"}
	}

	if !chance(s.rng, 0.8-0.1*float64(s.current.Security)) {
		s.UpdateAlertLevel(30)
		return []string{"Échec de l'injection", "Payload détecté et bloqué"}
	}
	if s.payloads[id] == nil {
		s.payloads[id] = map[string]float64{}
	}
	s.payloads[id][payload] = s.Now
	s.trace("Payload %s sur %s", payload, s.current.Name)
	s.UpdateAlertLevel(15)
	return []string{
		fmt.Sprintf("Injection du payload %s...", payload),
		"Injection réussie",
		"Payload actif",
	}
}

func (s *Session) cmdModify(args []string) []string {
	if len(args) == 0 {
		return []string{
			"Usage: modify <system> <parameter> <value>",
			"Systèmes disponibles:",
			"- production : Paramètres de production",
			"- security   : Paramètres de sécurité",
			"- network    : Configuration réseau",
		}
	}
	if len(args) < 3 {
		return []string{"Erreur: Paramètres manquants"}
	}
	system, param, value := args[0], args[1], args[2]
	s.current.MarkModified(system, map[string]string{param: value})
	s.trace("Modification %s.%s sur %s", system, param, s.current.Name)

	amount, ok := modifyAlert[system]
	if !ok {
		amount = 30
	}
	s.UpdateAlertLevel(amount)
	return []string{
		fmt.Sprintf("Modification de %s.%s = %s", system, param, value),
		"Changements appliqués",
		"Attention: Ces modifications peuvent être détectées",
	}
}
