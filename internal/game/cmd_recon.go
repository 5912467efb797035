package game

import (
	"fmt"
	"strconv"
	"strings"
)

var vulnerabilityDescriptions = map[string]string{
	"SQL Injection":            "Permet d'extraire des données de la base",
	"Weak Password":            "Authentification faible, facilement contournable",
	"Default Password":         "Mots de passe par défaut non changés",
	"Zero Day Exploit":         "Vulnérabilité critique non corrigée",
	"Memory Leak":              "Fuite de mémoire exploitable",
	"SCADA Exploit":            "Vulnérabilité dans le système de contrôle",
	"RDP Exploit":              "Accès distant compromis",
	"Service Misconfiguration": "Services mal configurés",
	"Container Escape":         "Isolation des conteneurs compromise",
	"API Misconfiguration":     "API mal sécurisée",
	"Backup System Flaw":       "Système de backup vulnérable",
	"Admin Access Exploit":     "Accès administrateur compromis",
	"SMB Exploit":              "Partage de fichiers vulnérable",
	"Weak Backup Protocol":     "Protocole de sauvegarde non sécurisé",
	"SNMP Exploit":             "Protocole de surveillance compromis",
	"Control System Bypass":    "Contournement du système de contrôle",
}

var securitySystemLabels = []struct{ key, label string }{
	{"firewall", "Pare-feu réseau"},
	{"ids", "Système de détection d'intrusion"},
	{"encryption", "Chiffrement des données"},
}

func joinPorts(ports []int) string {
	parts := make([]string, len(ports))
	for i, p := range ports {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, ", ")
}

// connectionRisk applies the temporary detection bonus on top of ConnectionRisk.
func (s *Session) connectionRisk(t *Target, port int) int {
	risk := ConnectionRisk(port, t.Security, s.Profile.Faction)
	if b := s.activeBonus(BonusDetection); b > 0 {
		risk = int(float64(risk) / (1 + b))
	}
	return risk
}

func (s *Session) cmdScan([]string) []string {
	if s.current != nil {
		return []string{"Erreur: Déjà connecté à une cible"}
	}
	out := []string{"Scan en cours..."}
	for _, t := range s.targets {
		out = append(out,
			"",
			"Cible détectée: "+t.Name,
			"IP: "+t.IP,
			"Ports ouverts: "+joinPorts(t.Ports),
			fmt.Sprintf("Niveau de sécurité: %d", int(t.Security)),
		)
	}
	s.UpdateAlertLevel(5)
	return out
}

func (s *Session) cmdConnect(args []string) []string {
	if len(args) == 0 {
		return []string{"Usage: connect <ip> [port]"}
	}
	if s.current != nil {
		return []string{"Erreur: Déjà connecté à une cible", "Utilisez 'disconnect' avant de changer de cible"}
	}
	t := s.targetByIP(args[0])
	if t == nil {
		return []string{fmt.Sprintf("Erreur: Cible %s non trouvée", args[0])}
	}
	port := t.DefaultPort()
	if len(args) > 1 {
		p, err := strconv.Atoi(args[1])
		if err != nil {
			return []string{"Erreur: Port invalide"}
		}
		if !t.HasPort(p) {
			return []string{
				fmt.Sprintf("Erreur: Port %d fermé", p),
				"Ports disponibles: " + joinPorts(t.Ports),
			}
		}
		port = p
	}

	next := StateConnected
	if s.compromisedTargets[t.ID] {
		next = StateCompromised
	}
	if err := s.transition(next); err != nil {
		s.log.WithError(err).Warn("connect rejected")
		return []string{"Erreur: Connexion impossible"}
	}
	protocol := Protocol(port)
	risk := s.connectionRisk(t, port)
	s.current = t
	s.trace("Connexion à %s (%s:%d)", t.Name, t.IP, port)
	s.UpdateAlertLevel(float64(risk))
	return []string{
		"Connexion établie avec " + t.Name,
		"Protocol: " + protocol,
		fmt.Sprintf("Niveau de sécurité: %d", int(t.Security)),
		fmt.Sprintf("Risque de détection: %d%%", risk),
		"Utilisez 'analyze' pour scanner les vulnérabilités",
	}
}

func (s *Session) cmdDisconnect([]string) []string {
	name := s.current.Name
	if err := s.transition(StateDisconnected); err != nil {
		s.log.WithError(err).Warn("disconnect rejected")
		return []string{"Erreur: Déconnexion impossible"}
	}
	s.current = nil
	return []string{"Déconnexion de " + name}
}

func (s *Session) cmdAnalyze([]string) []string {
	t := s.current
	out := []string{
		"=== Analyse de " + t.Name + " ===",
		"Type: " + string(t.Type),
		fmt.Sprintf("Niveau de sécurité: %d", int(t.Security)),
		"",
		"=== Ports et Services ===",
	}
	for _, port := range t.Ports {
		out = append(out, fmt.Sprintf("Port %d (%s) - Risque: %d%%", port, Protocol(port), s.connectionRisk(t, port)))
	}

	out = append(out, "", "=== Vulnérabilités détectées ===")
	for _, v := range t.Vulnerabilities {
		out = append(out, "- "+v)
		if desc, ok := vulnerabilityDescriptions[v]; ok {
			out = append(out, "  Description: "+desc)
		}
	}

	out = append(out, "", "=== Systèmes de sécurité ===")
	for _, sys := range securitySystemLabels {
		if _, ok := t.SecuritySystems[sys.key]; !ok {
			continue
		}
		status := "✗ Inactif"
		if t.SystemActive(sys.key) {
			status = "✓ Actif"
		}
		out = append(out, sys.label+": "+status)
	}

	if s.currentCompromised() {
		out = append(out,
			"",
			"=== Données disponibles ===",
			fmt.Sprintf("Valeur totale estimée: %d¢", t.TotalDataValue()),
			"",
			"Bases de données:",
		)
		for _, db := range t.ListDatabases() {
			out = append(out, "- "+db)
		}
		out = append(out, "", "Fichiers:")
		for _, f := range t.ListFiles() {
			out = append(out, "- "+f)
		}
	}
	s.UpdateAlertLevel(5)
	return out
}

func (s *Session) cmdLs([]string) []string {
	if !s.currentCompromised() {
		return []string{"Accès refusé: système non compromis"}
	}
	out := []string{"Bases de données disponibles:"}
	out = append(out, s.current.ListDatabases()...)
	out = append(out, "", "Fichiers disponibles:")
	return append(out, s.current.ListFiles()...)
}
