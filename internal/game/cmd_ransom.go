package game

import (
	"fmt"
	"strconv"
	"strings"
)

func (s *Session) cmdRansom(args []string) []string {
	if len(args) == 0 {
		return []string{
			"Usage: ransom <action> [amount]",
			"Actions disponibles:",
			"- encrypt : Chiffre le système",
			"- demand  : Demande une rançon",
			"- status  : Vérifie le paiement",
			"- decrypt : Déchiffre le système (après paiement)",
		}
	}
	switch strings.ToLower(args[0]) {
	case "encrypt":
		return s.ransomEncrypt()
	case "demand":
		return s.ransomDemand(args[1:])
	case "status":
		return s.ransomStatus()
	case "decrypt":
		return s.ransomDecrypt()
	}
	return []string{"Action invalide"}
}

func (s *Session) ransomEncrypt() []string {
	id := s.current.ID
	if _, ok := s.encrypted[id]; ok {
		return []string{"Système déjà chiffré"}
	}
	s.useTool(ToolCryptolocker, UsageIntensive)
	s.encrypted[id] = &RansomRecord{EncryptTime: s.Now}
	s.trace("Chiffrement de %s", s.current.Name)
	s.UpdateAlertLevel(40)
	return []string{"Système chiffré avec succès"}
}

func (s *Session) ransomDemand(args []string) []string {
	if len(args) == 0 {
		return []string{"Usage: ransom demand <amount>"}
	}
	amount, err := strconv.Atoi(args[0])
	if err != nil {
		return []string{"Erreur: Montant invalide"}
	}
	if amount < RansomMinimum {
		return []string{fmt.Sprintf("Erreur: Montant minimum %d¢", RansomMinimum)}
	}
	rec, ok := s.encrypted[s.current.ID]
	if !ok {
		return []string{"Erreur: Système non chiffré"}
	}
	if rec.Amount > 0 {
		return []string{"Une demande de rançon existe déjà"}
	}
	deadline := s.Now + RansomDeadline
	rec.Amount = amount
	rec.DemandTime = s.Now
	rec.Deadline = &deadline
	return []string{
		fmt.Sprintf("Demande de rançon envoyée: %d¢", amount),
		"Message: 'Vos fichiers ont été chiffrés.'",
		fmt.Sprintf("Délai de paiement: %d minutes", int(RansomDeadline/60)),
		"Utilisez 'ransom status' pour vérifier l'état du paiement",
	}
}

func (s *Session) ransomStatus() []string {
	rec, ok := s.encrypted[s.current.ID]
	if !ok {
		return []string{"Aucun ransomware actif sur cette cible"}
	}
	if rec.Paid {
		return []string{
			"État: PAYÉ",
			fmt.Sprintf("Montant reçu: %d¢", rec.Amount),
			"Utilisez 'ransom decrypt' pour déchiffrer",
		}
	}
	if rec.Deadline == nil {
		return []string{"Aucune demande de rançon active"}
	}
	left := *rec.Deadline - s.Now
	if left > 0 {
		return []string{
			"État: EN ATTENTE",
			fmt.Sprintf("Montant demandé: %d¢", rec.Amount),
			fmt.Sprintf("Temps restant: %ds", int(left)),
		}
	}

	p := float64(rec.Amount) / 10000
	if p > RansomMaxPayChance {
		p = RansomMaxPayChance
	}
	if !chance(s.rng, p) {
		return []string{"Délai expiré - Paiement refusé"}
	}
	rec.Paid = true
	s.totalRansom += rec.Amount
	s.Profile.AddCredits(rec.Amount)
	if s.firstPaymentDelay < 0 {
		s.firstPaymentDelay = s.Now - rec.DemandTime
	}
	s.log.WithField("amount", rec.Amount).Info("ransom paid")
	return []string{
		"! Paiement reçu !",
		fmt.Sprintf("Montant: %d¢", rec.Amount),
		"Utilisez 'ransom decrypt' pour déchiffrer",
	}
}

func (s *Session) ransomDecrypt() []string {
	rec, ok := s.encrypted[s.current.ID]
	if !ok {
		return []string{"Système non chiffré"}
	}
	if !rec.Paid {
		return []string{"Erreur: Rançon non payée"}
	}
	if rec.Decrypted {
		return []string{"Système déjà déchiffré"}
	}
	if !s.loadout.Has(ToolDecryptor) {
		return []string{"Erreur: Outil de déchiffrement requis"}
	}
	s.useTool(ToolDecryptor, UsageNormal)
	rec.Decrypted = true
	s.UpdateAlertLevel(10)
	return []string{
		"Déchiffrement en cours...",
		"Système restauré avec succès",
		"Opération terminée",
	}
}
