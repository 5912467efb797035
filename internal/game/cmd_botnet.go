package game

import (
	"fmt"
	"strings"
)

func (s *Session) cmdBotnet(args []string) []string {
	if len(args) == 0 {
		return []string{
			"Usage: botnet <action>",
			"Actions disponibles:",
			"- add     : Ajoute la cible actuelle au botnet",
			"- list    : Liste les machines du botnet",
			"- attack  : Lance une attaque DDoS",
			"- mine    : Lance le minage de crypto",
			"- status  : État du botnet",
		}
	}
	size := len(s.botnetOrder)
	switch strings.ToLower(args[0]) {
	case "add":
		id := s.current.ID
		if s.botnet[id] {
			return []string{"Cette machine fait déjà partie du botnet"}
		}
		s.botnet[id] = true
		s.botnetOrder = append(s.botnetOrder, id)
		s.trace("Enrôlement de %s dans le botnet", s.current.Name)
		s.UpdateAlertLevel(20)
		return []string{"Machine ajoutée au botnet", fmt.Sprintf("Taille actuelle: %d", len(s.botnetOrder))}
	case "list":
		if size == 0 {
			return []string{"Botnet vide"}
		}
		out := []string{"Machines dans le botnet:"}
		for _, id := range s.botnetOrder {
			if t := s.targetByID(id); t != nil {
				out = append(out, fmt.Sprintf("- %s (%s)", t.Name, t.IP))
			}
		}
		return out
	case "attack":
		if size < BotnetAttackMinimum {
			return []string{fmt.Sprintf("Erreur: Minimum %d machines requises", BotnetAttackMinimum)}
		}
		s.UpdateAlertLevel(40)
		return []string{"Attaque DDoS lancée", fmt.Sprintf("Dommages: %d", size*BotnetDamagePerNode)}
	case "mine":
		if size == 0 {
			return []string{"Erreur: Botnet vide"}
		}
		gain := size * BotnetCreditsPerNode
		s.Profile.AddCredits(gain)
		s.miningCycles++
		s.miningIncome += gain
		s.UpdateAlertLevel(15)
		return []string{"Minage en cours...", fmt.Sprintf("Gains: %d¢", gain)}
	case "status":
		return []string{
			fmt.Sprintf("Taille du botnet: %d", size),
			fmt.Sprintf("Puissance: %d", size*BotnetDamagePerNode),
			fmt.Sprintf("Revenu/min: %d¢", size*BotnetCreditsPerNode),
		}
	}
	return []string{"Action invalide"}
}
