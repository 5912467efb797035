package game

import (
	"fmt"
	"strings"
)

// MarketItem is one entry of the black market price list.
type MarketItem struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Price    int    `json:"price"`
	Hardware string `json:"hardware,omitempty"` // slot raised by hardware items
}

// MarketTools and MarketHardware are the black market tariff.
var (
	MarketTools = []MarketItem{
		{Name: ToolDecryptor, Label: "Décryptage", Price: 2000},
		{Name: ToolVPN, Label: "Protection", Price: 1500},
		{Name: ToolRootkit, Label: "Exploitation", Price: 3000},
		{Name: ToolCleaner, Label: "Nettoyage", Price: 1000},
	}
	MarketHardware = []MarketItem{
		{Name: "cpu_upgrade", Label: "Processeur amélioré", Price: 5000, Hardware: HardwareCPU},
		{Name: "ram_upgrade", Label: "Mémoire augmentée", Price: 4000, Hardware: HardwareRAM},
		{Name: "network_card", Label: "Carte réseau pro", Price: 3500, Hardware: HardwareNetwork},
		{Name: "cooling_system", Label: "Système de refroidissement", Price: 2500, Hardware: HardwareCooling},
	}
)

func findMarketItem(name string) (MarketItem, bool) {
	for _, it := range MarketTools {
		if it.Name == name {
			return it, true
		}
	}
	for _, it := range MarketHardware {
		if it.Name == name {
			return it, true
		}
	}
	return MarketItem{}, false
}

func lootKey(t *Target, kind, name string) string {
	return t.ID + "/" + kind + "/" + name
}

// steal records one loot item of the current target; it reports false when
// the item was already taken.
func (s *Session) steal(kind string, item LootItem) bool {
	key := lootKey(s.current, kind, item.Name)
	if s.exfiltrated[key] {
		return false
	}
	s.exfiltrated[key] = true
	s.stolen = append(s.stolen, StolenData{Kind: kind, Value: item.Value, Label: item.Name})
	return true
}

func (s *Session) cmdExfiltrate(args []string) []string {
	if len(args) == 0 {
		return []string{
			"Usage: exfiltrate <type> <nom>",
			"Types disponibles:",
			"- file     : Fichier spécifique",
			"- database : Base de données",
			"- all      : Toutes les données",
		}
	}
	t := s.current
	kind := strings.ToLower(args[0])
	if kind == "all" {
		count, total := 0, 0
		for _, name := range sortedKeys(t.Files) {
			if f := t.Files[name]; !f.Encrypted && s.steal(lootFile, f) {
				count++
				total += f.Value
			}
		}
		for _, name := range sortedKeys(t.Databases) {
			if db := t.Databases[name]; !db.Encrypted && s.steal(lootDatabase, db) {
				count++
				total += db.Value
			}
		}
		s.trace("Exfiltration massive depuis %s", t.Name)
		s.UpdateAlertLevel(50)
		return []string{
			"Exfiltration massive en cours...",
			fmt.Sprintf("Données volées: %d", count),
			fmt.Sprintf("Valeur totale: %d¢", total),
		}
	}
	if len(args) < 2 {
		return []string{"Erreur: Nom de la donnée requis"}
	}

	name := args[1]
	var (
		item   LootItem
		ok     bool
		amount float64
	)
	switch kind {
	case lootFile:
		if item, ok = t.Files[name]; !ok {
			return []string{"Fichier non trouvé"}
		}
		if item.Encrypted {
			return []string{"Erreur: Fichier chiffré"}
		}
		amount = 20
	case lootDatabase:
		if item, ok = t.Databases[name]; !ok {
			return []string{"Base de données non trouvée"}
		}
		if item.Encrypted {
			return []string{"Erreur: Base de données chiffrée"}
		}
		amount = 30
	default:
		return []string{"Type de donnée invalide"}
	}
	if !s.steal(kind, item) {
		return []string{"Données déjà exfiltrées: " + name}
	}
	s.trace("Exfiltration de %s depuis %s", name, t.Name)
	s.UpdateAlertLevel(amount)
	return []string{
		"Exfiltration de " + name,
		"Taille: " + item.Size,
		fmt.Sprintf("Valeur: %d¢", item.Value),
	}
}

func (s *Session) cmdDownload(args []string) []string {
	if len(args) == 0 {
		return []string{"Usage: download <filename>"}
	}
	t := s.current
	name := args[0]
	hasDecryptor := s.loadout.Has(ToolDecryptor)

	if f, ok := t.Files[name]; ok {
		if f.Encrypted && !hasDecryptor {
			return []string{"Erreur: Fichier chiffré - Outil de décryptage requis"}
		}
		if f.Encrypted {
			s.useTool(ToolDecryptor, UsageCareful)
		}
		if !s.steal(lootFile, f) {
			return []string{"Données déjà exfiltrées: " + name}
		}
		s.trace("Téléchargement de %s depuis %s", name, t.Name)
		s.UpdateAlertLevel(15)
		return []string{"Téléchargement de " + name, "Taille: " + f.Size, "Téléchargement terminé"}
	}
	if db, ok := t.Databases[name]; ok {
		if db.Encrypted && !hasDecryptor {
			return []string{"Erreur: Base de données chiffrée - Outil de décryptage requis"}
		}
		if db.Encrypted {
			s.useTool(ToolDecryptor, UsageNormal)
		}
		if !s.steal(lootDatabase, db) {
			return []string{"Données déjà exfiltrées: " + name}
		}
		s.trace("Extraction de %s depuis %s", name, t.Name)
		s.UpdateAlertLevel(25)
		return []string{"Extraction de " + name, "Taille: " + db.Size, "Extraction terminée"}
	}
	return []string{"Fichier non trouvé: " + name}
}

func (s *Session) cmdMarket(args []string) []string {
	if len(args) == 0 {
		return []string{
			"Usage: market <action> [item]",
			"Actions disponibles:",
			"- buy   : Acheter un item",
			"- sell  : Vendre des données",
			"- list  : Liste des items disponibles",
			"- price : Prix des données",
		}
	}
	switch strings.ToLower(args[0]) {
	case "list":
		out := []string{"=== Marché Noir ===", "Outils disponibles:"}
		for _, it := range MarketTools {
			out = append(out, fmt.Sprintf("- %-9s : %s (%d¢)", it.Name, it.Label, it.Price))
		}
		out = append(out, "", "Hardware disponible:")
		for _, it := range MarketHardware {
			out = append(out, fmt.Sprintf("- %-14s : %s (%d¢)", it.Name, it.Label, it.Price))
		}
		return out
	case "buy":
		if len(args) < 2 {
			return []string{"Usage: market buy <item>"}
		}
		return s.buy(strings.ToLower(args[1]))
	case "sell":
		if len(s.stolen) == 0 {
			return []string{"Aucune donnée à vendre"}
		}
		total := s.StolenValue()
		sold := len(s.stolen)
		s.Profile.AddCredits(total)
		s.stolen = nil
		return []string{
			fmt.Sprintf("Données vendues: %d", sold),
			fmt.Sprintf("Valeur totale: %d¢", total),
			fmt.Sprintf("Nouveau solde: %d¢", s.Profile.Credits),
		}
	case "price":
		return []string{
			"Prix des données:",
			"- Données personnelles : 100-500¢",
			"- Données financières  : 500-2000¢",
			"- Secrets industriels  : 2000-5000¢",
			"- Données de recherche : 3000-8000¢",
		}
	}
	return []string{"Action invalide"}
}

func (s *Session) buy(name string) []string {
	it, ok := findMarketItem(name)
	if !ok {
		return []string{"Article inconnu: " + name}
	}
	if it.Hardware == "" && s.loadout.Has(it.Name) {
		return []string{"Outil déjà possédé: " + it.Name}
	}
	if !s.Profile.SpendCredits(it.Price) {
		return []string{fmt.Sprintf("Crédits insuffisants (%d¢ requis)", it.Price)}
	}
	out := []string{fmt.Sprintf("Achat de %s effectué (%d¢)", it.Name, it.Price)}
	if it.Hardware != "" {
		if s.Profile.Hardware == nil {
			s.Profile.Hardware = map[string]HardwareSlot{}
		}
		slot := s.Profile.Hardware[it.Hardware]
		slot.Level++
		if slot.Bonus == 0 {
			slot.Bonus = 0.1
		}
		s.Profile.Hardware[it.Hardware] = slot
		out = append(out, fmt.Sprintf("%s: Niveau %d", it.Label, slot.Level))
	} else {
		s.loadout.Add(it.Name)
	}
	s.log.WithField("item", it.Name).Info("market purchase")
	return append(out, fmt.Sprintf("Nouveau solde: %d¢", s.Profile.Credits))
}

func (s *Session) cmdRepair(args []string) []string {
	if len(args) == 0 {
		return []string{"Usage: repair <tool>"}
	}
	tool := strings.ToLower(args[0])
	d, ok := s.loadout.Durability[tool]
	if !ok {
		return []string{"Outil non trouvé"}
	}
	cost := int((100 - d) * 10)
	if !s.Profile.SpendCredits(cost) {
		return []string{fmt.Sprintf("Crédits insuffisants (%d¢ requis)", cost)}
	}
	s.loadout.Repair(tool)
	return []string{
		fmt.Sprintf("Réparation de %s effectuée", tool),
		fmt.Sprintf("Coût: %d¢", cost),
		fmt.Sprintf("Crédits restants: %d¢", s.Profile.Credits),
	}
}
