package game

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// Command is the closed set of console commands.
type Command int

const (
	CmdHelp Command = iota
	CmdScan
	CmdConnect
	CmdDisconnect
	CmdCrack
	CmdExploit
	CmdInject
	CmdExfiltrate
	CmdDownload
	CmdLs
	CmdAnalyze
	CmdRansom
	CmdBotnet
	CmdStealth
	CmdModify
	CmdMarket
	CmdRepair
	CmdStatus
	CmdMission
	CmdTools
	CmdStats
	CmdClear
	CmdExit
	numCommands
)

var commandNames = [numCommands]string{
	CmdHelp:       "help",
	CmdScan:       "scan",
	CmdConnect:    "connect",
	CmdDisconnect: "disconnect",
	CmdCrack:      "crack",
	CmdExploit:    "exploit",
	CmdInject:     "inject",
	CmdExfiltrate: "exfiltrate",
	CmdDownload:   "download",
	CmdLs:         "ls",
	CmdAnalyze:    "analyze",
	CmdRansom:     "ransom",
	CmdBotnet:     "botnet",
	CmdStealth:    "stealth",
	CmdModify:     "modify",
	CmdMarket:     "market",
	CmdRepair:     "repair",
	CmdStatus:     "status",
	CmdMission:    "mission",
	CmdTools:      "tools",
	CmdStats:      "stats",
	CmdClear:      "clear",
	CmdExit:       "exit",
}

func (c Command) String() string {
	if c < 0 || c >= numCommands {
		return fmt.Sprintf("Command(%d)", int(c))
	}
	return commandNames[c]
}

// ParseCommand resolves a console word to a Command.
func ParseCommand(name string) (Command, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for c := Command(0); c < numCommands; c++ {
		if commandNames[c] == name {
			return c, true
		}
	}
	return 0, false
}

// requirement is the precondition checked before a handler runs.
type requirement int

const (
	needNothing requirement = iota
	needTarget
	needCompromise    // the current target is compromised
	needAnyCompromise // some target of the session is compromised
)

// commandHandler runs one command against a session.
type commandHandler interface {
	requires(args []string) requirement
	run(s *Session, args []string) []string
}

// handler is a commandHandler whose requirement may vary by sub-action.
type handler struct {
	need   requirement
	sub    map[string]requirement
	invoke func(s *Session, args []string) []string
}

func (h handler) requires(args []string) requirement {
	if len(args) > 0 {
		if r, ok := h.sub[strings.ToLower(args[0])]; ok {
			return r
		}
	}
	return h.need
}

func (h handler) run(s *Session, args []string) []string { return h.invoke(s, args) }

var handlers = map[Command]commandHandler{
	CmdHelp:       handler{invoke: (*Session).cmdHelp},
	CmdScan:       handler{invoke: (*Session).cmdScan},
	CmdConnect:    handler{invoke: (*Session).cmdConnect},
	CmdDisconnect: handler{need: needTarget, invoke: (*Session).cmdDisconnect},
	CmdCrack:      handler{need: needTarget, invoke: (*Session).cmdCrack},
	CmdExploit:    handler{need: needTarget, invoke: (*Session).cmdExploit},
	CmdInject:     handler{need: needCompromise, invoke: (*Session).cmdInject},
	CmdExfiltrate: handler{need: needCompromise, invoke: (*Session).cmdExfiltrate},
	CmdDownload:   handler{need: needCompromise, invoke: (*Session).cmdDownload},
	CmdLs:         handler{need: needTarget, invoke: (*Session).cmdLs},
	CmdAnalyze:    handler{need: needTarget, invoke: (*Session).cmdAnalyze},
	CmdRansom: handler{
		need:   needTarget,
		sub:    map[string]requirement{"encrypt": needCompromise, "demand": needCompromise},
		invoke: (*Session).cmdRansom,
	},
	CmdBotnet: handler{
		sub:    map[string]requirement{"add": needCompromise, "mine": needAnyCompromise},
		invoke: (*Session).cmdBotnet,
	},
	CmdStealth: handler{
		sub:    map[string]requirement{"clean": needAnyCompromise},
		invoke: (*Session).cmdStealth,
	},
	CmdModify:  handler{need: needCompromise, invoke: (*Session).cmdModify},
	CmdMarket:  handler{invoke: (*Session).cmdMarket},
	CmdRepair:  handler{invoke: (*Session).cmdRepair},
	CmdStatus:  handler{invoke: (*Session).cmdStatus},
	CmdMission: handler{invoke: (*Session).cmdMission},
	CmdTools:   handler{invoke: (*Session).cmdTools},
	CmdStats:   handler{invoke: (*Session).cmdStats},
	CmdClear:   handler{invoke: (*Session).cmdClear},
	CmdExit:    handler{invoke: (*Session).cmdExit},
}

// Execute splits a console line and runs it.
func (s *Session) Execute(line string) []string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	return s.ExecuteCommand(fields[0], fields[1:])
}

// ExecuteCommand runs one command and returns its output lines followed by
// any notices it raised. It never panics; handler failures become a single
// error line.
func (s *Session) ExecuteCommand(name string, args []string) (out []string) {
	name = strings.ToLower(name)
	defer func() {
		if r := recover(); r != nil {
			s.log.WithFields(logrus.Fields{"command": name, "panic": r}).Error("command handler failed")
			s.pending = nil
			out = []string{"Erreur interne: " + name}
		}
	}()

	if !s.running {
		return []string{"Session terminée"}
	}
	cmd, ok := ParseCommand(name)
	if !ok {
		return []string{"Commande inconnue: " + name}
	}
	h := handlers[cmd]
	switch h.requires(args) {
	case needTarget:
		if s.current == nil {
			return []string{"Erreur: Aucune cible connectée"}
		}
	case needCompromise:
		if s.current == nil {
			return []string{"Erreur: Aucune cible connectée"}
		}
		if !s.currentCompromised() {
			return []string{"Erreur: Système non compromis"}
		}
	case needAnyCompromise:
		if !s.compromised {
			return []string{"Erreur: Système non compromis"}
		}
	}

	s.log.WithFields(logrus.Fields{"command": name, "args": len(args)}).Debug("execute")
	out = h.run(s, args)
	return append(out, s.drain()...)
}

var commandHelp = []struct{ name, desc string }{
	{"scan", "Recherche des cibles"},
	{"connect", "Se connecte à une cible"},
	{"disconnect", "Se déconnecte de la cible"},
	{"crack", "Tente de craquer la sécurité"},
	{"exploit", "Exploite une vulnérabilité"},
	{"inject", "Injecte un payload"},
	{"analyze", "Analyse la cible"},
	{"ls", "Liste les données de la cible"},
	{"exfiltrate", "Vole des données"},
	{"download", "Télécharge un fichier"},
	{"modify", "Modifie un système"},
	{"ransom", "Gère les ransomwares"},
	{"botnet", "Gère le botnet"},
	{"stealth", "Actions furtives"},
	{"market", "Accède au marché noir"},
	{"repair", "Répare un outil"},
	{"tools", "Liste les outils"},
	{"stats", "Statistiques du joueur"},
	{"status", "État de la mission"},
	{"mission", "Détails des objectifs"},
	{"clear", "Efface l'écran"},
	{"exit", "Quitte la mission"},
}

func (s *Session) cmdHelp(args []string) []string {
	if len(args) == 0 {
		out := []string{"Commandes disponibles:"}
		for _, c := range commandHelp {
			out = append(out, c.name+" : "+c.desc)
		}
		return out
	}
	for _, c := range commandHelp {
		if c.name == args[0] {
			return []string{"Usage: " + c.name + " - " + c.desc}
		}
	}
	return []string{"Commande inconnue"}
}

func (s *Session) cmdClear([]string) []string { return []string{} }

func (s *Session) cmdExit([]string) []string {
	s.terminate("exit")
	return []string{"Déconnexion..."}
}
