package game

import (
	"fmt"
	"sort"
)

// LootItem is a file or database stored on a target.
type LootItem struct {
	Name      string `json:"name"`
	Size      string `json:"size"`
	Value     int    `json:"value"`
	Encrypted bool   `json:"encrypted"`
}

// SecuritySystem is one defensive subsystem of a target. Systems created by
// `modify` start inactive and carry the applied parameters.
type SecuritySystem struct {
	Active     bool              `json:"active"`
	Modified   bool              `json:"modified"`
	Parameters map[string]string `json:"parameters,omitempty"`
}

// Target represents one network node of a mission.
type Target struct {
	ID              string                     `json:"id"`
	Name            string                     `json:"name"`
	Type            TargetType                 `json:"type"`
	Security        SecurityLevel              `json:"security"`
	IP              string                     `json:"ip"`
	Ports           []int                      `json:"ports"`
	Vulnerabilities []string                   `json:"vulnerabilities"`
	SecuritySystems map[string]*SecuritySystem `json:"security_systems"`
	Files           map[string]LootItem        `json:"files"`
	Databases       map[string]LootItem        `json:"databases"`
	DataValue       int                        `json:"data_value"`
	Critical        bool                       `json:"critical"`
	Secondary       bool                       `json:"secondary"`
}

// NewTarget builds a target and fills its loot from the type template.
func NewTarget(id, name string, typ TargetType, security SecurityLevel, ip string, ports []int, vulns []string) *Target {
	t := &Target{
		ID:              id,
		Name:            name,
		Type:            typ,
		Security:        security,
		IP:              ip,
		Ports:           append([]int(nil), ports...),
		Vulnerabilities: append([]string(nil), vulns...),
		SecuritySystems: map[string]*SecuritySystem{},
		Files:           map[string]LootItem{},
		Databases:       map[string]LootItem{},
	}
	sort.Ints(t.Ports)
	tpl := lootTemplateFor(typ)
	for _, f := range tpl.Files {
		t.Files[f.Name] = f
	}
	for _, db := range tpl.Databases {
		t.Databases[db.Name] = db
	}
	return t
}

// HasPort reports whether port is open on the target.
func (t *Target) HasPort(port int) bool {
	for _, p := range t.Ports {
		if p == port {
			return true
		}
	}
	return false
}

// HasVulnerability reports whether vuln is present on the target.
func (t *Target) HasVulnerability(vuln string) bool {
	for _, v := range t.Vulnerabilities {
		if v == vuln {
			return true
		}
	}
	return false
}

// DefaultPort is the port used when connect omits one.
func (t *Target) DefaultPort() int {
	if len(t.Ports) == 0 {
		return 0
	}
	return t.Ports[0]
}

// SystemActive reports whether a named security system is switched on.
func (t *Target) SystemActive(name string) bool {
	sys := t.SecuritySystems[name]
	return sys != nil && sys.Active
}

// MarkModified flags a security system as tampered, creating it if needed.
func (t *Target) MarkModified(name string, params map[string]string) {
	sys := t.SecuritySystems[name]
	if sys == nil {
		sys = &SecuritySystem{}
		t.SecuritySystems[name] = sys
	}
	sys.Modified = true
	if len(params) > 0 {
		if sys.Parameters == nil {
			sys.Parameters = map[string]string{}
		}
		for k, v := range params {
			sys.Parameters[k] = v
		}
	}
}

// AnyModified reports whether any security system was tampered with.
func (t *Target) AnyModified() bool {
	for _, sys := range t.SecuritySystems {
		if sys.Modified {
			return true
		}
	}
	return false
}

// ListFiles renders the file listing for display.
func (t *Target) ListFiles() []string {
	return listLoot(t.Files, "📄")
}

// ListDatabases renders the database listing for display.
func (t *Target) ListDatabases() []string {
	return listLoot(t.Databases, "🗃️")
}

// TotalDataValue sums the value of every file and database.
func (t *Target) TotalDataValue() int {
	total := 0
	for _, f := range t.Files {
		total += f.Value
	}
	for _, db := range t.Databases {
		total += db.Value
	}
	return total
}

func listLoot(items map[string]LootItem, glyph string) []string {
	names := make([]string, 0, len(items))
	for name := range items {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]string, 0, len(names))
	for _, name := range names {
		item := items[name]
		g := glyph
		if item.Encrypted {
			g = "🔒"
		}
		out = append(out, fmt.Sprintf("%s (%s) - %s", item.Name, item.Size, g))
	}
	return out
}

// Protocol maps a port to its service name.
func Protocol(port int) string {
	switch port {
	case 21:
		return "FTP"
	case 22:
		return "SSH"
	case 23:
		return "Telnet"
	case 25:
		return "SMTP"
	case 80:
		return "HTTP"
	case 443:
		return "HTTPS"
	case 445:
		return "SMB"
	case 502:
		return "Modbus"
	case 1433:
		return "MSSQL"
	case 3306:
		return "MySQL"
	case 3389:
		return "RDP"
	case 5432:
		return "PostgreSQL"
	case 8080:
		return "HTTP-ALT"
	case 8443:
		return "HTTPS-ALT"
	case 9000:
		return "API"
	default:
		return "UNKNOWN"
	}
}

// ProtocolRisk is the protocol-specific part of connection risk.
func ProtocolRisk(protocol string) int {
	switch protocol {
	case "FTP":
		return 15
	case "Telnet":
		return 20
	case "HTTP":
		return 5
	case "HTTPS":
		return 2
	case "SSH":
		return 3
	case "RDP":
		return 15
	case "UNKNOWN":
		return 25
	default:
		return 10
	}
}

// ConnectionRisk computes the alert cost of opening a connection.
func ConnectionRisk(port int, security SecurityLevel, faction Faction) int {
	base := 10.0 + float64(ProtocolRisk(Protocol(port)))
	risk := int(base * security.RiskMultiplier() * ActionMultiplier(faction, ActionDetection))
	if risk > 100 {
		risk = 100
	}
	return risk
}
