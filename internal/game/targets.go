package game

import (
	"fmt"
	"strings"
)

// GenerateTargets produces the primary and secondary targets of a mission.
// Primary targets are drawn from the mission prefix table, secondary ones
// from every type. Ids and IPs are unique within the returned set.
func GenerateTargets(missionID string, rng RNG) (primary, secondary []*Target) {
	prefix := missionPrefix(missionID)
	table := TargetTableFor(prefix)
	usedIPs := map[string]bool{}

	count := randomBetween(rng, 1, 3)
	for i := 0; i < count; i++ {
		typ, err := table.SelectType(rng)
		if err != nil {
			typ = TargetCorporate
		}
		tpl := TargetTemplateRegistry[typ]
		nVulns := randomBetween(rng, 2, 4)
		nPorts := randomBetween(rng, 2, len(tpl.Ports))
		t := NewTarget(
			fmt.Sprintf("%s_%d", prefix, i+1),
			synthName(rng, tpl),
			typ,
			tpl.Security,
			uniqueIP(rng, usedIPs),
			sampleInts(rng, tpl.Ports, nPorts),
			sampleStrings(rng, tpl.Vulnerabilities, nVulns),
		)
		t.DataValue = randomBetween(rng, 1000, 5000)
		t.SecuritySystems["firewall"] = &SecuritySystem{Active: true}
		t.SecuritySystems["ids"] = &SecuritySystem{Active: chance(rng, 0.5)}
		t.SecuritySystems["encryption"] = &SecuritySystem{Active: chance(rng, 0.5)}
		t.Critical = typ == TargetInfrastructure || typ == TargetGovernment
		primary = append(primary, t)
	}

	count = randomBetween(rng, 0, 2)
	for i := 0; i < count; i++ {
		typ, err := defaultTargetTable.SelectType(rng)
		if err != nil {
			typ = TargetCorporate
		}
		tpl := TargetTemplateRegistry[typ]
		t := NewTarget(
			fmt.Sprintf("SEC_%s_%d", missionID, i+1),
			synthName(rng, tpl),
			typ,
			SecurityMedium,
			uniqueIP(rng, usedIPs),
			sampleInts(rng, tpl.Ports, randomBetween(rng, 1, len(tpl.Ports))),
			sampleStrings(rng, tpl.Vulnerabilities, randomBetween(rng, 1, 2)),
		)
		t.DataValue = randomBetween(rng, 500, 2000)
		t.SecuritySystems["firewall"] = &SecuritySystem{Active: true}
		t.SecuritySystems["ids"] = &SecuritySystem{}
		t.SecuritySystems["encryption"] = &SecuritySystem{}
		t.Secondary = true
		secondary = append(secondary, t)
	}
	return primary, secondary
}

func missionPrefix(missionID string) string {
	id := strings.ToUpper(missionID)
	if i := strings.IndexByte(id, '_'); i > 0 {
		id = id[:i]
	}
	if len(id) > 3 {
		id = id[:3]
	}
	return id
}

func synthName(rng RNG, tpl TargetTemplate) string {
	return pickString(rng, tpl.NamePrefixes) + " " + pickString(rng, tpl.NameSuffixes)
}

func randomIP(rng RNG) string {
	return fmt.Sprintf("%d.%d.%d.%d",
		randomBetween(rng, 1, 255), randomBetween(rng, 1, 255),
		randomBetween(rng, 1, 255), randomBetween(rng, 1, 255))
}

func uniqueIP(rng RNG, used map[string]bool) string {
	for attempt := 0; attempt < 16; attempt++ {
		ip := randomIP(rng)
		if !used[ip] {
			used[ip] = true
			return ip
		}
	}
	// Exhausting 16 draws only happens with degenerate sources; derive a distinct address.
	ip := fmt.Sprintf("10.0.%d.%d", len(used)/250, len(used)%250+1)
	used[ip] = true
	return ip
}
