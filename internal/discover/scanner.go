package discover

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// On-disk layout under a base path.
const (
	commandsDir = "commands"
	agentsDir   = "agents"
	teamsDir    = "teams"
	// versionMarker supplies both the result's version string and the
	// cache key: discovery rescans only when its mtime changes.
	versionMarker = "VERSION"
	// teamConfigFile is the per-team definition inside teams/<name>/.
	teamConfigFile = "config.json"
)

// timeNow is a package-level variable for testability.
var timeNow = time.Now

// Scanner discovers artifacts under base paths, caching per-path results.
type Scanner struct {
	cache *Cache
}

// NewScanner creates a scanner with a fresh cache.
func NewScanner() *Scanner {
	return &Scanner{cache: NewCache()}
}

// Discover scans basePath for command, agent, and team definitions.
// When the version marker's mtime is unchanged since the previous call
// for the same base path, the cached result is returned without touching
// the tree. The warnings slice records skipped artifacts; it is part of
// the cached payload so repeat calls report the same skips.
func (s *Scanner) Discover(basePath string) (Result, []Warning) {
	version, markerMTime, markerOK := readVersionMarker(basePath)

	if markerOK {
		if entry, ok := s.cache.get(basePath, markerMTime); ok {
			return entry.result, entry.warnings
		}
	}

	var warnings []Warning

	result := Result{
		Commands:     scanCommands(basePath, &warnings),
		Agents:       scanAgents(basePath, &warnings),
		Teams:        scanTeams(basePath, &warnings),
		BasePath:     basePath,
		Location:     locationOf(basePath),
		Version:      version,
		DiscoveredAt: timeNow(),
	}

	// Without a marker there is no invalidation signal, so the scan is
	// not cached and every call re-reads the tree.
	if markerOK {
		s.cache.put(basePath, cached{
			markerMTime: markerMTime,
			result:      result,
			warnings:    warnings,
		})
	}

	return result, warnings
}

// readVersionMarker reads the marker file's content and mtime.
func readVersionMarker(basePath string) (version string, mtime time.Time, ok bool) {
	path := filepath.Join(basePath, versionMarker)
	info, err := os.Stat(path)
	if err != nil {
		return "", time.Time{}, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", time.Time{}, false
	}
	return strings.TrimSpace(string(data)), info.ModTime(), true
}

// locationOf reports whether basePath is the per-user installation.
func locationOf(basePath string) Location {
	home, err := os.UserHomeDir()
	if err == nil && strings.HasPrefix(basePath, home+string(filepath.Separator)) {
		return LocationGlobal
	}
	return LocationLocal
}

// scanCommands walks commands/<namespace>/<verb>.md. Each file parses
// independently; structural failures append a warning and skip the file.
func scanCommands(basePath string, warnings *[]Warning) []CommandSpec {
	root := filepath.Join(basePath, commandsDir)
	namespaces, err := os.ReadDir(root)
	if err != nil {
		return []CommandSpec{}
	}

	var commands []CommandSpec
	for _, ns := range namespaces {
		if !ns.IsDir() {
			continue
		}
		files, err := os.ReadDir(filepath.Join(root, ns.Name()))
		if err != nil {
			continue
		}
		for _, f := range files {
			if f.IsDir() || !strings.HasSuffix(f.Name(), ".md") {
				continue
			}
			path := filepath.Join(root, ns.Name(), f.Name())
			cmd, err := parseCommandFile(path, ns.Name(), strings.TrimSuffix(f.Name(), ".md"))
			if err != nil {
				*warnings = append(*warnings, Warning{Path: path, Type: WarningParseError})
				continue
			}
			commands = append(commands, cmd)
		}
	}

	sort.Slice(commands, func(i, j int) bool { return commands[i].Name < commands[j].Name })
	if commands == nil {
		commands = []CommandSpec{}
	}
	return commands
}

// parseCommandFile parses one command definition.
func parseCommandFile(path, namespace, verb string) (CommandSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return CommandSpec{}, err
	}

	header, body, err := splitFrontmatter(string(data))
	if err != nil {
		return CommandSpec{}, err
	}

	var meta commandHeader
	if err := yaml.Unmarshal([]byte(header), &meta); err != nil {
		return CommandSpec{}, err
	}

	name := meta.Name
	if name == "" {
		name = namespace + ":" + verb
	}

	return CommandSpec{
		Name:         name,
		Description:  meta.Description,
		ArgumentHint: meta.ArgumentHint,
		AllowedTools: meta.AllowedTools,
		Agent:        meta.Agent,
		Objective:    extractObjective(body),
		FilePath:     path,
	}, nil
}

// scanAgents walks the flat agents directory. Files that fail structural
// parsing warn-and-skip; files whose agent name lacks the reserved prefix
// are excluded without a warning — that is a filter, not an error.
func scanAgents(basePath string, warnings *[]Warning) []AgentSpec {
	root := filepath.Join(basePath, agentsDir)
	files, err := os.ReadDir(root)
	if err != nil {
		return []AgentSpec{}
	}

	var agents []AgentSpec
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".md") {
			continue
		}
		path := filepath.Join(root, f.Name())
		agent, err := parseAgentFile(path)
		if err != nil {
			*warnings = append(*warnings, Warning{Path: path, Type: WarningParseError})
			continue
		}
		if !strings.HasPrefix(agent.Name, AgentPrefix) {
			continue
		}
		agents = append(agents, agent)
	}

	sort.Slice(agents, func(i, j int) bool { return agents[i].Name < agents[j].Name })
	if agents == nil {
		agents = []AgentSpec{}
	}
	return agents
}

// parseAgentFile parses one agent definition.
func parseAgentFile(path string) (AgentSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return AgentSpec{}, err
	}

	header, _, err := splitFrontmatter(string(data))
	if err != nil {
		return AgentSpec{}, err
	}

	var meta agentHeader
	if err := yaml.Unmarshal([]byte(header), &meta); err != nil {
		return AgentSpec{}, err
	}

	name := meta.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), ".md")
	}

	return AgentSpec{
		Name:        name,
		Description: meta.Description,
		Tools:       meta.Tools,
		Model:       meta.Model,
		Color:       meta.Color,
		FilePath:    path,
	}, nil
}

// rawTeam accepts both on-disk member shapes in one pass. The lead/id
// shape sets LeadAgentID and members carry agentId; the inline shape has
// no lead and members carry full agent definitions.
type rawTeam struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Topology    string `json:"topology"`
	LeadAgentID string `json:"leadAgentId"`
	Members     []struct {
		AgentID     string `json:"agentId"`
		Name        string `json:"name"`
		Role        string `json:"role"`
		Description string `json:"description"`
		Tools       string `json:"tools"`
		Model       string `json:"model"`
	} `json:"members"`
}

// scanTeams walks teams/<name>/config.json.
func scanTeams(basePath string, warnings *[]Warning) []TeamSpec {
	root := filepath.Join(basePath, teamsDir)
	dirs, err := os.ReadDir(root)
	if err != nil {
		return []TeamSpec{}
	}

	var teams []TeamSpec
	for _, d := range dirs {
		if !d.IsDir() {
			continue
		}
		path := filepath.Join(root, d.Name(), teamConfigFile)
		team, err := parseTeamFile(path, d.Name())
		if err != nil {
			if os.IsNotExist(err) {
				continue // folder without a config is not a team
			}
			*warnings = append(*warnings, Warning{Path: path, Type: WarningParseError})
			continue
		}
		teams = append(teams, team)
	}

	sort.Slice(teams, func(i, j int) bool { return teams[i].Name < teams[j].Name })
	if teams == nil {
		teams = []TeamSpec{}
	}
	return teams
}

// parseTeamFile parses one team config and normalizes its member list.
// A lead agent referenced by ID counts as a member; the inline shape
// already lists every member, lead included.
func parseTeamFile(path, dirName string) (TeamSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return TeamSpec{}, err
	}

	var raw rawTeam
	if err := json.Unmarshal(data, &raw); err != nil {
		return TeamSpec{}, err
	}

	name := raw.Name
	if name == "" {
		name = dirName
	}

	members := make([]TeamMember, 0, len(raw.Members)+1)
	if raw.LeadAgentID != "" {
		members = append(members, TeamMember{AgentID: raw.LeadAgentID, Role: "lead"})
	}
	for _, m := range raw.Members {
		members = append(members, TeamMember{
			AgentID:     m.AgentID,
			Name:        m.Name,
			Role:        m.Role,
			Description: m.Description,
			Tools:       m.Tools,
			Model:       m.Model,
		})
	}

	return TeamSpec{
		Name:        name,
		Description: raw.Description,
		Topology:    raw.Topology,
		Members:     members,
		MemberCount: len(members),
		FilePath:    path,
	}, nil
}
