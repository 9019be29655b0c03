// Package roster loads the per-competition team lists the rankings are
// computed over. Rosters live in flat JSON files named
// "{competition}_{division}.json"; they are read once at startup and cached
// in memory. A missing or malformed file degrades to an empty roster.
package roster

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

var ErrTeamNotFound = errors.New("team not found in any roster")

type Team struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Pair identifies one competition/division scoreboard.
type Pair struct {
	Competition string
	Division    string
}

// Key is the canonical lower-cased "{competition}_{division}" form used for
// roster lookup and channel naming.
func (p Pair) Key() string {
	return strings.ToLower(p.Competition + "_" + p.Division)
}

type Provider struct {
	dir    string
	teams  map[string][]Team // key -> ordered roster
	pairs  []Pair
	logger *zap.Logger
}

// Load scans dir for "{competition}_{division}.json" files and caches every
// roster it can parse. Files that fail to parse are logged and skipped; the
// pair is still registered so its scoreboard renders empty rather than 404s.
func Load(dir string, logger *zap.Logger) (*Provider, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	p := &Provider{
		dir:    dir,
		teams:  make(map[string][]Team),
		logger: logger,
	}

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		base := strings.TrimSuffix(e.Name(), ".json")
		comp, div, ok := strings.Cut(base, "_")
		if !ok {
			continue
		}
		pair := Pair{Competition: comp, Division: div}
		p.pairs = append(p.pairs, pair)

		teams, err := readRosterFile(filepath.Join(dir, e.Name()))
		if err != nil {
			logger.Warn("skipping unreadable roster file",
				zap.String("file", e.Name()), zap.Error(err))
			continue
		}
		p.teams[pair.Key()] = teams
	}

	// Deterministic pair order so Resolve and Pairs don't depend on
	// directory listing order.
	sort.Slice(p.pairs, func(i, j int) bool {
		return p.pairs[i].Key() < p.pairs[j].Key()
	})

	return p, nil
}

func readRosterFile(path string) ([]Team, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var teams []Team
	if err := json.Unmarshal(data, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// Teams returns the ordered roster for a pair, or an empty slice when the
// pair is unknown or its file was unreadable. Lookup is case-insensitive.
func (p *Provider) Teams(competition, division string) []Team {
	key := Pair{Competition: competition, Division: division}.Key()
	teams, ok := p.teams[key]
	if !ok || len(teams) == 0 {
		p.logger.Warn("empty or unknown roster",
			zap.String("competition", competition),
			zap.String("division", division))
		return []Team{}
	}
	out := make([]Team, len(teams))
	copy(out, teams)
	return out
}

// Pairs lists every known competition/division pair in key order.
func (p *Provider) Pairs() []Pair {
	out := make([]Pair, len(p.pairs))
	copy(out, p.pairs)
	return out
}

// Known reports whether a competition/division pair has a registered roster
// file, case-insensitively.
func (p *Provider) Known(competition, division string) bool {
	key := Pair{Competition: competition, Division: division}.Key()
	for _, pr := range p.pairs {
		if pr.Key() == key {
			return true
		}
	}
	return false
}

// Resolve finds which pair a team id belongs to. Team ids are only unique
// within a pair, so the scan takes the first match in key order.
func (p *Provider) Resolve(teamID int) (Pair, Team, error) {
	for _, pair := range p.pairs {
		for _, t := range p.teams[pair.Key()] {
			if t.ID == teamID {
				return pair, t, nil
			}
		}
	}
	return Pair{}, Team{}, ErrTeamNotFound
}
