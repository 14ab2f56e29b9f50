// Package catalog holds the static reference tables rasa ships with: the
// multi-vendor CLI command map and the incident list. Both are embedded YAML
// and can be replaced by operator-supplied files.
package catalog

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/joshsymonds/rasa/internal/models"
)

//go:embed data/*.yaml
var dataFS embed.FS

// Errors returned by lookups.
var (
	ErrIncidentNotFound = errors.New("incident not found")
	ErrNoTranslation    = errors.New("no translation found")
	ErrUnknownVendor    = errors.New("unknown vendor")
)

// Catalog is an immutable view over the command and incident tables.
type Catalog struct {
	commands  []models.CommandMapping
	incidents []models.Incident
}

type commandsFile struct {
	Commands []models.CommandMapping `yaml:"commands"`
}

type incidentsFile struct {
	Incidents []models.Incident `yaml:"incidents"`
}

// Sources names optional override files. Empty fields use the embedded data.
type Sources struct {
	CommandsFile  string
	IncidentsFile string
}

// Default loads the embedded tables.
func Default() (*Catalog, error) {
	return Load(Sources{})
}

// Load reads the tables, preferring override files when given.
func Load(src Sources) (*Catalog, error) {
	cmdData, err := readSource(src.CommandsFile, "data/commands.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading commands: %w", err)
	}
	incData, err := readSource(src.IncidentsFile, "data/incidents.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading incidents: %w", err)
	}

	var cf commandsFile
	if err := yaml.Unmarshal(cmdData, &cf); err != nil {
		return nil, fmt.Errorf("parsing commands YAML: %w", err)
	}
	var inf incidentsFile
	if err := yaml.Unmarshal(incData, &inf); err != nil {
		return nil, fmt.Errorf("parsing incidents YAML: %w", err)
	}

	c := &Catalog{commands: cf.Commands, incidents: inf.Incidents}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func readSource(path, embedded string) ([]byte, error) {
	if path == "" {
		return dataFS.ReadFile(embedded)
	}
	return os.ReadFile(path) //nolint:gosec // operator-supplied table
}

// Validate checks table integrity.
func (c *Catalog) Validate() error {
	for i, cmd := range c.commands {
		if cmd.Description == "" {
			return fmt.Errorf("command %d: description is required", i)
		}
		for _, v := range models.Vendors() {
			if strings.TrimSpace(cmd.Command(v)) == "" {
				return fmt.Errorf("command %d (%s): %s command is required", i, cmd.Description, v)
			}
		}
	}

	seen := make(map[string]bool, len(c.incidents))
	for i, inc := range c.incidents {
		if inc.ID == "" {
			return fmt.Errorf("incident %d: id is required", i)
		}
		if seen[inc.ID] {
			return fmt.Errorf("incident %s: duplicate id", inc.ID)
		}
		seen[inc.ID] = true
		if inc.Title == "" {
			return fmt.Errorf("incident %s: title is required", inc.ID)
		}
		if !models.IsValidSeverity(inc.Severity) {
			return fmt.Errorf("incident %s: invalid severity %q", inc.ID, inc.Severity)
		}
	}
	return nil
}

// Commands returns every command mapping in table order.
func (c *Catalog) Commands() []models.CommandMapping {
	out := make([]models.CommandMapping, len(c.commands))
	copy(out, c.commands)
	return out
}

// Search filters command mappings by a case-insensitive substring. With no
// vendor the term is matched against the description and every vendor
// column; with a vendor only that column is searched. An empty term matches
// every row.
func (c *Catalog) Search(term, vendor string) ([]models.CommandMapping, error) {
	if vendor != "" && !isVendor(vendor) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownVendor, vendor)
	}

	needle := strings.ToLower(term)
	out := []models.CommandMapping{}
	for _, cmd := range c.commands {
		var fields []string
		if vendor != "" {
			fields = []string{cmd.Command(vendor)}
		} else {
			fields = []string{cmd.Description, cmd.Cisco, cmd.Aruba, cmd.Ruckus}
		}
		for _, f := range fields {
			if strings.Contains(strings.ToLower(f), needle) {
				out = append(out, cmd)
				break
			}
		}
	}
	return out, nil
}

// Translate finds the row whose vendor column equals command, ignoring case
// and runs of whitespace.
func (c *Catalog) Translate(vendor, command string) (models.CommandMapping, error) {
	if !isVendor(vendor) {
		return models.CommandMapping{}, fmt.Errorf("%w: %s", ErrUnknownVendor, vendor)
	}
	want := normalizeCommand(command)
	for _, cmd := range c.commands {
		if normalizeCommand(cmd.Command(vendor)) == want {
			return cmd, nil
		}
	}
	return models.CommandMapping{}, fmt.Errorf("%w for %s command %q", ErrNoTranslation, vendor, command)
}

func normalizeCommand(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func isVendor(v string) bool {
	for _, known := range models.Vendors() {
		if v == known {
			return true
		}
	}
	return false
}

// Incidents returns every incident in table order.
func (c *Catalog) Incidents() []models.Incident {
	out := make([]models.Incident, len(c.incidents))
	copy(out, c.incidents)
	return out
}

// IncidentsBySeverity returns the incidents at severity. An empty severity
// returns all of them.
func (c *Catalog) IncidentsBySeverity(severity string) []models.Incident {
	if severity == "" {
		return c.Incidents()
	}
	out := []models.Incident{}
	for _, inc := range c.incidents {
		if inc.Severity == severity {
			out = append(out, inc)
		}
	}
	return out
}

// Incident looks an incident up by id.
func (c *Catalog) Incident(id string) (models.Incident, error) {
	for _, inc := range c.incidents {
		if inc.ID == id {
			return inc, nil
		}
	}
	return models.Incident{}, fmt.Errorf("%w: %s", ErrIncidentNotFound, id)
}

// SeverityCounts tallies incidents by severity.
func (c *Catalog) SeverityCounts() map[string]int {
	counts := make(map[string]int, len(models.ValidSeverities()))
	for _, inc := range c.incidents {
		counts[inc.Severity]++
	}
	return counts
}
