package automation

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	"github.com/kalviumcommunity/S56-Shreyas-OOP-Home-Automation-System/internal/device"
)

const schemaResource = "routines.schema.json"

//go:embed routines.schema.json
var schemaDoc []byte

// RoutineSchema returns the compiled routine file schema.
// The schema is compiled once on first use.
var RoutineSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaDoc))
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaResource, doc); err != nil {
		return nil, fmt.Errorf("failed to add resource: %w", err)
	}
	compiled, err := c.Compile(schemaResource)
	if err != nil {
		return nil, fmt.Errorf("failed to compile: %w", err)
	}
	return compiled, nil
})

// routineFile is the decoded shape of a routine definition document.
type routineFile struct {
	Routines []routineEntry `json:"routines"`
}

type routineEntry struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Rules       []ruleEntry `json:"rules"`
}

type ruleEntry struct {
	Kinds  []string       `json:"kinds"`
	Power  any            `json:"power"`
	Set    map[string]int `json:"set"`
	Invoke *bool          `json:"invoke"`
}

// LoadRoutineFile reads and parses a YAML routine definition file.
func LoadRoutineFile(path string) ([]Routine, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("reading routine file: %w", err)
	}

	routines, err := ParseRoutines(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return routines, nil
}

// ParseRoutines parses a YAML routine definition document.
//
// The document is checked against the routine schema before conversion,
// then every routine is validated as DefineRoutine would. Rules without an
// explicit invoke flag invoke the device capability.
//
//	routines:
//	  - name: evening
//	    rules:
//	      - kinds: [light]
//	        power: on
//	        set: {brightness: 30}
func ParseRoutines(data []byte) ([]Routine, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: parsing YAML: %w", ErrInvalidRoutineFile, err)
	}

	// Normalise through JSON so the schema sees JSON types.
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRoutineFile, err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRoutineFile, err)
	}

	sch, err := RoutineSchema()
	if err != nil {
		return nil, fmt.Errorf("routine schema: %w", err)
	}
	if err := sch.Validate(inst); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRoutineFile, err)
	}

	var file routineFile
	if err := json.Unmarshal(encoded, &file); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRoutineFile, err)
	}

	routines := make([]Routine, 0, len(file.Routines))
	seen := make(map[string]struct{}, len(file.Routines))
	for _, entry := range file.Routines {
		if _, dup := seen[entry.Name]; dup {
			return nil, fmt.Errorf("%w: routine %q defined twice", ErrInvalidRoutineFile, entry.Name)
		}
		seen[entry.Name] = struct{}{}

		r, err := entry.toRoutine()
		if err != nil {
			return nil, err
		}
		if err := ValidateRoutine(&r); err != nil {
			return nil, err
		}
		routines = append(routines, r)
	}
	return routines, nil
}

func (e routineEntry) toRoutine() (Routine, error) {
	r := Routine{
		Name:        e.Name,
		Description: e.Description,
		Rules:       make([]Rule, 0, len(e.Rules)),
	}

	for i, re := range e.Rules {
		rule := Rule{Set: re.Set, Invoke: true}
		if re.Invoke != nil {
			rule.Invoke = *re.Invoke
		}

		for _, name := range re.Kinds {
			k, err := device.ParseKind(name)
			if err != nil {
				return Routine{}, fmt.Errorf("%s rule %d: %w: %w", e.Name, i, ErrInvalidRule, err)
			}
			rule.Kinds = append(rule.Kinds, k)
		}

		if re.Power != nil {
			p, err := parsePower(re.Power)
			if err != nil {
				return Routine{}, fmt.Errorf("%s rule %d: %w", e.Name, i, err)
			}
			rule.Power = &p
		}

		r.Rules = append(r.Rules, rule)
	}
	return r, nil
}

// parsePower accepts "on"/"off" in any case, or a YAML boolean.
func parsePower(v any) (device.Power, error) {
	switch p := v.(type) {
	case bool:
		return device.Power(p), nil
	case string:
		switch strings.ToLower(p) {
		case "on":
			return device.On, nil
		case "off":
			return device.Off, nil
		}
	}
	return device.Off, fmt.Errorf("%w: power must be on or off, got %v", ErrInvalidRule, v)
}
