// Package automation provides the routine engine.
//
// A routine is a named, ordered list of rules. Each rule selects devices by
// kind and applies an action: an optional power transition, optional
// attribute assignments, and an optional capability invocation whose
// status is appended to the run's result.
//
// Architecture:
//
//	┌──────────────────────────────────────────────────────┐
//	│                 Engine (engine.go)                    │
//	│  ┌──────────────┐          ┌────────────────────┐    │
//	│  │   Registry   │          │      History       │    │
//	│  │(registry.go) │          │ (history.go,       │    │
//	│  │ name → rules │          │  repository.go)    │    │
//	│  └──────────────┘          └────────────────────┘    │
//	│        │                            ▲                │
//	│        ▼                            │                │
//	│  ┌──────────────────────────────────────────────┐    │
//	│  │  Run                                          │    │
//	│  │  1. Look up routine (copy)                    │    │
//	│  │  2. fleet.Exclusive: for each device, for     │    │
//	│  │     each matching rule: power, set, invoke    │    │
//	│  │  3. Record Execution                          │    │
//	│  └──────────────────────────────────────────────┘    │
//	└──────────────────────────────────────────────────────┘
//
// Runs are deterministic: devices are visited in registry order, rules in
// declared order, and Set attributes in name order.
//
// # Thread Safety
//
// Registry and Engine are safe for concurrent use. A run holds the fleet's
// mutation lock for its whole pass, so observers never see it half applied.
//
// # Usage
//
//	eng := automation.NewEngine(
//	    automation.WithLogger(log),
//	    automation.WithHistory(automation.NewSQLiteHistory(db.DB, 100)),
//	)
//	if err := automation.DefineBuiltins(eng); err != nil {
//	    return err
//	}
//	statuses, err := eng.Run(ctx, "morning", registry)
//
// Routine files are YAML documents checked against an embedded JSON schema:
//
//	routines:
//	  - name: movie
//	    rules:
//	      - kinds: [light]
//	        power: on
//	        set: {brightness: 20}
//	      - kinds: [speaker]
//	        power: on
//	        set: {volume: 40}
package automation
