// Copyright 2026 The RTOS-VCU Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads the kernel's static configuration surface (the task
// set, counters, schedule tables, tick frequency) from a TOML document, the
// closest the Go ecosystem offers to the declarative OIL files a real OSEK
// application ships instead of compiling its task set directly into source.
//
// Task entry points cannot be expressed in TOML, so a StaticConfig names
// tasks by string and Build resolves those names against a caller-supplied
// registry of port.EntryFunc values into a kernel.Config ready for
// kernel.New.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/TuanKhoa1701/RTOS-VCU/internal/port"
	"github.com/TuanKhoa1701/RTOS-VCU/pkg/kernel"
)

// TaskSpec statically declares one task by name.
type TaskSpec struct {
	Name     string `toml:"name"`
	Extended bool   `toml:"extended"`
}

// CounterSpec statically declares one counter.
type CounterSpec struct {
	MaxAllowedValue uint32 `toml:"max_allowed_value"`
	TicksPerBase    uint32 `toml:"ticks_per_base"`
	MinCycle        uint32 `toml:"min_cycle"`
}

// ActionSpec is the TOML shape of a kernel.Action: Kind selects which of
// Target or Mask apply.
type ActionSpec struct {
	Kind   string `toml:"kind"` // "activate_task" or "set_event"
	Target int    `toml:"target"`
	Mask   uint32 `toml:"mask"`
}

// ExpiryPointSpec statically declares one expiry point.
type ExpiryPointSpec struct {
	Offset uint32     `toml:"offset"`
	Action ActionSpec `toml:"action"`
}

// ScheduleTableSpec statically declares one schedule table.
type ScheduleTableSpec struct {
	Counter      int               `toml:"counter"`
	Duration     uint32            `toml:"duration"`
	Cyclic       bool              `toml:"cyclic"`
	ExpiryPoints []ExpiryPointSpec `toml:"expiry_points"`
}

// StaticConfig is the document shape loaded from TOML.
type StaticConfig struct {
	TickHz         uint32              `toml:"tick_hz"`
	InitTask       int                 `toml:"init_task"`
	IdleTask       int                 `toml:"idle_task"`
	MaxAlarms      int                 `toml:"max_alarms"`
	Tasks          []TaskSpec          `toml:"tasks"`
	Counters       []CounterSpec       `toml:"counters"`
	ScheduleTables []ScheduleTableSpec `toml:"schedule_tables"`
}

// Load decodes a StaticConfig from the TOML document at path.
func Load(path string) (StaticConfig, error) {
	var cfg StaticConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return StaticConfig{}, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return cfg, nil
}

// Build resolves a StaticConfig against a registry mapping each declared
// task name to the port.EntryFunc it runs, producing a kernel.Config ready
// for kernel.New. Every declared task name must have an entry in entries, or
// Build returns an error; the task/arg binding itself is looked up by name
// once, at Build time, not per-activation.
func (c StaticConfig) Build(entries map[string]port.EntryFunc, args map[string]any) (kernel.Config, error) {
	tasks := make([]kernel.TaskConfig, len(c.Tasks))
	for i, ts := range c.Tasks {
		fn, ok := entries[ts.Name]
		if !ok {
			return kernel.Config{}, fmt.Errorf("config: no entry point registered for task %q", ts.Name)
		}
		tasks[i] = kernel.TaskConfig{
			Entry:      fn,
			Arg:        args[ts.Name],
			IsExtended: ts.Extended,
		}
	}

	counters := make([]kernel.CounterConfig, len(c.Counters))
	for i, cs := range c.Counters {
		counters[i] = kernel.CounterConfig{
			MaxAllowedValue: cs.MaxAllowedValue,
			TicksPerBase:    cs.TicksPerBase,
			MinCycle:        cs.MinCycle,
		}
	}

	tables := make([]kernel.ScheduleTableConfig, len(c.ScheduleTables))
	for i, sts := range c.ScheduleTables {
		eps := make([]kernel.ExpiryPointConfig, len(sts.ExpiryPoints))
		for j, epc := range sts.ExpiryPoints {
			action, err := buildAction(epc.Action)
			if err != nil {
				return kernel.Config{}, fmt.Errorf("config: schedule table %d expiry point %d: %w", i, j, err)
			}
			eps[j] = kernel.ExpiryPointConfig{Offset: epc.Offset, Action: action}
		}
		tables[i] = kernel.ScheduleTableConfig{
			Counter:      kernel.CounterID(sts.Counter),
			Duration:     sts.Duration,
			Cyclic:       sts.Cyclic,
			ExpiryPoints: eps,
		}
	}

	return kernel.Config{
		Tasks:          tasks,
		InitTask:       kernel.TaskID(c.InitTask),
		IdleTask:       kernel.TaskID(c.IdleTask),
		Counters:       counters,
		ScheduleTables: tables,
		MaxAlarms:      c.MaxAlarms,
	}, nil
}

func buildAction(spec ActionSpec) (kernel.Action, error) {
	switch spec.Kind {
	case "activate_task":
		return kernel.Action{Kind: kernel.ActivateTaskAction, Target: kernel.TaskID(spec.Target)}, nil
	case "set_event":
		return kernel.Action{Kind: kernel.SetEventAction, Target: kernel.TaskID(spec.Target), Mask: kernel.EventMask(spec.Mask)}, nil
	default:
		return kernel.Action{}, fmt.Errorf("unknown action kind %q", spec.Kind)
	}
}
