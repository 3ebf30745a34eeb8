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

package main

import (
	"context"
	"flag"

	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"

	"github.com/TuanKhoa1701/RTOS-VCU/internal/config"
)

// describeCmd loads a static kernel configuration and logs its shape (task
// count, counters, schedule tables and their expiry points) without
// constructing a kernel or a port. Useful for validating a TOML
// configuration file before wiring it into a real build.
type describeCmd struct {
	configPath string
}

func (*describeCmd) Name() string     { return "describe" }
func (*describeCmd) Synopsis() string { return "print the shape of a kernel TOML configuration" }
func (*describeCmd) Usage() string {
	return "describe -config <path.toml>\n"
}

func (c *describeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.configPath, "config", "", "path to a kernel TOML configuration")
}

func (c *describeCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	log := logrus.WithField("component", "cmd/oskernel")

	if c.configPath == "" {
		log.Error("describe: -config is required")
		return subcommands.ExitUsageError
	}

	sc, err := config.Load(c.configPath)
	if err != nil {
		log.WithError(err).Error("describe: load config")
		return subcommands.ExitFailure
	}

	log.WithFields(logrus.Fields{
		"tick_hz":    sc.TickHz,
		"init_task":  sc.InitTask,
		"idle_task":  sc.IdleTask,
		"max_alarms": sc.MaxAlarms,
		"tasks":      len(sc.Tasks),
		"counters":   len(sc.Counters),
		"tables":     len(sc.ScheduleTables),
	}).Info("describe: configuration")

	for i, ts := range sc.Tasks {
		log.WithFields(logrus.Fields{"index": i, "name": ts.Name, "extended": ts.Extended}).Info("describe: task")
	}
	for i, st := range sc.ScheduleTables {
		log.WithFields(logrus.Fields{
			"index":    i,
			"counter":  st.Counter,
			"duration": st.Duration,
			"cyclic":   st.Cyclic,
			"eps":      len(st.ExpiryPoints),
		}).Info("describe: schedule table")
	}

	return subcommands.ExitSuccess
}
