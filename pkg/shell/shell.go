// Copyright 2026 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package shell executes external processes (docker, kubectl, the benchmark
// suite entrypoint) and captures their output and exit code.
package shell

import (
	"bytes"
	"context"
	"errors"
	"math/rand"
	"os"
	"os/exec"
	"strings"
	"time"

	"scorecard-toolkit/pkg/logging"
)

// Result holds the outcome of an executed command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Command is an external command with optional stdin, env and working dir.
type Command struct {
	name  string
	args  []string
	input string
	env   []string
	dir   string
}

// NewCommand creates a Command for the given program and arguments.
func NewCommand(name string, args ...string) *Command {
	return &Command{name: name, args: args}
}

// SetInput sets the string fed to the command's stdin.
func (c *Command) SetInput(input string) *Command {
	c.input = input
	return c
}

// SetEnv appends KEY=VALUE pairs to the command's environment. The parent
// environment is inherited; later entries override earlier ones.
func (c *Command) SetEnv(env []string) *Command {
	c.env = append(c.env, env...)
	return c
}

// SetDir sets the command's working directory.
func (c *Command) SetDir(dir string) *Command {
	c.dir = dir
	return c
}

// Execute runs the command to completion without a deadline.
func (c *Command) Execute() Result {
	return c.ExecuteContext(context.Background())
}

// ExecuteContext runs the command to completion, honoring ctx cancellation.
// A command that could not be started at all reports exit code -1 with the
// error text in Stderr.
func (c *Command) ExecuteContext(ctx context.Context) Result {
	cmd := exec.CommandContext(ctx, c.name, c.args...)
	if c.input != "" {
		cmd.Stdin = strings.NewReader(c.input)
	}
	if len(c.env) > 0 {
		cmd.Env = append(os.Environ(), c.env...)
	}
	if c.dir != "" {
		cmd.Dir = c.dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logging.Debug("Executing: %s %s", c.name, strings.Join(c.args, " "))
	err := cmd.Run()

	result := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = -1
			if result.Stderr == "" {
				result.Stderr = err.Error()
			}
		}
	}
	return result
}

// ExecuteCommand runs a command with no stdin and returns its Result.
func ExecuteCommand(name string, args ...string) Result {
	return NewCommand(name, args...).Execute()
}

const randomStringCharset = "abcdefghijklmnopqrstuvwxyz"

// RandomString returns a random string of the given length, drawn from
// lowercase letters only so the result is safe in image tags, Kubernetes
// object names and storage object keys.
func RandomString(length int) string {
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))
	b := make([]byte, length)
	for i := range b {
		b[i] = randomStringCharset[seededRand.Intn(len(randomStringCharset))]
	}
	return string(b)
}
